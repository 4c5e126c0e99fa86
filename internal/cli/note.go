package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/vino-route/internal/route"
)

func newNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "note <address> <text>",
		Short: "Replace the notes on a visited business",
		Long: `Replace the notes on a business in your history.

Notes are only kept for businesses with a visit status. Use
'vr mark --notes' to record a status and notes together.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNote(cmd, args[0], args[1])
		},
	}
}

func runNote(cmd *cobra.Command, address, text string) error {
	username, err := requireUser()
	if err != nil {
		return err
	}

	l, database, err := openLedger()
	if err != nil {
		return err
	}
	defer closeDB(database)

	rec, ok := l.Find(username, address)
	if !ok {
		if isJSON() {
			return printJSON(out(cmd), map[string]interface{}{"address": address, "saved": false})
		}
		fmt.Fprintf(out(cmd), "No visit recorded for %s; note not saved.\n", address)
		return nil
	}

	p := route.Prospect{Status: rec.Status, PreviouslyVisited: true, Notes: rec.Notes}
	p.Name = rec.Name
	p.Address = rec.Address
	p.Phone = rec.Phone

	rt := route.New(username, l, []route.Prospect{p})
	if err := rt.SetNote(address, text); err != nil {
		return err
	}

	if isJSON() {
		return printJSON(out(cmd), map[string]interface{}{"address": address, "saved": true})
	}
	fmt.Fprintf(out(cmd), "Notes saved for %s.\n", rec.Name)
	return nil
}
