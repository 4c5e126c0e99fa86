package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/vino-route/internal/ledger"
	"github.com/evcraddock/vino-route/internal/route"
)

func newMarkCmd() *cobra.Command {
	var name, phone, notes string

	cmd := &cobra.Command{
		Use:   "mark <address|#> <status>",
		Short: "Record the outcome of a visit",
		Long: `Record the outcome of a visit to a business.

Statuses: successful, potential, no-good, not-visited
Marking a business not-visited removes it from your history.

A business from your last 'vr route' can be given by its # number or its
address; its name and phone are then taken from the route.

Examples:
  vr mark 3 successful
  vr mark "12 Peachtree St" successful --name "Peach Liquors"
  vr mark "12 Peachtree St" potential --notes "Call back Friday"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := ledger.ParseStatus(strings.ToLower(args[1]))
			if err != nil {
				return err
			}
			var notesPtr *string
			if cmd.Flags().Changed("notes") {
				notesPtr = &notes
			}
			return runMark(cmd, args[0], status, name, phone, notesPtr)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required the first time)")
	cmd.Flags().StringVar(&phone, "phone", "", "business phone")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "replace the visit notes")

	return cmd
}

// runMark applies a status through a one-prospect route so that saving and
// removal follow the same rules as an interactive route.
func runMark(cmd *cobra.Command, ref string, status ledger.Status, name, phone string, notes *string) error {
	username, err := requireUser()
	if err != nil {
		return err
	}

	l, database, err := openLedger()
	if err != nil {
		return err
	}
	defer closeDB(database)

	p := route.Prospect{Status: ledger.NotVisited}
	p.Address = ref
	if c, ok := lookupLastRoute(loadLastRoute(database, username), ref); ok {
		p.Candidate = c
	}
	address := p.Address

	if rec, ok := l.Find(username, address); ok {
		p.Name = rec.Name
		if rec.Phone != "" {
			p.Phone = rec.Phone
		}
		p.Status = rec.Status
		p.Notes = rec.Notes
		p.PreviouslyVisited = true
	} else if p.Name == "" && name == "" && status.IsVisited() {
		return fmt.Errorf("--name is required for a business with no history")
	}
	if name != "" {
		p.Name = name
	}
	if phone != "" {
		p.Phone = phone
	}
	if notes != nil {
		p.Notes = *notes
	}

	rt := route.New(username, l, []route.Prospect{p})
	if err := rt.SetStatus(address, status); err != nil {
		return err
	}

	updated, _ := rt.Get(address)
	if isJSON() {
		return printJSON(out(cmd), updated)
	}

	if status == ledger.NotVisited {
		fmt.Fprintf(out(cmd), "%s removed from history.\n", address)
		return nil
	}
	fmt.Fprintf(out(cmd), "%s marked %s.\n", updated.Name, status.Label())
	return nil
}
