package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/evcraddock/vino-route/internal/history"
)

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show visit history by day",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}
}

func runHistory(cmd *cobra.Command, args []string) error {
	username, err := requireUser()
	if err != nil {
		return err
	}

	l, database, err := openLedger()
	if err != nil {
		return err
	}
	defer closeDB(database)

	groups := labelGroups(history.Group(l.List(username)), time.Now())

	if isJSON() {
		return printJSON(out(cmd), groups)
	}

	printHistory(out(cmd), groups)
	return nil
}
