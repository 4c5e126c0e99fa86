package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newClearHistoryCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear-history",
		Short: "Delete all of your visit history",
		Long:  "Delete every visit record for the current user. This cannot be undone.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear history without --yes")
			}
			return runClearHistory(cmd)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")

	return cmd
}

func runClearHistory(cmd *cobra.Command) error {
	username, err := requireUser()
	if err != nil {
		return err
	}

	l, database, err := openLedger()
	if err != nil {
		return err
	}
	defer closeDB(database)

	if err := l.Clear(username); err != nil {
		return err
	}

	if isJSON() {
		return printJSON(out(cmd), map[string]interface{}{"username": username, "cleared": true})
	}
	fmt.Fprintf(out(cmd), "Visit history cleared for %s.\n", username)
	return nil
}
