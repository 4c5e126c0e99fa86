// Package cli defines the cobra command tree for vino-route.
package cli

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/evcraddock/vino-route/internal/db"
	"github.com/evcraddock/vino-route/internal/ledger"
	"github.com/evcraddock/vino-route/internal/logging"
)

var (
	flagFormat string
	flagDB     string
	flagUser   string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vr",
		Short:         "Plan wine sales routes",
		Long:          "Vino Route finds liquor stores to visit near a location, tracks the outcome of each visit, and exports sales reports.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(os.Getenv("VR_DEV_MODE") == "true")
		},
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: ~/.config/vr/vino-route.db)")
	root.PersistentFlags().StringVar(&flagUser, "user", "", "act as this user instead of the logged-in one")

	root.AddCommand(
		newSignupCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newRouteCmd(),
		newMarkCmd(),
		newNoteCmd(),
		newHistoryCmd(),
		newReportCmd(),
		newClearHistoryCmd(),
		newServeCmd(),
		newVersionCmd(),
	)

	return root
}

// openDB opens the SQLite database using the --db flag or default path.
func openDB() (*sql.DB, error) {
	path := flagDB
	if path == "" {
		var err error
		path, err = db.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return db.Open(path)
}

// openLedger opens the database and returns the visit ledger over it.
// The caller must close the database.
func openLedger() (*ledger.Ledger, *sql.DB, error) {
	database, err := openDB()
	if err != nil {
		return nil, nil, err
	}
	return ledger.New(db.NewKVStore(database)), database, nil
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}

// requireUser returns the acting user or an error telling how to log in.
func requireUser() (string, error) {
	u := currentUser()
	if u == "" {
		return "", fmt.Errorf("not logged in (run 'vr login <username>' or pass --user)")
	}
	return u, nil
}

// out returns the command's output writer.
func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
