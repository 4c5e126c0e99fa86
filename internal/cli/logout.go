package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the current user",
		Long:  "Removes the current user from the config file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(out(cmd))
		},
	}
}

func runLogout(w io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.CurrentUser == "" {
		fmt.Fprintln(w, "Not logged in.")
		return nil
	}

	cfg.CurrentUser = ""
	if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(w, "✓ Logged out.")
	return nil
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user := currentUser()
			if isJSON() {
				return printJSON(out(cmd), map[string]interface{}{
					"username":  user,
					"logged_in": user != "",
				})
			}
			if user == "" {
				fmt.Fprintln(out(cmd), "Not logged in.")
				fmt.Fprintln(out(cmd), "\nRun 'vr login <username>' to authenticate.")
				return nil
			}
			fmt.Fprintln(out(cmd), user)
			return nil
		},
	}
}
