package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/vino-route/internal/auth"
)

func newSignupCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "signup <username>",
		Short: "Create an account and log in",
		Long: `Create an account and make it the current user.

The password is read from --password or prompted for on stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccount(cmd, args[0], password, true)
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "account password (prompted if omitted)")

	return cmd
}

func newLoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in as an existing user",
		Long: `Check the credentials and make the user current for later commands.

The password is read from --password or prompted for on stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccount(cmd, args[0], password, false)
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "account password (prompted if omitted)")

	return cmd
}

func runAccount(cmd *cobra.Command, username, password string, create bool) error {
	if password == "" {
		var err error
		password, err = promptPassword(out(cmd), cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	users := auth.NewUserStore(database)

	var user *auth.User
	if create {
		user, err = users.SignUp(username, password)
	} else {
		user, err = users.SignIn(username, password)
	}
	if err != nil {
		return err
	}

	// Load existing config to preserve other fields
	cfg, err := loadConfig()
	if err != nil {
		cfg = CLIConfig{}
	}
	cfg.CurrentUser = user.Username
	if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if isJSON() {
		return printJSON(out(cmd), user)
	}

	if create {
		fmt.Fprintf(out(cmd), "✓ Account created. Logged in as %s.\n", user.Username)
	} else {
		fmt.Fprintf(out(cmd), "✓ Logged in as %s.\n", user.Username)
	}
	return nil
}

func promptPassword(w io.Writer, r io.Reader) (string, error) {
	fmt.Fprint(w, "Password: ")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading input: %w", err)
	}
	fmt.Fprintln(w)

	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("no password provided")
	}
	return password, nil
}
