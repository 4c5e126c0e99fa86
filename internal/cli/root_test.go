package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

// executeCommand runs a command with the given args and captures output.
func executeCommand(args ...string) (string, error) {
	return executeCommandWithInput("", args...)
}

// executeCommandWithInput runs a command with stdin set to input.
func executeCommandWithInput(input string, args ...string) (string, error) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(input))
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// testEnv points HOME and the database at a temp dir and returns the --db value.
func testEnv(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("VR_USER", "")
	t.Setenv("VR_GEMINI_MODEL", "")
	t.Setenv("VR_CONFIG", "")
	return filepath.Join(tmp, "vr.db")
}

func TestRootHelp(t *testing.T) {
	_, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGlobalFlags(t *testing.T) {
	root := NewRootCmd()

	formatFlag := root.PersistentFlags().Lookup("format")
	if formatFlag == nil {
		t.Fatal("expected --format flag to exist")
	}
	if formatFlag.DefValue != "text" {
		t.Errorf("expected --format default 'text', got %q", formatFlag.DefValue)
	}

	if root.PersistentFlags().Lookup("db") == nil {
		t.Fatal("expected --db flag to exist")
	}
	if root.PersistentFlags().Lookup("user") == nil {
		t.Fatal("expected --user flag to exist")
	}
}

func TestSubcommands(t *testing.T) {
	root := NewRootCmd()

	want := []string{"signup", "login", "logout", "whoami", "route", "mark", "note", "history", "report", "clear-history", "serve", "version"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestVersion(t *testing.T) {
	got, err := executeCommand("version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(got) != Version {
		t.Errorf("version = %q, want %q", got, Version)
	}
}
