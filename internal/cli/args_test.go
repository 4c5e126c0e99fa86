package cli

import (
	"testing"
)

func TestArgValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"signup without username", []string{"signup"}},
		{"login without username", []string{"login"}},
		{"route without location", []string{"route"}},
		{"route with two locations", []string{"route", "Atlanta", "Decatur"}},
		{"mark without args", []string{"mark"}},
		{"mark without status", []string{"mark", "1 Main St"}},
		{"mark with extra arg", []string{"mark", "1 Main St", "successful", "extra"}},
		{"note without text", []string{"note", "1 Main St"}},
		{"history with arg", []string{"history", "today"}},
		{"report with arg", []string{"report", "today"}},
		{"whoami with arg", []string{"whoami", "me"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestMarkRejectsInvalidStatus(t *testing.T) {
	db := testEnv(t)

	for _, status := range []string{"visited", "maybe", ""} {
		t.Run(status, func(t *testing.T) {
			_, err := executeCommand("mark", "1 Main St", status, "--user", "alice", "--db", db)
			if err == nil {
				t.Fatal("expected error for invalid status")
			}
		})
	}
}

func TestRouteRejectsInvalidNear(t *testing.T) {
	db := testEnv(t)

	for _, near := range []string{"33.7", "north,west", "91,0"} {
		t.Run(near, func(t *testing.T) {
			_, err := executeCommand("route", "Atlanta", "--near", near, "--user", "alice", "--db", db)
			if err == nil {
				t.Fatal("expected error for invalid --near")
			}
		})
	}
}

func TestReportRejectsInvalidDate(t *testing.T) {
	db := testEnv(t)

	_, err := executeCommand("report", "--date", "March 2", "--user", "alice", "--db", db)
	if err == nil {
		t.Fatal("expected error for invalid --date")
	}
}

func TestCommandsRequireUser(t *testing.T) {
	db := testEnv(t)

	tests := [][]string{
		{"route", "Atlanta"},
		{"mark", "1 Main St", "successful", "--name", "X"},
		{"note", "1 Main St", "hello"},
		{"history"},
		{"report"},
		{"clear-history", "--yes"},
	}
	for _, args := range tests {
		t.Run(args[0], func(t *testing.T) {
			_, err := executeCommand(append(args, "--db", db)...)
			if err == nil {
				t.Fatal("expected not-logged-in error")
			}
		})
	}
}

func TestClearHistoryRequiresYes(t *testing.T) {
	db := testEnv(t)

	_, err := executeCommand("clear-history", "--user", "alice", "--db", db)
	if err == nil {
		t.Fatal("expected error without --yes")
	}
}
