package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/evcraddock/vino-route/internal/history"
	"github.com/evcraddock/vino-route/internal/report"
)

func newReportCmd() *cobra.Command {
	var date, outPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export a plain-text sales report",
		Long: `Export visit history as a plain-text sales report.

Without --out the report is written to stdout. If --out is a directory the
report is saved there as vino-route-report-<date>.txt.

Examples:
  vr report
  vr report --date 2026-03-02 --out ~/reports/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, date, outPath)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "only include visits on this day (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the report to this file or directory")

	return cmd
}

func runReport(cmd *cobra.Command, date, outPath string) error {
	date = strings.TrimSpace(date)
	if date != "" {
		if _, err := time.Parse(history.DateLayout, date); err != nil {
			return fmt.Errorf("invalid --date %q (use YYYY-MM-DD)", date)
		}
	}

	username, err := requireUser()
	if err != nil {
		return err
	}

	l, database, err := openLedger()
	if err != nil {
		return err
	}
	defer closeDB(database)

	now := time.Now()
	text, err := report.Format(l.List(username), report.Options{Username: username, Date: date, Now: now})
	if errors.Is(err, report.ErrNothingToExport) {
		msg := "There is no history to export."
		if date != "" {
			msg = "No visits were recorded on the selected date."
		}
		if isJSON() {
			return printJSON(out(cmd), map[string]interface{}{"exported": false, "message": msg})
		}
		fmt.Fprintln(out(cmd), msg)
		return nil
	}
	if err != nil {
		return err
	}

	if outPath == "" {
		_, err := fmt.Fprint(out(cmd), text)
		return err
	}

	if info, statErr := os.Stat(outPath); (statErr == nil && info.IsDir()) || strings.HasSuffix(outPath, string(os.PathSeparator)) {
		outPath = filepath.Join(outPath, report.Filename(date, now))
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if isJSON() {
		return printJSON(out(cmd), map[string]interface{}{"exported": true, "path": outPath})
	}
	fmt.Fprintf(out(cmd), "Report saved to %s\n", outPath)
	return nil
}
