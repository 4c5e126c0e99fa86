package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/evcraddock/vino-route/internal/history"
	"github.com/evcraddock/vino-route/internal/route"
)

// printer formats numbers with locale grouping, e.g. "1,204.5".
var printer = message.NewPrinter(language.English)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatDistance renders a distance in miles, or "-" if unknown.
func formatDistance(miles *float64) string {
	if miles == nil {
		return "-"
	}
	return printer.Sprintf("%.1f mi", *miles)
}

// printRoute prints the prospects as a table followed by visit progress.
func printRoute(w io.Writer, prospects []route.Prospect, visited, total int) error {
	if len(prospects) == 0 {
		fmt.Fprintln(w, "No prospects found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "#\tNAME\tADDRESS\tPHONE\tSTATUS\tDISTANCE"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(tw, "-\t----\t-------\t-----\t------\t--------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for i, p := range prospects {
		phone := p.Phone
		if phone == "" {
			phone = "-"
		}
		status := p.Status.Label()
		if p.PreviouslyVisited {
			status += " *"
		}
		if _, err := fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, truncate(p.Name, 30), truncate(p.Address, 40), phone, status, formatDistance(p.Distance)); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Fprintf(w, "\nVisited: %d of %d\n", visited, total)
	return nil
}

// labeledGroup is a day of history with its display label.
type labeledGroup struct {
	Label string `json:"label"`
	history.DateGroup
}

func labelGroups(groups []history.DateGroup, now time.Time) []labeledGroup {
	out := make([]labeledGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, labeledGroup{Label: history.Label(g.Date, now), DateGroup: g})
	}
	return out
}

// printHistory prints visit history grouped by day, newest first.
func printHistory(w io.Writer, groups []labeledGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No visit history.")
		return
	}

	for _, g := range groups {
		fmt.Fprintf(w, "%s\n", g.Label)
		for _, r := range g.Records {
			fmt.Fprintf(w, "  [%s] %s, %s\n", r.Status.Label(), r.Name, r.Address)
			if r.Notes != "" {
				fmt.Fprintf(w, "      %s\n", r.Notes)
			}
		}
		fmt.Fprintln(w)
	}
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
