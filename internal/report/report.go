// Package report renders visit history as a plain-text sales report.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/evcraddock/vino-route/internal/history"
	"github.com/evcraddock/vino-route/internal/ledger"
)

// ErrNothingToExport is returned when the selection is empty. It is a notice
// for the user, not a failure.
var ErrNothingToExport = errors.New("nothing to export")

const (
	Title          = "Verde Imports Vino Route - Sales Report"
	headerDivider  = "========================================"
	recordDivider  = "----------------------------------------"
	noNotes        = "No notes provided."
	generatedStamp = "January 2, 2006 3:04 PM MST"
)

// Options controls report generation.
type Options struct {
	Username string
	// Date restricts the report to records whose date key starts with it.
	Date string
	Now  time.Time
}

// Select returns the records matching the date filter, in ledger order.
func Select(records []ledger.Record, date string) []ledger.Record {
	if date == "" {
		return records
	}
	var out []ledger.Record
	for _, r := range records {
		if strings.HasPrefix(history.DateKey(r.VisitedDate), date) {
			out = append(out, r)
		}
	}
	return out
}

// Format renders the report. The output depends only on its inputs.
func Format(records []ledger.Record, opts Options) (string, error) {
	selected := Select(records, opts.Date)
	if len(selected) == 0 {
		if opts.Date != "" {
			return "", fmt.Errorf("%w: no visits recorded for the selected date", ErrNothingToExport)
		}
		return "", fmt.Errorf("%w: no history to export", ErrNothingToExport)
	}

	var b strings.Builder

	b.WriteString(Title + "\n")
	b.WriteString(headerDivider + "\n")
	fmt.Fprintf(&b, "Generated for: %s\n", opts.Username)
	fmt.Fprintf(&b, "Date Generated: %s\n", opts.Now.Format(generatedStamp))
	if opts.Date != "" {
		fmt.Fprintf(&b, "Report for Date: %s\n", history.LongDate(opts.Date))
	}
	b.WriteString(headerDivider + "\n\n")

	for _, g := range history.Group(selected) {
		fmt.Fprintf(&b, "--- Visited on: %s ---\n\n", history.LongDate(g.Date))
		for i, r := range g.Records {
			writeRecord(&b, r)
			if i < len(g.Records)-1 {
				b.WriteString("\n" + recordDivider + "\n\n")
			}
		}
		b.WriteString("\n\n")
	}

	return b.String(), nil
}

func writeRecord(b *strings.Builder, r ledger.Record) {
	fmt.Fprintf(b, "Business:      %s\n", r.Name)
	fmt.Fprintf(b, "Address:       %s\n", r.Address)
	if r.Phone != "" {
		fmt.Fprintf(b, "Phone:         %s\n", r.Phone)
	}
	fmt.Fprintf(b, "Status:        %s\n", r.Status.Label())

	notes := strings.TrimSpace(r.Notes)
	if notes == "" {
		notes = noNotes
	}
	fmt.Fprintf(b, "Notes:\n%s\n", notes)
}

// Filename returns the download name for a report, dated by the filter or today.
func Filename(date string, now time.Time) string {
	if date == "" {
		date = history.DateKey(now)
	}
	return "vino-route-report-" + date + ".txt"
}
