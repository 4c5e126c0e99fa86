// Package history groups visit records by calendar day for display and export.
package history

import (
	"sort"
	"time"

	"github.com/evcraddock/vino-route/internal/ledger"
)

// DateLayout is the layout of a date key.
const DateLayout = "2006-01-02"

// DateGroup is the set of records visited on one UTC calendar day.
type DateGroup struct {
	Date    string          `json:"date"`
	Records []ledger.Record `json:"records"`
}

// DateKey returns the UTC calendar date of t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Group buckets records by date key. Records keep their ledger order within a
// day; days are ordered newest first.
func Group(records []ledger.Record) []DateGroup {
	index := make(map[string]int)
	var groups []DateGroup

	for _, r := range records {
		key := DateKey(r.VisitedDate)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DateGroup{Date: key})
		}
		groups[i].Records = append(groups[i].Records, r)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Date > groups[j].Date
	})

	return groups
}

// Label returns "Today", "Yesterday" or the long date for a date key,
// relative to now in UTC.
func Label(key string, now time.Time) string {
	today := now.UTC()
	switch key {
	case today.Format(DateLayout):
		return "Today"
	case today.AddDate(0, 0, -1).Format(DateLayout):
		return "Yesterday"
	}
	return LongDate(key)
}

// LongDate formats a date key as e.g. "Friday, January 5, 2024".
// Keys that are not full dates are returned unchanged.
func LongDate(key string) string {
	d, err := time.ParseInLocation(DateLayout, key, time.UTC)
	if err != nil {
		return key
	}
	return d.Format("Monday, January 2, 2006")
}
