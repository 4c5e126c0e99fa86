// Package ledger provides the per-user visit history and its durable storage.
package ledger

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidStatus is returned when a status string is not recognized.
var ErrInvalidStatus = errors.New("invalid visit status")

// Status is the outcome of a visit to a business.
type Status string

const (
	NotVisited Status = "not-visited"
	Successful Status = "successful"
	Potential  Status = "potential"
	NoGood     Status = "no-good"
)

// ValidStatuses is the set of allowed statuses, including not-visited.
var ValidStatuses = []Status{NotVisited, Successful, Potential, NoGood}

// IsValid checks if a status is recognized.
func (s Status) IsValid() bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsVisited reports whether the status represents a recorded visit.
func (s Status) IsVisited() bool {
	return s.IsValid() && s != NotVisited
}

// Label returns a human-readable label for the status.
func (s Status) Label() string {
	switch s {
	case NotVisited:
		return "Not Visited"
	case Successful:
		return "Successful"
	case Potential:
		return "Potential"
	case NoGood:
		return "No Good"
	default:
		return string(s)
	}
}

// ParseStatus converts a string to a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("%w: %q (use not-visited, successful, potential, no-good)", ErrInvalidStatus, s)
	}
	return st, nil
}

// Entry is a visit record as supplied by callers; the ledger stamps the date.
type Entry struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone,omitempty"`
	Status  Status `json:"status"`
	Notes   string `json:"notes,omitempty"`
}

// Record is a stored visit: the latest outcome for one business address.
type Record struct {
	Entry
	VisitedDate time.Time `json:"visitedDate"`
}
