// Package route builds and maintains a rep's annotated prospect list.
package route

import (
	"github.com/evcraddock/vino-route/internal/geo"
	"github.com/evcraddock/vino-route/internal/ledger"
)

// Candidate is a prospective client as returned by the prospect source.
type Candidate struct {
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Phone          string  `json:"phone,omitempty"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	ProspectReason string  `json:"prospectReason"`
}

// Point returns the candidate's coordinates.
func (c Candidate) Point() geo.Point {
	return geo.Point{Latitude: c.Latitude, Longitude: c.Longitude}
}

// Prospect is a candidate annotated with the user's visit state.
type Prospect struct {
	Candidate
	Status            ledger.Status `json:"status"`
	PreviouslyVisited bool          `json:"previouslyVisited"`
	Notes             string        `json:"notes"`
	// Distance in miles from the last proximity sort; nil until sorted.
	Distance *float64 `json:"distance,omitempty"`
}

// entry builds the ledger entry for this prospect with the given status.
func (p Prospect) entry(status ledger.Status) ledger.Entry {
	return ledger.Entry{
		Name:    p.Name,
		Address: p.Address,
		Phone:   p.Phone,
		Status:  status,
		Notes:   p.Notes,
	}
}
