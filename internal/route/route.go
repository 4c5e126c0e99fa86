package route

import (
	"errors"
	"fmt"

	"github.com/evcraddock/vino-route/internal/geo"
	"github.com/evcraddock/vino-route/internal/ledger"
)

// ErrUnknownAddress is returned when no prospect on the route has the address.
var ErrUnknownAddress = errors.New("address not on route")

// Ledger is the visit history a route writes through to.
type Ledger interface {
	List(username string) []ledger.Record
	Upsert(username string, e ledger.Entry) error
	Remove(username, address string) error
	Clear(username string) error
}

// Route is one user's annotated prospect list. It is not safe for concurrent use.
type Route struct {
	username  string
	ledger    Ledger
	prospects []Prospect
}

// New creates a route for username over already-annotated prospects.
func New(username string, l Ledger, prospects []Prospect) *Route {
	return &Route{username: username, ledger: l, prospects: prospects}
}

// Username returns the owner of the route.
func (r *Route) Username() string {
	return r.username
}

// Prospects returns a copy of the current list.
func (r *Route) Prospects() []Prospect {
	out := make([]Prospect, len(r.prospects))
	copy(out, r.prospects)
	return out
}

// Get returns the first prospect with the given address.
func (r *Route) Get(address string) (Prospect, bool) {
	for _, p := range r.prospects {
		if p.Address == address {
			return p, true
		}
	}
	return Prospect{}, false
}

// SetStatus records a visit outcome for address. NotVisited removes the ledger
// record; any other status upserts it. The in-memory status is updated even if
// the ledger write fails, in which case the write error is returned.
func (r *Route) SetStatus(address string, status ledger.Status) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ledger.ErrInvalidStatus, status)
	}

	idx := r.indexes(address)
	if len(idx) == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownAddress, address)
	}

	var writeErr error
	if status == ledger.NotVisited {
		writeErr = r.ledger.Remove(r.username, address)
	} else {
		writeErr = r.ledger.Upsert(r.username, r.prospects[idx[0]].entry(status))
	}

	for _, i := range idx {
		r.prospects[i].Status = status
	}

	return writeErr
}

// SetNote replaces the notes for address. Notes on a not-visited prospect stay
// in memory only until a status is set.
func (r *Route) SetNote(address, text string) error {
	idx := r.indexes(address)
	if len(idx) == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownAddress, address)
	}

	for _, i := range idx {
		r.prospects[i].Notes = text
	}

	p := r.prospects[idx[0]]
	if p.Status == ledger.NotVisited {
		return nil
	}
	return r.ledger.Upsert(r.username, p.entry(p.Status))
}

// SortByDistance orders the route nearest first from origin.
func (r *Route) SortByDistance(origin geo.Point) {
	r.prospects = SortByDistance(r.prospects, origin)
}

// ClearHistory deletes the user's visit history and resets every prospect
// to not visited.
func (r *Route) ClearHistory() error {
	err := r.ledger.Clear(r.username)
	for i := range r.prospects {
		r.prospects[i].Status = ledger.NotVisited
		r.prospects[i].PreviouslyVisited = false
	}
	return err
}

// History re-reads the user's visit records.
func (r *Route) History() []ledger.Record {
	return r.ledger.List(r.username)
}

// Progress returns how many prospects have a visit status out of the total.
func (r *Route) Progress() (visited, total int) {
	for _, p := range r.prospects {
		if p.Status != ledger.NotVisited {
			visited++
		}
	}
	return visited, len(r.prospects)
}

func (r *Route) indexes(address string) []int {
	var idx []int
	for i, p := range r.prospects {
		if p.Address == address {
			idx = append(idx, i)
		}
	}
	return idx
}
