package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// KeyPrefix namespaces each user's history in the store.
const KeyPrefix = "vinoRouteVisitedBusinesses"

// ErrWrite wraps every persistence failure returned by the ledger.
var ErrWrite = errors.New("saving visit history")

// Store is durable per-key text storage.
// Get reports ok=false when the key is absent.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// Ledger provides per-user CRUD over visit records.
// An empty username makes every operation a no-op.
type Ledger struct {
	store Store
	now   func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the clock used to stamp VisitedDate.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// New creates a ledger over the given store.
func New(store Store, opts ...Option) *Ledger {
	l := &Ledger{store: store, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Key returns the storage key for a user's history.
func Key(username string) string {
	return KeyPrefix + "_" + username
}

// List returns all records for the user in storage order.
// Unreadable history is logged and treated as empty.
func (l *Ledger) List(username string) []Record {
	if username == "" {
		return []Record{}
	}

	records, err := l.load(username)
	if err != nil {
		slog.Warn("reading visit history", "user", username, "error", err)
		return []Record{}
	}
	return records
}

// load decodes the user's history one element at a time. Elements that fail to
// decode are logged and skipped. A store error or a value that is not a JSON
// array is returned so writers never replace history they could not read.
// Records saved without a status are read as successful visits.
func (l *Ledger) load(username string) ([]Record, error) {
	raw, ok, err := l.store.Get(Key(username))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", Key(username), err)
	}
	if !ok || raw == "" {
		return []Record{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", Key(username), err)
	}

	records := make([]Record, 0, len(items))
	for i, item := range items {
		var r Record
		if err := json.Unmarshal(item, &r); err != nil {
			slog.Warn("skipping unreadable visit record", "user", username, "index", i, "error", err)
			continue
		}
		if r.Status == "" {
			r.Status = Successful
		}
		records = append(records, r)
	}

	return records, nil
}

// loadForWrite is load for mutations: any failure is reported as ErrWrite.
func (l *Ledger) loadForWrite(username string) ([]Record, error) {
	records, err := l.load(username)
	if err != nil {
		slog.Error("loading visit history for update", "user", username, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return records, nil
}

// Upsert stamps the entry with the current time and stores it, replacing any
// record with the same address. The replaced record moves to the end.
func (l *Ledger) Upsert(username string, e Entry) error {
	if username == "" {
		return nil
	}
	if !e.Status.IsVisited() {
		return fmt.Errorf("%w: cannot record %q as a visit", ErrInvalidStatus, e.Status)
	}

	current, err := l.loadForWrite(username)
	if err != nil {
		return err
	}
	next := make([]Record, 0, len(current)+1)
	for _, r := range current {
		if r.Address != e.Address {
			next = append(next, r)
		}
	}
	next = append(next, Record{Entry: e, VisitedDate: l.now().UTC()})

	return l.save(username, next)
}

// Remove deletes the record for address. Removing an unknown address is a no-op.
func (l *Ledger) Remove(username, address string) error {
	if username == "" {
		return nil
	}

	current, err := l.loadForWrite(username)
	if err != nil {
		return err
	}
	next := make([]Record, 0, len(current))
	for _, r := range current {
		if r.Address != address {
			next = append(next, r)
		}
	}
	if len(next) == len(current) {
		return nil
	}

	return l.save(username, next)
}

// Clear deletes the user's entire history.
func (l *Ledger) Clear(username string) error {
	if username == "" {
		return nil
	}

	if err := l.store.Remove(Key(username)); err != nil {
		slog.Error("clearing visit history", "user", username, "error", err)
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Find returns the first record for address, if any.
func (l *Ledger) Find(username, address string) (Record, bool) {
	for _, r := range l.List(username) {
		if r.Address == address {
			return r, true
		}
	}
	return Record{}, false
}

func (l *Ledger) save(username string, records []Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		slog.Error("encoding visit history", "user", username, "error", err)
		return fmt.Errorf("%w: encoding: %w", ErrWrite, err)
	}

	if err := l.store.Set(Key(username), string(data)); err != nil {
		slog.Error("saving visit history", "user", username, "error", err)
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}
