package ledger

import (
	"errors"
	"testing"
	"time"
)

// fixedClock returns successive times one minute apart starting at start.
func fixedClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		t := start.Add(time.Duration(n) * time.Minute)
		n++
		return t
	}
}

func testLedger(t *testing.T) (*Ledger, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return New(store, WithClock(fixedClock(start))), store
}

func TestUpsertAndList(t *testing.T) {
	l, _ := testLedger(t)

	err := l.Upsert("alice", Entry{
		Name:    "Corner Liquors",
		Address: "1 Main St",
		Phone:   "555-0100",
		Status:  Successful,
		Notes:   "Great buyer",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	records := l.List("alice")
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	r := records[0]
	if r.Address != "1 Main St" {
		t.Errorf("address = %q, want %q", r.Address, "1 Main St")
	}
	if r.Status != Successful {
		t.Errorf("status = %q, want %q", r.Status, Successful)
	}
	if r.Notes != "Great buyer" {
		t.Errorf("notes = %q, want %q", r.Notes, "Great buyer")
	}
	want := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if !r.VisitedDate.Equal(want) {
		t.Errorf("visited_date = %v, want %v", r.VisitedDate, want)
	}
}

func TestUpsertReplacesSameAddress(t *testing.T) {
	l, _ := testLedger(t)

	mustUpsert(t, l, "alice", Entry{Name: "A", Address: "1 Main St", Status: Potential, Notes: "call back"})
	mustUpsert(t, l, "alice", Entry{Name: "B", Address: "2 Oak Ave", Status: NoGood})
	mustUpsert(t, l, "alice", Entry{Name: "A", Address: "1 Main St", Status: Successful, Notes: "ordered"})

	records := l.List("alice")
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Address != "2 Oak Ave" {
		t.Errorf("first = %q, want untouched record first", records[0].Address)
	}
	last := records[1]
	if last.Address != "1 Main St" || last.Status != Successful || last.Notes != "ordered" {
		t.Errorf("replaced record = %+v, want latest write", last)
	}
	want := time.Date(2024, 3, 1, 12, 2, 0, 0, time.UTC)
	if !last.VisitedDate.Equal(want) {
		t.Errorf("visited_date = %v, want fresh %v", last.VisitedDate, want)
	}
}

func TestUpsertRejectsNotVisited(t *testing.T) {
	l, _ := testLedger(t)

	err := l.Upsert("alice", Entry{Name: "A", Address: "1 Main St", Status: NotVisited})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
	if n := len(l.List("alice")); n != 0 {
		t.Errorf("got %d records, want 0", n)
	}
}

func TestRemove(t *testing.T) {
	l, _ := testLedger(t)

	mustUpsert(t, l, "alice", Entry{Name: "A", Address: "1 Main St", Status: Successful})
	if err := l.Remove("alice", "1 Main St"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if n := len(l.List("alice")); n != 0 {
		t.Errorf("got %d records after remove, want 0", n)
	}
}

func TestRemoveMissingIsNoop(t *testing.T) {
	l, store := testLedger(t)

	mustUpsert(t, l, "alice", Entry{Name: "A", Address: "1 Main St", Status: Successful})
	before, _, _ := store.Get(Key("alice"))

	if err := l.Remove("alice", "999 Nowhere Rd"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := l.Remove("alice", "999 Nowhere Rd"); err != nil {
		t.Fatalf("second remove: %v", err)
	}

	after, _, _ := store.Get(Key("alice"))
	if before != after {
		t.Errorf("store changed:\nbefore %s\nafter  %s", before, after)
	}
}

func TestAddressMatchIsExact(t *testing.T) {
	l, _ := testLedger(t)

	mustUpsert(t, l, "alice", Entry{Name: "A", Address: "1 Main St", Status: Successful})
	mustUpsert(t, l, "alice", Entry{Name: "A", Address: "1 main st", Status: Potential})
	mustUpsert(t, l, "alice", Entry{Name: "A", Address: "1 Main St ", Status: NoGood})

	if n := len(l.List("alice")); n != 3 {
		t.Errorf("got %d records, want 3 distinct addresses", n)
	}
}

func TestClear(t *testing.T) {
	l, store := testLedger(t)

	mustUpsert(t, l, "alice", Entry{Name: "A", Address: "1 Main St", Status: Successful})
	mustUpsert(t, l, "bob", Entry{Name: "A", Address: "1 Main St", Status: Successful})

	if err := l.Clear("alice"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n := len(l.List("alice")); n != 0 {
		t.Errorf("alice has %d records after clear, want 0", n)
	}
	if _, ok, _ := store.Get(Key("alice")); ok {
		t.Error("expected alice's key to be removed")
	}
	if n := len(l.List("bob")); n != 1 {
		t.Errorf("bob has %d records, want 1", n)
	}
}

func TestEmptyUsernameIsNoop(t *testing.T) {
	l, store := testLedger(t)

	if err := l.Upsert("", Entry{Name: "A", Address: "1 Main St", Status: Successful}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := l.Remove("", "1 Main St"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := l.Clear(""); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := l.List(""); len(got) != 0 {
		t.Errorf("got %d records for empty user, want 0", len(got))
	}
	if len(store.data) != 0 {
		t.Errorf("store has %d keys, want 0", len(store.data))
	}
}

func TestListMalformedIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "definitely not json"},
		{"object instead of array", `{"address":"1 Main St"}`},
		{"bad date", `[{"address":"1 Main St","visitedDate":"yesterday"}]`},
		{"null", "null"},
		{"empty string", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, store := testLedger(t)
			if err := store.Set(Key("alice"), tt.raw); err != nil {
				t.Fatalf("set: %v", err)
			}
			got := l.List("alice")
			if got == nil || len(got) != 0 {
				t.Errorf("got %v, want empty non-nil slice", got)
			}
		})
	}
}

func TestListMigratesMissingStatus(t *testing.T) {
	l, store := testLedger(t)

	legacy := `[
		{"name":"Old Shop","address":"5 Elm St","visitedDate":"2023-11-02T09:30:00.000Z"},
		{"name":"New Shop","address":"6 Elm St","status":"potential","visitedDate":"2024-01-05T10:00:00.000Z"}
	]`
	if err := store.Set(Key("alice"), legacy); err != nil {
		t.Fatalf("set: %v", err)
	}

	records := l.List("alice")
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Status != Successful {
		t.Errorf("legacy status = %q, want %q", records[0].Status, Successful)
	}
	if records[1].Status != Potential {
		t.Errorf("status = %q, want %q", records[1].Status, Potential)
	}
}

func TestFind(t *testing.T) {
	l, _ := testLedger(t)
	mustUpsert(t, l, "alice", Entry{Name: "A", Address: "1 Main St", Status: NoGood})

	r, ok := l.Find("alice", "1 Main St")
	if !ok {
		t.Fatal("expected record")
	}
	if r.Status != NoGood {
		t.Errorf("status = %q, want %q", r.Status, NoGood)
	}
	if _, ok := l.Find("alice", "2 Oak Ave"); ok {
		t.Error("expected no record for unknown address")
	}
}

// failingStore fails every operation.
type failingStore struct{}

var errBroken = errors.New("disk on fire")

func (failingStore) Get(string) (string, bool, error) { return "", false, errBroken }
func (failingStore) Set(string, string) error         { return errBroken }
func (failingStore) Remove(string) error              { return errBroken }

func TestStoreFailures(t *testing.T) {
	l := New(failingStore{})

	if got := l.List("alice"); len(got) != 0 {
		t.Errorf("list on broken store = %v, want empty", got)
	}

	err := l.Upsert("alice", Entry{Name: "A", Address: "1 Main St", Status: Successful})
	if !errors.Is(err, ErrWrite) {
		t.Errorf("upsert err = %v, want ErrWrite", err)
	}
	if !errors.Is(err, errBroken) {
		t.Errorf("upsert err = %v, want wrapped store error", err)
	}

	if err := l.Clear("alice"); !errors.Is(err, ErrWrite) {
		t.Errorf("clear err = %v, want ErrWrite", err)
	}
}

// lockedStore fails reads but accepts writes.
type lockedStore struct {
	*MemoryStore
}

var errLocked = errors.New("database is locked")

func (lockedStore) Get(string) (string, bool, error) { return "", false, errLocked }

func TestWritesRefuseUnreadableHistory(t *testing.T) {
	mem := NewMemoryStore()
	seed := New(mem)
	mustUpsert(t, seed, "alice", Entry{Name: "A", Address: "1 Main St", Status: Successful})
	mustUpsert(t, seed, "alice", Entry{Name: "B", Address: "2 Oak Ave", Status: Potential})
	before := mem.data[Key("alice")]

	l := New(lockedStore{mem})

	err := l.Upsert("alice", Entry{Name: "C", Address: "3 Elm St", Status: NoGood})
	if !errors.Is(err, ErrWrite) || !errors.Is(err, errLocked) {
		t.Errorf("upsert err = %v, want ErrWrite wrapping the read error", err)
	}
	if err := l.Remove("alice", "1 Main St"); !errors.Is(err, ErrWrite) {
		t.Errorf("remove err = %v, want ErrWrite", err)
	}
	if got := mem.data[Key("alice")]; got != before {
		t.Errorf("stored history changed:\n got %s\nwant %s", got, before)
	}
}

func TestWritesRefuseNonArrayHistory(t *testing.T) {
	l, store := testLedger(t)
	raw := `{"address":"1 Main St"}`
	if err := store.Set(Key("alice"), raw); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := l.Upsert("alice", Entry{Name: "C", Address: "3 Elm St", Status: NoGood}); !errors.Is(err, ErrWrite) {
		t.Errorf("upsert err = %v, want ErrWrite", err)
	}
	if err := l.Remove("alice", "1 Main St"); !errors.Is(err, ErrWrite) {
		t.Errorf("remove err = %v, want ErrWrite", err)
	}
	if got := store.data[Key("alice")]; got != raw {
		t.Errorf("stored value = %s, want it untouched", got)
	}
}

func TestListSkipsUnreadableRecords(t *testing.T) {
	l, store := testLedger(t)

	mixed := `[
		{"name":"Good","address":"1 Main St","status":"successful","visitedDate":"2024-01-05T10:00:00Z"},
		{"name":"Numeric Phone","address":"2 Oak Ave","phone":5550100,"visitedDate":"2024-01-05T11:00:00Z"},
		{"name":"Date Only","address":"4 Pine St","visitedDate":"2024-01-05"}
	]`
	if err := store.Set(Key("alice"), mixed); err != nil {
		t.Fatalf("set: %v", err)
	}

	records := l.List("alice")
	if len(records) != 1 || records[0].Address != "1 Main St" {
		t.Fatalf("got %v, want only 1 Main St", records)
	}

	mustUpsert(t, l, "alice", Entry{Name: "New", Address: "3 Elm St", Status: Potential})

	var addrs []string
	for _, r := range l.List("alice") {
		addrs = append(addrs, r.Address)
	}
	if len(addrs) != 2 || addrs[0] != "1 Main St" || addrs[1] != "3 Elm St" {
		t.Errorf("addresses after upsert = %v, want [1 Main St 3 Elm St]", addrs)
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		s       Status
		valid   bool
		visited bool
		label   string
	}{
		{NotVisited, true, false, "Not Visited"},
		{Successful, true, true, "Successful"},
		{Potential, true, true, "Potential"},
		{NoGood, true, true, "No Good"},
		{"visited", false, false, "visited"},
		{"", false, false, ""},
	}
	for _, tt := range tests {
		if got := tt.s.IsValid(); got != tt.valid {
			t.Errorf("Status(%q).IsValid() = %v, want %v", tt.s, got, tt.valid)
		}
		if got := tt.s.IsVisited(); got != tt.visited {
			t.Errorf("Status(%q).IsVisited() = %v, want %v", tt.s, got, tt.visited)
		}
		if got := tt.s.Label(); got != tt.label {
			t.Errorf("Status(%q).Label() = %q, want %q", tt.s, got, tt.label)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus("no-good"); err != nil || s != NoGood {
		t.Errorf("ParseStatus(no-good) = %q, %v", s, err)
	}
	if _, err := ParseStatus("No Good"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("ParseStatus(No Good) err = %v, want ErrInvalidStatus", err)
	}
}

func mustUpsert(t *testing.T, l *Ledger, user string, e Entry) {
	t.Helper()
	if err := l.Upsert(user, e); err != nil {
		t.Fatalf("upsert %s: %v", e.Address, err)
	}
}
