package cli

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/evcraddock/vino-route/internal/db"
	"github.com/evcraddock/vino-route/internal/route"
)

// lastRoutePrefix namespaces the most recent route shown to each user.
const lastRoutePrefix = "vrLastRoute"

func lastRouteKey(username string) string {
	return lastRoutePrefix + "_" + username
}

// saveLastRoute remembers the businesses of a route in display order so that
// later commands can refer to them by address or table number.
func saveLastRoute(database *sql.DB, username string, prospects []route.Prospect) error {
	candidates := make([]route.Candidate, len(prospects))
	for i, p := range prospects {
		candidates[i] = p.Candidate
	}

	data, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("encoding last route: %w", err)
	}
	if err := db.NewKVStore(database).Set(lastRouteKey(username), string(data)); err != nil {
		return fmt.Errorf("saving last route: %w", err)
	}
	return nil
}

// loadLastRoute returns the businesses of the user's last route, or nil.
func loadLastRoute(database *sql.DB, username string) []route.Candidate {
	raw, ok, err := db.NewKVStore(database).Get(lastRouteKey(username))
	if err != nil {
		slog.Warn("reading last route", "user", username, "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var candidates []route.Candidate
	if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
		slog.Warn("parsing last route", "user", username, "error", err)
		return nil
	}
	return candidates
}

// lookupLastRoute resolves ref against the last route. ref is either an
// address or the row number printed by 'vr route' ("3" or "#3").
func lookupLastRoute(candidates []route.Candidate, ref string) (route.Candidate, bool) {
	if n, err := strconv.Atoi(strings.TrimPrefix(ref, "#")); err == nil {
		if n >= 1 && n <= len(candidates) {
			return candidates[n-1], true
		}
		return route.Candidate{}, false
	}
	for _, c := range candidates {
		if c.Address == ref {
			return c, true
		}
	}
	return route.Candidate{}, false
}
