package route

import (
	"math"
	"sort"

	"github.com/evcraddock/vino-route/internal/geo"
	"github.com/evcraddock/vino-route/internal/ledger"
)

// Merge annotates freshly fetched candidates with the user's visit records.
// A candidate matches the first record with an identical address. Output order
// follows candidates.
func Merge(candidates []Candidate, records []ledger.Record) []Prospect {
	prospects := make([]Prospect, 0, len(candidates))
	for _, c := range candidates {
		p := Prospect{Candidate: c, Status: ledger.NotVisited}
		for _, r := range records {
			if r.Address == c.Address {
				p.Status = r.Status
				p.PreviouslyVisited = true
				p.Notes = r.Notes
				break
			}
		}
		prospects = append(prospects, p)
	}
	return prospects
}

// SortByDistance returns a copy of prospects with Distance populated from
// origin, stably ordered nearest first. Entries without a distance sort last.
func SortByDistance(prospects []Prospect, origin geo.Point) []Prospect {
	sorted := make([]Prospect, len(prospects))
	copy(sorted, prospects)

	for i := range sorted {
		d := origin.DistanceTo(sorted[i].Point())
		sorted[i].Distance = &d
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return distanceOrInf(sorted[i]) < distanceOrInf(sorted[j])
	})

	return sorted
}

func distanceOrInf(p Prospect) float64 {
	if p.Distance == nil || math.IsNaN(*p.Distance) {
		return math.Inf(1)
	}
	return *p.Distance
}
