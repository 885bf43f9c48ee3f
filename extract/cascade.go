// Package extract turns realized page snapshots into typed promo records.
// Each source type (smart link, analytics dashboard, press article,
// playlist) gets its own extractor built from the same primitive: an
// ordered cascade of named heuristics where the first hit wins and a miss
// falls through to the next candidate. A cascade with no hits leaves the
// field at its zero value; fields never fail an extraction.
package extract

import (
	"log/slog"
	"strings"
)

// Candidate is one named heuristic step in a cascade. Run reports the
// candidate's value and whether it produced one.
type Candidate[T any] struct {
	Name string
	Run  func() (T, bool)
}

// first evaluates candidates in order and returns the first hit, or the
// zero value when every candidate misses.
func first[T any](field string, candidates ...Candidate[T]) T {
	for _, c := range candidates {
		v, ok := c.Run()
		if !ok {
			continue
		}
		slog.Debug("cascade hit", "field", field, "candidate", c.Name)
		return v
	}
	slog.Debug("cascade empty", "field", field)
	var zero T
	return zero
}

// try adapts a string-producing step into a Candidate: a trimmed non-empty
// result counts as a hit.
func try(name string, fn func() string) Candidate[string] {
	return Candidate[string]{
		Name: name,
		Run: func() (string, bool) {
			v := strings.TrimSpace(fn())
			return v, v != ""
		},
	}
}
