package snapshot

import (
	"sort"
	"time"
)

// DateSet is a set of day-granular dates. Keys are always normalized via
// Date, so membership is by calendar day regardless of the time component
// callers pass in.
type DateSet map[time.Time]struct{}

// NewDateSet builds a set from the given dates.
func NewDateSet(dates ...time.Time) DateSet {
	s := make(DateSet, len(dates))
	for _, d := range dates {
		s.Add(d)
	}
	return s
}

func (s DateSet) Add(d time.Time) {
	s[Date(d)] = struct{}{}
}

func (s DateSet) Contains(d time.Time) bool {
	_, ok := s[Date(d)]
	return ok
}

// Merge adds every date of other into s.
func (s DateSet) Merge(other DateSet) {
	for d := range other {
		s[d] = struct{}{}
	}
}

// Sorted returns the dates in ascending order.
func (s DateSet) Sorted() []time.Time {
	out := make([]time.Time, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Before(out[j])
	})
	return out
}
