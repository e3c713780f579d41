// Package retention computes which snapshot dates the tiered policy keeps.
package retention

import (
	"time"

	"github.com/m4nue1X/backuptools/internal/snapshot"
)

// Policy is the per-run tier configuration. Counts must be validated
// non-negative before Compute is called; a negative count is a
// configuration error, not something the calculator guards against.
type Policy struct {
	Daily      int
	Weekly     int
	Monthly    int
	WeekAnchor time.Weekday
}

// Tiers holds the dates each tier retains. The same date may appear in
// several tiers; the engine deletes by union membership, so overlap is
// harmless.
type Tiers struct {
	Daily   snapshot.DateSet
	Weekly  snapshot.DateSet
	Monthly snapshot.DateSet
}

// Union collapses the three tiers into a single wanted-date set.
func (t Tiers) Union() snapshot.DateSet {
	u := make(snapshot.DateSet, len(t.Daily)+len(t.Weekly)+len(t.Monthly))
	u.Merge(t.Daily)
	u.Merge(t.Weekly)
	u.Merge(t.Monthly)
	return u
}

// Compute returns the dates retained under p as of today. It is pure and
// deterministic: identical inputs always yield identical tiers.
func Compute(today time.Time, p Policy) Tiers {
	day := snapshot.Date(today)
	anchor := lastAnchor(day, p.WeekAnchor)
	return Tiers{
		Daily:   daily(day, p.Daily),
		Weekly:  weekly(anchor, p.Weekly),
		Monthly: monthly(anchor, p.Monthly),
	}
}

// daily keeps the count most recent calendar dates ending at today.
func daily(today time.Time, count int) snapshot.DateSet {
	s := make(snapshot.DateSet, count)
	for k := 0; k < count; k++ {
		s.Add(today.AddDate(0, 0, -k))
	}
	return s
}

// lastAnchor returns the most recent date on or before today whose weekday
// equals anchor. If today already matches, the anchor is today itself.
func lastAnchor(today time.Time, anchor time.Weekday) time.Time {
	back := int(today.Weekday() - anchor)
	if back < 0 {
		back += 7
	}
	return today.AddDate(0, 0, -back)
}

// weekly keeps the count most recent anchor-weekday dates ending at the
// current week's anchor.
func weekly(anchor time.Time, count int) snapshot.DateSet {
	s := make(snapshot.DateSet, count)
	for k := 0; k < count; k++ {
		s.Add(anchor.AddDate(0, 0, -7*k))
	}
	return s
}

// monthly approximates a calendar month as a 4-week stride. Before each
// date is collected the anchor is pulled back one week when its
// day-of-month is past 7, which keeps anchors pinned near month-start
// instead of drifting freely. This is an approximation: anchors land near
// the start of a month, not on a fixed day of it.
func monthly(anchor time.Time, count int) snapshot.DateSet {
	s := make(snapshot.DateSet, count)
	cur := anchor
	for k := 0; k < count; k++ {
		if cur.Day() > 7 {
			cur = cur.AddDate(0, 0, -7)
		}
		s.Add(cur)
		cur = cur.AddDate(0, 0, -28)
	}
	return s
}
