// Package snapshot defines snapshot identity. A snapshot is keyed by its
// calendar date; its name is derived from a configured prefix and the date.
package snapshot

import (
	"strings"
	"time"
)

// DateLayout is the date part of every snapshot name.
const DateLayout = "2006-01-02"

// Date reduces t to day granularity. The result is midnight UTC on the
// calendar date of t, so dates compare and hash by day alone.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Name returns the snapshot name for date: "{prefix}-{YYYY-MM-DD}".
func Name(prefix string, date time.Time) string {
	return prefix + "-" + Date(date).Format(DateLayout)
}

// ParseName extracts the date from a name produced by Name. It reports
// false for names carrying a different prefix, a malformed date, or
// trailing characters.
func ParseName(prefix, name string) (time.Time, bool) {
	rest, found := strings.CutPrefix(name, prefix+"-")
	if !found {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, rest)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
