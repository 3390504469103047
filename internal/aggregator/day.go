// =============================================================================
// Kebab Dashboard - Calendar Day Filter
// =============================================================================
//
// Day is the optional "only this date" filter of the dashboard and the
// exports. It is a civil date: membership of a timestamp is decided after
// converting it to the configured zone, so one Day covers exactly the local
// midnight-to-midnight range.
//
//   ParseDay("2024-01-01")  -> Day{2024, January, 1}
//   DayOf(t, loc)           -> the local date of t
//
// =============================================================================

package aggregator

import (
	"fmt"
	"time"
)

// Day is a calendar date with no time component.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DayOf(t, time.UTC), nil
}

// DayOf returns the calendar date of t as seen in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Day: d}
}

// Contains reports whether t falls on d in loc. A zero time is on no day.
func (d Day) Contains(t time.Time, loc *time.Location) bool {
	if t.IsZero() {
		return false
	}
	return DayOf(t, loc) == d
}

// String formats the day as YYYY-MM-DD.
func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}
