// Package clock supplies the calendar "today" the tracker schedules against.
package clock

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used for ledger keys.
const DateLayout = "2006-01-02"

// Clock reports the current calendar day.
type Clock interface {
	Today() time.Time
}

// System reads the wall clock in a fixed location.
type System struct {
	Location *time.Location
}

// NewSystem returns a System clock for the named IANA zone.
// An empty name or "Local" uses the process time zone.
func NewSystem(zone string) (System, error) {
	if zone == "" || zone == "Local" {
		return System{Location: time.Local}, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return System{}, fmt.Errorf("loading time zone %q: %w", zone, err)
	}
	return System{Location: loc}, nil
}

// Today returns midnight of the current day in the clock's location.
func (s System) Today() time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	return StartOfDay(time.Now().In(loc))
}

// Fixed always reports the same day. Useful for tests and backfills.
type Fixed time.Time

// Today returns the fixed day.
func (f Fixed) Today() time.Time {
	return StartOfDay(time.Time(f))
}

// MustDate parses a YYYY-MM-DD string in UTC and panics on error.
func MustDate(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateKey formats a day as the ledger's date key.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ISOWeekday returns the ISO weekday number, Monday = 1 .. Sunday = 7.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// Trailing returns the n days ending at today, oldest first.
func Trailing(today time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	days := make([]time.Time, n)
	for i := 0; i < n; i++ {
		days[i] = today.AddDate(0, 0, i-(n-1))
	}
	return days
}
