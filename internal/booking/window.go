package booking

import (
	"fmt"
	"time"
)

// Window is a half-open [Start, End) interval on a single day. All times
// are naive local times; callers pre-filter by day before comparing
// windows, so the predicates never look at the date part.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Valid() bool {
	return w.Start.Before(w.End)
}

// Contains reports whether inner lies fully inside w.
func (w Window) Contains(inner Window) bool {
	return !inner.Start.Before(w.Start) && !inner.End.After(w.End)
}

// Overlaps reports whether the two half-open intervals intersect.
// Touching endpoints (w.End == other.Start) do not count as overlap,
// which is what makes back-to-back bookings possible.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// DayOf strips the clock part, leaving midnight of the same day.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ClockTime is a naive wall-clock time of day, the "HH:MM" values the
// call contracts carry.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClock parses an "HH:MM" string.
func ParseClock(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// On places the clock time on the given day.
func (c ClockTime) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, day.Location())
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return day, nil
}
