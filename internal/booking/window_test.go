package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shearbook/barbershop-scheduling/internal/booking"
)

func window(startMin, endMin int) booking.Window {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return booking.Window{
		Start: day.Add(time.Duration(startMin) * time.Minute),
		End:   day.Add(time.Duration(endMin) * time.Minute),
	}
}

func TestWindowContains(t *testing.T) {
	outer := window(9*60, 17*60) // 09:00-17:00

	tests := []struct {
		name  string
		inner booking.Window
		want  bool
	}{
		{"strictly inside", window(10*60, 11*60), true},
		{"equal bounds", window(9*60, 17*60), true},
		{"touching start", window(9*60, 9*60+30), true},
		{"touching end", window(16*60+30, 17*60), true},
		{"starts before", window(8*60+45, 9*60+15), false},
		{"ends after", window(16*60+45, 17*60+15), false},
		{"fully outside", window(18*60, 19*60), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outer.Contains(tt.inner))
		})
	}
}

func TestWindowOverlaps(t *testing.T) {
	base := window(10*60, 10*60+30) // 10:00-10:30

	tests := []struct {
		name  string
		other booking.Window
		want  bool
	}{
		{"identical", window(10*60, 10*60+30), true},
		{"partial overlap", window(10*60+15, 10*60+45), true},
		{"containing", window(9*60, 11*60), true},
		{"contained", window(10*60+10, 10*60+20), true},
		{"touching after", window(10*60+30, 11*60), false},
		{"touching before", window(9*60+30, 10*60), false},
		{"disjoint", window(12*60, 13*60), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			// Overlap is symmetric.
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}

func TestWindowValid(t *testing.T) {
	assert.True(t, window(9*60, 10*60).Valid())
	assert.False(t, window(10*60, 9*60).Valid())
	assert.False(t, window(10*60, 10*60).Valid())
}

func TestParseClock(t *testing.T) {
	c, err := booking.ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, booking.ClockTime{Hour: 9, Minute: 30}, c)

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, day.Add(9*time.Hour+30*time.Minute), c.On(day))

	for _, bad := range []string{"9:30pm", "25:00", "10:61", "morning", ""} {
		_, err := booking.ParseClock(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParseDay(t *testing.T) {
	day, err := booking.ParseDay("2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), day)

	_, err = booking.ParseDay("01/09/2026")
	assert.Error(t, err)
}

func TestDayOf(t *testing.T) {
	at := time.Date(2026, 9, 1, 14, 45, 12, 99, time.UTC)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), booking.DayOf(at))
}
