package booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shearbook/barbershop-scheduling/internal/booking"
)

func TestProviderCalendar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.propose(t, "10:00")
	require.NoError(t, err)
	_, err = f.propose(t, "14:00")
	require.NoError(t, err)

	events, err := f.sched.ProviderCalendar(ctx, f.providerID, f.day)
	require.NoError(t, err)
	require.Len(t, events, 3)

	// Chronological: the 09:00 window first, then the two bookings.
	assert.Equal(t, booking.TagAvailable, events[0].Tag)
	assert.Equal(t, "Available", events[0].Title)
	assert.Equal(t, f.day.Add(9*time.Hour), events[0].Start)
	assert.Equal(t, f.day.Add(17*time.Hour), events[0].End)

	assert.Equal(t, booking.TagBooked, events[1].Tag)
	assert.Equal(t, "Casey Customer", events[1].Title)
	assert.Equal(t, f.day.Add(10*time.Hour), events[1].Start)

	assert.Equal(t, booking.TagBooked, events[2].Tag)
	assert.Equal(t, f.day.Add(14*time.Hour), events[2].Start)
}

func TestProviderCalendarWindowBeforeCoincidingBooking(t *testing.T) {
	f := newFixture(t)

	// Booking starting exactly at window open.
	_, err := f.propose(t, "09:00")
	require.NoError(t, err)

	events, err := f.sched.ProviderCalendar(context.Background(), f.providerID, f.day)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, booking.TagAvailable, events[0].Tag)
	assert.Equal(t, booking.TagBooked, events[1].Tag)
}

func TestProviderCalendarAllDays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	nextDay := f.day.AddDate(0, 0, 1)
	_, err := f.repo.AddAvailability(ctx, booking.Availability{
		ProviderID: f.providerID,
		Day:        nextDay,
		StartTime:  nextDay.Add(9 * time.Hour),
		EndTime:    nextDay.Add(12 * time.Hour),
	})
	require.NoError(t, err)

	_, err = f.propose(t, "10:00")
	require.NoError(t, err)

	// Zero day means the whole calendar.
	events, err := f.sched.ProviderCalendar(ctx, f.providerID, time.Time{})
	require.NoError(t, err)
	require.Len(t, events, 3)

	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].Start.Before(events[i-1].Start), "events out of order")
	}
}

func TestProviderCalendarEmpty(t *testing.T) {
	f := newFixture(t)

	events, err := f.sched.ProviderCalendar(context.Background(), f.providerID, f.day.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCustomerAgenda(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.propose(t, "10:00")
	require.NoError(t, err)

	agenda, err := f.sched.CustomerAgenda(ctx, f.customerID)
	require.NoError(t, err)
	require.Len(t, agenda, 1)

	assert.Equal(t, "Sam Shears", agenda[0].ProviderName)
	assert.Equal(t, "Haircut", agenda[0].ServiceName)
	assert.Equal(t, f.day.Add(10*time.Hour), agenda[0].StartTime)

	// A customer with no bookings has an empty agenda, not an error.
	empty, err := f.sched.CustomerAgenda(ctx, 9999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
