package booking

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// ProviderCalendar merges a provider's availability windows and bookings
// into one chronological event list for rendering. A zero day means all
// days. Purely derived: nothing is stored, the view is recomputed on
// every call.
func (s *Scheduler) ProviderCalendar(ctx context.Context, providerID int64, day time.Time) ([]CalendarEvent, error) {
	var (
		windows  []Availability
		bookings []Booking
		err      error
	)

	if day.IsZero() {
		windows, err = s.repo.ListProviderAvailability(ctx, providerID)
	} else {
		windows, err = s.repo.ListAvailability(ctx, providerID, day)
	}
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}

	if day.IsZero() {
		bookings, err = s.allProviderBookings(ctx, providerID, windows)
	} else {
		bookings, err = s.repo.ListBookings(ctx, providerID, day)
	}
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	events := make([]CalendarEvent, 0, len(windows)+len(bookings))
	for _, w := range windows {
		events = append(events, CalendarEvent{
			Title: "Available",
			Start: w.StartTime,
			End:   w.EndTime,
			Tag:   TagAvailable,
		})
	}
	for _, b := range bookings {
		events = append(events, CalendarEvent{
			Title: b.CustomerName,
			Start: b.StartTime,
			End:   b.EndTime,
			Tag:   TagBooked,
		})
	}

	sort.Slice(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		// Window before the booking it contains when starts coincide.
		return events[i].Tag == TagAvailable && events[j].Tag == TagBooked
	})

	return events, nil
}

// allProviderBookings walks the days the provider has windows on. Days
// without availability cannot hold bookings (containment invariant), so
// the window days cover everything.
func (s *Scheduler) allProviderBookings(ctx context.Context, providerID int64, windows []Availability) ([]Booking, error) {
	seen := make(map[string]bool)
	var all []Booking
	for _, w := range windows {
		key := w.Day.Format("2006-01-02")
		if seen[key] {
			continue
		}
		seen[key] = true

		dayBookings, err := s.repo.ListBookings(ctx, providerID, w.Day)
		if err != nil {
			return nil, err
		}
		all = append(all, dayBookings...)
	}
	return all, nil
}

// CustomerAgenda returns a customer's bookings with provider and service
// display data joined in.
func (s *Scheduler) CustomerAgenda(ctx context.Context, customerID int64) ([]BookingDetail, error) {
	details, err := s.repo.ListCustomerBookings(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list customer bookings: %w", err)
	}
	return details, nil
}
