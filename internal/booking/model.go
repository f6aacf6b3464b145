package booking

import "time"

// Availability is one published open window for one provider on one day.
// Windows may overlap each other; the store keeps them as submitted.
type Availability struct {
	ID         int64
	ProviderID int64
	Day        time.Time
	StartTime  time.Time
	EndTime    time.Time
}

func (a Availability) Window() Window {
	return Window{Start: a.StartTime, End: a.EndTime}
}

// ServiceOffering is a bookable service in a provider's catalogue. Its
// duration is the sole driver of computed booking end times.
type ServiceOffering struct {
	ID              int64
	ProviderID      int64
	Name            string
	DurationMinutes int
	PriceCents      int64
}

func (s ServiceOffering) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// Booking is a committed reservation. CustomerName is a snapshot taken at
// booking time, deliberately not a live join: the calendar shows the name
// the customer had when they booked.
type Booking struct {
	ID           int64
	ProviderID   int64
	CustomerID   int64
	ServiceID    int64
	CustomerName string
	Day          time.Time
	StartTime    time.Time
	EndTime      time.Time
}

func (b Booking) Window() Window {
	return Window{Start: b.StartTime, End: b.EndTime}
}

// BookingDetail joins a booking with the display data the customer agenda
// needs.
type BookingDetail struct {
	Booking
	ProviderName string
	ServiceName  string
}

type EventTag string

const (
	TagAvailable EventTag = "available"
	TagBooked    EventTag = "booked"
)

// CalendarEvent is one row of the merged provider calendar view.
type CalendarEvent struct {
	Title string
	Start time.Time
	End   time.Time
	Tag   EventTag
}
