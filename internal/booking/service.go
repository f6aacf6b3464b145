package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	redisclient "github.com/shearbook/barbershop-scheduling/internal/redis"
)

// Scheduler validates and commits booking proposals against a provider's
// published availability and existing bookings. Every decision is
// terminal: a rejected proposal leaves the stores untouched and the
// caller resubmits with a different time if it wants to retry.
type Scheduler struct {
	repo   Repository
	locker redisclient.Locker
	log    zerolog.Logger
}

func NewScheduler(repo Repository, locker redisclient.Locker, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		repo:   repo,
		locker: locker,
		log:    log,
	}
}

// ProposeBooking tries to commit a new booking starting at start for the
// given service. The whole availability check, conflict check and insert
// run under the per-(provider, day) schedule lock and transaction, so two
// racing proposals for overlapping times cannot both succeed.
func (s *Scheduler) ProposeBooking(ctx context.Context, providerID, serviceID, customerID int64, day time.Time, start ClockTime) (*Booking, error) {
	svc, err := s.repo.GetServiceOffering(ctx, serviceID)
	if err != nil {
		if errors.Is(err, ErrServiceNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load service: %w", err)
	}
	if svc.ProviderID != providerID {
		return nil, ErrServiceNotFound
	}
	if svc.DurationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}

	cust, err := s.repo.GetAccountByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}
	if !cust.IsCustomer() {
		return nil, ErrPermissionDenied
	}

	day = DayOf(day)
	desiredStart := start.On(day)
	requested := Window{Start: desiredStart, End: desiredStart.Add(svc.Duration())}

	var created *Booking

	err = s.locker.WithScheduleLock(ctx, providerID, day, func(lockCtx context.Context) error {
		return s.repo.InScheduleTx(lockCtx, providerID, day, func(txCtx context.Context, tx Repository) error {
			if err := checkSchedule(txCtx, tx, providerID, day, requested, 0); err != nil {
				return err
			}

			booked, err := tx.InsertBooking(txCtx, Booking{
				ProviderID:   providerID,
				CustomerID:   customerID,
				ServiceID:    svc.ID,
				CustomerName: cust.DisplayName(),
				Day:          day,
				StartTime:    requested.Start,
				EndTime:      requested.End,
			})
			if err != nil {
				return fmt.Errorf("insert booking: %w", err)
			}

			created = booked
			return nil
		})
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrScheduleBusy
		}
		return nil, err
	}

	s.log.Info().
		Int64("booking_id", created.ID).
		Int64("provider_id", providerID).
		Int64("customer_id", customerID).
		Time("start", created.StartTime).
		Msg("booking confirmed")

	return created, nil
}

// ProposeTimeChange moves an existing booking to a new start time. Only
// the owning customer may do this; the booking's own slot is excluded
// from the conflict check so a move within its current interval does not
// self-conflict.
func (s *Scheduler) ProposeTimeChange(ctx context.Context, bookingID, requesterID int64, newStart ClockTime) (*Booking, error) {
	b, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != requesterID {
		return nil, ErrPermissionDenied
	}

	// Duration comes from the booking's linked service, the day stays
	// the booking's own.
	svc, err := s.repo.GetServiceOffering(ctx, b.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("load service for booking %d: %w", b.ID, err)
	}

	day := DayOf(b.Day)
	desiredStart := newStart.On(day)
	requested := Window{Start: desiredStart, End: desiredStart.Add(svc.Duration())}

	var updated *Booking

	err = s.locker.WithScheduleLock(ctx, b.ProviderID, day, func(lockCtx context.Context) error {
		return s.repo.InScheduleTx(lockCtx, b.ProviderID, day, func(txCtx context.Context, tx Repository) error {
			if err := checkSchedule(txCtx, tx, b.ProviderID, day, requested, b.ID); err != nil {
				return err
			}

			moved, err := tx.UpdateBookingTime(txCtx, b.ID, requested.Start, requested.End)
			if err != nil {
				return fmt.Errorf("update booking time: %w", err)
			}

			updated = moved
			return nil
		})
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrScheduleBusy
		}
		return nil, err
	}

	s.log.Info().
		Int64("booking_id", updated.ID).
		Time("start", updated.StartTime).
		Msg("booking moved")

	return updated, nil
}

// CancelBooking deletes a booking. No notice period applies; the slot is
// immediately bookable again.
func (s *Scheduler) CancelBooking(ctx context.Context, bookingID, requesterID int64) error {
	b, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.CustomerID != requesterID {
		return ErrPermissionDenied
	}

	if err := s.repo.DeleteBooking(ctx, b.ID); err != nil {
		return err
	}

	s.log.Info().Int64("booking_id", b.ID).Msg("booking cancelled")
	return nil
}

// checkSchedule runs the two validation steps for a requested interval:
// it must fit wholly inside a single availability window (spanning two
// touching windows is rejected), and it must not overlap any existing
// booking other than excludeID. Half-open semantics throughout, so a
// booking ending exactly when another starts is fine.
func checkSchedule(ctx context.Context, tx Repository, providerID int64, day time.Time, requested Window, excludeID int64) error {
	windows, err := tx.ListAvailability(ctx, providerID, day)
	if err != nil {
		return fmt.Errorf("list availability: %w", err)
	}

	contained := false
	for _, w := range windows {
		if w.Window().Contains(requested) {
			contained = true
			break
		}
	}
	if !contained {
		return ErrOutsideAvailability
	}

	existing, err := tx.ListBookings(ctx, providerID, day)
	if err != nil {
		return fmt.Errorf("list bookings: %w", err)
	}

	for _, e := range existing {
		if e.ID == excludeID {
			continue
		}
		if requested.Overlaps(e.Window()) {
			return ErrBookingConflict
		}
	}

	return nil
}

// PublishAvailability announces an open window for a provider. Overlap
// with existing windows is allowed; overlapping windows act as a union of
// open time.
func (s *Scheduler) PublishAvailability(ctx context.Context, providerID int64, day time.Time, start, end ClockTime) (*Availability, error) {
	acct, err := s.repo.GetAccountByID(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("load provider: %w", err)
	}
	if !acct.IsProvider() {
		return nil, ErrPermissionDenied
	}

	day = DayOf(day)
	w := Window{Start: start.On(day), End: end.On(day)}
	if !w.Valid() {
		return nil, ErrInvalidWindow
	}

	return s.repo.AddAvailability(ctx, Availability{
		ProviderID: providerID,
		Day:        day,
		StartTime:  w.Start,
		EndTime:    w.End,
	})
}

// RetractAvailability deletes a window; only the owning provider may.
func (s *Scheduler) RetractAvailability(ctx context.Context, availabilityID, requesterID int64) error {
	a, err := s.repo.GetAvailability(ctx, availabilityID)
	if err != nil {
		return err
	}
	if a.ProviderID != requesterID {
		return ErrPermissionDenied
	}
	return s.repo.DeleteAvailability(ctx, a.ID)
}

// AddServiceOffering adds a service to a provider's catalogue.
func (s *Scheduler) AddServiceOffering(ctx context.Context, offering ServiceOffering) (*ServiceOffering, error) {
	acct, err := s.repo.GetAccountByID(ctx, offering.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("load provider: %w", err)
	}
	if !acct.IsProvider() {
		return nil, ErrPermissionDenied
	}
	if offering.DurationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	if offering.PriceCents < 0 {
		return nil, ErrInvalidPrice
	}

	return s.repo.AddServiceOffering(ctx, offering)
}

// RemoveServiceOffering deletes a catalogue entry; only the owner may.
func (s *Scheduler) RemoveServiceOffering(ctx context.Context, serviceID, requesterID int64) error {
	svc, err := s.repo.GetServiceOffering(ctx, serviceID)
	if err != nil {
		return err
	}
	if svc.ProviderID != requesterID {
		return ErrPermissionDenied
	}
	return s.repo.DeleteServiceOffering(ctx, svc.ID)
}

// ListProviderServices returns a provider's catalogue.
func (s *Scheduler) ListProviderServices(ctx context.Context, providerID int64) ([]ServiceOffering, error) {
	return s.repo.ListProviderServices(ctx, providerID)
}
