package booking

import (
	"context"
	"errors"
	"time"

	"github.com/shearbook/barbershop-scheduling/internal/account"
)

var (
	ErrServiceNotFound      = errors.New("service not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrAvailabilityNotFound = errors.New("availability not found")

	ErrPermissionDenied    = errors.New("requester does not own this resource")
	ErrOutsideAvailability = errors.New("requested time is not within the provider's availability")
	ErrBookingConflict     = errors.New("requested time overlaps an existing booking")
	ErrScheduleBusy        = errors.New("schedule is being modified, please retry")

	ErrInvalidWindow   = errors.New("window start must be before end")
	ErrInvalidDuration = errors.New("service duration must be positive")
	ErrInvalidPrice    = errors.New("service price must not be negative")

	// ErrStorage wraps transaction-level failures. Nothing is partially
	// written when it is returned.
	ErrStorage = errors.New("storage failure")
)

// Repository contains all store interactions needed by the scheduler.
type Repository interface {
	GetAccountByID(ctx context.Context, id int64) (*account.Account, error)

	// Service catalogue
	GetServiceOffering(ctx context.Context, id int64) (*ServiceOffering, error)
	ListProviderServices(ctx context.Context, providerID int64) ([]ServiceOffering, error)
	AddServiceOffering(ctx context.Context, s ServiceOffering) (*ServiceOffering, error)
	DeleteServiceOffering(ctx context.Context, id int64) error

	// Availability store
	GetAvailability(ctx context.Context, id int64) (*Availability, error)
	ListAvailability(ctx context.Context, providerID int64, day time.Time) ([]Availability, error)
	ListProviderAvailability(ctx context.Context, providerID int64) ([]Availability, error)
	AddAvailability(ctx context.Context, a Availability) (*Availability, error)
	DeleteAvailability(ctx context.Context, id int64) error

	// Booking store
	GetBooking(ctx context.Context, id int64) (*Booking, error)
	ListBookings(ctx context.Context, providerID int64, day time.Time) ([]Booking, error)
	ListCustomerBookings(ctx context.Context, customerID int64) ([]BookingDetail, error)
	InsertBooking(ctx context.Context, b Booking) (*Booking, error)
	UpdateBookingTime(ctx context.Context, id int64, start, end time.Time) (*Booking, error)
	DeleteBooking(ctx context.Context, id int64) error

	// InScheduleTx runs fn against a transaction-bound repository while
	// holding exclusive access to the (providerID, day) schedule. Two
	// concurrent calls for the same provider and day serialize; the
	// second sees everything the first committed.
	InScheduleTx(ctx context.Context, providerID int64, day time.Time, fn func(ctx context.Context, tx Repository) error) error
}
