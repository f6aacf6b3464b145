package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shearbook/barbershop-scheduling/internal/account"
)

// MemoryRepository is a map-backed Repository used by tests and local
// tooling. A single mutex guards all state and doubles as the schedule
// transaction scope: InScheduleTx holds it for the whole read-check-write
// sequence, which gives the same exactly-one-winner guarantee the
// Postgres advisory lock provides. The scheduler only writes after its
// checks pass, so a rejected proposal never touches the maps.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int64

	accounts     map[int64]account.Account
	services     map[int64]ServiceOffering
	availability map[int64]Availability
	bookings     map[int64]Booking
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		accounts:     make(map[int64]account.Account),
		services:     make(map[int64]ServiceOffering),
		availability: make(map[int64]Availability),
		bookings:     make(map[int64]Booking),
	}
}

func (r *MemoryRepository) allocID() int64 {
	r.nextID++
	return r.nextID
}

// Accounts. MemoryRepository also satisfies account.Repository so one
// fixture store can back both packages in tests.

func (r *MemoryRepository) CreateAccount(_ context.Context, a account.Account) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if existing.Email == a.Email {
			return nil, account.ErrEmailTaken
		}
	}

	a.ID = r.allocID()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	r.accounts[a.ID] = a
	return &a, nil
}

func (r *MemoryRepository) GetAccountByID(_ context.Context, id int64) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getAccountLocked(id)
}

func (r *MemoryRepository) getAccountLocked(id int64) (*account.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	return &a, nil
}

func (r *MemoryRepository) GetAccountByEmail(_ context.Context, email string) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.Email == email {
			out := a
			return &out, nil
		}
	}
	return nil, account.ErrAccountNotFound
}

// DeleteAccount removes the account and everything it owns, mirroring the
// storage layer's ON DELETE CASCADE.
func (r *MemoryRepository) DeleteAccount(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[id]; !ok {
		return account.ErrAccountNotFound
	}
	delete(r.accounts, id)

	for sid, s := range r.services {
		if s.ProviderID == id {
			delete(r.services, sid)
		}
	}
	for aid, a := range r.availability {
		if a.ProviderID == id {
			delete(r.availability, aid)
		}
	}
	for bid, b := range r.bookings {
		if b.ProviderID == id || b.CustomerID == id {
			delete(r.bookings, bid)
		}
	}
	return nil
}

// Service catalogue

func (r *MemoryRepository) GetServiceOffering(_ context.Context, id int64) (*ServiceOffering, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getServiceLocked(id)
}

func (r *MemoryRepository) getServiceLocked(id int64) (*ServiceOffering, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	return &s, nil
}

func (r *MemoryRepository) ListProviderServices(_ context.Context, providerID int64) ([]ServiceOffering, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []ServiceOffering
	for _, s := range r.services {
		if s.ProviderID == providerID {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *MemoryRepository) AddServiceOffering(_ context.Context, s ServiceOffering) (*ServiceOffering, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.ID = r.allocID()
	r.services[s.ID] = s
	return &s, nil
}

func (r *MemoryRepository) DeleteServiceOffering(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.services[id]; !ok {
		return ErrServiceNotFound
	}
	delete(r.services, id)
	return nil
}

// Availability store

func (r *MemoryRepository) GetAvailability(_ context.Context, id int64) (*Availability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.availability[id]
	if !ok {
		return nil, ErrAvailabilityNotFound
	}
	return &a, nil
}

func (r *MemoryRepository) ListAvailability(_ context.Context, providerID int64, day time.Time) ([]Availability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listAvailabilityLocked(providerID, day), nil
}

func (r *MemoryRepository) listAvailabilityLocked(providerID int64, day time.Time) []Availability {
	var result []Availability
	for _, a := range r.availability {
		if a.ProviderID == providerID && a.Day.Equal(day) {
			result = append(result, a)
		}
	}
	sortByStart(result, func(a Availability) time.Time { return a.StartTime })
	return result
}

func (r *MemoryRepository) ListProviderAvailability(_ context.Context, providerID int64) ([]Availability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []Availability
	for _, a := range r.availability {
		if a.ProviderID == providerID {
			result = append(result, a)
		}
	}
	sortByStart(result, func(a Availability) time.Time { return a.StartTime })
	return result, nil
}

func (r *MemoryRepository) AddAvailability(_ context.Context, a Availability) (*Availability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a.ID = r.allocID()
	r.availability[a.ID] = a
	return &a, nil
}

func (r *MemoryRepository) DeleteAvailability(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.availability[id]; !ok {
		return ErrAvailabilityNotFound
	}
	delete(r.availability, id)
	return nil
}

// Booking store

func (r *MemoryRepository) GetBooking(_ context.Context, id int64) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getBookingLocked(id)
}

func (r *MemoryRepository) getBookingLocked(id int64) (*Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return &b, nil
}

func (r *MemoryRepository) ListBookings(_ context.Context, providerID int64, day time.Time) ([]Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listBookingsLocked(providerID, day), nil
}

func (r *MemoryRepository) listBookingsLocked(providerID int64, day time.Time) []Booking {
	var result []Booking
	for _, b := range r.bookings {
		if b.ProviderID == providerID && b.Day.Equal(day) {
			result = append(result, b)
		}
	}
	sortByStart(result, func(b Booking) time.Time { return b.StartTime })
	return result
}

func (r *MemoryRepository) ListCustomerBookings(_ context.Context, customerID int64) ([]BookingDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []BookingDetail
	for _, b := range r.bookings {
		if b.CustomerID != customerID {
			continue
		}
		d := BookingDetail{Booking: b}
		if p, ok := r.accounts[b.ProviderID]; ok {
			d.ProviderName = p.DisplayName()
		}
		if s, ok := r.services[b.ServiceID]; ok {
			d.ServiceName = s.Name
		}
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.Before(result[j].StartTime)
	})
	return result, nil
}

func (r *MemoryRepository) InsertBooking(_ context.Context, b Booking) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertBookingLocked(b)
}

func (r *MemoryRepository) insertBookingLocked(b Booking) (*Booking, error) {
	b.ID = r.allocID()
	r.bookings[b.ID] = b
	return &b, nil
}

func (r *MemoryRepository) UpdateBookingTime(_ context.Context, id int64, start, end time.Time) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateBookingTimeLocked(id, start, end)
}

func (r *MemoryRepository) updateBookingTimeLocked(id int64, start, end time.Time) (*Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	b.StartTime = start
	b.EndTime = end
	r.bookings[id] = b
	return &b, nil
}

func (r *MemoryRepository) DeleteBooking(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[id]; !ok {
		return ErrBookingNotFound
	}
	delete(r.bookings, id)
	return nil
}

// InScheduleTx holds the store mutex for the duration of fn.
func (r *MemoryRepository) InScheduleTx(ctx context.Context, _ int64, _ time.Time, fn func(ctx context.Context, tx Repository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(ctx, &memoryTx{r: r})
}

// memoryTx is the transaction-bound view handed to InScheduleTx callbacks.
// The parent's mutex is already held, so it reaches the locked variants
// directly.
type memoryTx struct {
	r *MemoryRepository
}

func (t *memoryTx) GetAccountByID(_ context.Context, id int64) (*account.Account, error) {
	return t.r.getAccountLocked(id)
}

func (t *memoryTx) GetServiceOffering(_ context.Context, id int64) (*ServiceOffering, error) {
	return t.r.getServiceLocked(id)
}

func (t *memoryTx) ListProviderServices(_ context.Context, providerID int64) ([]ServiceOffering, error) {
	var result []ServiceOffering
	for _, s := range t.r.services {
		if s.ProviderID == providerID {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (t *memoryTx) AddServiceOffering(_ context.Context, s ServiceOffering) (*ServiceOffering, error) {
	s.ID = t.r.allocID()
	t.r.services[s.ID] = s
	return &s, nil
}

func (t *memoryTx) DeleteServiceOffering(_ context.Context, id int64) error {
	if _, ok := t.r.services[id]; !ok {
		return ErrServiceNotFound
	}
	delete(t.r.services, id)
	return nil
}

func (t *memoryTx) GetAvailability(_ context.Context, id int64) (*Availability, error) {
	a, ok := t.r.availability[id]
	if !ok {
		return nil, ErrAvailabilityNotFound
	}
	return &a, nil
}

func (t *memoryTx) ListAvailability(_ context.Context, providerID int64, day time.Time) ([]Availability, error) {
	return t.r.listAvailabilityLocked(providerID, day), nil
}

func (t *memoryTx) ListProviderAvailability(_ context.Context, providerID int64) ([]Availability, error) {
	var result []Availability
	for _, a := range t.r.availability {
		if a.ProviderID == providerID {
			result = append(result, a)
		}
	}
	sortByStart(result, func(a Availability) time.Time { return a.StartTime })
	return result, nil
}

func (t *memoryTx) AddAvailability(_ context.Context, a Availability) (*Availability, error) {
	a.ID = t.r.allocID()
	t.r.availability[a.ID] = a
	return &a, nil
}

func (t *memoryTx) DeleteAvailability(_ context.Context, id int64) error {
	if _, ok := t.r.availability[id]; !ok {
		return ErrAvailabilityNotFound
	}
	delete(t.r.availability, id)
	return nil
}

func (t *memoryTx) GetBooking(_ context.Context, id int64) (*Booking, error) {
	return t.r.getBookingLocked(id)
}

func (t *memoryTx) ListBookings(_ context.Context, providerID int64, day time.Time) ([]Booking, error) {
	return t.r.listBookingsLocked(providerID, day), nil
}

func (t *memoryTx) ListCustomerBookings(_ context.Context, customerID int64) ([]BookingDetail, error) {
	var result []BookingDetail
	for _, b := range t.r.bookings {
		if b.CustomerID == customerID {
			result = append(result, BookingDetail{Booking: b})
		}
	}
	return result, nil
}

func (t *memoryTx) InsertBooking(_ context.Context, b Booking) (*Booking, error) {
	return t.r.insertBookingLocked(b)
}

func (t *memoryTx) UpdateBookingTime(_ context.Context, id int64, start, end time.Time) (*Booking, error) {
	return t.r.updateBookingTimeLocked(id, start, end)
}

func (t *memoryTx) DeleteBooking(_ context.Context, id int64) error {
	if _, ok := t.r.bookings[id]; !ok {
		return ErrBookingNotFound
	}
	delete(t.r.bookings, id)
	return nil
}

func (t *memoryTx) InScheduleTx(ctx context.Context, _ int64, _ time.Time, fn func(ctx context.Context, tx Repository) error) error {
	return fn(ctx, t)
}

func sortByStart[T any](items []T, start func(T) time.Time) {
	sort.Slice(items, func(i, j int) bool {
		return start(items[i]).Before(start(items[j]))
	})
}
