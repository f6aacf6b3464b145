package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shearbook/barbershop-scheduling/internal/account"
	"github.com/shearbook/barbershop-scheduling/internal/api"
	"github.com/shearbook/barbershop-scheduling/internal/booking"
)

type passLocker struct{}

func (passLocker) WithScheduleLock(ctx context.Context, _ int64, _ time.Time, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type testEnv struct {
	router     http.Handler
	providerID int64
	customerID int64
	serviceID  int64
	date       string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	repo := booking.NewMemoryRepository()
	ctx := context.Background()

	provider, err := repo.CreateAccount(ctx, account.Account{
		Kind: account.KindProvider, FirstName: "Sam", LastName: "Shears", Email: "sam@clipjoint.test",
	})
	require.NoError(t, err)

	customer, err := repo.CreateAccount(ctx, account.Account{
		Kind: account.KindCustomer, FirstName: "Casey", LastName: "Customer", Email: "casey@example.test",
	})
	require.NoError(t, err)

	svc, err := repo.AddServiceOffering(ctx, booking.ServiceOffering{
		ProviderID: provider.ID, Name: "Haircut", DurationMinutes: 30, PriceCents: 2500,
	})
	require.NoError(t, err)

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	_, err = repo.AddAvailability(ctx, booking.Availability{
		ProviderID: provider.ID,
		Day:        day,
		StartTime:  day.Add(9 * time.Hour),
		EndTime:    day.Add(17 * time.Hour),
	})
	require.NoError(t, err)

	sched := booking.NewScheduler(repo, passLocker{}, zerolog.Nop())

	router := api.NewRouter(api.RouterConfig{
		Scheduler: sched,
		Log:       zerolog.Nop(),
	})

	return testEnv{
		router:     router,
		providerID: provider.ID,
		customerID: customer.ID,
		serviceID:  svc.ID,
		date:       "2026-09-01",
	}
}

func (e testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e testEnv) book(t *testing.T, start string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, http.MethodPost, "/bookings", map[string]any{
		"provider_id": e.providerID,
		"service_id":  e.serviceID,
		"customer_id": e.customerID,
		"date":        e.date,
		"start":       start,
	})
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestProposeBookingEndpoint(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.book(t, "10:00")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		resp := decodeBody[api.BookingResponse](t, rec)
		assert.Equal(t, "confirmed", resp.Status)
		assert.Equal(t, "Casey Customer", resp.CustomerName)
		assert.Equal(t, "10:00", resp.Start)
		assert.Equal(t, "10:30", resp.End)
		assert.Equal(t, "2026-09-01", resp.Date)
	})

	t.Run("conflict", func(t *testing.T) {
		env := newTestEnv(t)

		require.Equal(t, http.StatusCreated, env.book(t, "10:00").Code)

		rec := env.book(t, "10:15")
		require.Equal(t, http.StatusConflict, rec.Code)
		resp := decodeBody[api.ErrorResponse](t, rec)
		assert.Equal(t, "booking_conflict", resp.Error)
	})

	t.Run("outside availability", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.book(t, "16:45")
		require.Equal(t, http.StatusConflict, rec.Code)
		resp := decodeBody[api.ErrorResponse](t, rec)
		assert.Equal(t, "outside_availability", resp.Error)
	})

	t.Run("back to back accepted", func(t *testing.T) {
		env := newTestEnv(t)

		require.Equal(t, http.StatusCreated, env.book(t, "10:00").Code)
		assert.Equal(t, http.StatusCreated, env.book(t, "10:30").Code)
	})

	t.Run("malformed clock", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.book(t, "10am")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeBody[api.ErrorResponse](t, rec)
		assert.Equal(t, "validation_error", resp.Error)
	})

	t.Run("missing fields", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodPost, "/bookings", map[string]any{"provider_id": env.providerID})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown service", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodPost, "/bookings", map[string]any{
			"provider_id": env.providerID,
			"service_id":  9999,
			"customer_id": env.customerID,
			"date":        env.date,
			"start":       "10:00",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTimeChangeEndpoint(t *testing.T) {
	env := newTestEnv(t)

	created := decodeBody[api.BookingResponse](t, env.book(t, "10:00"))

	t.Run("moved", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, fmt.Sprintf("/bookings/%d/time", created.ID), map[string]any{
			"requester_id": env.customerID,
			"start":        "14:00",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		resp := decodeBody[api.BookingResponse](t, rec)
		assert.Equal(t, "14:00", resp.Start)
		assert.Equal(t, "14:30", resp.End)
	})

	t.Run("wrong requester", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, fmt.Sprintf("/bookings/%d/time", created.ID), map[string]any{
			"requester_id": env.providerID,
			"start":        "15:00",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown booking", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/bookings/9999/time", map[string]any{
			"requester_id": env.customerID,
			"start":        "15:00",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCancelBookingEndpoint(t *testing.T) {
	env := newTestEnv(t)

	created := decodeBody[api.BookingResponse](t, env.book(t, "10:00"))

	rec := env.do(t, http.MethodDelete, fmt.Sprintf("/bookings/%d", created.ID), map[string]any{
		"requester_id": env.providerID,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/bookings/%d", created.ID), map[string]any{
		"requester_id": env.customerID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// The slot is free again.
	assert.Equal(t, http.StatusCreated, env.book(t, "10:00").Code)
}

func TestCalendarEndpoint(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusCreated, env.book(t, "10:00").Code)

	rec := env.do(t, http.MethodGet, fmt.Sprintf("/providers/%d/calendar?date=%s", env.providerID, env.date), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	events := decodeBody[[]api.CalendarEventResponse](t, rec)
	require.Len(t, events, 2)

	assert.Equal(t, "Available", events[0].Title)
	assert.Equal(t, "available", events[0].Tag)
	assert.Equal(t, "2026-09-01T09:00:00", events[0].Start)
	assert.Equal(t, "2026-09-01T17:00:00", events[0].End)

	assert.Equal(t, "Casey Customer", events[1].Title)
	assert.Equal(t, "booked", events[1].Tag)
	assert.Equal(t, "2026-09-01T10:00:00", events[1].Start)
}

func TestCustomerAgendaEndpoint(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusCreated, env.book(t, "10:00").Code)

	rec := env.do(t, http.MethodGet, fmt.Sprintf("/customers/%d/bookings", env.customerID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	agenda := decodeBody[[]api.AgendaItemResponse](t, rec)
	require.Len(t, agenda, 1)
	assert.Equal(t, "Sam Shears", agenda[0].ProviderName)
	assert.Equal(t, "Haircut", agenda[0].ServiceName)
}

func TestAvailabilityEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/availability", map[string]any{
		"provider_id": env.providerID,
		"date":        "2026-09-02",
		"start":       "09:00",
		"end":         "12:00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	added := decodeBody[api.AvailabilityResponse](t, rec)

	rec = env.do(t, http.MethodPost, "/availability", map[string]any{
		"provider_id": env.providerID,
		"date":        "2026-09-02",
		"start":       "12:00",
		"end":         "09:00",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/availability/%d", added.ID), map[string]any{
		"requester_id": env.customerID,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/availability/%d", added.ID), map[string]any{
		"requester_id": env.providerID,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServiceEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/services", map[string]any{
		"provider_id":      env.providerID,
		"name":             "Beard Trim",
		"duration_minutes": 15,
		"price_cents":      1200,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/services", map[string]any{
		"provider_id":      env.providerID,
		"name":             "Broken",
		"duration_minutes": 0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/providers/%d/services", env.providerID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	services := decodeBody[[]api.ServiceResponse](t, rec)
	assert.Len(t, services, 2)

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/services/%d", services[1].ID), map[string]any{
		"requester_id": env.providerID,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}
