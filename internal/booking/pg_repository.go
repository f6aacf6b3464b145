package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shearbook/barbershop-scheduling/internal/account"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so the same
// query methods serve plain reads and the transactional commit path.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgRepository struct {
	pool *pgxpool.Pool
	q    querier
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool, q: pool}
}

// Helpers

func scanService(row pgx.Row) (*ServiceOffering, error) {
	var s ServiceOffering

	err := row.Scan(
		&s.ID,
		&s.ProviderID,
		&s.Name,
		&s.DurationMinutes,
		&s.PriceCents,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	return &s, nil
}

func scanAvailability(row pgx.Row) (*Availability, error) {
	var a Availability

	err := row.Scan(
		&a.ID,
		&a.ProviderID,
		&a.Day,
		&a.StartTime,
		&a.EndTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAvailabilityNotFound
		}
		return nil, err
	}

	return &a, nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking

	err := row.Scan(
		&b.ID,
		&b.ProviderID,
		&b.CustomerID,
		&b.ServiceID,
		&b.CustomerName,
		&b.Day,
		&b.StartTime,
		&b.EndTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &b, nil
}

// Accounts

func (r *PgRepository) GetAccountByID(ctx context.Context, id int64) (*account.Account, error) {
	var a account.Account

	row := r.q.QueryRow(ctx, `
		SELECT id, kind, first_name, last_name, email, created_at
		FROM accounts
		WHERE id = $1
	`, id)

	err := row.Scan(&a.ID, &a.Kind, &a.FirstName, &a.LastName, &a.Email, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound
		}
		return nil, err
	}

	return &a, nil
}

// Service catalogue

func (r *PgRepository) GetServiceOffering(ctx context.Context, id int64) (*ServiceOffering, error) {
	row := r.q.QueryRow(ctx, `
		SELECT id, provider_id, name, duration_minutes, price_cents
		FROM services
		WHERE id = $1
	`, id)
	return scanService(row)
}

func (r *PgRepository) ListProviderServices(ctx context.Context, providerID int64) ([]ServiceOffering, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, provider_id, name, duration_minutes, price_cents
		FROM services
		WHERE provider_id = $1
		ORDER BY id
	`, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ServiceOffering
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}

	return result, rows.Err()
}

func (r *PgRepository) AddServiceOffering(ctx context.Context, s ServiceOffering) (*ServiceOffering, error) {
	row := r.q.QueryRow(ctx, `
		INSERT INTO services (provider_id, name, duration_minutes, price_cents)
		VALUES ($1, $2, $3, $4)
		RETURNING id, provider_id, name, duration_minutes, price_cents
	`, s.ProviderID, s.Name, s.DurationMinutes, s.PriceCents)
	return scanService(row)
}

func (r *PgRepository) DeleteServiceOffering(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrServiceNotFound
	}
	return nil
}

// Availability store

func (r *PgRepository) GetAvailability(ctx context.Context, id int64) (*Availability, error) {
	row := r.q.QueryRow(ctx, `
		SELECT id, provider_id, day, start_time, end_time
		FROM availability
		WHERE id = $1
	`, id)
	return scanAvailability(row)
}

func (r *PgRepository) ListAvailability(ctx context.Context, providerID int64, day time.Time) ([]Availability, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, provider_id, day, start_time, end_time
		FROM availability
		WHERE provider_id = $1 AND day = $2
		ORDER BY start_time
	`, providerID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAvailability(rows)
}

func (r *PgRepository) ListProviderAvailability(ctx context.Context, providerID int64) ([]Availability, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, provider_id, day, start_time, end_time
		FROM availability
		WHERE provider_id = $1
		ORDER BY start_time
	`, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAvailability(rows)
}

func collectAvailability(rows pgx.Rows) ([]Availability, error) {
	var result []Availability
	for rows.Next() {
		a, err := scanAvailability(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

func (r *PgRepository) AddAvailability(ctx context.Context, a Availability) (*Availability, error) {
	row := r.q.QueryRow(ctx, `
		INSERT INTO availability (provider_id, day, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, provider_id, day, start_time, end_time
	`, a.ProviderID, a.Day, a.StartTime, a.EndTime)
	return scanAvailability(row)
}

func (r *PgRepository) DeleteAvailability(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM availability WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAvailabilityNotFound
	}
	return nil
}

// Booking store

func (r *PgRepository) GetBooking(ctx context.Context, id int64) (*Booking, error) {
	row := r.q.QueryRow(ctx, `
		SELECT id, provider_id, customer_id, service_id, customer_name, day, start_time, end_time
		FROM bookings
		WHERE id = $1
	`, id)
	return scanBooking(row)
}

func (r *PgRepository) ListBookings(ctx context.Context, providerID int64, day time.Time) ([]Booking, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, provider_id, customer_id, service_id, customer_name, day, start_time, end_time
		FROM bookings
		WHERE provider_id = $1 AND day = $2
		ORDER BY start_time
	`, providerID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}

	return result, rows.Err()
}

func (r *PgRepository) ListCustomerBookings(ctx context.Context, customerID int64) ([]BookingDetail, error) {
	rows, err := r.q.Query(ctx, `
		SELECT b.id, b.provider_id, b.customer_id, b.service_id, b.customer_name,
		       b.day, b.start_time, b.end_time,
		       p.first_name || ' ' || p.last_name AS provider_name,
		       s.name AS service_name
		FROM bookings b
		JOIN accounts p ON p.id = b.provider_id
		JOIN services s ON s.id = b.service_id
		WHERE b.customer_id = $1
		ORDER BY b.day, b.start_time
	`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []BookingDetail
	for rows.Next() {
		var d BookingDetail
		err := rows.Scan(
			&d.ID,
			&d.ProviderID,
			&d.CustomerID,
			&d.ServiceID,
			&d.CustomerName,
			&d.Day,
			&d.StartTime,
			&d.EndTime,
			&d.ProviderName,
			&d.ServiceName,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}

	return result, rows.Err()
}

func (r *PgRepository) InsertBooking(ctx context.Context, b Booking) (*Booking, error) {
	row := r.q.QueryRow(ctx, `
		INSERT INTO bookings (provider_id, customer_id, service_id, customer_name, day, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, provider_id, customer_id, service_id, customer_name, day, start_time, end_time
	`, b.ProviderID, b.CustomerID, b.ServiceID, b.CustomerName, b.Day, b.StartTime, b.EndTime)
	return scanBooking(row)
}

func (r *PgRepository) UpdateBookingTime(ctx context.Context, id int64, start, end time.Time) (*Booking, error) {
	row := r.q.QueryRow(ctx, `
		UPDATE bookings
		SET start_time = $2,
		    end_time = $3
		WHERE id = $1
		RETURNING id, provider_id, customer_id, service_id, customer_name, day, start_time, end_time
	`, id, start, end)
	return scanBooking(row)
}

func (r *PgRepository) DeleteBooking(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// InScheduleTx serializes all writers for one (provider, day) schedule on
// an advisory transaction lock, so the conflict re-check inside fn sees
// every booking a racing request committed before us.
func (r *PgRepository) InScheduleTx(ctx context.Context, providerID int64, day time.Time, fn func(ctx context.Context, tx Repository) error) error {
	if r.pool == nil {
		// Already transaction-bound; run in the current scope.
		return fn(ctx, r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin schedule tx: %v", ErrStorage, err)
	}
	defer tx.Rollback(ctx)

	key := fmt.Sprintf("schedule:%d:%s", providerID, day.Format("2006-01-02"))
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return fmt.Errorf("%w: acquire schedule tx lock: %v", ErrStorage, err)
	}

	if err := fn(ctx, &PgRepository{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit schedule tx: %v", ErrStorage, err)
	}

	return nil
}
