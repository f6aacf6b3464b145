package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Account deletion cascades to everything the account owns: a provider
// takes its services, availability and bookings with it, a customer takes
// its bookings. That cascade is a contract, not cleanup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id          BIGSERIAL PRIMARY KEY,
		kind        TEXT NOT NULL CHECK (kind IN ('provider', 'customer')),
		first_name  TEXT NOT NULL,
		last_name   TEXT NOT NULL,
		email       TEXT NOT NULL UNIQUE,
		created_at  TIMESTAMP NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS services (
		id               BIGSERIAL PRIMARY KEY,
		provider_id      BIGINT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		name             TEXT NOT NULL,
		duration_minutes INT NOT NULL CHECK (duration_minutes > 0),
		price_cents      BIGINT NOT NULL CHECK (price_cents >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS availability (
		id          BIGSERIAL PRIMARY KEY,
		provider_id BIGINT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		day         DATE NOT NULL,
		start_time  TIMESTAMP NOT NULL,
		end_time    TIMESTAMP NOT NULL,
		CHECK (start_time < end_time)
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id            BIGSERIAL PRIMARY KEY,
		provider_id   BIGINT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		customer_id   BIGINT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		service_id    BIGINT NOT NULL REFERENCES services(id) ON DELETE CASCADE,
		customer_name TEXT NOT NULL,
		day           DATE NOT NULL,
		start_time    TIMESTAMP NOT NULL,
		end_time      TIMESTAMP NOT NULL,
		CHECK (start_time < end_time)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_availability_provider_day ON availability (provider_id, day)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_provider_day ON bookings (provider_id, day)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_customer ON bookings (customer_id)`,
}

// EnsureSchema creates the tables and indexes if they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
