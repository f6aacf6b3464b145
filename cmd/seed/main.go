package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/shearbook/barbershop-scheduling/internal/db"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

func main() {
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal().Msg("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	if err := db.EnsureSchema(context.Background(), pool); err != nil {
		log.Fatal().Err(err).Msg("ensure schema")
	}

	gofakeit.Seed(time.Now().UnixNano())

	providerIDs, err := seedProviders(context.Background(), pool, 25)
	if err != nil {
		log.Fatal().Err(err).Msg("seed providers")
	}
	if err := seedCustomers(context.Background(), pool, 500); err != nil {
		log.Fatal().Err(err).Msg("seed customers")
	}
	if err := seedCatalogue(context.Background(), pool, providerIDs); err != nil {
		log.Fatal().Err(err).Msg("seed catalogue")
	}
	if err := seedAvailability(context.Background(), pool, providerIDs); err != nil {
		log.Fatal().Err(err).Msg("seed availability")
	}

	log.Info().Msg("seed complete")
}

func seedProviders(ctx context.Context, pool *pgxpool.Pool, count int) ([]int64, error) {
	log.Info().Int("count", count).Msg("seeding providers")

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO accounts (kind, first_name, last_name, email)
			VALUES ('provider', $1, $2, $3)
			RETURNING id
		`, gofakeit.FirstName(), gofakeit.LastName(), fmt.Sprintf("barber%d@%s", i, gofakeit.DomainName())).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, tx.Commit(ctx)
}

func seedCustomers(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Info().Int("count", count).Msg("seeding customers")

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		_, err := tx.Exec(ctx, `
			INSERT INTO accounts (kind, first_name, last_name, email)
			VALUES ('customer', $1, $2, $3)
		`, gofakeit.FirstName(), gofakeit.LastName(), fmt.Sprintf("customer%d@%s", i, gofakeit.DomainName()))
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func seedCatalogue(ctx context.Context, pool *pgxpool.Pool, providerIDs []int64) error {
	log.Info().Msg("seeding service catalogue")

	services := []struct {
		name     string
		duration int
		price    int64
	}{
		{"Haircut", 30, 2500},
		{"Beard Trim", 15, 1200},
		{"Hot Towel Shave", 45, 3500},
		{"Buzz Cut", 20, 1800},
		{"Cut & Style", 60, 5000},
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, providerID := range providerIDs {
		n := 2 + rand.Intn(len(services)-1)
		for _, s := range services[:n] {
			_, err := tx.Exec(ctx, `
				INSERT INTO services (provider_id, name, duration_minutes, price_cents)
				VALUES ($1, $2, $3, $4)
			`, providerID, s.name, s.duration, s.price)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

// seedAvailability opens a 09:00-17:00 window for each provider for each
// of the next 7 days.
func seedAvailability(ctx context.Context, pool *pgxpool.Pool, providerIDs []int64) error {
	log.Info().Msg("seeding availability")

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	today := time.Now()
	for _, providerID := range providerIDs {
		for d := 0; d < 7; d++ {
			day := time.Date(today.Year(), today.Month(), today.Day()+d, 0, 0, 0, 0, time.UTC)
			start := day.Add(9 * time.Hour)
			end := day.Add(17 * time.Hour)

			_, err := tx.Exec(ctx, `
				INSERT INTO availability (provider_id, day, start_time, end_time)
				VALUES ($1, $2, $3, $4)
			`, providerID, day, start, end)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}
