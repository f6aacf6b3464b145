// Command simulate hammers one provider's schedule with racing booking
// proposals and verifies that every contested slot is won exactly once.
// It needs a running api-server and a seeded database.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/shearbook/barbershop-scheduling/internal/db"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

type simConfig struct {
	apiBaseURL string
	workers    int
	rounds     int
	dsn        string
}

type fixture struct {
	providerID  int64
	serviceID   int64
	customerIDs []int64
	day         time.Time
}

type outcome struct {
	confirmed int
	conflicts int
	errors    int
	latencies []time.Duration
	mu        sync.Mutex
}

func (o *outcome) record(status int, latency time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.latencies = append(o.latencies, latency)
	switch status {
	case http.StatusCreated:
		o.confirmed++
	case http.StatusConflict:
		o.conflicts++
	default:
		o.errors++
	}
}

func main() {
	cfg := simConfig{}
	flag.StringVar(&cfg.apiBaseURL, "api", "http://127.0.0.1:8080", "api-server base URL")
	flag.IntVar(&cfg.workers, "workers", 20, "concurrent proposals per contested slot")
	flag.IntVar(&cfg.rounds, "rounds", 16, "number of contested slots")
	flag.Parse()

	cfg.dsn = os.Getenv("POSTGRES_DSN")
	if cfg.dsn == "" {
		log.Fatal().Msg("POSTGRES_DSN is required")
	}

	fix, err := loadFixture(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("load fixture data")
	}

	log.Info().
		Int64("provider_id", fix.providerID).
		Int64("service_id", fix.serviceID).
		Int("customers", len(fix.customerIDs)).
		Msg("simulation starting")

	client := &http.Client{Timeout: 10 * time.Second}
	total := outcome{}
	doubleBooked := 0

	for round := 0; round < cfg.rounds; round++ {
		// Each round fights over a fresh half-hour slot so rounds are
		// independent: 09:00, 09:30, 10:00, ...
		start := fmt.Sprintf("%02d:%02d", 9+round/2, (round%2)*30)

		won := runRound(client, cfg, fix, start, &total)
		if won != 1 {
			doubleBooked++
			log.Error().Str("start", start).Int("confirmed", won).Msg("slot not won exactly once")
		}
	}

	report(&total, cfg, doubleBooked)
	if doubleBooked > 0 {
		os.Exit(1)
	}
}

func runRound(client *http.Client, cfg simConfig, fix fixture, start string, total *outcome) int {
	var wg sync.WaitGroup
	confirmed := 0
	var mu sync.Mutex

	for w := 0; w < cfg.workers; w++ {
		customerID := fix.customerIDs[w%len(fix.customerIDs)]

		wg.Add(1)
		go func() {
			defer wg.Done()

			status := propose(client, cfg.apiBaseURL, fix, customerID, start, total)
			if status == http.StatusCreated {
				mu.Lock()
				confirmed++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return confirmed
}

func propose(client *http.Client, baseURL string, fix fixture, customerID int64, start string, total *outcome) int {
	body, _ := json.Marshal(map[string]any{
		"provider_id": fix.providerID,
		"service_id":  fix.serviceID,
		"customer_id": customerID,
		"date":        fix.day.Format("2006-01-02"),
		"start":       start,
	})

	began := time.Now()
	resp, err := client.Post(baseURL+"/bookings", "application/json", bytes.NewReader(body))
	if err != nil {
		total.record(0, time.Since(began))
		return 0
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	total.record(resp.StatusCode, time.Since(began))
	return resp.StatusCode
}

// loadFixture picks one seeded provider with a service and availability
// tomorrow, plus a pool of customers to book as.
func loadFixture(cfg simConfig) (fixture, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, cfg.dsn)
	if err != nil {
		return fixture{}, err
	}
	defer pool.Close()

	fix := fixture{
		day: time.Now().AddDate(0, 0, 1),
	}

	// The round schedule assumes half-hour slots, so pick a 30-minute
	// service.
	err = pool.QueryRow(ctx, `
		SELECT s.provider_id, s.id
		FROM services s
		JOIN availability a ON a.provider_id = s.provider_id
		WHERE a.day = $1 AND s.duration_minutes = 30
		ORDER BY s.id
		LIMIT 1
	`, time.Date(fix.day.Year(), fix.day.Month(), fix.day.Day(), 0, 0, 0, 0, time.UTC)).Scan(&fix.providerID, &fix.serviceID)
	if err != nil {
		return fixture{}, fmt.Errorf("pick provider with availability tomorrow (run cmd/seed first): %w", err)
	}

	rows, err := pool.Query(ctx, `SELECT id FROM accounts WHERE kind = 'customer' LIMIT 100`)
	if err != nil {
		return fixture{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fixture{}, err
		}
		fix.customerIDs = append(fix.customerIDs, id)
	}
	if err := rows.Err(); err != nil {
		return fixture{}, err
	}
	if len(fix.customerIDs) == 0 {
		return fixture{}, fmt.Errorf("no customer accounts found (run cmd/seed first)")
	}

	return fix, nil
}

func report(total *outcome, cfg simConfig, doubleBooked int) {
	total.mu.Lock()
	defer total.mu.Unlock()

	sort.Slice(total.latencies, func(i, j int) bool {
		return total.latencies[i] < total.latencies[j]
	})

	var sum time.Duration
	for _, l := range total.latencies {
		sum += l
	}

	n := len(total.latencies)
	var avg, p95 time.Duration
	if n > 0 {
		avg = sum / time.Duration(n)
		idx := n * 95 / 100
		if idx >= n {
			idx = n - 1
		}
		p95 = total.latencies[idx]
	}

	log.Info().
		Int("requests", n).
		Int("confirmed", total.confirmed).
		Int("conflicts", total.conflicts).
		Int("errors", total.errors).
		Dur("avg_latency", avg).
		Dur("p95_latency", p95).
		Msg("simulation totals")

	if doubleBooked == 0 {
		log.Info().Int("rounds", cfg.rounds).Msg("every contested slot was won exactly once")
	} else {
		log.Error().Int("bad_rounds", doubleBooked).Msg("double booking detected")
	}
}
