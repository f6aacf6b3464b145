package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shearbook/barbershop-scheduling/internal/booking"
)

type RouterConfig struct {
	Scheduler *booking.Scheduler
	PgPool    *pgxpool.Pool
	Redis     *redis.Client
	Env       string
	Version   string
	Log       zerolog.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Scheduling
	r.Post("/bookings", proposeBookingHandler(cfg.Scheduler))
	r.Patch("/bookings/{id}/time", timeChangeHandler(cfg.Scheduler))
	r.Delete("/bookings/{id}", cancelBookingHandler(cfg.Scheduler))

	// Read side
	r.Get("/providers/{id}/calendar", providerCalendarHandler(cfg.Scheduler))
	r.Get("/customers/{id}/bookings", customerAgendaHandler(cfg.Scheduler))

	// Availability
	r.Post("/availability", publishAvailabilityHandler(cfg.Scheduler))
	r.Delete("/availability/{id}", retractAvailabilityHandler(cfg.Scheduler))

	// Service catalogue
	r.Post("/services", addServiceHandler(cfg.Scheduler))
	r.Get("/providers/{id}/services", listServicesHandler(cfg.Scheduler))
	r.Delete("/services/{id}", removeServiceHandler(cfg.Scheduler))

	return r
}
