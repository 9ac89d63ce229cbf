package routes

import (
	"net/http"
	"time"

	"river-transit/ticketdesk/internal/api"
	"river-transit/ticketdesk/internal/logging"
	"river-transit/ticketdesk/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options holds the router settings that do not live in Dependencies.
type Options struct {
	UpSince        time.Time
	DB             *sqlx.DB
	Gatherer       prometheus.Gatherer
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func RegisterRoutes(deps *api.Dependencies, opts Options) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	logging.Info("Router initialized with metrics and logging middleware")

	r.Get("/healthCheck", api.HealthCheckHandler(opts.DB, deps.Redis, opts.UpSince))
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	limiter := middleware.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst, "127.0.0.1")
	RegisterAPIRoutes(r, deps, limiter)

	return r
}
