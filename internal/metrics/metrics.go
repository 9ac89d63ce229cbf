package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the ticket desk
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Business Metrics
	SalesAdmittedTotal     prometheus.Counter
	SalesRejectedTotal     *prometheus.CounterVec
	SeatsSoldTotal         prometheus.Counter
	SeatsReleasedTotal     *prometheus.CounterVec
	UnavailableVesselSales prometheus.Counter
	AvailabilityChecks     *prometheus.CounterVec
	LoadDriftTotal         prometheus.Counter
	JobDuration            *prometheus.HistogramVec
}

// NewMetricsRegistry registers every metric on reg. Pass
// prometheus.DefaultRegisterer in the server and a fresh registry in tests.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ticketdesk_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ticketdesk_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ticketdesk_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ticketdesk_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ticketdesk_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Business Metrics
		SalesAdmittedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ticketdesk_sales_admitted_total",
				Help: "Total sales committed by the admission gate",
			},
		),
		SalesRejectedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ticketdesk_sales_rejected_total",
				Help: "Total sales rejected by reason",
			},
			[]string{"reason"},
		),
		SeatsSoldTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ticketdesk_seats_sold_total",
				Help: "Total passenger seats sold",
			},
		),
		SeatsReleasedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ticketdesk_seats_released_total",
				Help: "Total passenger seats released by void or refund",
			},
			[]string{"transition"},
		),
		UnavailableVesselSales: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ticketdesk_unavailable_vessel_sales_total",
				Help: "Sales admitted on vessels that are not ACTIVE",
			},
		),
		AvailabilityChecks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ticketdesk_availability_checks_total",
				Help: "Availability checks by outcome",
			},
			[]string{"outcome"},
		),
		LoadDriftTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ticketdesk_departure_load_drift_total",
				Help: "Departure load rows repaired by the reconcile job",
			},
		),
		JobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ticketdesk_job_duration_seconds",
				Help:    "Background job execution time in seconds",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120},
			},
			[]string{"job_name"},
		),
	}
}
