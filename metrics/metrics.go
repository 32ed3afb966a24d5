// Package metrics provides Prometheus metrics for the HTTP server and the plan
// catalog. HTTP metrics:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//
// Domain metrics cover matching, favorites, catalog mutations, sessions and
// the integrity audit.
//
// All metrics are registered with the Prometheus default registry during
// package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen in last ~5 minutes)",
		},
	)

	PlansMatched = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "plans_matched",
			Help:    "Number of plans returned by a filtered search",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
	)

	FavoriteToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "favorite_toggles_total",
			Help: "Favorite toggles by resulting state",
		},
		[]string{"state"},
	)

	CatalogMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_mutations_total",
			Help: "Admin catalog mutations by entity and operation",
		},
		[]string{"entity", "op"},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions",
			Help: "Number of open consumer sessions",
		},
	)

	IntegrityIssues = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_integrity_issues",
			Help: "Issues found by the last catalog integrity audit",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(PlansMatched)
	prometheus.MustRegister(FavoriteToggles)
	prometheus.MustRegister(CatalogMutations)
	prometheus.MustRegister(ActiveSessions)
	prometheus.MustRegister(IntegrityIssues)
}

// RecordMutation counts one admin mutation
func RecordMutation(entity, op string) {
	CatalogMutations.WithLabelValues(entity, op).Inc()
}

// RecordFavoriteToggle counts one toggle by its resulting membership
func RecordFavoriteToggle(favorite bool) {
	state := "removed"
	if favorite {
		state = "added"
	}
	FavoriteToggles.WithLabelValues(state).Inc()
}
