// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - Catalog (Tandoor) request volume and latency
// - Solver runs and selection outcomes
// - Cache efficiency
// - Circuit breaker state
// - API endpoint latency (serve mode)

var (
	// Catalog Metrics
	CatalogRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Total number of requests sent to the recipe catalog",
		},
		[]string{"endpoint", "status_code"},
	)

	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_request_duration_seconds",
			Help:    "Duration of recipe catalog requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CatalogRateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_rate_limit_hits_total",
			Help: "Total number of HTTP 429 responses from the recipe catalog",
		},
	)

	// Selection Metrics
	SolverDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "solver_duration_seconds",
			Help:    "Time spent in the solver backend per selection",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"backend", "status"},
	)

	SelectionRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selection_runs_total",
			Help: "Total number of selection runs by outcome",
		},
		[]string{"outcome"}, // selected, infeasible, error
	)

	MenuPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "menu_pool_size",
			Help: "Number of recipes in the most recent candidate pool",
		},
	)

	MealPlansWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meal_plans_written_total",
			Help: "Total number of meal plan entries created or removed",
		},
		[]string{"action"}, // created, removed
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "memory", "badger"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry or clear)",
		},
		[]string{"cache_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordCatalogRequest records one catalog round trip. A zero status means
// the request failed before a response arrived.
func RecordCatalogRequest(endpoint string, status int, duration time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	CatalogRequestsTotal.WithLabelValues(endpoint, code).Inc()
	CatalogRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	if status == 429 {
		CatalogRateLimitHits.Inc()
	}
}

// RecordMealPlans counts meal plan entries created or removed.
func RecordMealPlans(action string, n int) {
	if n > 0 {
		MealPlansWritten.WithLabelValues(action).Add(float64(n))
	}
}
