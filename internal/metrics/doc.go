// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

/*
Package metrics provides Prometheus metrics for menu generation.

All collectors are registered on the default registry through promauto and
exposed by serve mode at /metrics:

	curl http://localhost:8080/metrics

# Available Metrics

Catalog Metrics:
  - catalog_requests_total: Requests sent to Tandoor (counter)
    Labels: endpoint, status_code ("error" when no response arrived)
  - catalog_request_duration_seconds: Round-trip latency (histogram)
    Labels: endpoint
  - catalog_rate_limit_hits_total: HTTP 429 responses (counter)

Selection Metrics:
  - solver_duration_seconds: Time spent in the solver backend (histogram)
    Labels: backend (bnb, sat), status (optimal, feasible, infeasible, unknown)
  - selection_runs_total: Selection outcomes (counter)
    Labels: outcome (selected, infeasible, error)
  - menu_pool_size: Candidate pool size of the last run (gauge)
  - meal_plans_written_total: Meal plan entries (counter)
    Labels: action (created, removed)

Cache Metrics:
  - cache_hits_total, cache_misses_total, cache_evictions_total (counters)
  - cache_entries (gauge)
    Labels: cache_type (memory, badger)

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: Labels name, result (success, failure, rejected)
  - circuit_breaker_consecutive_failures (gauge)
  - circuit_breaker_state_transitions_total: Labels name, from_state, to_state

API Metrics (serve mode):
  - api_requests_total: Labels method, endpoint, status_code
  - api_request_duration_seconds: Labels method, endpoint
  - api_active_requests (gauge)
*/
package metrics
