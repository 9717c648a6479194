// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode string
		duration   time.Duration
	}{
		{"menu created", "POST", "/api/v1/menus", "200", 150 * time.Millisecond},
		{"infeasible menu", "POST", "/api/v1/menus", "422", 30 * time.Millisecond},
		{"liveness", "GET", "/api/v1/health/live", "200", time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.statusCode))
			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, tt.duration)
			after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.statusCode))
			if after-before != 1 {
				t.Errorf("api_requests_total increased by %v, want 1", after-before)
			}
		})
	}
}

func TestRecordCatalogRequest(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantCode string
		limited  bool
	}{
		{"ok", 200, "200", false},
		{"not found", 404, "404", false},
		{"rate limited", 429, "429", true},
		{"transport error", 0, "error", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := CatalogRequestsTotal.WithLabelValues("recipe", tt.wantCode)
			before := testutil.ToFloat64(counter)
			limitedBefore := testutil.ToFloat64(CatalogRateLimitHits)

			RecordCatalogRequest("recipe", tt.status, 20*time.Millisecond)

			if got := testutil.ToFloat64(counter) - before; got != 1 {
				t.Errorf("catalog_requests_total{status_code=%q} increased by %v, want 1", tt.wantCode, got)
			}
			limitedDelta := testutil.ToFloat64(CatalogRateLimitHits) - limitedBefore
			if tt.limited != (limitedDelta == 1) {
				t.Errorf("rate limit counter delta = %v, limited = %v", limitedDelta, tt.limited)
			}
		})
	}
}

func TestSolverDurationHistogram(t *testing.T) {
	SolverDuration.WithLabelValues("bnb", "optimal").Observe(0.02)
	SolverDuration.WithLabelValues("bnb", "optimal").Observe(0.5)

	m := &dto.Metric{}
	obs, err := SolverDuration.GetMetricWithLabelValues("bnb", "optimal")
	if err != nil {
		t.Fatal(err)
	}
	if err := obs.(interface{ Write(*dto.Metric) error }).Write(m); err != nil {
		t.Fatal(err)
	}
	if got := m.GetHistogram().GetSampleCount(); got < 2 {
		t.Errorf("sample count = %d, want >= 2", got)
	}
}

func TestRecordMealPlansSkipsZero(t *testing.T) {
	before := testutil.ToFloat64(MealPlansWritten.WithLabelValues("created"))
	RecordMealPlans("created", 0)
	RecordMealPlans("created", 3)
	if got := testutil.ToFloat64(MealPlansWritten.WithLabelValues("created")) - before; got != 3 {
		t.Errorf("meal_plans_written_total increased by %v, want 3", got)
	}
}

func TestMetricNames(t *testing.T) {
	expected := `
		# HELP selection_runs_total Total number of selection runs by outcome
		# TYPE selection_runs_total counter
		selection_runs_total{outcome="infeasible"} 1
	`
	SelectionRuns.Reset()
	SelectionRuns.WithLabelValues("infeasible").Inc()
	if err := testutil.CollectAndCompare(SelectionRuns, strings.NewReader(expected), "selection_runs_total"); err != nil {
		t.Errorf("unexpected collecting result:\n%s", err)
	}
}
