// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/smilerz/cocktail-menu/internal/logging"
	"github.com/smilerz/cocktail-menu/internal/metrics"
	"github.com/smilerz/cocktail-menu/internal/models"
	"github.com/smilerz/cocktail-menu/internal/models/tandoor"
)

// breakerName labels circuit breaker logs and metrics.
const breakerName = "tandoor-api"

// CircuitBreakerClient wraps a Source with the circuit breaker pattern so an
// unavailable Tandoor fails fast instead of stalling every lookup.
//
// Missing records (ErrNotFound) and caller cancellation count as successful
// calls: they say nothing about the health of the server.
type CircuitBreakerClient struct {
	client Source
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewCircuitBreakerClient wraps client.
// Circuit breaker configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func NewCircuitBreakerClient(client Source) *CircuitBreakerClient {
	cbName := breakerName

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		IsSuccessful: isBreakerSuccess,

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

func isBreakerSuccess(err error) bool {
	return err == nil ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, context.Canceled)
}

// State reports the current breaker state ("closed", "half-open", "open").
func (cbc *CircuitBreakerClient) State() string {
	return stateToString(cbc.cb.State())
}

// execute wraps a catalog call with circuit breaker protection
func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)

	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		case isBreakerSuccess(err):
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
		default:
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
			counts := cbc.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)

	return result, nil
}

// castResult safely type-casts the circuit breaker result with error checking
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Ping verifies connectivity with circuit breaker protection
func (cbc *CircuitBreakerClient) Ping(ctx context.Context) error {
	_, err := cbc.execute(func() (interface{}, error) {
		return nil, cbc.client.Ping(ctx)
	})
	return err
}

// FetchRecipes runs a recipe search with circuit breaker protection
func (cbc *CircuitBreakerClient) FetchRecipes(ctx context.Context, params url.Values) ([]models.Recipe, error) {
	return castResult[[]models.Recipe](cbc.execute(func() (interface{}, error) {
		return cbc.client.FetchRecipes(ctx, params)
	}))
}

// FetchKeywordDescendants retrieves a keyword tree with circuit breaker protection
func (cbc *CircuitBreakerClient) FetchKeywordDescendants(ctx context.Context, id int) ([]models.Keyword, error) {
	return castResult[[]models.Keyword](cbc.execute(func() (interface{}, error) {
		return cbc.client.FetchKeywordDescendants(ctx, id)
	}))
}

// FetchFood retrieves a food with circuit breaker protection
func (cbc *CircuitBreakerClient) FetchFood(ctx context.Context, id int) (models.Food, error) {
	return castResult[models.Food](cbc.execute(func() (interface{}, error) {
		return cbc.client.FetchFood(ctx, id)
	}))
}

// FetchFoodDescendants retrieves a food tree with circuit breaker protection
func (cbc *CircuitBreakerClient) FetchFoodDescendants(ctx context.Context, id int) ([]models.Food, error) {
	return castResult[[]models.Food](cbc.execute(func() (interface{}, error) {
		return cbc.client.FetchFoodDescendants(ctx, id)
	}))
}

// FetchRecipesByFood runs a food search with circuit breaker protection
func (cbc *CircuitBreakerClient) FetchRecipesByFood(ctx context.Context, include, exclude []int) ([]models.Recipe, error) {
	return castResult[[]models.Recipe](cbc.execute(func() (interface{}, error) {
		return cbc.client.FetchRecipesByFood(ctx, include, exclude)
	}))
}

// FetchBookRecipeIDs retrieves a book's recipe ids with circuit breaker protection
func (cbc *CircuitBreakerClient) FetchBookRecipeIDs(ctx context.Context, bookID int) ([]int, error) {
	return castResult[[]int](cbc.execute(func() (interface{}, error) {
		return cbc.client.FetchBookRecipeIDs(ctx, bookID)
	}))
}

// FetchMealTypes retrieves meal types with circuit breaker protection
func (cbc *CircuitBreakerClient) FetchMealTypes(ctx context.Context) ([]tandoor.MealType, error) {
	return castResult[[]tandoor.MealType](cbc.execute(func() (interface{}, error) {
		return cbc.client.FetchMealTypes(ctx)
	}))
}

// FetchMealPlans retrieves meal plans with circuit breaker protection
func (cbc *CircuitBreakerClient) FetchMealPlans(ctx context.Context, from, to string, mealType int) ([]tandoor.MealPlan, error) {
	return castResult[[]tandoor.MealPlan](cbc.execute(func() (interface{}, error) {
		return cbc.client.FetchMealPlans(ctx, from, to, mealType)
	}))
}

// CreateMealPlan creates a meal plan with circuit breaker protection
func (cbc *CircuitBreakerClient) CreateMealPlan(ctx context.Context, plan *tandoor.MealPlan) (*tandoor.MealPlan, error) {
	return castResult[*tandoor.MealPlan](cbc.execute(func() (interface{}, error) {
		return cbc.client.CreateMealPlan(ctx, plan)
	}))
}

// DeleteMealPlan deletes a meal plan with circuit breaker protection
func (cbc *CircuitBreakerClient) DeleteMealPlan(ctx context.Context, id int) error {
	_, err := cbc.execute(func() (interface{}, error) {
		return nil, cbc.client.DeleteMealPlan(ctx, id)
	})
	return err
}

var _ Source = (*CircuitBreakerClient)(nil)
