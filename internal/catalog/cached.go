// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package catalog

import (
	"context"
	"net/url"
	"time"

	"github.com/smilerz/cocktail-menu/internal/cache"
	"github.com/smilerz/cocktail-menu/internal/logging"
	"github.com/smilerz/cocktail-menu/internal/models"
	"github.com/smilerz/cocktail-menu/internal/models/tandoor"
)

// CachedClient decorates a Source with two cache tiers. Read-only lookups
// are served from memory, then from the optional persistent store, and only
// then fetched. Meal plan reads and writes always go to the catalog.
type CachedClient struct {
	next   Source
	memory cache.Cacher
	store  cache.Store
	ttl    time.Duration
}

// NewCachedClient wraps next. store may be nil for a memory-only cache.
func NewCachedClient(next Source, memory cache.Cacher, store cache.Store, ttl time.Duration) *CachedClient {
	return &CachedClient{next: next, memory: memory, store: store, ttl: ttl}
}

// cached returns the value for method+params from the fastest tier that has
// it. Fetch errors are returned and never cached. A failing persistent tier
// is logged and bypassed.
func cached[T any](c *CachedClient, method string, params interface{}, fetch func() (T, error)) (T, error) {
	key := cache.GenerateKey(method, params)

	v, err := c.memory.GetOrCompute(key, c.ttl, func() (interface{}, error) {
		if c.store != nil {
			var stored T
			found, err := c.store.Load(key, &stored)
			if err != nil {
				logging.Warn().Err(err).Str("method", method).Msg("Persistent cache read failed")
			} else if found {
				return stored, nil
			}
		}

		fresh, err := fetch()
		if err != nil {
			return nil, err
		}

		if c.store != nil {
			if err := c.store.Save(key, fresh, c.ttl); err != nil {
				logging.Warn().Err(err).Str("method", method).Msg("Persistent cache write failed")
			}
		}
		return fresh, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return castResult[T](v, nil)
}

// Ping is never cached.
func (c *CachedClient) Ping(ctx context.Context) error {
	return c.next.Ping(ctx)
}

func (c *CachedClient) FetchRecipes(ctx context.Context, params url.Values) ([]models.Recipe, error) {
	return cached(c, "FetchRecipes", params, func() ([]models.Recipe, error) {
		return c.next.FetchRecipes(ctx, params)
	})
}

func (c *CachedClient) FetchKeywordDescendants(ctx context.Context, id int) ([]models.Keyword, error) {
	return cached(c, "FetchKeywordDescendants", id, func() ([]models.Keyword, error) {
		return c.next.FetchKeywordDescendants(ctx, id)
	})
}

func (c *CachedClient) FetchFood(ctx context.Context, id int) (models.Food, error) {
	return cached(c, "FetchFood", id, func() (models.Food, error) {
		return c.next.FetchFood(ctx, id)
	})
}

func (c *CachedClient) FetchFoodDescendants(ctx context.Context, id int) ([]models.Food, error) {
	return cached(c, "FetchFoodDescendants", id, func() ([]models.Food, error) {
		return c.next.FetchFoodDescendants(ctx, id)
	})
}

func (c *CachedClient) FetchRecipesByFood(ctx context.Context, include, exclude []int) ([]models.Recipe, error) {
	params := map[string][]int{"include": include, "exclude": exclude}
	return cached(c, "FetchRecipesByFood", params, func() ([]models.Recipe, error) {
		return c.next.FetchRecipesByFood(ctx, include, exclude)
	})
}

func (c *CachedClient) FetchBookRecipeIDs(ctx context.Context, bookID int) ([]int, error) {
	return cached(c, "FetchBookRecipeIDs", bookID, func() ([]int, error) {
		return c.next.FetchBookRecipeIDs(ctx, bookID)
	})
}

func (c *CachedClient) FetchMealTypes(ctx context.Context) ([]tandoor.MealType, error) {
	return cached(c, "FetchMealTypes", nil, func() ([]tandoor.MealType, error) {
		return c.next.FetchMealTypes(ctx)
	})
}

func (c *CachedClient) FetchMealPlans(ctx context.Context, from, to string, mealType int) ([]tandoor.MealPlan, error) {
	return c.next.FetchMealPlans(ctx, from, to, mealType)
}

func (c *CachedClient) CreateMealPlan(ctx context.Context, plan *tandoor.MealPlan) (*tandoor.MealPlan, error) {
	return c.next.CreateMealPlan(ctx, plan)
}

func (c *CachedClient) DeleteMealPlan(ctx context.Context, id int) error {
	return c.next.DeleteMealPlan(ctx, id)
}

var _ Source = (*CachedClient)(nil)
