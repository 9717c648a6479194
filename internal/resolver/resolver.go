// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

// Package resolver turns normalized constraints into concrete subsets of the
// candidate pool.
//
// Keyword, food and book subjects live in the catalog, so resolving them
// needs catalog lookups; rating and date subjects are matched locally
// against the pool. A Resolver memoizes every lookup for the lifetime of
// one run so that each distinct subject id hits the catalog at most once.
// Hierarchy expansion asks the catalog for pre-flattened descendant lists
// and never walks a tree locally.
//
// Any failed lookup aborts resolution with a *ResolutionError. A
// constraint that cannot be resolved is never treated as satisfied.
package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/smilerz/cocktail-menu/internal/constraint"
	"github.com/smilerz/cocktail-menu/internal/logging"
	"github.com/smilerz/cocktail-menu/internal/models"
)

// Catalog is the set of catalog lookups resolution depends on.
type Catalog interface {
	// FetchKeywordDescendants returns the keyword and every keyword below it.
	FetchKeywordDescendants(ctx context.Context, id int) ([]models.Keyword, error)
	// FetchFood returns a single food record.
	FetchFood(ctx context.Context, id int) (models.Food, error)
	// FetchFoodDescendants returns the food and every food below it.
	FetchFoodDescendants(ctx context.Context, id int) ([]models.Food, error)
	// FetchRecipesByFood returns recipes using any include food and no exclude food.
	FetchRecipesByFood(ctx context.Context, include, exclude []int) ([]models.Recipe, error)
	// FetchBookRecipeIDs returns the ids of the recipes filed in a book.
	FetchBookRecipeIDs(ctx context.Context, bookID int) ([]int, error)
}

// Resolved is a constraint together with its resolved subset.
type Resolved struct {
	constraint.Constraint
	// RecipeIDs are the pool recipes matching the subject, in pool order,
	// before the exclude flag is applied.
	RecipeIDs []int
}

// Subset returns the ids the operator applies to: RecipeIDs, or their
// complement within pool when the constraint is an exclusion.
func (r *Resolved) Subset(pool *models.Pool) []int {
	if r.Exclude {
		return pool.Complement(r.RecipeIDs)
	}
	return r.RecipeIDs
}

// Resolver resolves constraints for a single run.
type Resolver struct {
	catalog         Catalog
	includeChildren bool
	logger          zerolog.Logger

	keywordTrees map[int][]int
	foodTrees    map[int][]int
	foods        map[int]models.Food
	books        map[int][]int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithIncludeChildren enables keyword and food hierarchy expansion.
func WithIncludeChildren(enabled bool) Option {
	return func(r *Resolver) {
		r.includeChildren = enabled
	}
}

// WithLogger overrides the component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New creates a Resolver. Hierarchy expansion is enabled by default.
func New(catalog Catalog, opts ...Option) *Resolver {
	r := &Resolver{
		catalog:         catalog,
		includeChildren: true,
		logger:          logging.WithComponent("resolver"),
		keywordTrees:    make(map[int][]int),
		foodTrees:       make(map[int][]int),
		foods:           make(map[int]models.Food),
		books:           make(map[int][]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveAll resolves every constraint in order, stopping at the first failure.
func (r *Resolver) ResolveAll(ctx context.Context, cs []constraint.Constraint, pool *models.Pool) ([]Resolved, error) {
	out := make([]Resolved, 0, len(cs))
	for i := range cs {
		res, err := r.Resolve(ctx, cs[i], pool)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

// Resolve computes the pool subset matching c's subject. The pool is not modified.
func (r *Resolver) Resolve(ctx context.Context, c constraint.Constraint, pool *models.Pool) (Resolved, error) {
	var (
		ids []int
		err error
	)

	switch c.Category {
	case constraint.CategoryKeyword:
		ids, err = r.resolveKeywords(ctx, c, pool)
	case constraint.CategoryFood:
		ids, err = r.resolveFoods(ctx, c, pool)
	case constraint.CategoryBook:
		ids, err = r.resolveBooks(ctx, c, pool)
	case constraint.CategoryRating:
		lo, hi := c.RatingRange()
		ids = pool.Filter(func(rec *models.Recipe) bool {
			return rec.Rating != nil && *rec.Rating >= lo && *rec.Rating <= hi
		})
	case constraint.CategoryCookedOn:
		ids = pool.Filter(func(rec *models.Recipe) bool {
			return admitsAll(c.Dates, rec.LastCooked)
		})
	case constraint.CategoryCreatedOn:
		ids = pool.Filter(func(rec *models.Recipe) bool {
			created := rec.CreatedAt
			return admitsAll(c.Dates, &created)
		})
	default:
		return Resolved{}, &constraint.ConfigurationError{
			Category: c.Category,
			Field:    "category",
			Value:    string(c.Category),
			Reason:   "unknown category",
		}
	}
	if err != nil {
		return Resolved{}, err
	}

	r.logger.Debug().
		Str("category", string(c.Category)).
		Str("constraint", c.String()).
		Int("matched", len(ids)).
		Msg("Resolved constraint subject")

	return Resolved{Constraint: c, RecipeIDs: ids}, nil
}

func admitsAll(bounds []constraint.DateBound, t *time.Time) bool {
	for _, b := range bounds {
		if !b.Admits(t) {
			return false
		}
	}
	return true
}

func (r *Resolver) resolveKeywords(ctx context.Context, c constraint.Constraint, pool *models.Pool) ([]int, error) {
	include, err := r.expandKeywords(ctx, c, c.IDs)
	if err != nil {
		return nil, err
	}
	exclude, err := r.expandKeywords(ctx, c, c.Except)
	if err != nil {
		return nil, err
	}
	for id := range exclude {
		delete(include, id)
	}
	return pool.Filter(func(rec *models.Recipe) bool {
		return rec.HasAnyKeyword(include)
	}), nil
}

// expandKeywords validates each keyword id against the catalog and, with
// expansion enabled, adds its descendants. The tree lookup doubles as the
// existence check in flat mode, so an unknown id fails the same way there.
func (r *Resolver) expandKeywords(ctx context.Context, c constraint.Constraint, ids []int) (map[int]struct{}, error) {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		tree, ok := r.keywordTrees[id]
		if !ok {
			kws, err := r.catalog.FetchKeywordDescendants(ctx, id)
			if err != nil {
				return nil, &ResolutionError{Constraint: c, Subject: id, Lookup: "keyword tree", Err: err}
			}
			tree = make([]int, len(kws))
			for i, kw := range kws {
				tree[i] = kw.ID
			}
			r.keywordTrees[id] = tree
		}
		set[id] = struct{}{}
		if !r.includeChildren {
			continue
		}
		for _, child := range tree {
			set[child] = struct{}{}
		}
	}
	return set, nil
}

func (r *Resolver) resolveFoods(ctx context.Context, c constraint.Constraint, pool *models.Pool) ([]int, error) {
	include, err := r.expandFoods(ctx, c, c.IDs)
	if err != nil {
		return nil, err
	}
	exclude, err := r.expandFoods(ctx, c, c.Except)
	if err != nil {
		return nil, err
	}
	if len(include) == 0 {
		return nil, nil
	}

	recipes, err := r.catalog.FetchRecipesByFood(ctx, include, exclude)
	if err != nil {
		return nil, &ResolutionError{Constraint: c, Lookup: "recipes by food", Err: err}
	}
	return pool.Intersect(recipeIDs(recipes)), nil
}

// expandFoods validates each food id and, with expansion enabled, adds its
// descendants. The result keeps first-seen order.
func (r *Resolver) expandFoods(ctx context.Context, c constraint.Constraint, ids []int) ([]int, error) {
	seen := make(map[int]struct{}, len(ids))
	var out []int
	add := func(id int) {
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}

	for _, id := range ids {
		if _, ok := r.foods[id]; !ok {
			food, err := r.catalog.FetchFood(ctx, id)
			if err != nil {
				return nil, &ResolutionError{Constraint: c, Subject: id, Lookup: "food", Err: err}
			}
			if food.ID != id {
				return nil, &ResolutionError{
					Constraint: c,
					Subject:    id,
					Lookup:     "food",
					Err:        fmt.Errorf("catalog returned food %d", food.ID),
				}
			}
			r.foods[id] = food
		}
		add(id)

		if !r.includeChildren {
			continue
		}
		tree, ok := r.foodTrees[id]
		if !ok {
			foods, err := r.catalog.FetchFoodDescendants(ctx, id)
			if err != nil {
				return nil, &ResolutionError{Constraint: c, Subject: id, Lookup: "food tree", Err: err}
			}
			tree = make([]int, len(foods))
			for i, f := range foods {
				tree[i] = f.ID
			}
			r.foodTrees[id] = tree
		}
		for _, child := range tree {
			add(child)
		}
	}
	return out, nil
}

func (r *Resolver) resolveBooks(ctx context.Context, c constraint.Constraint, pool *models.Pool) ([]int, error) {
	excluded := make(map[int]struct{})
	for _, id := range c.Except {
		recipes, err := r.bookRecipes(ctx, c, id)
		if err != nil {
			return nil, err
		}
		for _, rid := range recipes {
			excluded[rid] = struct{}{}
		}
	}

	var ids []int
	for _, id := range c.IDs {
		recipes, err := r.bookRecipes(ctx, c, id)
		if err != nil {
			return nil, err
		}
		for _, rid := range recipes {
			if _, skip := excluded[rid]; !skip {
				ids = append(ids, rid)
			}
		}
	}
	return pool.Intersect(ids), nil
}

func (r *Resolver) bookRecipes(ctx context.Context, c constraint.Constraint, bookID int) ([]int, error) {
	if ids, ok := r.books[bookID]; ok {
		return ids, nil
	}
	ids, err := r.catalog.FetchBookRecipeIDs(ctx, bookID)
	if err != nil {
		return nil, &ResolutionError{Constraint: c, Subject: bookID, Lookup: "book", Err: err}
	}
	r.books[bookID] = ids
	return ids, nil
}

func recipeIDs(recipes []models.Recipe) []int {
	ids := make([]int, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
	}
	return ids
}
