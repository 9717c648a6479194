// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

// Package mealplan writes selected recipes back to Tandoor as meal plan
// entries and removes stale, uncooked ones.
package mealplan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/smilerz/cocktail-menu/internal/logging"
	"github.com/smilerz/cocktail-menu/internal/metrics"
	"github.com/smilerz/cocktail-menu/internal/models"
	"github.com/smilerz/cocktail-menu/internal/models/tandoor"
)

// DateLayout is the calendar date format meal plans are keyed by.
const DateLayout = "2006-01-02"

// ErrUnknownMealType is returned when a meal type id or name does not exist.
var ErrUnknownMealType = errors.New("unknown meal type")

// Client is the subset of the catalog the writer needs.
type Client interface {
	FetchMealTypes(ctx context.Context) ([]tandoor.MealType, error)
	FetchMealPlans(ctx context.Context, from, to string, mealType int) ([]tandoor.MealPlan, error)
	CreateMealPlan(ctx context.Context, plan *tandoor.MealPlan) (*tandoor.MealPlan, error)
	DeleteMealPlan(ctx context.Context, id int) error
}

// Writer creates and prunes meal plan entries.
type Writer struct {
	client Client
	shared []int
	logger zerolog.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithShared shares every created entry with the given user ids.
func WithShared(userIDs []int) Option {
	return func(w *Writer) {
		w.shared = append([]int(nil), userIDs...)
	}
}

// WithLogger overrides the component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Writer) {
		w.logger = logger
	}
}

// NewWriter returns a Writer backed by client.
func NewWriter(client Client, opts ...Option) *Writer {
	w := &Writer{
		client: client,
		shared: []int{},
		logger: logging.WithComponent("mealplan"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ResolveType finds a meal type by id, or by case-insensitive name when id
// is zero.
func (w *Writer) ResolveType(ctx context.Context, id int, name string) (tandoor.MealType, error) {
	types, err := w.client.FetchMealTypes(ctx)
	if err != nil {
		return tandoor.MealType{}, fmt.Errorf("failed to list meal types: %w", err)
	}
	for _, mt := range types {
		if id > 0 && mt.ID == id {
			return mt, nil
		}
		if id == 0 && name != "" && strings.EqualFold(strings.TrimSpace(mt.Name), strings.TrimSpace(name)) {
			return mt, nil
		}
	}
	if id > 0 {
		return tandoor.MealType{}, fmt.Errorf("meal type id %d: %w", id, ErrUnknownMealType)
	}
	return tandoor.MealType{}, fmt.Errorf("meal type %q: %w", name, ErrUnknownMealType)
}

// CreateFromRecipes adds one meal plan entry per recipe on date. The entry
// title is the recipe name and servings are the recipe servings. It stops at
// the first failure and reports how many entries were created before it.
func (w *Writer) CreateFromRecipes(ctx context.Context, recipes []models.Recipe, slot tandoor.MealType, date time.Time, note string) (int, error) {
	day := date.Format(DateLayout)
	created := 0
	defer func() { metrics.RecordMealPlans("created", created) }()

	for i := range recipes {
		plan := newPlan(&recipes[i], slot, day, note, w.shared)
		stored, err := w.client.CreateMealPlan(ctx, plan)
		if err != nil {
			return created, fmt.Errorf("failed to create meal plan for recipe %d: %w", recipes[i].ID, err)
		}
		created++
		w.logger.Info().Int("meal_plan", stored.ID).Int("recipe", recipes[i].ID).Str("title", plan.Title).Str("date", day).Msg("Created meal plan")
	}
	return created, nil
}

// CleanupUncooked deletes entries of the slot type on date whose recipe has
// not been cooked on or after that date. Entries without a recipe are kept.
func (w *Writer) CleanupUncooked(ctx context.Context, date time.Time, slot tandoor.MealType) (int, error) {
	day := date.Format(DateLayout)
	start, err := time.Parse(DateLayout, day)
	if err != nil {
		return 0, err
	}

	plans, err := w.client.FetchMealPlans(ctx, day, day, slot.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to list meal plans for %s: %w", day, err)
	}

	removed := 0
	defer func() { metrics.RecordMealPlans("removed", removed) }()

	for i := range plans {
		p := &plans[i]
		if p.MealType.ID != slot.ID || p.Recipe == nil {
			continue
		}
		if cookedSince(p.Recipe, start) {
			continue
		}
		if err := w.client.DeleteMealPlan(ctx, p.ID); err != nil {
			return removed, fmt.Errorf("failed to delete meal plan %d: %w", p.ID, err)
		}
		removed++
		w.logger.Info().Int("meal_plan", p.ID).Str("title", p.Title).Str("date", day).Msg("Removed uncooked meal plan")
	}
	return removed, nil
}

func cookedSince(r *tandoor.MealPlanRecipe, start time.Time) bool {
	if r.LastCooked == nil || *r.LastCooked == "" {
		return false
	}
	cooked, err := models.ParseTimestamp(*r.LastCooked)
	if err != nil {
		return false
	}
	return !cooked.Before(start)
}

func newPlan(r *models.Recipe, slot tandoor.MealType, day, note string, shared []int) *tandoor.MealPlan {
	servings := float64(r.Servings)
	if servings <= 0 {
		servings = 1
	}
	keywords := make([]tandoor.KeywordLabel, 0, len(r.Keywords))
	for _, id := range r.Keywords {
		keywords = append(keywords, tandoor.KeywordLabel{ID: id})
	}
	return &tandoor.MealPlan{
		Title: r.Name,
		Recipe: &tandoor.MealPlanRecipe{
			ID:       r.ID,
			Name:     r.Name,
			Keywords: keywords,
		},
		Servings: servings,
		Note:     note,
		FromDate: day,
		MealType: slot,
		Shared:   shared,
	}
}
