// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

// Package menu runs the full selection pipeline for one request: candidate
// pool assembly, constraint compilation, resolution against the catalog,
// selection and the optional meal plan write.
package menu

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/smilerz/cocktail-menu/internal/catalog"
	"github.com/smilerz/cocktail-menu/internal/config"
	"github.com/smilerz/cocktail-menu/internal/constraint"
	"github.com/smilerz/cocktail-menu/internal/logging"
	"github.com/smilerz/cocktail-menu/internal/mealplan"
	"github.com/smilerz/cocktail-menu/internal/metrics"
	"github.com/smilerz/cocktail-menu/internal/models"
	"github.com/smilerz/cocktail-menu/internal/resolver"
	"github.com/smilerz/cocktail-menu/internal/selection"
	"github.com/smilerz/cocktail-menu/internal/solver"
)

// Planner is safe for concurrent use: every Plan call builds its own
// resolver and engine.
type Planner struct {
	source catalog.Source
	writer *mealplan.Writer
	now    func() time.Time
}

// Option configures a Planner.
type Option func(*Planner)

// WithClock overrides the clock used for relative dates, clock seeding and
// the default meal plan date.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) {
		p.now = now
	}
}

// WithWriter overrides the meal plan writer.
func WithWriter(w *mealplan.Writer) Option {
	return func(p *Planner) {
		p.writer = w
	}
}

// NewPlanner returns a Planner reading from source.
func NewPlanner(source catalog.Source, opts ...Option) *Planner {
	p := &Planner{
		source: source,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.writer == nil {
		p.writer = mealplan.NewWriter(source)
	}
	return p
}

// Plan selects req.Choices recipes from the candidate pool satisfying every
// constraint in req.Specs. Errors are one of *constraint.ConfigurationError,
// *resolver.ResolutionError, *selection.NoFeasibleSelectionError or a
// wrapped catalog failure.
func (p *Planner) Plan(ctx context.Context, req Request) (*models.MenuResult, error) {
	if logging.CorrelationIDFromContext(ctx) == "" {
		ctx = logging.ContextWithNewCorrelationID(ctx)
	}
	logger := componentLogger(ctx, "menu")

	compiled, err := constraint.NewCompiler(constraint.WithClock(p.now)).CompileAll(req.Specs)
	if err != nil {
		return nil, err
	}

	backend, err := solver.New(req.Solver, solver.WithNodeLimit(req.NodeLimit), solver.WithTimeLimit(req.TimeLimit))
	if err != nil {
		return nil, &constraint.ConfigurationError{Field: "solver", Value: req.Solver, Err: err}
	}

	pool, err := p.BuildPool(ctx, req.Search, req.Filters, req.IncludeChildren)
	if err != nil {
		return nil, err
	}
	metrics.MenuPoolSize.Set(float64(pool.Len()))
	logger.Info().Int("pool_size", pool.Len()).Msg("Candidate pool assembled")

	res := resolver.New(p.source, resolver.WithIncludeChildren(req.IncludeChildren), resolver.WithLogger(componentLogger(ctx, "resolver")))
	resolved, err := res.ResolveAll(ctx, compiled, pool)
	if err != nil {
		return nil, err
	}

	seed := req.Seed
	if seed == 0 {
		seed = p.now().UnixNano()
	}
	engine := selection.NewEngine(backend, selection.WithSeed(seed), selection.WithLogger(componentLogger(ctx, "selection")))
	recipes, err := engine.Select(ctx, pool, req.Choices, resolved)
	if err != nil {
		return nil, err
	}

	result := &models.MenuResult{
		Recipes:           recipes,
		PoolSize:          pool.Len(),
		ActiveConstraints: len(resolved),
		Solver:            backend.Name(),
		Status:            engine.Status().String(),
		Seed:              seed,
	}

	if !req.MealPlan.Enabled {
		return result, nil
	}
	if req.DryRun {
		logger.Info().Int("recipes", len(recipes)).Msg("Dry run: meal plan not written")
		return result, nil
	}
	if err := p.writeMealPlan(ctx, req.MealPlan, recipes, result); err != nil {
		return result, err
	}
	return result, nil
}

// writeMealPlan removes stale uncooked entries first, when asked, so that a
// rerun for the same day replaces the previous menu.
func (p *Planner) writeMealPlan(ctx context.Context, mp MealPlanRequest, recipes []models.Recipe, result *models.MenuResult) error {
	date, err := p.mealPlanDate(mp.Date)
	if err != nil {
		return err
	}

	slot, err := p.writer.ResolveType(ctx, mp.TypeID, mp.TypeName)
	if err != nil {
		return fmt.Errorf("meal plan: %w", err)
	}

	if mp.Cleanup {
		removed, err := p.writer.CleanupUncooked(ctx, date, slot)
		result.MealPlansRemoved = removed
		if err != nil {
			return fmt.Errorf("meal plan cleanup: %w", err)
		}
	}

	created, err := p.writer.CreateFromRecipes(ctx, recipes, slot, date, mp.Note)
	result.MealPlansCreated = created
	if err != nil {
		return fmt.Errorf("meal plan create: %w", err)
	}
	return nil
}

func (p *Planner) mealPlanDate(s string) (time.Time, error) {
	if s == "" {
		now := p.now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	d, err := time.ParseInLocation(config.MealPlanDateLayout, s, p.now().Location())
	if err != nil {
		return time.Time{}, &constraint.ConfigurationError{Field: "mealplan.date", Value: s, Reason: "must be YYYY-MM-DD", Err: err}
	}
	return d, nil
}

// BuildPool fetches the candidate pool. The search parameters are fetched
// once, each filter id once more, and the results are concatenated and
// deduplicated by recipe id in first-seen order. With neither search
// parameters nor filters the whole catalog is the pool.
func (p *Planner) BuildPool(ctx context.Context, search map[string]interface{}, filters []int, includeChildren bool) (*models.Pool, error) {
	var all []models.Recipe

	if len(search) > 0 || len(filters) == 0 {
		params := SearchValues(search)
		params.Set("include_children", strconv.FormatBool(includeChildren))
		recipes, err := p.source.FetchRecipes(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("fetch recipes: %w", err)
		}
		all = append(all, recipes...)
	}

	for _, id := range filters {
		params := url.Values{}
		params.Set("filter", strconv.Itoa(id))
		recipes, err := p.source.FetchRecipes(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("fetch recipes for filter %d: %w", id, err)
		}
		all = append(all, recipes...)
	}

	return models.NewPool(all), nil
}

// SearchValues flattens search parameters into query values. List values
// repeat the key, booleans are lowercase.
func SearchValues(search map[string]interface{}) url.Values {
	keys := make([]string, 0, len(search))
	for k := range search {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := url.Values{}
	for _, k := range keys {
		switch v := search[k].(type) {
		case nil:
		case []interface{}:
			for _, item := range v {
				values.Add(k, formatParam(item))
			}
		case []int:
			for _, item := range v {
				values.Add(k, strconv.Itoa(item))
			}
		case []string:
			for _, item := range v {
				values.Add(k, item)
			}
		default:
			values.Add(k, formatParam(v))
		}
	}
	return values
}

func formatParam(v interface{}) string {
	switch t := v.(type) {
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// componentLogger tags the run's context logger with a component name.
func componentLogger(ctx context.Context, component string) zerolog.Logger {
	return logging.LoggerFromContext(ctx).With().Str("component", component).Logger()
}
