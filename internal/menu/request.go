// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package menu

import (
	"time"

	"github.com/smilerz/cocktail-menu/internal/config"
	"github.com/smilerz/cocktail-menu/internal/constraint"
)

// Request describes one menu run. The CLI builds it from the loaded
// configuration; the API builds it from a request body.
type Request struct {
	// Search holds catalog recipe search parameters (keywords, foods, ...).
	Search map[string]interface{}
	// Filters are CustomFilter ids, each fetched into the pool separately.
	Filters         []int
	Choices         int
	IncludeChildren bool
	Specs           map[constraint.Category][]constraint.Raw

	// Seed fixes the tie-break coefficients. Zero seeds from the clock.
	Seed      int64
	Solver    string
	NodeLimit int
	TimeLimit time.Duration

	MealPlan MealPlanRequest
	// DryRun selects a menu without touching meal plans.
	DryRun bool
}

// MealPlanRequest asks for the selection to be written to the meal plan.
type MealPlanRequest struct {
	Enabled  bool
	TypeID   int
	TypeName string
	// Date is YYYY-MM-DD; empty means today.
	Date    string
	Note    string
	Cleanup bool
}

// RequestFromConfig maps the menu, constraints and mealplan sections.
func RequestFromConfig(cfg *config.Config) Request {
	return Request{
		Search:          cfg.Menu.Recipes,
		Filters:         cfg.Menu.Filters,
		Choices:         cfg.Menu.Choices,
		IncludeChildren: cfg.Menu.IncludeChildren,
		Specs:           cfg.Constraints.Specs(),
		Seed:            cfg.Menu.Seed,
		Solver:          cfg.Menu.Solver,
		NodeLimit:       cfg.Menu.NodeLimit,
		TimeLimit:       cfg.Menu.TimeLimit,
		MealPlan: MealPlanRequest{
			Enabled:  cfg.MealPlan.Enabled,
			TypeID:   cfg.MealPlan.TypeID,
			TypeName: cfg.MealPlan.TypeName,
			Date:     cfg.MealPlan.Date,
			Note:     cfg.MealPlan.Note,
			Cleanup:  cfg.MealPlan.Cleanup,
		},
	}
}
