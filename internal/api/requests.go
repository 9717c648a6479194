// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package api

import (
	"github.com/smilerz/cocktail-menu/internal/config"
	"github.com/smilerz/cocktail-menu/internal/constraint"
	"github.com/smilerz/cocktail-menu/internal/menu"
)

// maxRequestBodyBytes caps POST /api/v1/menus bodies.
const maxRequestBodyBytes = 1 << 20

// MenuRequest is the POST /api/v1/menus body. Pointer fields distinguish
// "not sent" from a zero value; unsent fields take the configured default.
//
// Example:
//
//	{
//	  "choices": 5,
//	  "recipes": {"keywords": [12]},
//	  "constraints": {
//	    "keywords": [{"condition": [73], "count": 2, "operator": ">="}],
//	    "ratings":  [{"condition": [3], "count": 1, "operator": ">="}]
//	  },
//	  "seed": 42,
//	  "mealplan": {"enabled": true, "type_name": "Dinner", "cleanup": true}
//	}
type MenuRequest struct {
	Choices         *int                   `json:"choices,omitempty" validate:"omitempty,gte=0,lte=100"`
	Recipes         map[string]interface{} `json:"recipes,omitempty"`
	Filters         []int                  `json:"filters,omitempty" validate:"omitempty,max=20,dive,min=1"`
	IncludeChildren *bool                  `json:"include_children,omitempty"`

	// Constraints replaces the configured constraints entirely when present,
	// so that {"constraints": {}} runs with none.
	Constraints map[string][]map[string]interface{} `json:"constraints,omitempty" validate:"omitempty,dive,keys,oneof=keywords foods books ratings cookedon createdon,endkeys,max=50"`

	Seed   *int64 `json:"seed,omitempty"`
	Solver string `json:"solver,omitempty" validate:"omitempty,oneof=bnb sat"`
	DryRun bool   `json:"dry_run,omitempty"`

	MealPlan *MealPlanBody `json:"mealplan,omitempty"`
}

// MealPlanBody asks for the selection to be written as meal plan entries.
// Type and note fall back to the configured mealplan section.
type MealPlanBody struct {
	Enabled  bool   `json:"enabled"`
	TypeID   int    `json:"type_id,omitempty" validate:"gte=0"`
	TypeName string `json:"type_name,omitempty" validate:"max=128"`
	Date     string `json:"date,omitempty" validate:"date"`
	Note     string `json:"note,omitempty" validate:"max=512"`
	Cleanup  *bool  `json:"cleanup,omitempty"`
}

// toMenuRequest overlays the body onto the configured defaults. Meal plans
// are only written when the body enables them.
func (b *MenuRequest) toMenuRequest(cfg *config.Config) (menu.Request, error) {
	req := menu.RequestFromConfig(cfg)
	req.MealPlan.Enabled = false

	if b.Choices != nil {
		req.Choices = *b.Choices
	}
	if b.Recipes != nil {
		req.Search = b.Recipes
	}
	if b.Filters != nil {
		req.Filters = b.Filters
	}
	if b.IncludeChildren != nil {
		req.IncludeChildren = *b.IncludeChildren
	}
	if b.Seed != nil {
		req.Seed = *b.Seed
	}
	if b.Solver != "" {
		req.Solver = b.Solver
	}
	req.DryRun = b.DryRun

	if b.Constraints != nil {
		specs, err := specsFromBody(b.Constraints)
		if err != nil {
			return menu.Request{}, err
		}
		req.Specs = specs
	}

	if b.MealPlan != nil && b.MealPlan.Enabled {
		req.MealPlan.Enabled = true
		if b.MealPlan.TypeID != 0 || b.MealPlan.TypeName != "" {
			req.MealPlan.TypeID = b.MealPlan.TypeID
			req.MealPlan.TypeName = b.MealPlan.TypeName
		}
		if b.MealPlan.Date != "" {
			req.MealPlan.Date = b.MealPlan.Date
		}
		if b.MealPlan.Note != "" {
			req.MealPlan.Note = b.MealPlan.Note
		}
		if b.MealPlan.Cleanup != nil {
			req.MealPlan.Cleanup = *b.MealPlan.Cleanup
		}
	}
	return req, nil
}

func specsFromBody(body map[string][]map[string]interface{}) (map[constraint.Category][]constraint.Raw, error) {
	specs := make(map[constraint.Category][]constraint.Raw, len(body))
	for name, entries := range body {
		cat, err := constraint.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			specs[cat] = append(specs[cat], constraint.Raw(e))
		}
	}
	return specs, nil
}
