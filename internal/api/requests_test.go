// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package api

import (
	"errors"
	"testing"

	"github.com/smilerz/cocktail-menu/internal/constraint"
)

func TestSpecsFromBody(t *testing.T) {
	t.Parallel()

	specs, err := specsFromBody(map[string][]map[string]interface{}{
		"keywords": {{"condition": []interface{}{7}, "count": 1, "operator": ">="}},
		"Ratings":  {{"condition": []interface{}{4}, "count": 2, "operator": ">="}, {"condition": []interface{}{-1}, "count": 0, "operator": "=="}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(specs[constraint.CategoryKeyword]) != 1 || len(specs[constraint.CategoryRating]) != 2 {
		t.Errorf("unexpected specs %v", specs)
	}

	_, err = specsFromBody(map[string][]map[string]interface{}{"garnish": nil})
	var cfgErr *constraint.ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "category" {
		t.Errorf("err = %v, want category ConfigurationError", err)
	}
}

func TestToMenuRequest_MealPlanOnlyWhenEnabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.MealPlan.Enabled = true

	req, err := (&MenuRequest{}).toMenuRequest(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if req.MealPlan.Enabled {
		t.Error("configured mealplan.enabled must not leak into API requests")
	}

	req, err = (&MenuRequest{MealPlan: &MealPlanBody{Enabled: false, TypeID: 4}}).toMenuRequest(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if req.MealPlan.Enabled || req.MealPlan.TypeID != 0 {
		t.Errorf("disabled meal plan body should be ignored: %+v", req.MealPlan)
	}
}
