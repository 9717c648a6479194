// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/smilerz/cocktail-menu/internal/config"
)

// menuFlags holds the create command's overrides. A flag only replaces the
// loaded configuration when the user set it.
type menuFlags struct {
	url   string
	token string

	recipes         string
	filters         []int
	choices         int
	includeChildren bool
	seed            int64
	solver          string

	// One entry per flag occurrence; each is a YAML constraint map or list.
	keywords  []string
	foods     []string
	books     []string
	ratings   []string
	cookedOn  []string
	createdOn []string

	mealPlan   bool
	mpType     int
	mpTypeName string
	mpDate     string
	mpNote     string
	mpCleanup  bool
}

func (f *menuFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.url, "url", "", "Tandoor server URL (TANDOOR_URL)")
	fs.StringVar(&f.token, "token", "", "Tandoor API token (TANDOOR_TOKEN)")

	fs.StringVar(&f.recipes, "recipes", "", `recipe search parameters as a YAML map, e.g. "{keywords: [12], new: true}"`)
	fs.IntSliceVar(&f.filters, "filters", nil, "custom filter ids whose recipes join the candidate pool")
	fs.IntVar(&f.choices, "choices", 5, "number of recipes to select")
	fs.BoolVar(&f.includeChildren, "include-children", true, "expand keyword and food conditions to their descendants")
	fs.Int64Var(&f.seed, "seed", 0, "tie-break seed; 0 seeds from the clock")
	fs.StringVar(&f.solver, "solver", "", "solver backend: bnb or sat")

	fs.StringArrayVar(&f.keywords, "keywords", nil, "keyword constraint (YAML), repeatable")
	fs.StringArrayVar(&f.foods, "foods", nil, "food constraint (YAML), repeatable")
	fs.StringArrayVar(&f.books, "books", nil, "book constraint (YAML), repeatable")
	fs.StringArrayVar(&f.ratings, "ratings", nil, "rating constraint (YAML), repeatable")
	fs.StringArrayVar(&f.cookedOn, "cookedon", nil, "last-cooked date constraint (YAML), repeatable")
	fs.StringArrayVar(&f.createdOn, "createdon", nil, "created date constraint (YAML), repeatable")

	fs.BoolVar(&f.mealPlan, "mealplan", false, "write the selection to the Tandoor meal plan")
	fs.IntVar(&f.mpType, "mp-type", 0, "meal type id for the meal plan")
	fs.StringVar(&f.mpTypeName, "mp-type-name", "", "meal type name for the meal plan (used when --mp-type is not set)")
	fs.StringVar(&f.mpDate, "mp-date", "", "meal plan date, YYYY-MM-DD (default today)")
	fs.StringVar(&f.mpNote, "mp-note", "", "note attached to each meal plan entry")
	fs.BoolVar(&f.mpCleanup, "mp-cleanup", false, "remove uncooked entries of the same type and date before writing")
}

// apply copies every changed flag onto cfg.
func (f *menuFlags) apply(fs *pflag.FlagSet, cfg *config.Config) error {
	if fs.Changed("url") {
		cfg.Tandoor.URL = f.url
	}
	if fs.Changed("token") {
		cfg.Tandoor.Token = f.token
	}

	if fs.Changed("recipes") {
		params, err := config.DecodeSearchParams(f.recipes)
		if err != nil {
			return &configError{err: fmt.Errorf("--recipes: %w", err)}
		}
		cfg.Menu.Recipes = params
	}
	if fs.Changed("filters") {
		cfg.Menu.Filters = f.filters
	}
	if fs.Changed("choices") {
		cfg.Menu.Choices = f.choices
	}
	if fs.Changed("include-children") {
		cfg.Menu.IncludeChildren = f.includeChildren
	}
	if fs.Changed("seed") {
		cfg.Menu.Seed = f.seed
	}
	if fs.Changed("solver") {
		cfg.Menu.Solver = f.solver
	}

	constraintFlags := []struct {
		name   string
		values []string
		dst    *[]map[string]interface{}
	}{
		{"keywords", f.keywords, &cfg.Constraints.Keywords},
		{"foods", f.foods, &cfg.Constraints.Foods},
		{"books", f.books, &cfg.Constraints.Books},
		{"ratings", f.ratings, &cfg.Constraints.Ratings},
		{"cookedon", f.cookedOn, &cfg.Constraints.CookedOn},
		{"createdon", f.createdOn, &cfg.Constraints.CreatedOn},
	}
	for _, cf := range constraintFlags {
		if !fs.Changed(cf.name) {
			continue
		}
		var specs []map[string]interface{}
		for _, v := range cf.values {
			decoded, err := config.DecodeConstraintSpecs(v)
			if err != nil {
				return &configError{err: fmt.Errorf("--%s: %w", cf.name, err)}
			}
			specs = append(specs, decoded...)
		}
		*cf.dst = specs
	}

	if fs.Changed("mealplan") {
		cfg.MealPlan.Enabled = f.mealPlan
	}
	// Either flag names the meal type outright, so it replaces both
	// configured fields.
	if fs.Changed("mp-type") || fs.Changed("mp-type-name") {
		cfg.MealPlan.TypeID = f.mpType
		cfg.MealPlan.TypeName = f.mpTypeName
	}
	if fs.Changed("mp-date") {
		cfg.MealPlan.Date = f.mpDate
	}
	if fs.Changed("mp-note") {
		cfg.MealPlan.Note = f.mpNote
	}
	if fs.Changed("mp-cleanup") {
		cfg.MealPlan.Cleanup = f.mpCleanup
	}
	return nil
}
