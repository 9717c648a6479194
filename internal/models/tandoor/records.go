// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package tandoor

import "github.com/goccy/go-json"

// Page is the envelope every paged Tandoor list endpoint returns.
// Next is an absolute URL carrying the original query, or nil on the last page.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// KeywordLabel is the compact keyword form embedded in recipe listings.
type KeywordLabel struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Name  string `json:"name"`
}

// Recipe is a recipe overview record from /api/recipe/.
// Listings do not embed ingredients; food membership is resolved server-side.
type Recipe struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	New         bool           `json:"new"`
	Keywords    []KeywordLabel `json:"keywords"`
	Servings    int            `json:"servings"`
	Rating      *float64       `json:"rating"`
	LastCooked  *string        `json:"last_cooked"`
	CreatedAt   string         `json:"created_at"`
}

// Keyword is a keyword record from /api/keyword/.
type Keyword struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description"`
	NumChild    int    `json:"numchild"`
}

// Food is a food record from /api/food/.
type Food struct {
	ID               int             `json:"id"`
	Name             string          `json:"name"`
	Shopping         string          `json:"shopping"`
	Recipe           json.RawMessage `json:"recipe"`
	FoodOnhand       bool            `json:"food_onhand"`
	IgnoreShopping   bool            `json:"ignore_shopping"`
	SubstituteOnhand bool            `json:"substitute_onhand"`
	NumChild         int             `json:"numchild"`
}

// BookEntry links a recipe to a recipe book (/api/recipe-book-entry/).
type BookEntry struct {
	ID            int      `json:"id"`
	Book          int      `json:"book"`
	Recipe        int      `json:"recipe"`
	RecipeContent RecipeID `json:"recipe_content"`
}

// RecipeID is the part of an embedded recipe a book entry is resolved by.
type RecipeID struct {
	ID int `json:"id"`
}

// MealType identifies a meal plan slot ("Dinner", "Cocktail Hour", ...).
type MealType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MealPlanRecipe is the recipe reference posted with a meal plan.
type MealPlanRecipe struct {
	ID         int            `json:"id"`
	Name       string         `json:"name"`
	Keywords   []KeywordLabel `json:"keywords"`
	LastCooked *string        `json:"last_cooked,omitempty"`
}

// MealPlan is both the request body for POST /api/meal-plan/ and the
// record returned by GET /api/meal-plan/.
type MealPlan struct {
	ID       int             `json:"id,omitempty"`
	Title    string          `json:"title"`
	Recipe   *MealPlanRecipe `json:"recipe"`
	Servings float64         `json:"servings"`
	Note     string          `json:"note"`
	FromDate string          `json:"from_date"`
	ToDate   string          `json:"to_date,omitempty"`
	MealType MealType        `json:"meal_type"`
	Shared   []int           `json:"shared"`
}
