// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/smilerz/cocktail-menu/internal/models/tandoor"
)

// Recipe is a candidate menu item. Identity is the catalog id: two Recipe
// values with the same ID are interchangeable.
type Recipe struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	New         bool       `json:"new"`
	Keywords    []int      `json:"keywords"`
	Servings    int        `json:"servings"`
	Rating      *float64   `json:"rating,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	LastCooked  *time.Time `json:"last_cooked,omitempty"`
}

// HasAnyKeyword reports whether the recipe carries at least one of the ids.
func (r *Recipe) HasAnyKeyword(ids map[int]struct{}) bool {
	for _, kw := range r.Keywords {
		if _, ok := ids[kw]; ok {
			return true
		}
	}
	return false
}

func (r Recipe) String() string {
	return fmt.Sprintf("%d: <%s>", r.ID, r.Name)
}

// Keyword is a catalog keyword; identity by id.
type Keyword struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Food is a catalog food (ingredient); identity by id.
type Food struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	OnHand           bool   `json:"on_hand"`
	IgnoreShopping   bool   `json:"ignore_shopping"`
	SubstituteOnHand bool   `json:"substitute_on_hand"`
}

// timestampLayouts are tried in order when parsing catalog timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses the ISO-8601 variants the catalog emits.
// Values without a zone are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// RecipeFromRecord converts a catalog listing record into a Recipe.
// An unparsable last_cooked is treated as never cooked; an unparsable
// created_at is an error because date constraints depend on it.
func RecipeFromRecord(rec *tandoor.Recipe) (Recipe, error) {
	created, err := ParseTimestamp(rec.CreatedAt)
	if err != nil {
		return Recipe{}, fmt.Errorf("recipe %d: created_at: %w", rec.ID, err)
	}

	r := Recipe{
		ID:        rec.ID,
		Name:      rec.Name,
		New:       rec.New,
		Servings:  rec.Servings,
		Rating:    rec.Rating,
		CreatedAt: created,
		Keywords:  make([]int, 0, len(rec.Keywords)),
	}
	if rec.Description != nil {
		r.Description = *rec.Description
	}
	for _, kw := range rec.Keywords {
		r.Keywords = append(r.Keywords, kw.ID)
	}
	if rec.LastCooked != nil && *rec.LastCooked != "" {
		if cooked, err := ParseTimestamp(*rec.LastCooked); err == nil {
			r.LastCooked = &cooked
		}
	}
	return r, nil
}

// KeywordFromRecord converts a catalog keyword record.
func KeywordFromRecord(rec *tandoor.Keyword) Keyword {
	return Keyword{ID: rec.ID, Name: rec.Name}
}

// FoodFromRecord converts a catalog food record.
func FoodFromRecord(rec *tandoor.Food) Food {
	return Food{
		ID:               rec.ID,
		Name:             rec.Name,
		OnHand:           rec.FoodOnhand,
		IgnoreShopping:   rec.IgnoreShopping,
		SubstituteOnHand: rec.SubstituteOnhand,
	}
}
