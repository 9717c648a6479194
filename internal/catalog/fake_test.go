// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package catalog

import (
	"context"
	"net/url"
	"sync"

	"github.com/smilerz/cocktail-menu/internal/models"
)

// fakeSource counts calls and returns canned data. Methods not overridden
// panic through the embedded nil interface.
type fakeSource struct {
	Source

	mu      sync.Mutex
	calls   map[string]int
	err     error
	recipes []models.Recipe
}

func newFakeSource() *fakeSource {
	return &fakeSource{calls: make(map[string]int)}
}

func (f *fakeSource) record(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	return f.err
}

func (f *fakeSource) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeSource) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeSource) Ping(context.Context) error {
	return f.record("Ping")
}

func (f *fakeSource) FetchRecipes(_ context.Context, _ url.Values) ([]models.Recipe, error) {
	if err := f.record("FetchRecipes"); err != nil {
		return nil, err
	}
	return f.recipes, nil
}

func (f *fakeSource) FetchFood(_ context.Context, id int) (models.Food, error) {
	if err := f.record("FetchFood"); err != nil {
		return models.Food{}, err
	}
	return models.Food{ID: id, Name: "lime"}, nil
}

func (f *fakeSource) FetchKeywordDescendants(_ context.Context, id int) ([]models.Keyword, error) {
	if err := f.record("FetchKeywordDescendants"); err != nil {
		return nil, err
	}
	return []models.Keyword{{ID: id, Name: "spirits"}, {ID: id + 1, Name: "gin"}}, nil
}

func (f *fakeSource) FetchBookRecipeIDs(_ context.Context, bookID int) ([]int, error) {
	if err := f.record("FetchBookRecipeIDs"); err != nil {
		return nil, err
	}
	return []int{bookID * 10, bookID*10 + 1}, nil
}
