// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/smilerz/cocktail-menu/internal/catalog"
	"github.com/smilerz/cocktail-menu/internal/config"
	"github.com/smilerz/cocktail-menu/internal/menu"
	"github.com/smilerz/cocktail-menu/internal/models"
	"github.com/smilerz/cocktail-menu/internal/models/tandoor"
)

// fakeCatalog serves eight recipes; keyword 7 is on recipes 1 and 2 only.
type fakeCatalog struct {
	mu       sync.Mutex
	pingErr  error
	fetchErr error
	created  []*tandoor.MealPlan
}

func (f *fakeCatalog) Ping(context.Context) error { return f.pingErr }

func (f *fakeCatalog) FetchRecipes(context.Context, url.Values) ([]models.Recipe, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([]models.Recipe, 8)
	for i := range out {
		out[i] = models.Recipe{ID: i + 1, Name: "Sour", Servings: 1}
	}
	out[0].Keywords = []int{7}
	out[1].Keywords = []int{7}
	return out, nil
}

func (f *fakeCatalog) FetchKeywordDescendants(_ context.Context, id int) ([]models.Keyword, error) {
	if id != 7 {
		return nil, catalog.ErrNotFound
	}
	return []models.Keyword{{ID: 7}}, nil
}

func (f *fakeCatalog) FetchFood(_ context.Context, id int) (models.Food, error) {
	return models.Food{ID: id}, nil
}

func (f *fakeCatalog) FetchFoodDescendants(_ context.Context, id int) ([]models.Food, error) {
	return []models.Food{{ID: id}}, nil
}

func (f *fakeCatalog) FetchRecipesByFood(context.Context, []int, []int) ([]models.Recipe, error) {
	return nil, nil
}

func (f *fakeCatalog) FetchBookRecipeIDs(context.Context, int) ([]int, error) {
	return nil, nil
}

func (f *fakeCatalog) FetchMealTypes(context.Context) ([]tandoor.MealType, error) {
	return []tandoor.MealType{{ID: 3, Name: "Cocktail Hour"}}, nil
}

func (f *fakeCatalog) FetchMealPlans(context.Context, string, string, int) ([]tandoor.MealPlan, error) {
	return nil, nil
}

func (f *fakeCatalog) CreateMealPlan(_ context.Context, plan *tandoor.MealPlan) (*tandoor.MealPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, plan)
	stored := *plan
	stored.ID = len(f.created)
	return &stored, nil
}

func (f *fakeCatalog) DeleteMealPlan(context.Context, int) error { return nil }

var _ catalog.Source = (*fakeCatalog)(nil)

// stubPlanner returns a canned result and error.
type stubPlanner struct {
	result *models.MenuResult
	err    error
	got    menu.Request
}

func (s *stubPlanner) Plan(_ context.Context, req menu.Request) (*models.MenuResult, error) {
	s.got = req
	return s.result, s.err
}

var errCatalogDown = errors.New("dial tcp: connection refused")

func testConfig() *config.Config {
	return &config.Config{
		Menu: config.MenuConfig{
			Choices:         3,
			IncludeChildren: true,
			Solver:          "bnb",
			NodeLimit:       100000,
			TimeLimit:       5 * time.Second,
		},
		MealPlan: config.MealPlanConfig{
			TypeName: "Cocktail Hour",
			Note:     "from config",
		},
		Server: config.ServerConfig{
			Timeout:           30 * time.Second,
			RateLimitRequests: 0,
		},
	}
}

func newTestServer(t *testing.T, planner Planner, cat Pinger, cfg *config.Config) http.Handler {
	t.Helper()
	handler := NewHandler(planner, cat, cfg)
	return NewRouter(handler, NewChiMiddlewareFromConfig(&cfg.Server)).SetupChi()
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
}

func newRealServer(t *testing.T, cat *fakeCatalog) http.Handler {
	t.Helper()
	planner := menu.NewPlanner(cat, menu.WithClock(fixedNow))
	return newTestServer(t, planner, cat, testConfig())
}

func postMenu(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/menus", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// menuResponse mirrors models.APIResponse with a typed data field.
type menuResponse struct {
	Status   string            `json:"status"`
	Data     models.MenuResult `json:"data"`
	Metadata models.Metadata   `json:"metadata"`
	Error    *models.APIError  `json:"error"`
}

func decodeMenuResponse(t *testing.T, rec *httptest.ResponseRecorder) menuResponse {
	t.Helper()
	var resp menuResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return resp
}
