// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package menu

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/smilerz/cocktail-menu/internal/catalog"
	"github.com/smilerz/cocktail-menu/internal/config"
	"github.com/smilerz/cocktail-menu/internal/constraint"
	"github.com/smilerz/cocktail-menu/internal/logging"
	"github.com/smilerz/cocktail-menu/internal/models"
	"github.com/smilerz/cocktail-menu/internal/models/tandoor"
	"github.com/smilerz/cocktail-menu/internal/resolver"
	"github.com/smilerz/cocktail-menu/internal/selection"
)

var fixedNow = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

// fakeSource serves a fixed catalog. Recipe searches are answered by the
// "filter" parameter when present, otherwise with the full recipe list.
type fakeSource struct {
	recipes      []models.Recipe
	byFilter     map[int][]models.Recipe
	keywordTrees map[int][]int
	mealTypes    []tandoor.MealType
	plans        []tandoor.MealPlan

	searches []url.Values
	created  []*tandoor.MealPlan
	deleted  []int
	fetchErr error
}

func (f *fakeSource) Ping(context.Context) error { return nil }

func (f *fakeSource) FetchRecipes(_ context.Context, params url.Values) ([]models.Recipe, error) {
	f.searches = append(f.searches, params)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if id := params.Get("filter"); id != "" {
		for fid, recipes := range f.byFilter {
			if id == strconv.Itoa(fid) {
				return recipes, nil
			}
		}
		return nil, nil
	}
	return f.recipes, nil
}

func (f *fakeSource) FetchKeywordDescendants(_ context.Context, id int) ([]models.Keyword, error) {
	children, ok := f.keywordTrees[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	out := []models.Keyword{{ID: id}}
	for _, c := range children {
		out = append(out, models.Keyword{ID: c})
	}
	return out, nil
}

func (f *fakeSource) FetchFood(_ context.Context, id int) (models.Food, error) {
	return models.Food{ID: id}, nil
}

func (f *fakeSource) FetchFoodDescendants(_ context.Context, id int) ([]models.Food, error) {
	return []models.Food{{ID: id}}, nil
}

func (f *fakeSource) FetchRecipesByFood(context.Context, []int, []int) ([]models.Recipe, error) {
	return nil, nil
}

func (f *fakeSource) FetchBookRecipeIDs(context.Context, int) ([]int, error) {
	return nil, nil
}

func (f *fakeSource) FetchMealTypes(context.Context) ([]tandoor.MealType, error) {
	return f.mealTypes, nil
}

func (f *fakeSource) FetchMealPlans(context.Context, string, string, int) ([]tandoor.MealPlan, error) {
	return f.plans, nil
}

func (f *fakeSource) CreateMealPlan(_ context.Context, plan *tandoor.MealPlan) (*tandoor.MealPlan, error) {
	f.created = append(f.created, plan)
	stored := *plan
	stored.ID = 500 + len(f.created)
	return &stored, nil
}

func (f *fakeSource) DeleteMealPlan(_ context.Context, id int) error {
	f.deleted = append(f.deleted, id)
	return nil
}

var _ catalog.Source = (*fakeSource)(nil)

// tenRecipes: keyword 7 (gin) on 1-3, keyword 8 (child of gin) on 4.
func tenRecipes() []models.Recipe {
	out := make([]models.Recipe, 10)
	for i := range out {
		out[i] = models.Recipe{ID: i + 1, Name: "recipe", Servings: 2}
	}
	out[0].Keywords = []int{7}
	out[1].Keywords = []int{7}
	out[2].Keywords = []int{7}
	out[3].Keywords = []int{8}
	return out
}

func newTestPlanner(src *fakeSource) *Planner {
	return NewPlanner(src, WithClock(func() time.Time { return fixedNow }))
}

func baseRequest() Request {
	return Request{
		Choices:         4,
		IncludeChildren: true,
		Seed:            7,
		Solver:          "bnb",
		NodeLimit:       100000,
		TimeLimit:       5 * time.Second,
	}
}

func keywordSpec(op string, count int, ids ...int) map[constraint.Category][]constraint.Raw {
	cond := make([]interface{}, len(ids))
	for i, id := range ids {
		cond[i] = id
	}
	return map[constraint.Category][]constraint.Raw{
		constraint.CategoryKeyword: {{"condition": cond, "count": count, "operator": op}},
	}
}

func countIn(recipes []models.Recipe, ids ...int) int {
	want := make(map[int]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	n := 0
	for _, r := range recipes {
		if want[r.ID] {
			n++
		}
	}
	return n
}

func TestPlan_SelectsUnderKeywordConstraint(t *testing.T) {
	for _, backend := range []string{"bnb", "sat"} {
		t.Run(backend, func(t *testing.T) {
			src := &fakeSource{recipes: tenRecipes(), keywordTrees: map[int][]int{7: {8}}}
			req := baseRequest()
			req.Solver = backend
			req.Specs = keywordSpec(">=", 3, 7)

			got, err := newTestPlanner(src).Plan(context.Background(), req)
			if err != nil {
				t.Fatalf("Plan() error = %v", err)
			}
			if len(got.Recipes) != 4 {
				t.Fatalf("selected %d recipes, want 4", len(got.Recipes))
			}
			// Recipe 4 only matches through the child keyword.
			if n := countIn(got.Recipes, 1, 2, 3, 4); n < 3 {
				t.Errorf("%d gin recipes selected, want >= 3", n)
			}
			if got.PoolSize != 10 || got.ActiveConstraints != 1 || got.Seed != 7 || got.Solver != backend {
				t.Errorf("unexpected result metadata: %+v", got)
			}
		})
	}
}

func TestPlan_LogsThroughContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.ContextWithRequestID(context.Background(), "req-9")
	ctx = logging.ContextWithLogger(ctx, zerolog.New(&buf).With().Str("path", "/api/v1/menus").Logger())

	if _, err := newTestPlanner(&fakeSource{recipes: tenRecipes()}).Plan(ctx, baseRequest()); err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	components := map[string]bool{}
	for _, line := range lines {
		if !strings.Contains(line, `"request_id":"req-9"`) || !strings.Contains(line, `"path":"/api/v1/menus"`) {
			t.Errorf("line lacks the request scope: %s", line)
		}
		if strings.Count(line, `"correlation_id"`) != 1 {
			t.Errorf("line should carry one correlation_id: %s", line)
		}
		for _, c := range []string{"menu", "selection"} {
			if strings.Contains(line, `"component":"`+c+`"`) {
				components[c] = true
			}
		}
	}
	if !components["menu"] || !components["selection"] {
		t.Errorf("components logged = %v, want menu and selection", components)
	}
}

func TestPlan_SameSeedSameMenu(t *testing.T) {
	req := baseRequest()
	req.Seed = 1234

	first, err := newTestPlanner(&fakeSource{recipes: tenRecipes()}).Plan(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := newTestPlanner(&fakeSource{recipes: tenRecipes()}).Plan(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first.Recipes, second.Recipes) {
		t.Errorf("same seed gave different menus: %v vs %v", first.Recipes, second.Recipes)
	}
}

func TestPlan_ZeroSeedUsesClock(t *testing.T) {
	got, err := newTestPlanner(&fakeSource{recipes: tenRecipes()}).Plan(context.Background(), Request{
		Choices: 2,
		Solver:  "bnb",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Seed != fixedNow.UnixNano() {
		t.Errorf("Seed = %d, want clock seed %d", got.Seed, fixedNow.UnixNano())
	}
}

func TestPlan_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request, *fakeSource)
		check  func(error) bool
	}{
		{
			name: "malformed constraint",
			mutate: func(r *Request, _ *fakeSource) {
				r.Specs = map[constraint.Category][]constraint.Raw{
					constraint.CategoryKeyword: {{"condition": []interface{}{7}, "count": 1, "operator": "~"}},
				}
			},
			check: func(err error) bool {
				var ce *constraint.ConfigurationError
				return errors.As(err, &ce)
			},
		},
		{
			name:   "unknown solver",
			mutate: func(r *Request, _ *fakeSource) { r.Solver = "simplex" },
			check: func(err error) bool {
				var ce *constraint.ConfigurationError
				return errors.As(err, &ce) && ce.Field == "solver"
			},
		},
		{
			name:   "choices beyond pool",
			mutate: func(r *Request, _ *fakeSource) { r.Choices = 11 },
			check: func(err error) bool {
				var ce *constraint.ConfigurationError
				return errors.As(err, &ce) && ce.Field == "choices"
			},
		},
		{
			name:   "unknown keyword",
			mutate: func(r *Request, _ *fakeSource) { r.Specs = keywordSpec(">=", 1, 99) },
			check: func(err error) bool {
				var re *resolver.ResolutionError
				return errors.As(err, &re) && errors.Is(err, catalog.ErrNotFound)
			},
		},
		{
			name:   "infeasible",
			mutate: func(r *Request, _ *fakeSource) { r.Specs = keywordSpec(">=", 5, 7) },
			check: func(err error) bool {
				var ne *selection.NoFeasibleSelectionError
				return errors.As(err, &ne) && ne.ActiveConstraints == 1
			},
		},
		{
			name:   "catalog down",
			mutate: func(_ *Request, s *fakeSource) { s.fetchErr = errors.New("connection refused") },
			check: func(err error) bool {
				return err != nil && err.Error() == "fetch recipes: connection refused"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{recipes: tenRecipes(), keywordTrees: map[int][]int{7: {8}}}
			req := baseRequest()
			tt.mutate(&req, src)

			_, err := newTestPlanner(src).Plan(context.Background(), req)
			if err == nil || !tt.check(err) {
				t.Errorf("Plan() error = %v (%T)", err, err)
			}
		})
	}
}

func TestPlan_MealPlan(t *testing.T) {
	stale := "2026-03-01T10:00:00"
	src := &fakeSource{
		recipes:   tenRecipes(),
		mealTypes: []tandoor.MealType{{ID: 3, Name: "Cocktails"}},
		plans: []tandoor.MealPlan{
			{ID: 41, MealType: tandoor.MealType{ID: 3}, Recipe: &tandoor.MealPlanRecipe{ID: 9, LastCooked: &stale}},
		},
	}
	req := baseRequest()
	req.MealPlan = MealPlanRequest{Enabled: true, TypeName: "cocktails", Cleanup: true, Note: "friday"}

	got, err := newTestPlanner(src).Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if got.MealPlansRemoved != 1 || !reflect.DeepEqual(src.deleted, []int{41}) {
		t.Errorf("removed = %d, deleted = %v", got.MealPlansRemoved, src.deleted)
	}
	if got.MealPlansCreated != 4 || len(src.created) != 4 {
		t.Fatalf("created = %d, posted %d", got.MealPlansCreated, len(src.created))
	}
	for _, p := range src.created {
		if p.FromDate != "2026-03-14" || p.MealType.ID != 3 || p.Note != "friday" {
			t.Errorf("unexpected plan %+v", p)
		}
	}
}

func TestPlan_DryRunSkipsMealPlan(t *testing.T) {
	src := &fakeSource{recipes: tenRecipes(), mealTypes: []tandoor.MealType{{ID: 3, Name: "Cocktails"}}}
	req := baseRequest()
	req.DryRun = true
	req.MealPlan = MealPlanRequest{Enabled: true, TypeID: 3, Cleanup: true}

	got, err := newTestPlanner(src).Plan(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(src.created) != 0 || len(src.deleted) != 0 || got.MealPlansCreated != 0 {
		t.Errorf("dry run wrote meal plans: created %d deleted %d", len(src.created), len(src.deleted))
	}
}

func TestPlan_MealPlanBadDate(t *testing.T) {
	req := baseRequest()
	req.MealPlan = MealPlanRequest{Enabled: true, TypeID: 3, Date: "14/03/2026"}

	got, err := newTestPlanner(&fakeSource{recipes: tenRecipes()}).Plan(context.Background(), req)
	var ce *constraint.ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want ConfigurationError", err)
	}
	if got == nil || len(got.Recipes) != 4 {
		t.Error("selection should still be returned when the meal plan fails")
	}
}

func TestBuildPool(t *testing.T) {
	src := &fakeSource{
		recipes: []models.Recipe{{ID: 1}, {ID: 2}},
		byFilter: map[int][]models.Recipe{
			3: {{ID: 2}, {ID: 5}},
			4: {{ID: 6}, {ID: 1}},
		},
	}
	p := newTestPlanner(src)

	pool, err := p.BuildPool(context.Background(), map[string]interface{}{"keywords": []interface{}{7, 8}}, []int{3, 4}, false)
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{1, 2, 5, 6}; !reflect.DeepEqual(pool.IDs(), want) {
		t.Errorf("pool = %v, want %v", pool.IDs(), want)
	}
	if len(src.searches) != 3 {
		t.Fatalf("searches = %d, want 3", len(src.searches))
	}
	first := src.searches[0]
	if !reflect.DeepEqual(first["keywords"], []string{"7", "8"}) || first.Get("include_children") != "false" {
		t.Errorf("search params = %v", first)
	}
	if src.searches[1].Get("filter") != "3" || src.searches[2].Get("filter") != "4" {
		t.Errorf("filter searches = %v, %v", src.searches[1], src.searches[2])
	}
}

func TestBuildPool_FiltersOnly(t *testing.T) {
	src := &fakeSource{recipes: tenRecipes(), byFilter: map[int][]models.Recipe{2: {{ID: 4}}}}

	pool, err := newTestPlanner(src).BuildPool(context.Background(), nil, []int{2}, true)
	if err != nil {
		t.Fatal(err)
	}
	if pool.Len() != 1 || len(src.searches) != 1 {
		t.Errorf("pool = %v after %d searches, want only the filter", pool.IDs(), len(src.searches))
	}
}

func TestSearchValues(t *testing.T) {
	got := SearchValues(map[string]interface{}{
		"keywords": []interface{}{1, 2},
		"rating":   3.5,
		"new":      true,
		"query":    "sour",
		"skip":     nil,
	})
	want := url.Values{
		"keywords": {"1", "2"},
		"rating":   {"3.5"},
		"new":      {"true"},
		"query":    {"sour"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SearchValues() = %v, want %v", got, want)
	}
}

func TestRequestFromConfig(t *testing.T) {
	cfg := &config.Config{
		Menu: config.MenuConfig{Choices: 3, Filters: []int{9}, IncludeChildren: true, Seed: 5, Solver: "sat"},
		Constraints: config.ConstraintsConfig{
			Ratings: []map[string]interface{}{{"condition": 3, "count": 1, "operator": ">="}},
		},
		MealPlan: config.MealPlanConfig{Enabled: true, TypeID: 2, Date: "2026-03-20"},
	}

	req := RequestFromConfig(cfg)
	if req.Choices != 3 || req.Solver != "sat" || req.Seed != 5 || !req.IncludeChildren {
		t.Errorf("menu fields not mapped: %+v", req)
	}
	if len(req.Specs[constraint.CategoryRating]) != 1 || len(req.Specs) != 1 {
		t.Errorf("Specs = %v", req.Specs)
	}
	if !req.MealPlan.Enabled || req.MealPlan.TypeID != 2 || req.MealPlan.Date != "2026-03-20" {
		t.Errorf("meal plan not mapped: %+v", req.MealPlan)
	}
}
