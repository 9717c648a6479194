// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package models

// Pool is the deduplicated, ordered set of candidate recipes a selection
// run chooses from. It is read-only after construction and safe to share.
type Pool struct {
	recipes []Recipe
	index   map[int]int
}

// NewPool builds a pool from recipes, keeping the first occurrence of each id.
func NewPool(recipes []Recipe) *Pool {
	p := &Pool{
		recipes: make([]Recipe, 0, len(recipes)),
		index:   make(map[int]int, len(recipes)),
	}
	for i := range recipes {
		if _, dup := p.index[recipes[i].ID]; dup {
			continue
		}
		p.index[recipes[i].ID] = len(p.recipes)
		p.recipes = append(p.recipes, recipes[i])
	}
	return p
}

// Len returns the number of distinct recipes.
func (p *Pool) Len() int {
	return len(p.recipes)
}

// Contains reports whether the recipe id is in the pool.
func (p *Pool) Contains(id int) bool {
	_, ok := p.index[id]
	return ok
}

// Get returns the recipe with the given id.
func (p *Pool) Get(id int) (Recipe, bool) {
	i, ok := p.index[id]
	if !ok {
		return Recipe{}, false
	}
	return p.recipes[i], true
}

// At returns the recipe at position i in pool order.
func (p *Pool) At(i int) Recipe {
	return p.recipes[i]
}

// IDs returns recipe ids in pool order.
func (p *Pool) IDs() []int {
	ids := make([]int, len(p.recipes))
	for i := range p.recipes {
		ids[i] = p.recipes[i].ID
	}
	return ids
}

// Recipes returns a copy of the pool contents in pool order.
func (p *Pool) Recipes() []Recipe {
	out := make([]Recipe, len(p.recipes))
	copy(out, p.recipes)
	return out
}

// Filter returns, in pool order, the ids of recipes matching keep.
func (p *Pool) Filter(keep func(*Recipe) bool) []int {
	var ids []int
	for i := range p.recipes {
		if keep(&p.recipes[i]) {
			ids = append(ids, p.recipes[i].ID)
		}
	}
	return ids
}

// Intersect returns, in pool order, the ids of ids that are in the pool.
func (p *Pool) Intersect(ids []int) []int {
	want := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	return p.Filter(func(r *Recipe) bool {
		_, ok := want[r.ID]
		return ok
	})
}

// Complement returns, in pool order, the pool ids not present in ids.
func (p *Pool) Complement(ids []int) []int {
	drop := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	return p.Filter(func(r *Recipe) bool {
		_, ok := drop[r.ID]
		return !ok
	})
}
