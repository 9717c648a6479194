// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package solver

import (
	"fmt"
	"sort"
)

type row struct {
	terms []Term
	rel   Relation
	rhs   int
}

// model is the variable/constraint accumulator shared by both backends.
type model struct {
	names    []string
	rows     []row
	weights  []float64
	maximize bool

	status Status
	values []int
}

func (m *model) NewBinaryVariable(name string) Var {
	m.names = append(m.names, name)
	m.weights = append(m.weights, 0)
	return Var(len(m.names) - 1)
}

func (m *model) AddLinearConstraint(terms []Term, rel Relation, rhs int) error {
	if m.status != Unsolved {
		return ErrAlreadySolved
	}
	if rel < GreaterEqual || rel > NotEqual {
		return fmt.Errorf("%w: %v", ErrUnsupportedRelation, rel)
	}

	merged, err := m.mergeTerms(terms)
	if err != nil {
		return err
	}
	m.rows = append(m.rows, row{terms: merged, rel: rel, rhs: rhs})
	return nil
}

func (m *model) SetObjective(terms []WeightedTerm, maximize bool) error {
	if m.status != Unsolved {
		return ErrAlreadySolved
	}
	weights := make([]float64, len(m.names))
	for _, t := range terms {
		if int(t.Var) < 0 || int(t.Var) >= len(m.names) {
			return fmt.Errorf("%w: %d", ErrUnknownVariable, t.Var)
		}
		weights[t.Var] += t.Weight
	}
	m.weights = weights
	m.maximize = maximize
	return nil
}

func (m *model) ValueOf(v Var) int {
	if !m.status.HasSolution() || int(v) < 0 || int(v) >= len(m.values) {
		return 0
	}
	return m.values[v]
}

func (m *model) Status() Status {
	return m.status
}

// mergeTerms sums duplicate variables and drops zero coefficients.
func (m *model) mergeTerms(terms []Term) ([]Term, error) {
	sums := make(map[Var]int, len(terms))
	for _, t := range terms {
		if int(t.Var) < 0 || int(t.Var) >= len(m.names) {
			return nil, fmt.Errorf("%w: %d", ErrUnknownVariable, t.Var)
		}
		sums[t.Var] += t.Coef
	}
	out := make([]Term, 0, len(sums))
	for v, c := range sums {
		if c != 0 {
			out = append(out, Term{Var: v, Coef: c})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Var < out[j].Var })
	return out, nil
}

// gain returns each variable's objective weight in maximization form.
func (m *model) gain() []float64 {
	g := make([]float64, len(m.weights))
	for i, w := range m.weights {
		if m.maximize {
			g[i] = w
		} else {
			g[i] = -w
		}
	}
	return g
}

// orderByGain returns variable indices sorted by descending gain, ties by index.
func orderByGain(gain []float64) []int {
	order := make([]int, len(gain))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return gain[order[a]] > gain[order[b]]
	})
	return order
}

// satisfied evaluates every row against a full assignment.
func (m *model) satisfied(values []int) bool {
	for _, r := range m.rows {
		sum := 0
		for _, t := range r.terms {
			sum += t.Coef * values[t.Var]
		}
		if !holds(r.rel, sum, r.rhs) {
			return false
		}
	}
	return true
}

func holds(rel Relation, lhs, rhs int) bool {
	switch rel {
	case GreaterEqual:
		return lhs >= rhs
	case LessEqual:
		return lhs <= rhs
	case Equal:
		return lhs == rhs
	case NotEqual:
		return lhs != rhs
	default:
		return false
	}
}
