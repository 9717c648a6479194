// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package solver

import (
	"context"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// SATBackend encodes rows as cardinality circuits over gini literals.
//
// Integer coefficients are expanded by repeating the literal, and negative
// coefficients are rewritten over the negated literal. The objective is
// approximated lexicographically: variables are fixed one at a time in
// descending gain order, each to its preferred value when the remaining
// problem stays satisfiable. This greedy pass does not maximize the
// objective, so a weighted model is reported as Feasible rather than
// Optimal. Use the branch-and-bound backend when the best tie-break matters.
type SATBackend struct {
	model
	opts Options
}

// NewSATBackend creates a gini-backed solver.
func NewSATBackend(opts Options) *SATBackend {
	return &SATBackend{opts: opts}
}

// Name returns "sat".
func (b *SATBackend) Name() string {
	return SAT
}

// Solve encodes and solves the model.
func (b *SATBackend) Solve(ctx context.Context) (Status, error) {
	if b.status != Unsolved {
		return b.status, ErrAlreadySolved
	}

	g, lits, ok := encodeModel(&b.model)
	if !ok {
		b.status = Infeasible
		return b.status, nil
	}

	deadline := deadlineFor(b.opts)
	switch solveWithin(g, deadline) {
	case 1:
	case -1:
		b.status = Infeasible
		return b.status, nil
	default:
		b.status = Unknown
		return b.status, nil
	}

	fixed, exhausted, err := b.improve(ctx, g, lits, deadline)
	if err != nil {
		b.status = Unknown
		return b.status, err
	}

	g.Assume(fixed...)
	if g.Solve() != 1 {
		// Every assumption in fixed was individually proven satisfiable
		// together with its predecessors.
		b.status = Unknown
		return b.status, nil
	}

	b.values = make([]int, len(lits))
	for i, lit := range lits {
		if g.Value(lit) {
			b.values[i] = 1
		}
	}

	if !hasObjective(b.weights) && exhausted {
		b.status = Optimal
	} else {
		b.status = Feasible
	}
	return b.status, nil
}

// improve fixes variables greedily by gain. exhausted is false when a
// node or time limit stopped it early.
func (b *SATBackend) improve(ctx context.Context, g *gini.Gini, lits []z.Lit, deadline time.Time) ([]z.Lit, bool, error) {
	gain := b.gain()

	fixed := make([]z.Lit, 0, len(lits))
	tries := 0
	for _, v := range orderByGain(gain) {
		if gain[v] == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		if b.opts.NodeLimit > 0 && tries >= b.opts.NodeLimit {
			return fixed, false, nil
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return fixed, false, nil
		}

		want := lits[v]
		if gain[v] < 0 {
			want = want.Not()
		}
		tries++
		g.Assume(fixed...)
		g.Assume(want)
		if g.Solve() == 1 {
			fixed = append(fixed, want)
		} else {
			fixed = append(fixed, want.Not())
		}
	}
	return fixed, true, nil
}

func hasObjective(weights []float64) bool {
	for _, w := range weights {
		if w != 0 {
			return true
		}
	}
	return false
}

// encodeModel translates every row into CNF on a fresh gini instance. ok is
// false when some row is unsatisfiable on its own.
func encodeModel(m *model) (g *gini.Gini, lits []z.Lit, ok bool) {
	c := logic.NewC()
	lits = make([]z.Lit, len(m.names))
	for i := range lits {
		lits[i] = c.Lit()
	}

	roots := make([]z.Lit, 0, len(m.rows))
	for _, r := range m.rows {
		root := encodeRow(c, lits, r)
		if root == c.F {
			return nil, nil, false
		}
		if root != c.T {
			roots = append(roots, root)
		}
	}

	g = gini.New()
	c.ToCnf(g)
	for _, root := range roots {
		g.Add(root)
		g.Add(z.LitNull)
	}
	return g, lits, true
}

// solveWithin runs g until the deadline. It returns 1 (sat), -1 (unsat) or
// 0 when time ran out.
func solveWithin(g *gini.Gini, deadline time.Time) int {
	if deadline.IsZero() {
		return g.Solve()
	}
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return 0
	}
	return g.Try(remaining)
}

func deadlineFor(opts Options) time.Time {
	if opts.TimeLimit <= 0 {
		return time.Time{}
	}
	return time.Now().Add(opts.TimeLimit)
}

// encodeRow returns a literal equivalent to the row holding.
func encodeRow(c *logic.C, lits []z.Lit, r row) z.Lit {
	rhs := r.rhs
	var ms []z.Lit
	for _, t := range r.terms {
		lit, coef := lits[t.Var], t.Coef
		if coef < 0 {
			// coef*x == coef + |coef|*(not x)
			rhs -= coef
			lit, coef = lit.Not(), -coef
		}
		for i := 0; i < coef; i++ {
			ms = append(ms, lit)
		}
	}

	var cs *logic.CardSort
	if len(ms) > 0 {
		cs = c.CardSort(ms)
	}
	total := len(ms)

	switch r.rel {
	case GreaterEqual:
		return atLeast(c, cs, total, rhs)
	case LessEqual:
		return atMost(c, cs, total, rhs)
	case Equal:
		return c.And(atLeast(c, cs, total, rhs), atMost(c, cs, total, rhs))
	case NotEqual:
		return c.Or(atMost(c, cs, total, rhs-1), atLeast(c, cs, total, rhs+1))
	default:
		return c.F
	}
}

func atLeast(c *logic.C, cs *logic.CardSort, total, n int) z.Lit {
	switch {
	case n <= 0:
		return c.T
	case n > total:
		return c.F
	default:
		return cs.Geq(n)
	}
}

func atMost(c *logic.C, cs *logic.CardSort, total, n int) z.Lit {
	switch {
	case n < 0:
		return c.F
	case n >= total:
		return c.T
	default:
		return cs.Leq(n)
	}
}
