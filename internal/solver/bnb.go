// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package solver

import (
	"context"
	"math"
	"sort"
	"time"
)

// ctxCheckInterval is how many nodes are expanded between context and deadline checks.
const ctxCheckInterval = 1024

// minDiveNodes is the smallest node budget the search gets to find a first
// incumbent on its own before it asks the SAT encoding for one.
const minDiveNodes = 4096

// BranchAndBoundBackend is an exact depth-first branch-and-bound solver for
// 0/1 programs.
//
// Every assignment is followed by row propagation: a row whose slack is
// used up forces its remaining free variables. Free variables are branched
// in descending objective order with the preferred value first. When that
// dive does not reach an incumbent within a budget proportional to the
// model size, the rows are handed to gini for a first feasible assignment
// (or a proof of infeasibility) and the search continues from it, pruning
// by bound.
type BranchAndBoundBackend struct {
	model
	opts Options
}

// NewBranchAndBound creates a branch-and-bound backend.
func NewBranchAndBound(opts Options) *BranchAndBoundBackend {
	return &BranchAndBoundBackend{opts: opts}
}

// Name returns "bnb".
func (b *BranchAndBoundBackend) Name() string {
	return BranchAndBound
}

type rowRef struct {
	row  int
	coef int
}

type rowState struct {
	fixed  int
	posRem int
	negRem int
	free   int
}

type bnbSearch struct {
	m     *model
	gain  []float64
	order []int
	refs  [][]rowRef
	state []rowState
	// maxCoef[ri] is the largest |coef| in row ri.
	maxCoef []int

	// capRows are all-ones <= / == rows covering every variable; they bound
	// how many more variables can be set to 1.
	capRows []int
	// demandRows are >= / == rows with only positive coefficients; each
	// needs a minimum number of further ones that must fit under capRows.
	// demandOrder[j] lists the variables of demandRows[j] by descending gain.
	demandRows  []int
	demandOrder [][]int
	// supplyRows are the other all-ones <= / == rows; supplyMember[j]
	// marks the variables of supplyRows[j].
	supplyRows   []int
	supplyMember [][]bool

	assign   []int
	assigned []bool
	trail    []int
	queue    []int
	queued   []bool

	current   float64
	best      float64
	bestValue []int
	found     bool

	nodes     int
	limit     int
	nodeLimit int
	deadline  time.Time
	ctx       context.Context
	stopped   bool
	err       error
}

// Solve runs the search. A node or time limit returns the incumbent as
// Feasible, or Unknown when none was found.
func (b *BranchAndBoundBackend) Solve(ctx context.Context) (Status, error) {
	if b.status != Unsolved {
		return b.status, ErrAlreadySolved
	}

	s := newBnBSearch(&b.model, b.opts, ctx)
	if !s.propagateAll() {
		b.status = Infeasible
		return b.status, nil
	}
	root := len(s.trail)

	s.dfs(0)
	if s.err == nil && s.stopped && !s.found {
		if infeasible := s.seedFromSAT(); infeasible {
			b.status = Infeasible
			return b.status, nil
		}
		if s.found && s.resume() {
			s.undoTo(root)
			s.dfs(0)
		}
	}
	if s.err != nil {
		b.status = Unknown
		return b.status, s.err
	}

	switch {
	case s.found && !s.stopped:
		b.status = Optimal
	case s.found:
		b.status = Feasible
	case s.stopped:
		b.status = Unknown
	default:
		b.status = Infeasible
	}
	if s.found {
		b.values = s.bestValue
	}
	return b.status, nil
}

func newBnBSearch(m *model, opts Options, ctx context.Context) *bnbSearch {
	n := len(m.names)
	gain := m.gain()
	order := orderByGain(gain)

	s := &bnbSearch{
		m:         m,
		gain:      gain,
		order:     order,
		refs:      make([][]rowRef, n),
		state:     make([]rowState, len(m.rows)),
		maxCoef:   make([]int, len(m.rows)),
		assign:    make([]int, n),
		assigned:  make([]bool, n),
		trail:     make([]int, 0, n),
		queued:    make([]bool, len(m.rows)),
		best:      math.Inf(-1),
		nodeLimit: opts.NodeLimit,
		deadline:  deadlineFor(opts),
		ctx:       ctx,
	}

	s.limit = 32 * (n + 1)
	if s.limit < minDiveNodes {
		s.limit = minDiveNodes
	}
	if s.nodeLimit > 0 && s.nodeLimit < s.limit {
		s.limit = s.nodeLimit
	}

	for ri, r := range m.rows {
		st := &s.state[ri]
		allOnes, positive := true, true
		for _, t := range r.terms {
			s.refs[t.Var] = append(s.refs[t.Var], rowRef{row: ri, coef: t.Coef})
			st.free++
			if t.Coef > 0 {
				st.posRem += t.Coef
			} else {
				st.negRem += t.Coef
				positive = false
			}
			if t.Coef != 1 {
				allOnes = false
			}
			if a := abs(t.Coef); a > s.maxCoef[ri] {
				s.maxCoef[ri] = a
			}
		}
		switch {
		case allOnes && len(r.terms) == n && (r.rel == LessEqual || r.rel == Equal):
			s.capRows = append(s.capRows, ri)
		case allOnes && len(r.terms) > 0 && (r.rel == LessEqual || r.rel == Equal):
			member := make([]bool, n)
			for _, t := range r.terms {
				member[t.Var] = true
			}
			s.supplyRows = append(s.supplyRows, ri)
			s.supplyMember = append(s.supplyMember, member)
		}
		if positive && len(r.terms) > 0 && (r.rel == GreaterEqual || r.rel == Equal) {
			s.demandRows = append(s.demandRows, ri)
			s.demandOrder = append(s.demandOrder, rowOrder(r, gain))
		}
	}
	return s
}

// rowFeasible reports whether row ri can still be satisfied by some
// completion of the current partial assignment.
func (s *bnbSearch) rowFeasible(ri int) bool {
	st := s.state[ri]
	r := s.m.rows[ri]
	lo := st.fixed + st.negRem
	hi := st.fixed + st.posRem

	switch r.rel {
	case GreaterEqual:
		return hi >= r.rhs
	case LessEqual:
		return lo <= r.rhs
	case Equal:
		return lo <= r.rhs && r.rhs <= hi
	case NotEqual:
		if st.free == 0 {
			return st.fixed != r.rhs
		}
		return true
	default:
		return false
	}
}

// minOnes is the fewest further ones demand row ri still needs.
func (s *bnbSearch) minOnes(ri int) int {
	need := s.m.rows[ri].rhs - s.state[ri].fixed
	if need <= 0 {
		return 0
	}
	return (need + s.maxCoef[ri] - 1) / s.maxCoef[ri]
}

// room is how many more variables the cardinality rows allow at 1, or -1
// when there is no such row.
func (s *bnbSearch) room() int {
	room := -1
	for _, ri := range s.capRows {
		if c := s.m.rows[ri].rhs - s.state[ri].fixed; room < 0 || c < room {
			room = c
		}
	}
	return room
}

// capacityFeasible checks every demand row against the remaining room
// under the cardinality rows.
func (s *bnbSearch) capacityFeasible() bool {
	room := s.room()
	if room < 0 {
		return true
	}
	for _, ri := range s.demandRows {
		if s.minOnes(ri) > room {
			return false
		}
	}
	return true
}

// bound is an upper bound on the objective reachable once order[pos:] is
// decided. At most k free variables can still go to 1, each demand row
// must take at least minOnes of them from its own members, and each supply
// row caps how many may come from its members. Rows are applied one at a
// time and the smallest result is kept.
func (s *bnbSearch) bound(pos int) float64 {
	rest := s.order[pos:]
	k := s.room()
	if k < 0 || k > len(rest) {
		k = len(rest)
	}

	best := s.topFree(rest, k)
	for j, ri := range s.demandRows {
		d := s.minOnes(ri)
		if d == 0 {
			continue
		}
		if d > k {
			d = k
		}
		if b := s.topFree(s.demandOrder[j], d) + s.topFree(rest, k-d); b < best {
			best = b
		}
	}
	for j, ri := range s.supplyRows {
		u := s.m.rows[ri].rhs - s.state[ri].fixed
		if u >= k {
			continue
		}
		if b := s.topFreeCapped(rest, k, s.supplyMember[j], u); b < best {
			best = b
		}
	}
	return s.current + best
}

// topFree sums the k largest positive gains among the unassigned variables
// of vars, which must be sorted by descending gain.
func (s *bnbSearch) topFree(vars []int, k int) float64 {
	sum := 0.0
	for _, v := range vars {
		if k == 0 || s.gain[v] <= 0 {
			break
		}
		if s.assigned[v] {
			continue
		}
		sum += s.gain[v]
		k--
	}
	return sum
}

func (s *bnbSearch) assignVar(v, val int) {
	s.assign[v] = val
	s.assigned[v] = true
	s.trail = append(s.trail, v)
	s.current += s.gain[v] * float64(val)
	for _, ref := range s.refs[v] {
		st := &s.state[ref.row]
		st.free--
		if ref.coef > 0 {
			st.posRem -= ref.coef
		} else {
			st.negRem -= ref.coef
		}
		st.fixed += ref.coef * val
		s.enqueue(ref.row)
	}
}

// undoTo unassigns everything after trail[:mark].
func (s *bnbSearch) undoTo(mark int) {
	for len(s.trail) > mark {
		v := s.trail[len(s.trail)-1]
		s.trail = s.trail[:len(s.trail)-1]
		val := s.assign[v]
		s.current -= s.gain[v] * float64(val)
		for _, ref := range s.refs[v] {
			st := &s.state[ref.row]
			st.free++
			if ref.coef > 0 {
				st.posRem += ref.coef
			} else {
				st.negRem += ref.coef
			}
			st.fixed -= ref.coef * val
		}
		s.assign[v] = 0
		s.assigned[v] = false
	}
	s.clearQueue()
}

func (s *bnbSearch) enqueue(ri int) {
	if !s.queued[ri] {
		s.queued[ri] = true
		s.queue = append(s.queue, ri)
	}
}

func (s *bnbSearch) clearQueue() {
	for _, ri := range s.queue {
		s.queued[ri] = false
	}
	s.queue = s.queue[:0]
}

// propagateAll queues every row and propagates from the empty assignment.
func (s *bnbSearch) propagateAll() bool {
	for ri := range s.m.rows {
		s.enqueue(ri)
	}
	return s.propagate()
}

// propagate drains the row queue, forcing variables until a fixpoint or a
// conflict. On conflict the queue is cleared and the caller undoes the trail.
func (s *bnbSearch) propagate() bool {
	for len(s.queue) > 0 {
		ri := s.queue[0]
		s.queue = s.queue[1:]
		s.queued[ri] = false
		if !s.rowFeasible(ri) || !s.forceRow(ri) {
			s.clearQueue()
			return false
		}
	}
	s.queue = s.queue[:0]
	return s.capacityFeasible()
}

// forceRow assigns the free variables of row ri whose other value would
// make the row unsatisfiable.
func (s *bnbSearch) forceRow(ri int) bool {
	st := s.state[ri]
	if st.free == 0 {
		return true
	}
	r := s.m.rows[ri]
	lo := st.fixed + st.negRem
	hi := st.fixed + st.posRem

	needLow := (r.rel == GreaterEqual || r.rel == Equal) && hi-s.maxCoef[ri] < r.rhs
	needHigh := (r.rel == LessEqual || r.rel == Equal) && lo+s.maxCoef[ri] > r.rhs
	lastNE := r.rel == NotEqual && st.free == 1
	if !needLow && !needHigh && !lastNE {
		return true
	}

	for _, t := range r.terms {
		v := int(t.Var)
		if s.assigned[v] {
			continue
		}
		c := t.Coef
		want := -1
		force := func(val int) bool {
			if want >= 0 && want != val {
				return false
			}
			want = val
			return true
		}
		if needLow {
			if c > 0 && hi-c < r.rhs && !force(1) {
				return false
			}
			if c < 0 && hi+c < r.rhs && !force(0) {
				return false
			}
		}
		if needHigh {
			if c > 0 && lo+c > r.rhs && !force(0) {
				return false
			}
			if c < 0 && lo-c > r.rhs && !force(1) {
				return false
			}
		}
		if lastNE {
			if st.fixed == r.rhs && !force(1) {
				return false
			}
			if st.fixed+c == r.rhs && !force(0) {
				return false
			}
		}
		if want >= 0 {
			s.assignVar(v, want)
		}
	}
	return true
}

func (s *bnbSearch) limitReached() bool {
	s.nodes++
	if s.limit > 0 && s.nodes > s.limit {
		s.stopped = true
		return true
	}
	if s.nodes%ctxCheckInterval == 0 {
		if err := s.ctx.Err(); err != nil {
			s.err = err
			return true
		}
		if !s.deadline.IsZero() && time.Now().After(s.deadline) {
			s.stopped = true
			return true
		}
	}
	return false
}

// seedFromSAT installs a feasible assignment from the gini encoding as the
// incumbent. It reports true when the encoding proves the rows unsatisfiable.
func (s *bnbSearch) seedFromSAT() bool {
	if err := s.ctx.Err(); err != nil {
		s.err = err
		return false
	}
	g, lits, ok := encodeModel(s.m)
	if !ok {
		return true
	}
	switch solveWithin(g, s.deadline) {
	case -1:
		return true
	case 1:
	default:
		return false
	}

	values := make([]int, len(lits))
	value := 0.0
	for i, lit := range lits {
		if g.Value(lit) {
			values[i] = 1
			value += s.gain[i]
		}
	}
	s.found = true
	s.best = value
	s.bestValue = values
	return false
}

// resume lifts the dive budget to the caller's node limit. It reports false
// when no budget or time is left to improve the incumbent.
func (s *bnbSearch) resume() bool {
	s.limit = s.nodeLimit
	if s.nodeLimit > 0 && s.nodes >= s.nodeLimit {
		return false
	}
	if !s.deadline.IsZero() && time.Now().After(s.deadline) {
		return false
	}
	s.stopped = false
	return true
}

func (s *bnbSearch) dfs(pos int) {
	if s.stopped || s.err != nil || s.limitReached() {
		return
	}

	for pos < len(s.order) && s.assigned[s.order[pos]] {
		pos++
	}
	if pos == len(s.order) {
		if !s.found || s.current > s.best {
			s.found = true
			s.best = s.current
			s.bestValue = append(s.bestValue[:0], s.assign...)
		}
		s.limit = s.nodeLimit
		return
	}

	if s.found && s.bound(pos) <= s.best {
		return
	}

	v := s.order[pos]
	first, second := 1, 0
	if s.gain[v] < 0 {
		first, second = 0, 1
	}

	for _, val := range [2]int{first, second} {
		mark := len(s.trail)
		s.assignVar(v, val)
		if s.propagate() {
			s.dfs(pos + 1)
		}
		s.undoTo(mark)
		if s.stopped || s.err != nil {
			return
		}
	}
}

// topFreeCapped is topFree over vars taking at most u variables marked in
// member.
func (s *bnbSearch) topFreeCapped(vars []int, k int, member []bool, u int) float64 {
	sum := 0.0
	for _, v := range vars {
		if k == 0 || s.gain[v] <= 0 {
			break
		}
		if s.assigned[v] {
			continue
		}
		if member[v] {
			if u <= 0 {
				continue
			}
			u--
		}
		sum += s.gain[v]
		k--
	}
	return sum
}

// rowOrder returns the variables of r by descending gain.
func rowOrder(r row, gain []float64) []int {
	vars := make([]int, len(r.terms))
	for i, t := range r.terms {
		vars[i] = int(t.Var)
	}
	sort.SliceStable(vars, func(a, b int) bool {
		return gain[vars[a]] > gain[vars[b]]
	})
	return vars
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
