// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package selection

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/smilerz/cocktail-menu/internal/constraint"
	"github.com/smilerz/cocktail-menu/internal/logging"
	"github.com/smilerz/cocktail-menu/internal/metrics"
	"github.com/smilerz/cocktail-menu/internal/models"
	"github.com/smilerz/cocktail-menu/internal/resolver"
	"github.com/smilerz/cocktail-menu/internal/solver"
)

// DefaultSeed is used when no seed option is given.
const DefaultSeed int64 = 42

// Tie-break objective coefficients are drawn from [coefMin, coefMin+coefSpan).
const (
	coefMin  = 10.0
	coefSpan = 1.0
)

// State is the lifecycle position of an Engine.
type State int

const (
	Unbuilt State = iota
	Built
	Solved
	SolvedInfeasible
)

func (s State) String() string {
	switch s {
	case Unbuilt:
		return "unbuilt"
	case Built:
		return "built"
	case Solved:
		return "solved"
	case SolvedInfeasible:
		return "infeasible"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Engine builds and solves one selection model. It is not safe for
// concurrent use and cannot be reused; create one per run.
type Engine struct {
	backend solver.Backend
	logger  zerolog.Logger
	seed    int64
	rng     *rand.Rand

	state        State
	pool         *models.Pool
	choices      int
	active       int
	vars         []solver.Var
	coefficients []float64
	status       solver.Status
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed seeds the tie-break objective.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// WithLogger overrides the component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an Engine over a fresh solver backend.
func NewEngine(backend solver.Backend, opts ...Option) *Engine {
	e := &Engine{
		backend: backend,
		seed:    DefaultSeed,
		logger:  logging.WithComponent("selection"),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.rng = rand.New(rand.NewSource(e.seed)) //nolint:gosec // tie-breaking, not security
	return e
}

// Seed returns the seed of the tie-break objective.
func (e *Engine) Seed() int64 {
	return e.seed
}

// State returns the engine's lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Status returns the backend status of the solve, or solver.Unsolved.
func (e *Engine) Status() solver.Status {
	return e.status
}

// Coefficients returns the tie-break coefficient per pool recipe, in pool order.
func (e *Engine) Coefficients() []float64 {
	out := make([]float64, len(e.coefficients))
	copy(out, e.coefficients)
	return out
}

// Select builds the model and solves it.
func (e *Engine) Select(ctx context.Context, pool *models.Pool, choices int, cs []resolver.Resolved) ([]models.Recipe, error) {
	if err := e.Build(pool, choices, cs); err != nil {
		return nil, err
	}
	return e.Solve(ctx)
}

// Build adds one binary variable per pool recipe, the cardinality row, one
// row per resolved constraint and the randomized tie-break objective.
func (e *Engine) Build(pool *models.Pool, choices int, cs []resolver.Resolved) error {
	if e.state != Unbuilt {
		return ErrAlreadySolved
	}
	if choices < 0 || choices > pool.Len() {
		return &constraint.ConfigurationError{
			Field:  "choices",
			Value:  choices,
			Reason: fmt.Sprintf("must be between 0 and the pool size %d", pool.Len()),
		}
	}

	e.logger.Info().
		Int("choices", choices).
		Int("pool_size", pool.Len()).
		Int("constraints", len(cs)).
		Str("solver", e.backend.Name()).
		Msgf("Selecting %d recipes with %d selection criteria", choices, len(cs))

	e.pool = pool
	e.choices = choices
	e.vars = make([]solver.Var, pool.Len())
	index := make(map[int]solver.Var, pool.Len())
	for i := 0; i < pool.Len(); i++ {
		r := pool.At(i)
		v := e.backend.NewBinaryVariable(fmt.Sprintf("recipe_%d", r.ID))
		e.vars[i] = v
		index[r.ID] = v
	}

	if err := e.backend.AddLinearConstraint(unitTerms(e.vars), solver.Equal, choices); err != nil {
		return fmt.Errorf("add cardinality constraint: %w", err)
	}

	for i := range cs {
		c := &cs[i]
		subset := c.Subset(pool)
		terms := make([]solver.Term, len(subset))
		for j, id := range subset {
			terms[j] = solver.Term{Var: index[id], Coef: 1}
		}
		rel, err := relationFor(c.Operator)
		if err != nil {
			return err
		}
		if err := e.backend.AddLinearConstraint(terms, rel, c.Count); err != nil {
			return fmt.Errorf("add %s constraint [%s]: %w", c.Category, c.Constraint, err)
		}
		e.logger.Debug().
			Str("constraint", c.Constraint.String()).
			Int("subset", len(subset)).
			Msg("Added selection constraint")
	}
	e.active = len(cs)

	e.coefficients = make([]float64, len(e.vars))
	objective := make([]solver.WeightedTerm, len(e.vars))
	for i, v := range e.vars {
		e.coefficients[i] = coefMin + coefSpan*e.rng.Float64()
		objective[i] = solver.WeightedTerm{Var: v, Weight: e.coefficients[i]}
	}
	if err := e.backend.SetObjective(objective, true); err != nil {
		return fmt.Errorf("set objective: %w", err)
	}

	e.state = Built
	return nil
}

// Solve runs the backend and returns the selected recipes in pool order.
func (e *Engine) Solve(ctx context.Context) ([]models.Recipe, error) {
	switch e.state {
	case Unbuilt:
		return nil, ErrNotBuilt
	case Solved, SolvedInfeasible:
		return nil, ErrAlreadySolved
	}

	start := time.Now()
	status, err := e.backend.Solve(ctx)
	e.status = status
	metrics.SolverDuration.WithLabelValues(e.backend.Name(), status.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		e.state = SolvedInfeasible
		metrics.SelectionRuns.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("solve selection model: %w", err)
	}

	if !status.HasSolution() {
		e.state = SolvedInfeasible
		metrics.SelectionRuns.WithLabelValues("infeasible").Inc()
		e.logger.Warn().
			Str("status", status.String()).
			Int("active_constraints", e.active).
			Msg("No feasible selection")
		return nil, &NoFeasibleSelectionError{
			Choices:           e.choices,
			PoolSize:          e.pool.Len(),
			ActiveConstraints: e.active,
			Status:            status,
		}
	}

	selected := make([]models.Recipe, 0, e.choices)
	for i, v := range e.vars {
		if e.backend.ValueOf(v) == 1 {
			selected = append(selected, e.pool.At(i))
		}
	}
	e.state = Solved
	metrics.SelectionRuns.WithLabelValues("selected").Inc()

	e.logger.Info().
		Str("status", status.String()).
		Int("selected", len(selected)).
		Dur("duration", time.Since(start)).
		Msg("Selection complete")
	return selected, nil
}

func relationFor(op constraint.Operator) (solver.Relation, error) {
	switch op {
	case constraint.OpGreaterEqual:
		return solver.GreaterEqual, nil
	case constraint.OpLessEqual:
		return solver.LessEqual, nil
	case constraint.OpEqual:
		return solver.Equal, nil
	case constraint.OpNotEqual:
		return solver.NotEqual, nil
	default:
		return 0, &constraint.ConfigurationError{Field: "operator", Value: string(op), Reason: "unknown operator"}
	}
}

func unitTerms(vars []solver.Var) []solver.Term {
	terms := make([]solver.Term, len(vars))
	for i, v := range vars {
		terms[i] = solver.Term{Var: v, Coef: 1}
	}
	return terms
}
