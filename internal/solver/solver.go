// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package solver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Var is a handle to a binary decision variable.
type Var int

// Relation is the comparison in a linear constraint.
type Relation int

const (
	GreaterEqual Relation = iota
	LessEqual
	Equal
	NotEqual
)

func (r Relation) String() string {
	switch r {
	case GreaterEqual:
		return ">="
	case LessEqual:
		return "<="
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	default:
		return fmt.Sprintf("Relation(%d)", int(r))
	}
}

// Status is the outcome of a solve.
type Status int

const (
	// Unsolved means Solve has not been called.
	Unsolved Status = iota
	// Optimal means the returned assignment is proven optimal.
	Optimal
	// Feasible means the assignment satisfies every constraint but
	// optimality was not proven (search limit or heuristic objective).
	Feasible
	// Infeasible means no assignment satisfies the constraints.
	Infeasible
	// Unknown means a limit was hit before any feasible assignment was found.
	Unknown
)

func (s Status) String() string {
	switch s {
	case Unsolved:
		return "unsolved"
	case Optimal:
		return "optimal"
	case Feasible:
		return "feasible"
	case Infeasible:
		return "infeasible"
	case Unknown:
		return "unknown"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// HasSolution reports whether variable values can be read back.
func (s Status) HasSolution() bool {
	return s == Optimal || s == Feasible
}

// Term is one integer-weighted variable in a linear constraint.
type Term struct {
	Var  Var
	Coef int
}

// WeightedTerm is one real-weighted variable in the objective.
type WeightedTerm struct {
	Var    Var
	Weight float64
}

// Backend accumulates a 0/1 integer program and solves it once.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string
	// NewBinaryVariable declares a 0/1 variable.
	NewBinaryVariable(name string) Var
	// AddLinearConstraint adds sum(coef*var) <rel> rhs.
	AddLinearConstraint(terms []Term, rel Relation, rhs int) error
	// SetObjective replaces the objective. A backend that only approximates
	// it reports Feasible, never Optimal, for a model with nonzero weights.
	SetObjective(terms []WeightedTerm, maximize bool) error
	// Solve runs the solver. It may be called once.
	Solve(ctx context.Context) (Status, error)
	// ValueOf returns the 0/1 value of v after a successful solve.
	ValueOf(v Var) int
	// Status returns the status of the last solve.
	Status() Status
}

var (
	// ErrUnsupportedRelation is returned by backends that cannot express a relation.
	ErrUnsupportedRelation = errors.New("relation not supported by solver backend")
	// ErrAlreadySolved is returned when a model is modified or solved twice.
	ErrAlreadySolved = errors.New("model already solved")
	// ErrUnknownVariable is returned for terms that reference undeclared variables.
	ErrUnknownVariable = errors.New("unknown variable")
)

// Backend names accepted by New.
const (
	BranchAndBound = "bnb"
	SAT            = "sat"
)

// Names lists the available backends.
var Names = []string{BranchAndBound, SAT}

// Options bounds the work a backend may do.
type Options struct {
	// NodeLimit caps search nodes (branch-and-bound) or assumption solves (SAT).
	// Zero means unlimited.
	NodeLimit int
	// TimeLimit caps wall time. Zero means unlimited.
	TimeLimit time.Duration
}

// Option configures Options.
type Option func(*Options)

// WithNodeLimit caps the number of search nodes.
func WithNodeLimit(n int) Option {
	return func(o *Options) {
		o.NodeLimit = n
	}
}

// WithTimeLimit caps wall time spent in Solve.
func WithTimeLimit(d time.Duration) Option {
	return func(o *Options) {
		o.TimeLimit = d
	}
}

// New creates a backend by name.
func New(name string, opts ...Option) (Backend, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BranchAndBound:
		return NewBranchAndBound(o), nil
	case SAT:
		return NewSATBackend(o), nil
	default:
		return nil, fmt.Errorf("unknown solver backend %q (want one of %s)", name, strings.Join(Names, ", "))
	}
}
