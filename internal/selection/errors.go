// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package selection

import (
	"errors"
	"fmt"

	"github.com/smilerz/cocktail-menu/internal/solver"
)

// ErrAlreadySolved is returned when an Engine is built or solved a second time.
var ErrAlreadySolved = errors.New("selection engine already used")

// ErrNotBuilt is returned by Solve before Build.
var ErrNotBuilt = errors.New("selection model not built")

// NoFeasibleSelectionError means no subset of the pool satisfies every
// active constraint. Relax constraints and start a new run.
type NoFeasibleSelectionError struct {
	Choices           int
	PoolSize          int
	ActiveConstraints int
	Status            solver.Status
}

func (e *NoFeasibleSelectionError) Error() string {
	if e.Status == solver.Unknown {
		return fmt.Sprintf("no feasible selection of %d from %d recipes found within solver limits (%d active constraints)",
			e.Choices, e.PoolSize, e.ActiveConstraints)
	}
	return fmt.Sprintf("no feasible selection of %d from %d recipes satisfies %d active constraints",
		e.Choices, e.PoolSize, e.ActiveConstraints)
}
