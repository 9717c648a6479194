// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package resolver

import (
	"fmt"

	"github.com/smilerz/cocktail-menu/internal/constraint"
)

// ResolutionError reports a catalog lookup that failed while resolving the
// subject of a constraint. The run must not continue with partial data.
type ResolutionError struct {
	Constraint constraint.Constraint
	// Subject is the catalog id being looked up, or 0 for multi-id queries.
	Subject int
	// Lookup names the catalog operation that failed.
	Lookup string
	Err    error
}

func (e *ResolutionError) Error() string {
	if e.Subject != 0 {
		return fmt.Sprintf("resolve %s constraint [%s]: %s %d: %v", e.Constraint.Category, e.Constraint, e.Lookup, e.Subject, e.Err)
	}
	return fmt.Sprintf("resolve %s constraint [%s]: %s: %v", e.Constraint.Category, e.Constraint, e.Lookup, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
