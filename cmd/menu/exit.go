// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package main

import (
	"errors"

	"github.com/smilerz/cocktail-menu/internal/constraint"
	"github.com/smilerz/cocktail-menu/internal/resolver"
	"github.com/smilerz/cocktail-menu/internal/selection"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitConfig      = 2
	exitResolution  = 3
	exitNoSelection = 4
)

// configError marks failures in loading, overriding or validating the
// configuration itself, as opposed to a malformed constraint.
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// exitCode maps an error returned by a command to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var (
		cfgErr   *configError
		constErr *constraint.ConfigurationError
		resErr   *resolver.ResolutionError
		infErr   *selection.NoFeasibleSelectionError
	)
	switch {
	case errors.As(err, &cfgErr), errors.As(err, &constErr):
		return exitConfig
	case errors.As(err, &resErr):
		return exitResolution
	case errors.As(err, &infErr):
		return exitNoSelection
	default:
		return exitFailure
	}
}
