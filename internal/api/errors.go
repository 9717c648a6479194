// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/smilerz/cocktail-menu/internal/constraint"
	"github.com/smilerz/cocktail-menu/internal/resolver"
	"github.com/smilerz/cocktail-menu/internal/selection"
)

var errCatalogNotConfigured = errors.New("catalog client not configured")

// apiFailure is the HTTP rendering of a pipeline error.
type apiFailure struct {
	Status  int
	Code    string
	Message string
	Details map[string]interface{}
}

// classifyError maps a planner error to its status, code and details.
func classifyError(err error) apiFailure {
	var cfgErr *constraint.ConfigurationError
	var resErr *resolver.ResolutionError
	var infeasible *selection.NoFeasibleSelectionError

	switch {
	case errors.As(err, &cfgErr):
		details := map[string]interface{}{}
		if cfgErr.Category != "" {
			details["category"] = string(cfgErr.Category)
		}
		if cfgErr.Field != "" {
			details["field"] = cfgErr.Field
			details["value"] = fmt.Sprint(cfgErr.Value)
		}
		if cfgErr.Reason != "" {
			details["reason"] = cfgErr.Reason
		}
		return apiFailure{http.StatusBadRequest, ErrCodeConfiguration, cfgErr.Error(), details}

	case errors.As(err, &resErr):
		details := map[string]interface{}{
			"category": string(resErr.Constraint.Category),
			"lookup":   resErr.Lookup,
		}
		if resErr.Subject != 0 {
			details["subject"] = resErr.Subject
		}
		return apiFailure{http.StatusBadGateway, ErrCodeResolution, resErr.Error(), details}

	case errors.As(err, &infeasible):
		return apiFailure{http.StatusUnprocessableEntity, ErrCodeNoFeasible, infeasible.Error(), map[string]interface{}{
			"choices":            infeasible.Choices,
			"pool_size":          infeasible.PoolSize,
			"active_constraints": infeasible.ActiveConstraints,
			"solver_status":      infeasible.Status.String(),
		}}

	case errors.Is(err, context.DeadlineExceeded):
		return apiFailure{http.StatusGatewayTimeout, ErrCodeTimeout, "Menu generation timed out", nil}

	default:
		return apiFailure{http.StatusInternalServerError, ErrCodeInternal, err.Error(), nil}
	}
}
