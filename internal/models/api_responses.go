// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package models

import (
	"time"
)

// APIResponse is the wrapper every HTTP endpoint returns.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "NO_FEASIBLE_SELECTION",
//	    "message": "no feasible selection of 5 recipes under 3 active constraints",
//	    "details": {"active_constraints": 3}
//	  },
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
type Metadata struct {
	Timestamp     time.Time `json:"timestamp"`
	QueryTimeMS   int64     `json:"query_time_ms,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: request body failed struct validation
//   - CONFIGURATION_ERROR: malformed constraint or choice count
//   - RESOLUTION_ERROR: catalog lookup failed while resolving a constraint
//   - NO_FEASIBLE_SELECTION: constraints are jointly infeasible
//   - RATE_LIMIT_EXCEEDED: too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// MenuResult is the outcome of one selection run.
type MenuResult struct {
	Recipes           []Recipe `json:"recipes"`
	PoolSize          int      `json:"pool_size"`
	ActiveConstraints int      `json:"active_constraints"`
	Solver            string   `json:"solver"`
	Status            string   `json:"status"`
	Seed              int64    `json:"seed"`
	MealPlansCreated  int      `json:"meal_plans_created,omitempty"`
	MealPlansRemoved  int      `json:"meal_plans_removed,omitempty"`
}
