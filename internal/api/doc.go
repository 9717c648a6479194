// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

/*
Package api provides the serve-mode HTTP API.

Routes:

	POST /api/v1/menus          build a menu, optionally writing a meal plan
	GET  /api/v1/health/live    process liveness
	GET  /api/v1/health/ready   catalog reachability
	GET  /metrics               Prometheus exposition

Every response except /metrics uses the models.APIResponse envelope. Errors
from the selection pipeline map to status codes as follows:

	*constraint.ConfigurationError       400 CONFIGURATION_ERROR
	request body validation              400 VALIDATION_ERROR
	*resolver.ResolutionError            502 RESOLUTION_ERROR
	*selection.NoFeasibleSelectionError  422 NO_FEASIBLE_SELECTION
	anything else                        500 INTERNAL_ERROR

Usage Example:

	planner := menu.NewPlanner(source)
	handler := api.NewHandler(planner, source, cfg)
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Server))
	srv := &http.Server{Addr: ":8080", Handler: router.SetupChi()}

Request bodies are optional field by field; anything omitted falls back to
the loaded configuration. A meal plan is only written when the body asks
for one with "mealplan": {"enabled": true}.
*/
package api
