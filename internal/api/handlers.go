// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package api

import (
	"context"
	"time"

	"github.com/smilerz/cocktail-menu/internal/config"
	"github.com/smilerz/cocktail-menu/internal/menu"
	"github.com/smilerz/cocktail-menu/internal/models"
)

// Planner runs one menu request. *menu.Planner satisfies it.
type Planner interface {
	Plan(ctx context.Context, req menu.Request) (*models.MenuResult, error)
}

// Pinger reports catalog reachability for the readiness check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers_menu.go: POST /api/v1/menus
//   - handlers_health.go: liveness and readiness checks
type Handler struct {
	planner   Planner
	catalog   Pinger
	config    *config.Config
	startTime time.Time
}

// NewHandler creates a new API handler. cfg supplies request defaults and
// the per-request timeout (server.timeout).
func NewHandler(planner Planner, catalog Pinger, cfg *config.Config) *Handler {
	return &Handler{
		planner:   planner,
		catalog:   catalog,
		config:    cfg,
		startTime: time.Now(),
	}
}
