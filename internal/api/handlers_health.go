// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/smilerz/cocktail-menu/internal/logging"
	"github.com/smilerz/cocktail-menu/internal/models"
)

// readyPingTimeout bounds the catalog ping behind /health/ready.
const readyPingTimeout = 5 * time.Second

// HealthLive reports that the process is up. It never touches the catalog.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "alive",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady reports 200 when the catalog answers a ping and 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyPingTimeout)
	defer cancel()

	var pingErr error
	if h.catalog == nil {
		pingErr = errCatalogNotConfigured
	} else {
		pingErr = h.catalog.Ping(ctx)
	}
	ready := pingErr == nil

	statusCode := http.StatusOK
	status := "ready"
	data := map[string]interface{}{
		"catalog_connected": ready,
		"ready_to_serve":    ready,
		"uptime":            time.Since(h.startTime).Seconds(),
	}
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
		data["catalog_error"] = pingErr.Error()
		logging.CtxWarn(r.Context()).Err(pingErr).Msg("Readiness check failed")
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
