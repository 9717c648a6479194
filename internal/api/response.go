// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/smilerz/cocktail-menu/internal/logging"
	"github.com/smilerz/cocktail-menu/internal/models"
)

// Error codes returned in models.APIError.Code.
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeConfiguration     = "CONFIGURATION_ERROR"
	ErrCodeResolution        = "RESOLUTION_ERROR"
	ErrCodeNoFeasible        = "NO_FEASIBLE_SELECTION"
	ErrCodeMealPlan          = "MEAL_PLAN_ERROR"
	ErrCodeInternal          = "INTERNAL_ERROR"
	ErrCodeTimeout           = "TIMEOUT"
	ErrCodeInvalidBody       = "INVALID_REQUEST_BODY"
	ErrCodeRequestTooLarge   = "REQUEST_TOO_LARGE"
	ErrCodeServiceNotReady   = "SERVICE_UNAVAILABLE"
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
)

// sanitizeLogValue escapes control characters so client-supplied text
// cannot forge log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// respondJSON sends a JSON response with proper headers. Menus depend on
// the seed and the live catalog, so nothing is cacheable.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in a success envelope.
func respondSuccess(w http.ResponseWriter, r *http.Request, status int, data interface{}, start time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: metadataFor(r, start),
	})
}

// respondError sends an error response without request metadata.
func respondError(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// respondErrorFor sends an error response carrying the request's
// correlation id, and logs it at a level matching the status.
func respondErrorFor(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]interface{}, start time.Time) {
	event := logging.CtxWarn(r.Context())
	if status >= http.StatusInternalServerError {
		event = logging.CtxError(r.Context())
	}
	event.Int("status", status).
		Str("code", code).
		Str("error", sanitizeLogValue(message)).
		Msg("API error")

	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: metadataFor(r, start),
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func metadataFor(r *http.Request, start time.Time) models.Metadata {
	return models.Metadata{
		Timestamp:     time.Now(),
		QueryTimeMS:   time.Since(start).Milliseconds(),
		CorrelationID: logging.CorrelationIDFromContext(r.Context()),
	}
}
