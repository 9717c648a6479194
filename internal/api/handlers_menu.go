// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/smilerz/cocktail-menu/internal/logging"
	"github.com/smilerz/cocktail-menu/internal/models"
	"github.com/smilerz/cocktail-menu/internal/validation"
)

// CreateMenu handles POST /api/v1/menus. The body is optional; see
// MenuRequest for the fields.
//
// Responses: 200 with models.MenuResult, 400 VALIDATION_ERROR or
// CONFIGURATION_ERROR, 422 NO_FEASIBLE_SELECTION, 502 RESOLUTION_ERROR, and
// 502 MEAL_PLAN_ERROR with the selected menu still in data.
func (h *Handler) CreateMenu(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, status, code, err := decodeMenuRequest(w, r)
	if err != nil {
		respondErrorFor(w, r, status, code, err.Error(), nil, start)
		return
	}

	if verr := validation.ValidateStruct(body); verr != nil {
		apiErr := verr.ToAPIError()
		respondErrorFor(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, start)
		return
	}

	req, err := body.toMenuRequest(h.config)
	if err != nil {
		f := classifyError(err)
		respondErrorFor(w, r, f.Status, f.Code, f.Message, f.Details, start)
		return
	}

	ctx := r.Context()
	if h.config.Server.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Server.Timeout)
		defer cancel()
	}

	logging.CtxInfo(ctx).
		Int("choices", req.Choices).
		Str("solver", req.Solver).
		Bool("mealplan", req.MealPlan.Enabled).
		Bool("dry_run", req.DryRun).
		Msg("Menu requested")

	result, err := h.planner.Plan(ctx, req)
	switch {
	case err == nil:
		respondSuccess(w, r, http.StatusOK, result, start)
	case result != nil:
		// Selection succeeded but the meal plan write did not.
		respondMealPlanFailure(w, r, result, err, start)
	default:
		f := classifyError(err)
		respondErrorFor(w, r, f.Status, f.Code, f.Message, f.Details, start)
	}
}

// decodeMenuRequest reads the JSON body. An empty body is allowed and means
// "use the configured defaults".
func decodeMenuRequest(w http.ResponseWriter, r *http.Request) (*MenuRequest, int, string, error) {
	var body MenuRequest
	if r.Body == nil {
		return &body, 0, "", nil
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, ErrCodeRequestTooLarge, errors.New("request body exceeds 1 MiB")
		}
		return nil, http.StatusBadRequest, ErrCodeInvalidBody, errors.New("failed to read request body: " + err.Error())
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return &body, 0, "", nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		return nil, http.StatusBadRequest, ErrCodeInvalidBody, errors.New("invalid JSON body: " + err.Error())
	}
	return &body, 0, "", nil
}

func respondMealPlanFailure(w http.ResponseWriter, r *http.Request, result *models.MenuResult, err error, start time.Time) {
	f := classifyError(err)
	if f.Code == ErrCodeInternal {
		f.Status = http.StatusBadGateway
		f.Code = ErrCodeMealPlan
	}
	logging.CtxWarn(r.Context()).Err(err).Msg("Menu selected but meal plan not written")

	respondJSON(w, f.Status, &models.APIResponse{
		Status:   "error",
		Data:     result,
		Metadata: metadataFor(r, start),
		Error: &models.APIError{
			Code:    f.Code,
			Message: f.Message,
			Details: f.Details,
		},
	})
}
