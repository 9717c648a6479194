// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared by the configuration loader and the
// HTTP API. Fields are reported by their json name when they have one, so
// API clients see the names they sent ("choices", not "Choices").
//
// # Quick Start
//
//	type menuRequest struct {
//	    Choices int    `json:"choices" validate:"min=0,max=100"`
//	    Solver  string `json:"solver" validate:"omitempty,oneof=bnb sat"`
//	    Date    string `json:"date" validate:"date"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
//
// # Custom Tags
//
//   - date: a YYYY-MM-DD calendar date; the empty string passes
//
// # Error Format
//
// ToAPIError produces a VALIDATION_ERROR. A single failure carries field,
// tag and value details; several failures are joined with "; " and listed
// under details.fields.
package validation
