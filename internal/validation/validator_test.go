// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

// menuRequest mirrors the shape of the API request body.
type menuRequest struct {
	Choices  int                                 `json:"choices" validate:"min=0,max=100"`
	Solver   string                              `json:"solver,omitempty" validate:"omitempty,oneof=bnb sat"`
	Filters  []int                               `json:"filters" validate:"max=3,dive,min=1"`
	Date     string                              `json:"date" validate:"date"`
	Note     string                              `json:"note" validate:"max=10"`
	Specs    map[string][]map[string]interface{} `json:"constraints" validate:"dive,keys,oneof=keywords ratings,endkeys"`
	Internal int                                 `json:"-" validate:"gte=0"`
	Plain    string                              `validate:"omitempty,url"`
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input menuRequest
	}{
		{"zero value", menuRequest{}},
		{
			name: "all fields set",
			input: menuRequest{
				Choices: 5,
				Solver:  "sat",
				Filters: []int{1, 2},
				Date:    "2026-03-14",
				Note:    "friday",
				Specs:   map[string][]map[string]interface{}{"keywords": {{"condition": 1}}},
				Plain:   "https://recipes.example.com",
			},
		},
		{"maximum choices", menuRequest{Choices: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(&tt.input); err != nil {
				t.Errorf("ValidateStruct() returned unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     menuRequest
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{"choices too high", menuRequest{Choices: 101}, "choices", "max", "choices must be at most 100"},
		{"negative choices", menuRequest{Choices: -1}, "choices", "min", "choices must be at least 0"},
		{"unknown solver", menuRequest{Solver: "simplex"}, "solver", "oneof", "solver must be one of: bnb sat"},
		{"too many filters", menuRequest{Filters: []int{1, 2, 3, 4}}, "filters", "max", "filters must be at most 3 items"},
		{"zero filter id", menuRequest{Filters: []int{0}}, "filters[0]", "min", "filters[0] must be at least 1"},
		{"bad date", menuRequest{Date: "14/03/2026"}, "date", "date", "date must be a date in YYYY-MM-DD format"},
		{"long note", menuRequest{Note: "a very long note"}, "note", "max", "note must be at most 10 characters"},
		{"untagged field keeps Go name", menuRequest{Plain: "not a url"}, "Plain", "url", "Plain must be a valid URL"},
		{"dash json tag keeps Go name", menuRequest{Internal: -1}, "Internal", "gte", "Internal must be greater than or equal to 0"},
		{
			name:      "unknown constraint category",
			input:     menuRequest{Specs: map[string][]map[string]interface{}{"colors": nil}},
			wantField: "constraints[colors]",
			wantTag:   "oneof",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(&tt.input)
			if verr == nil {
				t.Fatal("ValidateStruct() should have returned an error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField || errs[0].Tag() != tt.wantTag {
				t.Errorf("field/tag = %s/%s, want %s/%s", errs[0].Field(), errs[0].Tag(), tt.wantField, tt.wantTag)
			}
			if tt.wantMsg != "" && errs[0].Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidationError_Accessors(t *testing.T) {
	verr := ValidateStruct(&menuRequest{Choices: 250})
	if verr == nil {
		t.Fatal("expected error")
	}
	e := verr.Errors()[0]
	if e.Param() != "100" {
		t.Errorf("Param() = %q, want 100", e.Param())
	}
	if v, ok := e.Value().(int); !ok || v != 250 {
		t.Errorf("Value() = %v, want 250", e.Value())
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	verr := ValidateStruct(&menuRequest{Solver: "glpk"})
	if verr == nil {
		t.Fatal("expected validation error")
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %s, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Message != "solver must be one of: bnb sat" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "solver" || apiErr.Details["value"] != "glpk" {
		t.Errorf("Details = %v", apiErr.Details)
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	verr := ValidateStruct(&menuRequest{Choices: -3, Date: "tomorrow"})
	if verr == nil {
		t.Fatal("expected validation error")
	}

	apiErr := verr.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Fatalf("Details[fields] = %v, want 2 entries", apiErr.Details["fields"])
	}
	if !strings.Contains(apiErr.Message, "choices") || !strings.Contains(apiErr.Message, "date") {
		t.Errorf("Message = %q should name both fields", apiErr.Message)
	}
	if strings.Count(verr.Error(), ";") != 1 {
		t.Errorf("Error() = %q, want two messages joined by ';'", verr.Error())
	}
}

func TestToAPIError_Empty(t *testing.T) {
	apiErr := (&RequestValidationError{}).ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" || apiErr.Message != "Validation failed" {
		t.Errorf("unexpected %+v", apiErr)
	}
	if (&RequestValidationError{}).Error() != "validation failed" {
		t.Error("empty error message mismatch")
	}
}

type nestedStruct struct {
	Inner innerStruct `validate:"required"`
}

type innerStruct struct {
	Value string `validate:"required"`
}

func TestNestedStructValidation(t *testing.T) {
	if err := ValidateStruct(&nestedStruct{Inner: innerStruct{Value: "x"}}); err != nil {
		t.Errorf("unexpected error for valid nested struct: %v", err)
	}
	if err := ValidateStruct(&nestedStruct{}); err == nil {
		t.Error("expected error for empty nested struct")
	}
}

func TestValidateStruct_NonStruct(t *testing.T) {
	verr := ValidateStruct("not a struct")
	if verr == nil || verr.Errors()[0].Field() != "unknown" {
		t.Errorf("ValidateStruct(string) = %v, want wrapped unknown error", verr)
	}
}
