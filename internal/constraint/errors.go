// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package constraint

import (
	"fmt"
	"strings"
)

// ConfigurationError reports a malformed constraint specification or
// selection setting. It is fatal and never retried.
type ConfigurationError struct {
	Category Category
	Field    string
	Value    interface{}
	Reason   string
	Err      error
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("configuration error")
	if e.Category != "" {
		fmt.Fprintf(&b, " in %s constraint", e.Category)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": %s=%v", e.Field, e.Value)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func configErr(cat Category, field string, value interface{}, reason string) *ConfigurationError {
	return &ConfigurationError{Category: cat, Field: field, Value: value, Reason: reason}
}
