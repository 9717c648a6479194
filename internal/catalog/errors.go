// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is matched by errors.Is when the catalog answered HTTP 404 or
// a lookup returned no record for the requested id.
var ErrNotFound = errors.New("not found")

// StatusError reports a non-success HTTP status from the catalog.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s request failed with status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Is lets a 404 StatusError match ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
