// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

// Package models defines the domain entities shared across packages: recipes,
// keywords and foods as the selection pipeline sees them, the candidate Pool,
// and the API response envelope.
//
// Catalog wire records live in the tandoor subpackage; the *FromRecord
// constructors here convert them, dropping fields nothing downstream reads.
package models
