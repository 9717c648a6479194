// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

/*
Package middleware provides HTTP middleware for the serve-mode API.

Key Components:

  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern so path parameters do not explode label cardinality
  - Compression: gzip for clients that send Accept-Encoding: gzip

Both are plain func(http.Handler) http.Handler values and compose with chi:

	r := chi.NewRouter()
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)

Menu responses carry the full recipe records of a selection, so compression
pays off for larger choice counts; health responses are tiny and gain
nothing, which is harmless.
*/
package middleware
