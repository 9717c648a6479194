// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

// Package catalog talks to the Tandoor recipe catalog.
//
// The layers compose around the Source interface:
//
//	src := catalog.Source(catalog.NewClient(&cfg.Tandoor))
//	src = catalog.NewCircuitBreakerClient(src)
//	src = catalog.NewCachedClient(src, memCache, badgerStore, cfg.Cache.TTL)
//
// Client does the HTTP work (bearer auth, paging, 429 backoff, pacing).
// CircuitBreakerClient fails fast while Tandoor is unhealthy.
// CachedClient memoizes read-only lookups across runs.
//
// A 404 from the catalog surfaces as an error matching ErrNotFound.
package catalog
