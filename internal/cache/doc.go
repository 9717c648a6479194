// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

/*
Package cache provides the two caching tiers used for catalog lookups.

# Overview

Catalog calls are slow and rate limited, and the same keyword trees, foods
and recipe listings are asked for on every run. Two tiers sit in front of
the catalog:

  - Cache: a thread-safe in-memory TTL cache with an injected Clock and a
    GetOrCompute contract. Errors returned by the compute function are
    never cached. WithMaxEntries bounds it, evicting the least recently
    used entry first.
  - BadgerCache: a persistent badger store with per-entry TTL, so entries
    survive restarts when a cache path is configured.

Keys are built with GenerateKey from a method name and its parameters, so
identical lookups share one entry regardless of which tier holds it.

# Usage Example

	mem := cache.New(4*time.Hour,
	    cache.WithCleanupInterval(5*time.Minute),
	    cache.WithMaxEntries(10000),
	)
	defer mem.Close()

	store, err := cache.OpenBadger("/var/cache/cocktail-menu", 4*time.Hour)
	if err != nil {
	    return err
	}
	defer store.Close()

	key := cache.GenerateKey("food", map[string]int{"id": 42})
	v, err := mem.GetOrCompute(key, 0, func() (interface{}, error) {
	    var food models.Food
	    if ok, err := store.Load(key, &food); err != nil || ok {
	        return food, err
	    }
	    return fetchFood(ctx, 42)
	})

# Metrics

Both tiers report hits, misses, evictions and size under the cache_type
label. BadgerCache reports as "badger"; Cache defaults to "memory" and can be
renamed with WithMetricsLabel.

# Thread Safety

Cache is safe for concurrent use. Concurrent GetOrCompute calls for the
same key run compute once. BadgerCache relies on badger transactions and
is safe for concurrent use until Close.
*/
package cache
