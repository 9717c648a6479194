// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package cache

import "time"

// Cacher is the in-memory tier used by the catalog decorator.
type Cacher interface {
	// Get retrieves a live value.
	Get(key string) (interface{}, bool)

	// SetWithTTL stores a value with a custom TTL.
	SetWithTTL(key string, value interface{}, ttl time.Duration)

	// GetOrCompute returns the cached value or computes, stores and returns it.
	GetOrCompute(key string, ttl time.Duration, compute func() (interface{}, error)) (interface{}, error)

	// Clear removes all entries.
	Clear()

	// Cleanup sweeps expired entries.
	Cleanup() int

	// GetStats returns cache statistics.
	GetStats() Stats
}

// Store is the persistent tier. Values round-trip through JSON.
type Store interface {
	Load(key string, dst interface{}) (bool, error)
	Save(key string, v interface{}, ttl time.Duration) error
	Clear() error
	RunGC() error
	Close() error
}

// Verify interface implementations at compile time
var (
	_ Cacher = (*Cache)(nil)
	_ Store  = (*BadgerCache)(nil)
)
