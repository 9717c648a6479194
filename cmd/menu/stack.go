// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package main

import (
	"github.com/smilerz/cocktail-menu/internal/cache"
	"github.com/smilerz/cocktail-menu/internal/catalog"
	"github.com/smilerz/cocktail-menu/internal/config"
	"github.com/smilerz/cocktail-menu/internal/logging"
)

// catalogStack is the catalog client with its breaker and cache tiers.
// memory and store are nil when the respective tier is off.
type catalogStack struct {
	source catalog.Source
	memory *cache.Cache
	store  *cache.BadgerCache
}

// newCatalogStack assembles client → circuit breaker → cache. When
// selfSweep is false the in-memory cache does not run its own expiry loop;
// serve mode sweeps it from a supervised service instead.
func newCatalogStack(cfg *config.Config, selfSweep bool) (*catalogStack, error) {
	logging.Info().
		Str("url", cfg.Tandoor.URL).
		Str("token", logging.SanitizeToken(cfg.Tandoor.Token)).
		Bool("cache", cfg.Cache.Enabled).
		Bool("persistent", cfg.Cache.Persistent()).
		Msg("Connecting to catalog")

	var src catalog.Source = catalog.NewCircuitBreakerClient(catalog.NewClient(&cfg.Tandoor))
	if !cfg.Cache.Enabled {
		return &catalogStack{source: src}, nil
	}

	interval := cfg.Cache.CleanupInterval
	if !selfSweep {
		interval = 0
	}
	stack := &catalogStack{
		memory: cache.New(cfg.Cache.TTL,
			cache.WithCleanupInterval(interval),
			cache.WithMaxEntries(cfg.Cache.MaxEntries),
			cache.WithMetricsLabel("catalog"),
		),
	}

	var store cache.Store
	if cfg.Cache.Persistent() {
		bc, err := cache.OpenBadger(cfg.Cache.Path, cfg.Cache.TTL)
		if err != nil {
			stack.memory.Close()
			return nil, err
		}
		stack.store = bc
		store = bc
	}

	stack.source = catalog.NewCachedClient(src, stack.memory, store, cfg.Cache.TTL)
	return stack, nil
}

// Close releases both cache tiers.
func (s *catalogStack) Close() {
	if s.memory != nil {
		s.memory.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close persistent cache")
		}
	}
}
