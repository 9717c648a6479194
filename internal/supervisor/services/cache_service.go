// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/smilerz/cocktail-menu/internal/logging"
)

// ExpirySweeper is the in-memory catalog cache. *cache.Cache satisfies it.
type ExpirySweeper interface {
	Cleanup() int
}

// GarbageCollector is the persistent catalog cache. *cache.BadgerCache
// satisfies it.
type GarbageCollector interface {
	RunGC() error
}

// CacheMaintenanceService sweeps expired in-memory entries and reclaims
// badger value-log space on a fixed interval. Either tier may be nil.
type CacheMaintenanceService struct {
	memory   ExpirySweeper
	store    GarbageCollector
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewCacheMaintenanceService creates the service. A non-positive interval
// defaults to 5 minutes.
func NewCacheMaintenanceService(memory ExpirySweeper, store GarbageCollector, interval time.Duration) *CacheMaintenanceService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &CacheMaintenanceService{
		memory:   memory,
		store:    store,
		interval: interval,
		logger:   logging.WithComponent("cache-maintenance"),
		name:     "cache-maintenance",
	}
}

// Serve implements suture.Service. A GC failure is returned so the
// supervisor restarts the loop with backoff.
func (s *CacheMaintenanceService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.RunOnce(); err != nil {
				return err
			}
		}
	}
}

// RunOnce performs one maintenance pass.
func (s *CacheMaintenanceService) RunOnce() error {
	if s.memory != nil {
		if removed := s.memory.Cleanup(); removed > 0 {
			s.logger.Debug().Int("removed", removed).Msg("Expired in-memory cache entries swept")
		}
	}
	if s.store != nil {
		start := time.Now()
		if err := s.store.RunGC(); err != nil {
			s.logger.Error().Err(err).Msg("Persistent cache GC failed")
			return err
		}
		s.logger.Debug().Dur("took", time.Since(start)).Msg("Persistent cache GC complete")
	}
	return nil
}

func (s *CacheMaintenanceService) String() string {
	return s.name
}
