// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/smilerz/cocktail-menu/internal/logging"
	"github.com/smilerz/cocktail-menu/internal/metrics"
)

// ErrClosed is returned by a BadgerCache after Close.
var ErrClosed = errors.New("cache is closed")

const (
	badgerKeyPrefix = "catalog:"
	gcDiscardRatio  = 0.5
)

// BadgerCache persists JSON-encoded values with a per-entry TTL so cached
// catalog lookups survive restarts. Expired entries are dropped by badger
// itself and never returned.
type BadgerCache struct {
	mu       sync.RWMutex
	db       *badger.DB
	ttl      time.Duration
	path     string
	inMemory bool
	closed   bool
}

// OpenBadger opens (or creates) a persistent cache at path. An empty path
// keeps the store in memory.
func OpenBadger(path string, ttl time.Duration) (*BadgerCache, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	// Badger's own logging is too chatty for a CLI.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Debug().
		Str("path", path).
		Dur("ttl", ttl).
		Msg("Persistent cache opened")

	return &BadgerCache{db: db, ttl: ttl, path: path, inMemory: path == ""}, nil
}

// Load decodes the value stored under key into dst. It reports false when
// the key is missing or expired.
func (b *BadgerCache) Load(key string, dst interface{}) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return false, ErrClosed
	}

	found := false
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dst)
		})
	})
	if err != nil {
		return false, err
	}

	if found {
		metrics.CacheHits.WithLabelValues("badger").Inc()
	} else {
		metrics.CacheMisses.WithLabelValues("badger").Inc()
	}
	return found, nil
}

// Save stores v under key for ttl, or the default TTL when ttl is not positive.
func (b *BadgerCache) Save(key string, v interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = b.ttl
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}

	return b.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(badgerKeyPrefix+key), data)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// Delete removes one key.
func (b *BadgerCache) Delete(key string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(badgerKeyPrefix + key))
	})
}

// Len counts live entries.
func (b *BadgerCache) Len() (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return 0, ErrClosed
	}

	n := 0
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(badgerKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	if err == nil {
		metrics.CacheSize.WithLabelValues("badger").Set(float64(n))
	}
	return n, err
}

// Clear drops every cached entry.
func (b *BadgerCache) Clear() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	if err := b.db.DropPrefix([]byte(badgerKeyPrefix)); err != nil {
		return fmt.Errorf("drop cache entries: %w", err)
	}
	metrics.CacheSize.WithLabelValues("badger").Set(0)
	return nil
}

// RunGC reclaims value-log space until badger reports nothing to rewrite.
// It is a no-op for in-memory stores.
func (b *BadgerCache) RunGC() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	if b.inMemory {
		return nil
	}

	for {
		err := b.db.RunValueLogGC(gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// Close flushes and closes the store.
func (b *BadgerCache) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.db.Close()
}
