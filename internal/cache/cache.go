// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/smilerz/cocktail-menu/internal/metrics"
)

// DefaultCleanupInterval is how often expired entries are swept when no
// interval option is given.
const DefaultCleanupInterval = 5 * time.Minute

// Clock supplies the current time. Tests inject a fake.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Entry is a cached value and its expiry.
type Entry struct {
	Data      interface{}
	ExpiresAt time.Time
}

// Stats tracks cache performance.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// Cache is a thread-safe in-memory TTL cache with an injected clock.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	ttl     time.Duration
	clock   Clock
	label   string

	// recency is nil unless maxEntries bounds the cache.
	maxEntries int
	recency    *recencyList

	// inflight serializes GetOrCompute per key so one miss computes once.
	inflight sync.Map

	statsMu sync.RWMutex
	stats   Stats

	interval  time.Duration
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces the wall clock.
func WithClock(clock Clock) Option {
	return func(c *Cache) {
		c.clock = clock
	}
}

// WithCleanupInterval sets how often expired entries are swept. Zero or a
// negative value disables the background sweep.
func WithCleanupInterval(d time.Duration) Option {
	return func(c *Cache) {
		c.interval = d
	}
}

// WithMaxEntries bounds the cache to n entries, evicting the least
// recently used entry when a Set would exceed it. Zero means unbounded.
func WithMaxEntries(n int) Option {
	return func(c *Cache) {
		c.maxEntries = n
	}
}

// WithMetricsLabel sets the cache_type label reported to Prometheus.
func WithMetricsLabel(label string) Option {
	return func(c *Cache) {
		c.label = label
	}
}

// New creates a cache whose entries live for ttl unless set with their own TTL.
//
// A background goroutine sweeps expired entries every cleanup interval
// (five minutes by default) until Close is called.
//
// Example:
//
//	c := cache.New(4*time.Hour)
//	defer c.Close()
//	v, err := c.GetOrCompute(cache.GenerateKey("keyword_tree", id), 0, func() (interface{}, error) {
//	    return client.FetchKeywordDescendants(ctx, id)
//	})
func New(ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		entries:  make(map[string]Entry),
		ttl:      ttl,
		clock:    systemClock{},
		label:    "memory",
		interval: DefaultCleanupInterval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxEntries > 0 {
		c.recency = newRecencyList()
	}
	c.stats.LastCleanup = c.clock.Now()

	if c.interval > 0 {
		go c.cleanupLoop()
	} else {
		close(c.done)
	}
	return c
}

// TTL returns the default entry lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns a live entry. Expired entries are removed and count as misses.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.recordMiss()
		return nil, false
	}

	if !c.clock.Now().Before(entry.ExpiresAt) {
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && cur.ExpiresAt.Equal(entry.ExpiresAt) {
			c.removeLocked(key)
		}
		c.mu.Unlock()
		c.recordMiss()
		c.recordEviction(1)
		return nil, false
	}

	if c.recency != nil {
		c.mu.Lock()
		if _, ok := c.entries[key]; ok {
			c.recency.touch(key)
		}
		c.mu.Unlock()
	}
	c.recordHit()
	return entry.Data, true
}

// Set stores a value with the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value that expires after ttl. A non-positive ttl
// uses the default.
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	c.entries[key] = Entry{
		Data:      value,
		ExpiresAt: c.clock.Now().Add(ttl),
	}
	evicted := 0
	if c.recency != nil {
		c.recency.touch(key)
		for c.recency.len() > c.maxEntries {
			oldest, _ := c.recency.oldest()
			c.removeLocked(oldest)
			evicted++
		}
	}
	size := len(c.entries)
	c.mu.Unlock()

	c.recordEviction(int64(evicted))
	c.setSize(size)
}

// GetOrCompute returns the cached value for key, or calls compute, caches
// its result for ttl and returns it. Concurrent callers for the same key
// wait for a single compute. Errors are returned but never cached.
func (c *Cache) GetOrCompute(key string, ttl time.Duration, compute func() (interface{}, error)) (interface{}, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	lock, _ := c.inflight.LoadOrStore(key, &sync.Mutex{})
	mu := lock.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()
	defer c.inflight.Delete(key)

	// Another caller may have filled the entry while we waited.
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()
	if exists && c.clock.Now().Before(entry.ExpiresAt) {
		return entry.Data, nil
	}

	v, err := compute()
	if err != nil {
		return nil, err
	}
	c.SetWithTTL(key, v, ttl)
	return v, nil
}

// Delete removes one entry.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	_, existed := c.entries[key]
	c.removeLocked(key)
	size := len(c.entries)
	c.mu.Unlock()

	if existed {
		c.recordEviction(1)
	}
	c.setSize(size)
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	evictions := int64(len(c.entries))
	c.entries = make(map[string]Entry)
	if c.recency != nil {
		c.recency.reset()
	}
	c.mu.Unlock()

	c.recordEviction(evictions)
	c.setSize(0)
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetStats returns a snapshot of the statistics.
func (c *Cache) GetStats() Stats {
	c.statsMu.RLock()
	defer c.statsMu.RUnlock()
	return c.stats
}

// HitRate returns hits as a percentage of lookups.
func (c *Cache) HitRate() float64 {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

// Cleanup removes expired entries now and returns how many were removed.
func (c *Cache) Cleanup() int {
	now := c.clock.Now()

	c.mu.Lock()
	removed := 0
	for key, entry := range c.entries {
		if !now.Before(entry.ExpiresAt) {
			c.removeLocked(key)
			removed++
		}
	}
	size := len(c.entries)
	c.mu.Unlock()

	c.statsMu.Lock()
	c.stats.LastCleanup = now
	c.statsMu.Unlock()

	c.recordEviction(int64(removed))
	c.setSize(size)
	return removed
}

// Close stops the background sweep. It is safe to call more than once.
func (c *Cache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stop)
		<-c.done
	})
	return nil
}

// removeLocked deletes key from the map and the recency list. c.mu must be
// held for writing.
func (c *Cache) removeLocked(key string) {
	delete(c.entries, key)
	if c.recency != nil {
		c.recency.remove(key)
	}
}

func (c *Cache) cleanupLoop() {
	defer close(c.done)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.Cleanup()
		}
	}
}

func (c *Cache) recordHit() {
	c.statsMu.Lock()
	c.stats.Hits++
	c.statsMu.Unlock()
	metrics.CacheHits.WithLabelValues(c.label).Inc()
}

func (c *Cache) recordMiss() {
	c.statsMu.Lock()
	c.stats.Misses++
	c.statsMu.Unlock()
	metrics.CacheMisses.WithLabelValues(c.label).Inc()
}

func (c *Cache) recordEviction(n int64) {
	if n <= 0 {
		return
	}
	c.statsMu.Lock()
	c.stats.Evictions += n
	c.statsMu.Unlock()
	metrics.CacheEvictions.WithLabelValues(c.label).Add(float64(n))
}

func (c *Cache) setSize(n int) {
	c.statsMu.Lock()
	c.stats.TotalKeys = int64(n)
	c.statsMu.Unlock()
	metrics.CacheSize.WithLabelValues(c.label).Set(float64(n))
}

// GenerateKey builds a compact key from a method name and its parameters.
func GenerateKey(method string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", method, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", method, hash[:16])
}
