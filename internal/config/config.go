// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package config

import (
	"time"

	"github.com/smilerz/cocktail-menu/internal/constraint"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// CLI flags are applied on top of the loaded Config by cmd/menu, and only for
// flags the user actually set.
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	client := catalog.NewClient(&cfg.Tandoor)
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Tandoor     TandoorConfig     `koanf:"tandoor"`
	Cache       CacheConfig       `koanf:"cache"`
	Menu        MenuConfig        `koanf:"menu"`
	Constraints ConstraintsConfig `koanf:"constraints"`
	MealPlan    MealPlanConfig    `koanf:"mealplan"`
	Server      ServerConfig      `koanf:"server"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// TandoorConfig holds the recipe catalog connection settings.
type TandoorConfig struct {
	// URL is the full server URL including scheme, host, port and any
	// subpath Tandoor is mounted under. "/api/" is appended by the client.
	URL   string `koanf:"url"`
	Token string `koanf:"token"`

	PageSize          int           `koanf:"page_size" validate:"min=1,max=1000"`
	Timeout           time.Duration `koanf:"timeout"`
	MaxRetries        int           `koanf:"max_retries" validate:"min=0,max=10"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gte=0"`
}

// CacheConfig controls catalog response caching.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`
	// Path is a badger directory. Empty keeps the cache in memory only.
	Path            string        `koanf:"path"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
	// MaxEntries bounds the in-memory tier; 0 means unbounded.
	MaxEntries int `koanf:"max_entries" validate:"min=0"`
}

// Persistent reports whether catalog responses survive a restart.
func (c CacheConfig) Persistent() bool {
	return c.Enabled && c.Path != ""
}

// MenuConfig describes the candidate pool and the selection run.
type MenuConfig struct {
	Choices int `koanf:"choices" validate:"min=0"`

	// Recipes holds /api/recipe/ search parameters. Filters are CustomFilter ids
	// fetched separately and merged into the pool.
	Recipes map[string]interface{} `koanf:"recipes"`
	Filters []int                  `koanf:"filters" validate:"dive,min=1"`

	IncludeChildren bool `koanf:"include_children"`

	// Seed 0 seeds the tie-break from the clock.
	Seed      int64         `koanf:"seed"`
	Solver    string        `koanf:"solver"`
	NodeLimit int           `koanf:"node_limit" validate:"min=0"`
	TimeLimit time.Duration `koanf:"time_limit"`
}

// ConstraintsConfig holds raw constraint specifications per category. Each
// entry is a map with condition, count, operator and optionally exclude and
// except keys; compilation happens in the constraint package.
type ConstraintsConfig struct {
	Keywords  []map[string]interface{} `koanf:"keywords"`
	Foods     []map[string]interface{} `koanf:"foods"`
	Books     []map[string]interface{} `koanf:"books"`
	Ratings   []map[string]interface{} `koanf:"ratings"`
	CookedOn  []map[string]interface{} `koanf:"cookedon"`
	CreatedOn []map[string]interface{} `koanf:"createdon"`
}

// Specs groups the raw specifications by category for constraint.CompileAll.
// Categories without entries are omitted.
func (c ConstraintsConfig) Specs() map[constraint.Category][]constraint.Raw {
	specs := make(map[constraint.Category][]constraint.Raw)
	add := func(cat constraint.Category, entries []map[string]interface{}) {
		for _, e := range entries {
			specs[cat] = append(specs[cat], constraint.Raw(e))
		}
	}
	add(constraint.CategoryKeyword, c.Keywords)
	add(constraint.CategoryFood, c.Foods)
	add(constraint.CategoryBook, c.Books)
	add(constraint.CategoryRating, c.Ratings)
	add(constraint.CategoryCookedOn, c.CookedOn)
	add(constraint.CategoryCreatedOn, c.CreatedOn)
	return specs
}

// Count returns the total number of raw specifications.
func (c ConstraintsConfig) Count() int {
	return len(c.Keywords) + len(c.Foods) + len(c.Books) + len(c.Ratings) + len(c.CookedOn) + len(c.CreatedOn)
}

// MealPlanConfig controls writing the selected recipes back as meal plans.
type MealPlanConfig struct {
	Enabled bool `koanf:"enabled"`
	// TypeID takes precedence over TypeName when both are set.
	TypeID   int    `koanf:"type_id" validate:"min=0"`
	TypeName string `koanf:"type_name"`
	// Date is YYYY-MM-DD; empty means today.
	Date    string `koanf:"date"`
	Note    string `koanf:"note"`
	Cleanup bool   `koanf:"cleanup"`
	Shared  []int  `koanf:"shared"`
}

// ServerConfig holds serve-mode HTTP settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout           time.Duration `koanf:"timeout"`
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"min=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json, console
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, config file and environment.
//
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
