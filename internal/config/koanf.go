// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cocktail-menu/config.yaml",
	"/etc/cocktail-menu/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Tandoor: TandoorConfig{
			URL:               "",
			Token:             "",
			PageSize:          100,
			Timeout:           30 * time.Second,
			MaxRetries:        5,
			RequestsPerSecond: 10,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             240 * time.Minute,
			Path:            "", // in-memory only
			CleanupInterval: 5 * time.Minute,
			MaxEntries:      10000,
		},
		Menu: MenuConfig{
			Choices:         5,
			IncludeChildren: true,
			Seed:            0, // seed from the clock
			Solver:          "bnb",
			NodeLimit:       1_000_000,
			TimeLimit:       30 * time.Second,
		},
		MealPlan: MealPlanConfig{
			Enabled: false,
			Cleanup: false,
		},
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			Timeout:           60 * time.Second,
			RateLimitRequests: 30,
			RateLimitWindow:   time.Minute,
			CORSOrigins:       []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k, err := loadKoanf()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadUnvalidated loads the layered configuration without validating it.
// The CLI uses it so flags can fill in required values before Validate runs.
func LoadUnvalidated() (*Config, error) {
	k, err := loadKoanf()
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

func loadKoanf() (*koanf.Koanf, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// TANDOOR_URL -> tandoor.url
	// MENU_KEYWORDS -> constraints.keywords
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}
	if err := processYAMLFields(k); err != nil {
		return nil, fmt.Errorf("failed to process structured fields: %w", err)
	}
	return k, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"menu.filters",
	"mealplan.shared",
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables are skipped so unrelated environment never leaks into config.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Tandoor mappings
		"tandoor_url":                 "tandoor.url",
		"tandoor_token":               "tandoor.token",
		"tandoor_page_size":           "tandoor.page_size",
		"tandoor_timeout":             "tandoor.timeout",
		"tandoor_max_retries":         "tandoor.max_retries",
		"tandoor_requests_per_second": "tandoor.requests_per_second",

		// Cache mappings
		"cache_enabled":          "cache.enabled",
		"cache_ttl":              "cache.ttl",
		"cache_path":             "cache.path",
		"cache_cleanup_interval": "cache.cleanup_interval",
		"cache_max_entries":      "cache.max_entries",

		// Menu mappings
		"menu_choices":          "menu.choices",
		"menu_recipes":          "menu.recipes",
		"menu_filters":          "menu.filters",
		"menu_include_children": "menu.include_children",
		"menu_seed":             "menu.seed",
		"menu_solver":           "menu.solver",
		"menu_node_limit":       "menu.node_limit",
		"menu_time_limit":       "menu.time_limit",

		// Constraint mappings (YAML flow values)
		"menu_keywords":  "constraints.keywords",
		"menu_foods":     "constraints.foods",
		"menu_books":     "constraints.books",
		"menu_ratings":   "constraints.ratings",
		"menu_cookedon":  "constraints.cookedon",
		"menu_createdon": "constraints.createdon",

		// Meal plan mappings
		"mealplan_enabled":   "mealplan.enabled",
		"mealplan_type_id":   "mealplan.type_id",
		"mealplan_type_name": "mealplan.type_name",
		"mealplan_date":      "mealplan.date",
		"mealplan_note":      "mealplan.note",
		"mealplan_cleanup":   "mealplan.cleanup",
		"mealplan_shared":    "mealplan.shared",

		// Server mappings
		"http_host":           "server.host",
		"http_port":           "server.port",
		"server_timeout":      "server.timeout",
		"rate_limit_requests": "server.rate_limit_requests",
		"rate_limit_window":   "server.rate_limit_window",
		"cors_origins":        "server.cors_origins",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	return ""
}
