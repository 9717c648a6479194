// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/smilerz/cocktail-menu/internal/solver"
	"github.com/smilerz/cocktail-menu/internal/validation"
)

// MealPlanDateLayout is the date format accepted by mealplan.date.
const MealPlanDateLayout = "2006-01-02"

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateTandoor(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateMenu(); err != nil {
		return err
	}

	if err := c.validateMealPlan(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}
	return nil
}

// validateTandoor validates the catalog connection
func (c *Config) validateTandoor() error {
	if c.Tandoor.URL == "" {
		return fmt.Errorf("TANDOOR_URL is required")
	}
	if err := validateHTTPURL(c.Tandoor.URL, "TANDOOR_URL"); err != nil {
		return fmt.Errorf("TANDOOR_URL is invalid: %w", err)
	}
	if c.Tandoor.Token == "" {
		return fmt.Errorf("TANDOOR_TOKEN is required")
	}
	if containsPlaceholder(c.Tandoor.Token) {
		return fmt.Errorf("TANDOOR_TOKEN contains a placeholder value - create an API token in Tandoor under Settings > API")
	}
	if c.Tandoor.Timeout <= 0 {
		return fmt.Errorf("TANDOOR_TIMEOUT must be positive")
	}
	return nil
}

// validateCache validates cache settings (only if enabled)
func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive when CACHE_ENABLED=true")
	}
	if c.Cache.CleanupInterval < 0 {
		return fmt.Errorf("CACHE_CLEANUP_INTERVAL must not be negative")
	}
	return nil
}

// validateMenu validates selection settings. Choice counts beyond the pool
// size are only detectable once the pool is fetched.
func (c *Config) validateMenu() error {
	if c.Menu.Choices < 0 {
		return fmt.Errorf("MENU_CHOICES must not be negative, got %d", c.Menu.Choices)
	}
	if !isValidSolver(c.Menu.Solver) {
		return fmt.Errorf("MENU_SOLVER must be one of %s, got: %s", strings.Join(solver.Names, ", "), c.Menu.Solver)
	}
	if c.Menu.TimeLimit < 0 {
		return fmt.Errorf("MENU_TIME_LIMIT must not be negative")
	}
	return nil
}

func isValidSolver(name string) bool {
	for _, n := range solver.Names {
		if n == name {
			return true
		}
	}
	return false
}

// validateMealPlan validates meal plan settings (only if enabled)
func (c *Config) validateMealPlan() error {
	if !c.MealPlan.Enabled {
		return nil
	}
	if c.MealPlan.TypeID == 0 && c.MealPlan.TypeName == "" {
		return fmt.Errorf("MEALPLAN_TYPE_ID or MEALPLAN_TYPE_NAME is required when MEALPLAN_ENABLED=true")
	}
	if c.MealPlan.Date != "" {
		if _, err := time.Parse(MealPlanDateLayout, c.MealPlan.Date); err != nil {
			return fmt.Errorf("MEALPLAN_DATE must be in YYYY-MM-DD format, got: %s", c.MealPlan.Date)
		}
	}
	return nil
}

// validateServer validates serve-mode settings
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.RateLimitRequests > 0 && c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when RATE_LIMIT_REQUESTS is set")
	}
	return nil
}

// validLogLevels lists the accepted logging.level values
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats lists the accepted logging.format values
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if err := c.validateLogLevel(); err != nil {
		return err
	}
	return c.validateLogFormat()
}

// validateLogLevel accepts levels case-insensitively
func (c *Config) validateLogLevel() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	return nil
}

// validateLogFormat validates the logging output format
func (c *Config) validateLogFormat() error {
	if !validLogFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// containsPlaceholder reports whether a secret was left at a template value
func containsPlaceholder(value string) bool {
	lower := strings.ToLower(value)
	return containsAnyPattern(lower, []string{"replace_with", "changeme", "your_token"})
}

func containsAnyPattern(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
