// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

/*
Package config provides layered configuration for cocktail-menu.

Configuration is assembled with koanf v2 from three sources, later layers
overriding earlier ones:

  - Built-in defaults (defaultConfig)
  - An optional YAML file: $CONFIG_PATH, config.yaml, config.yml or
    /etc/cocktail-menu/config.yaml
  - Environment variables, through an explicit mapping table

The cmd/menu CLI applies flags on top of the loaded Config, so the effective
precedence is flags > env > file > defaults.

# Environment Variables

Tandoor (TandoorConfig):
  - TANDOOR_URL: Server URL, optionally with a subpath (required)
  - TANDOOR_TOKEN: API bearer token (required)
  - TANDOOR_PAGE_SIZE: Page size for list endpoints (default: 100)
  - TANDOOR_TIMEOUT: Per-request timeout (default: 30s)
  - TANDOOR_MAX_RETRIES: Retries on HTTP 429 (default: 5)
  - TANDOOR_REQUESTS_PER_SECOND: Outbound pacing, 0 disables (default: 10)

Caching (CacheConfig):
  - CACHE_ENABLED: Cache catalog lookups (default: true)
  - CACHE_TTL: Entry lifetime (default: 240m)
  - CACHE_PATH: Badger directory; empty keeps the cache in memory
  - CACHE_CLEANUP_INTERVAL: Expired-entry sweep period (default: 5m)
  - CACHE_MAX_ENTRIES: In-memory entry bound, 0 for unbounded (default: 10000)

Menu (MenuConfig):
  - MENU_CHOICES: Number of recipes to select (default: 5)
  - MENU_RECIPES: Recipe search parameters as a YAML mapping
  - MENU_FILTERS: Comma-separated CustomFilter ids
  - MENU_INCLUDE_CHILDREN: Expand keywords and foods to descendants (default: true)
  - MENU_SEED: Tie-break seed, 0 seeds from the clock (default: 0)
  - MENU_SOLVER: bnb or sat (default: bnb)
  - MENU_NODE_LIMIT, MENU_TIME_LIMIT: Solver search limits

Constraints (ConstraintsConfig), each a YAML constraint or list of constraints:
  - MENU_KEYWORDS, MENU_FOODS, MENU_BOOKS, MENU_RATINGS, MENU_COOKEDON, MENU_CREATEDON

Example:

	MENU_KEYWORDS="[{condition: [73, 273], count: 1, operator: '>='}]"
	MENU_COOKEDON="{condition: '-30days', count: 2, operator: '<='}"

Meal plans (MealPlanConfig):
  - MEALPLAN_ENABLED, MEALPLAN_TYPE_ID, MEALPLAN_TYPE_NAME, MEALPLAN_DATE,
    MEALPLAN_NOTE, MEALPLAN_CLEANUP, MEALPLAN_SHARED

Serve mode (ServerConfig):
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:8080), SERVER_TIMEOUT
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, CORS_ORIGINS

Logging (LoggingConfig):
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: Include caller file:line (default: false)

# Validation

Validate runs per-section checks whose messages name the environment
variable at fault (for example "TANDOOR_URL is required"), then the struct
tags through the shared go-playground validator.
*/
package config
