// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

// Package main is the entry point for the menu command.
//
// menu selects a set of recipes from a Tandoor catalog such that every
// configured constraint holds, optionally writing the selection to the
// Tandoor meal plan.
//
// # Commands
//
//	menu create        select a menu once and print it
//	menu serve         run the HTTP API under a supervisor tree
//	menu cache clear   drop the persistent catalog cache
//	menu version       print build information
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Command line flags (only those explicitly set)
//   - Environment variables (TANDOOR_URL, TANDOOR_TOKEN, MENU_CHOICES, ...)
//   - Config file (config.yaml, or the path in CONFIG_PATH / --config)
//   - Built-in defaults
//
// # Exit Codes
//
//	0  success
//	1  unexpected failure (catalog unreachable, meal plan write failed, ...)
//	2  configuration error
//	3  a constraint subject could not be resolved against the catalog
//	4  no selection satisfies every constraint
//
// # Example Usage
//
//	export TANDOOR_URL=https://recipes.example.com
//	export TANDOOR_TOKEN=tda_xxxxxxxx
//	menu create --choices 6 \
//	    --keywords "{condition: [73, 273], count: 2, operator: '>='}" \
//	    --ratings "{condition: 3, count: 4, operator: '>='}"
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:]))
}
