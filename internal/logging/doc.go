// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

// Package logging provides zerolog-based structured logging for cocktail-menu.
//
// A single global logger is configured once at start-up and shared by every
// package. Components derive child loggers with WithComponent. Request- and
// run-scoped code takes its logger from the context: the HTTP middleware
// stores a request logger with ContextWithLogger, and LoggerFromContext
// returns it with the correlation and request ids attached.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Int("choices", 5).Msg("Generating menu")
//	logging.Error().Err(err).Msg("Menu generation failed")
//
//	ctx = logging.ContextWithNewCorrelationID(ctx)
//	logging.CtxInfo(ctx).Msg("Candidate pool assembled")
//
// # Configuration
//
// Environment Variables (read by internal/config):
//
//	LOG_LEVEL   - trace, debug, info, warn, error, any case (default: info)
//	LOG_FORMAT  - json or console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// The console format uses zerolog.ConsoleWriter with a 15:04:05 timestamp.
//
// # Correlation IDs
//
// Every menu run carries an 8-character correlation id. The HTTP API also
// assigns a full UUID request id. LoggerFromContext adds both to log lines:
//
//	{"level":"info","component":"selection","correlation_id":"1b9d6bcd","message":"Selecting 5 recipes with 3 selection criteria"}
//
// # slog Integration
//
// SlogHandler adapts zerolog to log/slog so that the suture supervisor tree
// can report through sutureslog:
//
//	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
//
// # Redaction
//
// The Tandoor API token must never reach the logs. SanitizeToken masks a
// token and SanitizeError masks it inside catalog error bodies.
//
// # Best Practices
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
