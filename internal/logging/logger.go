// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Config mirrors the logging section of the configuration file. The zero
// value writes info-level JSON lines to stderr without timestamps.
type Config struct {
	Level     string    // trace, debug, info, warn or error, any case
	Format    string    // "json" or "console"
	Caller    bool      // add file:line
	Timestamp bool      // add an RFC 3339 time field
	Output    io.Writer // nil means os.Stderr
}

// global is the process-wide logger. Init swaps it atomically, so loggers
// derived before a swap keep writing to the old output.
var global atomic.Pointer[zerolog.Logger]

//nolint:gochecknoinits // logging works before the CLI has loaded its config
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.MessageFieldName = "message"
	Init(Config{Timestamp: true})
}

// Init replaces the global logger. The CLI calls it once the configuration
// is loaded and again when --log overrides the level.
func Init(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	ctx := zerolog.New(out).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	logger := ctx.Logger()
	global.Store(&logger)
}

// parseLevel maps a level name to zerolog, ignoring case. Unknown and
// empty names mean info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Logger returns a copy of the global logger.
func Logger() zerolog.Logger {
	return *global.Load()
}

// Debug starts a debug message on the global logger.
//
//	logging.Debug().Str("url", reqURL).Msg("Connecting to tandoor api")
func Debug() *zerolog.Event { return global.Load().Debug() }

// Info starts an info message on the global logger.
func Info() *zerolog.Event { return global.Load().Info() }

// Warn starts a warning on the global logger.
func Warn() *zerolog.Event { return global.Load().Warn() }

// Error starts an error message on the global logger.
func Error() *zerolog.Event { return global.Load().Error() }

// WithComponent derives a logger tagged with a component name. Packages that
// log keep one as their default logger.
//
//	logger := logging.WithComponent("resolver")
func WithComponent(component string) zerolog.Logger {
	return global.Load().With().Str("component", component).Logger()
}
