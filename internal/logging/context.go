// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type scopeKey struct{}

// scope is everything logging keeps in a context. It is stored as one value
// so that each With* call copies it instead of stacking lookups.
type scope struct {
	correlationID string
	requestID     string
	logger        *zerolog.Logger
}

func scopeOf(ctx context.Context) scope {
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

func (s scope) into(ctx context.Context) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// GenerateRequestID returns a full UUID for an HTTP request.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithNewCorrelationID tags ctx with a fresh 8-character correlation
// id. Every menu run carries one.
func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	s := scopeOf(ctx)
	s.correlationID = uuid.New().String()[:8]
	return s.into(ctx)
}

// CorrelationIDFromContext returns the correlation id, or "" when ctx has none.
func CorrelationIDFromContext(ctx context.Context) string {
	return scopeOf(ctx).correlationID
}

// ContextWithRequestID tags ctx with an HTTP request id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	s := scopeOf(ctx)
	s.requestID = id
	return s.into(ctx)
}

// ContextWithLogger makes logger the base for LoggerFromContext. The ids
// already on ctx, and any set later, are added on retrieval and must not be
// baked into logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	s := scopeOf(ctx)
	s.logger = &logger
	return s.into(ctx)
}

// LoggerFromContext returns the logger stored by ContextWithLogger, or the
// global logger, with correlation_id and request_id attached when present.
//
//	logger := logging.LoggerFromContext(ctx).With().Str("component", "menu").Logger()
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	s := scopeOf(ctx)
	base := s.logger
	if base == nil {
		base = global.Load()
	}
	if s.correlationID == "" && s.requestID == "" {
		return *base
	}

	lc := base.With()
	if s.correlationID != "" {
		lc = lc.Str("correlation_id", s.correlationID)
	}
	if s.requestID != "" {
		lc = lc.Str("request_id", s.requestID)
	}
	return lc.Logger()
}

// CtxInfo starts an info message on LoggerFromContext(ctx).
func CtxInfo(ctx context.Context) *zerolog.Event {
	l := LoggerFromContext(ctx)
	return l.Info()
}

// CtxWarn starts a warning on LoggerFromContext(ctx).
func CtxWarn(ctx context.Context) *zerolog.Event {
	l := LoggerFromContext(ctx)
	return l.Warn()
}

// CtxError starts an error message on LoggerFromContext(ctx).
func CtxError(ctx context.Context) *zerolog.Event {
	l := LoggerFromContext(ctx)
	return l.Error()
}
