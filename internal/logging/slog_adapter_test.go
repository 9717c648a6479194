// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		zerologLevel zerolog.Level
		slogLevel    slog.Level
		want         bool
	}{
		{"debug logger enables debug", zerolog.DebugLevel, slog.LevelDebug, true},
		{"info logger disables debug", zerolog.InfoLevel, slog.LevelDebug, false},
		{"info logger enables warn", zerolog.InfoLevel, slog.LevelWarn, true},
		{"warn logger disables info", zerolog.WarnLevel, slog.LevelInfo, false},
		{"error logger disables warn", zerolog.ErrorLevel, slog.LevelWarn, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			handler := NewSlogHandlerWithLogger(zerolog.New(nil).Level(tt.zerologLevel))
			if got := handler.Enabled(context.Background(), tt.slogLevel); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSlogHandler_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		level slog.Level
		want  string
	}{
		{"info", slog.LevelInfo, `"level":"info"`},
		{"warn", slog.LevelWarn, `"level":"warn"`},
		{"error", slog.LevelError, `"level":"error"`},
		// Levels between the named ones round down.
		{"warn+2", slog.LevelWarn + 2, `"level":"warn"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			handler := NewSlogHandlerWithLogger(zerolog.New(&buf).Level(zerolog.TraceLevel))

			record := slog.NewRecord(time.Now(), tt.level, "service restarted", 0)
			record.AddAttrs(slog.String("service", "http-api"), slog.Int("attempt", 2))
			if err := handler.Handle(context.Background(), record); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			out := buf.String()
			for _, want := range []string{tt.want, `"service":"http-api"`, `"attempt":2`, "service restarted"} {
				if !strings.Contains(out, want) {
					t.Errorf("output %s missing %s", out, want)
				}
			}
		})
	}
}

func TestSlogHandler_WithAttrsAndGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := NewSlogHandlerWithLogger(zerolog.New(&buf))

	h := base.WithAttrs([]slog.Attr{slog.String("supervisor", "cocktail-menu")}).
		WithGroup("event").
		WithGroup("service")
	slog.New(h).Warn("backoff", slog.Duration("wait", 15*time.Second), slog.Bool("terminal", false))

	out := buf.String()
	for _, want := range []string{
		`"supervisor":"cocktail-menu"`,
		`"event.service.wait"`,
		`"event.service.terminal":false`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output %s missing %s", out, want)
		}
	}

	buf.Reset()
	slog.New(base.WithGroup("event").WithAttrs([]slog.Attr{slog.String("service", "http-api")})).Info("x", slog.Int("n", 1))
	for _, want := range []string{`"event.service":"http-api"`, `"event.n":1`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output %s missing %s", buf.String(), want)
		}
	}

	if base.WithGroup("") != base {
		t.Error("WithGroup(\"\") should return the same handler")
	}
}

func TestAppendAttr_Kinds(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	when := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf))).Info("kinds",
		slog.Int64("i64", -3),
		slog.Uint64("u64", 7),
		slog.Float64("f64", 2.5),
		slog.Time("at", when),
		slog.Any("ids", []int{1, 2}),
		slog.Group("pool", slog.Int("size", 10)),
	)

	out := buf.String()
	for _, want := range []string{`"i64":-3`, `"u64":7`, `"f64":2.5`, `"at":"2026-03-14T00:00:00Z"`, `"ids":[1,2]`, `"pool.size":10`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %s missing %s", out, want)
		}
	}
}

func TestZerologLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   slog.Level
		want zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
		{slog.LevelError + 4, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		if got := zerologLevel(tt.in); got != tt.want {
			t.Errorf("zerologLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewSlogLogger(t *testing.T) {
	buf := captureGlobal(t)

	NewSlogLogger().Info("tree started")

	out := buf.String()
	if !strings.Contains(out, `"component":"supervisor"`) || !strings.Contains(out, "tree started") {
		t.Errorf("unexpected output: %s", out)
	}
}
