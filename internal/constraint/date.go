// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package constraint

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	absoluteDatePattern = regexp.MustCompile(`^(-?)(\d{4}-(?:0[1-9]|1[0-2])-(?:0[1-9]|[12]\d|3[01]))$`)
	relativeDatePattern = regexp.MustCompile(`(?i)^(-?)(\d+)(d|days?)?$`)
)

// ParseDate resolves a date token against now.
//
//	"2024-01-15"   -> 2024-01-15T00:00:00Z, after
//	"-2024-01-15"  -> 2024-01-15T00:00:00Z, before
//	"10days"       -> now - 10 days, after
//	"-10days"      -> now - 10 days, before
//
// The day suffix is optional and case-insensitive ("10", "10d", "10Days").
func ParseDate(token string, now time.Time) (DateBound, error) {
	token = strings.TrimSpace(token)

	if m := absoluteDatePattern.FindStringSubmatch(token); m != nil {
		at, err := time.ParseInLocation("2006-01-02", m[2], time.UTC)
		if err != nil {
			return DateBound{}, &ConfigurationError{Field: "date", Value: token, Reason: "invalid calendar date", Err: err}
		}
		return DateBound{At: at, Direction: direction(m[1])}, nil
	}

	if m := relativeDatePattern.FindStringSubmatch(token); m != nil {
		days, err := strconv.Atoi(m[2])
		if err != nil {
			return DateBound{}, &ConfigurationError{Field: "date", Value: token, Reason: "day offset out of range", Err: err}
		}
		return DateBound{At: now.UTC().AddDate(0, 0, -days), Direction: direction(m[1])}, nil
	}

	return DateBound{}, &ConfigurationError{
		Field:  "date",
		Value:  token,
		Reason: "expected YYYY-MM-DD or Ndays, optionally prefixed with '-'",
	}
}

func direction(sign string) Direction {
	if sign == "-" {
		return Before
	}
	return After
}
