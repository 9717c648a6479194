// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package logging

import "strings"

// maxErrorText caps catalog error bodies carried into errors and logs.
const maxErrorText = 512

// SanitizeToken masks a token, keeping its first and last 4 characters.
// Tokens of 12 characters or fewer are masked entirely.
//
//	SanitizeToken("tda_0123456789abcdef") // "tda_...cdef"
func SanitizeToken(token string) string {
	switch {
	case token == "":
		return ""
	case len(token) <= 12:
		return "***"
	default:
		return token[:4] + "..." + token[len(token)-4:]
	}
}

// SanitizeError masks every occurrence of token in msg and truncates the
// result. The catalog client runs Tandoor error bodies through it, since a
// misconfigured proxy may echo the Authorization header back.
func SanitizeError(msg, token string) string {
	if token != "" {
		msg = strings.ReplaceAll(msg, token, SanitizeToken(token))
	}
	if len(msg) > maxErrorText {
		msg = msg[:maxErrorText] + "..."
	}
	return msg
}
