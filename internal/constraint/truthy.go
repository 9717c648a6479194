// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package constraint

import (
	"fmt"
	"strings"
)

// ParseTruthy normalizes a loosely typed flag.
//
// Booleans pass through, nil is false, numbers are true only when equal to
// 1, and strings are true only for "yes", "true" or "1" (case-insensitive).
func ParseTruthy(v interface{}) (bool, error) {
	switch t := v.(type) {
	case nil:
		return false, nil
	case bool:
		return t, nil
	case int:
		return t == 1, nil
	case int64:
		return t == 1, nil
	case int32:
		return t == 1, nil
	case uint64:
		return t == 1, nil
	case float64:
		return t == 1, nil
	case float32:
		return t == 1, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "yes", "true", "1":
			return true, nil
		default:
			return false, nil
		}
	default:
		return false, fmt.Errorf("cannot interpret %T as a boolean", v)
	}
}
