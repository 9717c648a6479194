// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package constraint

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Raw is one constraint specification as it arrives from YAML, JSON or
// command-line flags: {condition, count, operator, except?, exclude?}.
type Raw map[string]interface{}

// Compiler turns raw specifications into normalized Constraints.
// Relative date tokens are resolved against the compiler's clock.
type Compiler struct {
	now func() time.Time
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithClock overrides the time source used for relative dates.
func WithClock(now func() time.Time) Option {
	return func(c *Compiler) {
		c.now = now
	}
}

// NewCompiler creates a Compiler using the wall clock unless overridden.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile normalizes one raw specification using the wall clock.
func Compile(raw Raw, cat Category) (Constraint, error) {
	return NewCompiler().Compile(raw, cat)
}

// Compile normalizes one raw specification for the given category.
// Scalars in condition and except become single-element lists, count is
// coerced to a non-negative integer and exclude to a strict boolean.
func (c *Compiler) Compile(raw Raw, cat Category) (Constraint, error) {
	out := Constraint{Category: cat}

	opRaw, ok := raw["operator"]
	if !ok || opRaw == nil {
		return Constraint{}, configErr(cat, "operator", nil, "operator is required")
	}
	op, err := ParseOperator(fmt.Sprint(opRaw))
	if err != nil {
		return Constraint{}, withCategory(err, cat)
	}
	out.Operator = op

	count, err := toInt(raw["count"])
	if err != nil {
		return Constraint{}, &ConfigurationError{Category: cat, Field: "count", Value: raw["count"], Reason: "count must be an integer", Err: err}
	}
	if count < 0 {
		return Constraint{}, configErr(cat, "count", count, "count must not be negative")
	}
	out.Count = count

	exclude, err := ParseTruthy(raw["exclude"])
	if err != nil {
		return Constraint{}, &ConfigurationError{Category: cat, Field: "exclude", Value: raw["exclude"], Err: err}
	}
	out.Exclude = exclude

	condition := toList(raw["condition"])
	if len(condition) == 0 {
		return Constraint{}, configErr(cat, "condition", raw["condition"], "condition is required")
	}
	except := toList(raw["except"])
	if len(except) > 0 && !cat.HasIDs() {
		return Constraint{}, configErr(cat, "except", raw["except"], "except is only valid for keyword, food and book constraints")
	}

	switch {
	case cat.HasIDs():
		if out.IDs, err = toIntList(condition); err != nil {
			return Constraint{}, &ConfigurationError{Category: cat, Field: "condition", Value: raw["condition"], Reason: "ids must be integers", Err: err}
		}
		if len(except) > 0 {
			if out.Except, err = toIntList(except); err != nil {
				return Constraint{}, &ConfigurationError{Category: cat, Field: "except", Value: raw["except"], Reason: "ids must be integers", Err: err}
			}
		}
	case cat == CategoryRating:
		if len(condition) > 2 {
			return Constraint{}, configErr(cat, "condition", raw["condition"], "rating takes a threshold or a [low, high] range")
		}
		if out.Ratings, err = toFloatList(condition); err != nil {
			return Constraint{}, &ConfigurationError{Category: cat, Field: "condition", Value: raw["condition"], Reason: "ratings must be numeric", Err: err}
		}
	case cat.IsDate():
		now := c.now()
		out.Dates = make([]DateBound, 0, len(condition))
		for _, v := range condition {
			bound, err := ParseDate(dateToken(v), now)
			if err != nil {
				return Constraint{}, withCategory(err, cat)
			}
			out.Dates = append(out.Dates, bound)
		}
	default:
		return Constraint{}, configErr(cat, "category", cat, "unknown category")
	}

	return out, nil
}

// CompileAll compiles every raw specification of every category, in the
// fixed category order.
func (c *Compiler) CompileAll(specs map[Category][]Raw) ([]Constraint, error) {
	var out []Constraint
	for _, cat := range Categories {
		for i, raw := range specs[cat] {
			con, err := c.Compile(raw, cat)
			if err != nil {
				return nil, fmt.Errorf("%s constraint #%d: %w", cat, i+1, err)
			}
			out = append(out, con)
		}
	}
	return out, nil
}

func withCategory(err error, cat Category) error {
	if ce, ok := err.(*ConfigurationError); ok && ce.Category == "" {
		ce.Category = cat
	}
	return err
}

// toList wraps scalars into a single-element list; nil becomes empty.
func toList(v interface{}) []interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case []interface{}:
		return t
	case []int:
		out := make([]interface{}, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out
	case []float64:
		out := make([]interface{}, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out
	case []string:
		out := make([]interface{}, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out
	default:
		return []interface{}{v}
	}
}

func toInt(v interface{}) (int, error) {
	switch t := v.(type) {
	case nil:
		return 0, fmt.Errorf("missing value")
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case int32:
		return int(t), nil
	case uint64:
		return int(t), nil
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) {
			return 0, fmt.Errorf("%v is not a whole number", t)
		}
		return int(t), nil
	case float32:
		return toInt(float64(t))
	case json.Number:
		return toInt(string(t))
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", t)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

func toIntList(vs []interface{}) ([]int, error) {
	out := make([]int, 0, len(vs))
	for _, v := range vs {
		n, err := toInt(v)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func toFloat(v interface{}) (float64, error) {
	switch t := v.(type) {
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case json.Number:
		return t.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", t)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

func toFloatList(vs []interface{}) ([]float64, error) {
	out := make([]float64, 0, len(vs))
	for _, v := range vs {
		f, err := toFloat(v)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// dateToken accepts strings and YAML timestamps (which decode as time.Time).
func dateToken(v interface{}) string {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format("2006-01-02")
	}
	return fmt.Sprint(v)
}
