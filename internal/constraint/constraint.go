// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package constraint

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Category tags the subject a constraint talks about.
type Category string

const (
	CategoryKeyword   Category = "keyword"
	CategoryFood      Category = "food"
	CategoryBook      Category = "book"
	CategoryRating    Category = "rating"
	CategoryCookedOn  Category = "cookedon"
	CategoryCreatedOn Category = "createdon"
)

// Categories lists every category in the order constraints are applied.
var Categories = []Category{
	CategoryKeyword,
	CategoryFood,
	CategoryBook,
	CategoryRating,
	CategoryCookedOn,
	CategoryCreatedOn,
}

// ParseCategory accepts the singular or plural category name, case-insensitive.
func ParseCategory(s string) (Category, error) {
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s")
	for _, c := range Categories {
		if string(c) == name {
			return c, nil
		}
	}
	return "", &ConfigurationError{Field: "category", Value: s, Reason: "unknown category"}
}

// HasIDs reports whether the category's condition is a list of catalog ids.
func (c Category) HasIDs() bool {
	return c == CategoryKeyword || c == CategoryFood || c == CategoryBook
}

// IsDate reports whether the category's condition is a list of date tokens.
func (c Category) IsDate() bool {
	return c == CategoryCookedOn || c == CategoryCreatedOn
}

// Operator is the comparison applied between a selection's overlap with the
// resolved subset and the constraint count.
type Operator string

const (
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
)

var operatorAliases = map[string]Operator{
	">=": OpGreaterEqual,
	"<=": OpLessEqual,
	"==": OpEqual,
	"=":  OpEqual,
	"!=": OpNotEqual,
}

// ParseOperator normalizes an operator token. Unknown operators are a
// configuration error.
func ParseOperator(s string) (Operator, error) {
	if op, ok := operatorAliases[strings.TrimSpace(s)]; ok {
		return op, nil
	}
	return "", &ConfigurationError{Field: "operator", Value: s, Reason: "unknown operator (want >=, <=, == or !=)"}
}

// Holds reports whether n <op> count.
func (o Operator) Holds(n, count int) bool {
	switch o {
	case OpGreaterEqual:
		return n >= count
	case OpLessEqual:
		return n <= count
	case OpEqual:
		return n == count
	case OpNotEqual:
		return n != count
	default:
		return false
	}
}

// Direction says which side of a date bound satisfies it.
type Direction int

const (
	// After admits timestamps on or after the bound.
	After Direction = iota
	// Before admits timestamps strictly before the bound.
	Before
)

func (d Direction) String() string {
	if d == Before {
		return "before"
	}
	return "after"
}

// DateBound is an absolute UTC instant plus a direction.
type DateBound struct {
	At        time.Time `json:"at"`
	Direction Direction `json:"direction"`
}

// Admits reports whether t satisfies the bound. A nil timestamp (never
// cooked) satisfies neither direction.
func (b DateBound) Admits(t *time.Time) bool {
	if t == nil {
		return false
	}
	if b.Direction == Before {
		return t.Before(b.At)
	}
	return !t.Before(b.At)
}

func (b DateBound) String() string {
	return fmt.Sprintf("%s %s", b.Direction, b.At.Format("2006-01-02T15:04:05Z"))
}

// Constraint is the normalized form of one raw constraint specification.
// Exactly one of IDs, Ratings or Dates is populated, depending on Category.
type Constraint struct {
	Category Category    `json:"category"`
	IDs      []int       `json:"ids,omitempty"`
	Except   []int       `json:"except,omitempty"`
	Ratings  []float64   `json:"ratings,omitempty"`
	Dates    []DateBound `json:"dates,omitempty"`
	Count    int         `json:"count"`
	Operator Operator    `json:"operator"`
	Exclude  bool        `json:"exclude"`
}

// RatingRange returns the inclusive rating interval the condition describes.
//
//	[v]      -> [v, +Inf)
//	[-v]     -> (-Inf, v]
//	[lo, hi] -> [lo, hi]
func (c *Constraint) RatingRange() (lo, hi float64) {
	switch len(c.Ratings) {
	case 1:
		v := c.Ratings[0]
		if v < 0 {
			return math.Inf(-1), -v
		}
		return v, math.Inf(1)
	case 2:
		return math.Min(c.Ratings[0], c.Ratings[1]), math.Max(c.Ratings[0], c.Ratings[1])
	default:
		return math.Inf(-1), math.Inf(1)
	}
}

// Condition renders the condition list for logs and error messages.
func (c *Constraint) Condition() string {
	switch {
	case c.Category.HasIDs():
		return fmt.Sprint(c.IDs)
	case c.Category == CategoryRating:
		return fmt.Sprint(c.Ratings)
	default:
		parts := make([]string, len(c.Dates))
		for i, d := range c.Dates {
			parts[i] = d.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
}

func (c Constraint) String() string {
	s := fmt.Sprintf("%s %s %s %d", c.Category, c.Condition(), c.Operator, c.Count)
	if len(c.Except) > 0 {
		s += fmt.Sprintf(" except %v", c.Except)
	}
	if c.Exclude {
		s += " (exclude)"
	}
	return s
}
