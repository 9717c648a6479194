// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// constraintConfigPaths hold lists of raw constraint maps. From the
// environment they arrive as YAML flow text such as
// MENU_KEYWORDS="[{condition: [73, 273], count: 1, operator: '>='}]".
var constraintConfigPaths = []string{
	"constraints.keywords",
	"constraints.foods",
	"constraints.books",
	"constraints.ratings",
	"constraints.cookedon",
	"constraints.createdon",
}

// processYAMLFields decodes string values at structured paths. Values that
// came from the YAML file are already structured and left alone.
func processYAMLFields(k *koanf.Koanf) error {
	for _, path := range constraintConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		specs, err := DecodeConstraintSpecs(s)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := setOrDelete(k, path, specs); err != nil {
			return err
		}
	}

	if s, ok := k.Get("menu.recipes").(string); ok {
		params, err := DecodeSearchParams(s)
		if err != nil {
			return fmt.Errorf("menu.recipes: %w", err)
		}
		if len(params) == 0 {
			k.Delete("menu.recipes")
		} else if err := k.Set("menu.recipes", params); err != nil {
			return fmt.Errorf("failed to set menu.recipes: %w", err)
		}
	}
	return nil
}

func setOrDelete(k *koanf.Koanf, path string, specs []map[string]interface{}) error {
	if len(specs) == 0 {
		k.Delete(path)
		return nil
	}
	if err := k.Set(path, specs); err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}

// DecodeConstraintSpecs parses YAML (or JSON) text holding either one
// constraint map or a list of them. Blank input yields nil.
func DecodeConstraintSpecs(s string) ([]map[string]interface{}, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var v interface{}
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("invalid constraint specification %q: %w", s, err)
	}

	switch val := v.(type) {
	case map[string]interface{}:
		return []map[string]interface{}{val}, nil
	case []interface{}:
		specs := make([]map[string]interface{}, 0, len(val))
		for i, item := range val {
			m, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("constraint %d is %T, want a mapping", i, item)
			}
			specs = append(specs, m)
		}
		return specs, nil
	default:
		return nil, fmt.Errorf("constraint specification %q must be a mapping or a list of mappings", s)
	}
}

// DecodeSearchParams parses a YAML mapping of recipe search parameters,
// e.g. "{keywords: [12], new: true}". Blank input yields nil.
func DecodeSearchParams(s string) (map[string]interface{}, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var params map[string]interface{}
	if err := yaml.Unmarshal([]byte(s), &params); err != nil {
		return nil, fmt.Errorf("invalid search parameters %q: %w", s, err)
	}
	return params, nil
}
