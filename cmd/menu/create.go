// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smilerz/cocktail-menu/internal/config"
	"github.com/smilerz/cocktail-menu/internal/logging"
	"github.com/smilerz/cocktail-menu/internal/menu"
)

type createOptions struct {
	flags  menuFlags
	dryRun bool
	output string
}

func newCreateCmd(global *globalOptions) *cobra.Command {
	opts := &createOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Select a menu and print it",
		Long: `Select recipes from the candidate pool so that every constraint holds.

Each constraint flag takes a YAML mapping (or a list of mappings) with the keys
condition, count and operator, plus the optional exclude and except:

  --keywords "{condition: [73, 273], count: 2, operator: '>='}"
  --ratings  "{condition: [3, 5], count: 4, operator: '>='}"
  --cookedon "{condition: -14days, count: 0, operator: '=='}"

Repeating a flag adds another constraint of that kind. Any constraint flag
replaces the configured constraints of its kind.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, global, &opts.flags)
			if err != nil {
				return err
			}
			if opts.output != "table" && opts.output != "json" {
				return &configError{err: fmt.Errorf("--output must be table or json, got %q", opts.output)}
			}

			stack, err := newCatalogStack(cfg, true)
			if err != nil {
				return err
			}
			defer stack.Close()

			req := menu.RequestFromConfig(cfg)
			req.DryRun = opts.dryRun

			ctx := logging.ContextWithNewCorrelationID(cmd.Context())
			result, planErr := menu.NewPlanner(stack.source).Plan(ctx, req)
			if result != nil {
				if err := writeResult(cmd.OutOrStdout(), result, opts.output); err != nil {
					return err
				}
			}
			return planErr
		},
	}

	opts.flags.register(cmd.Flags())
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "select a menu without writing the meal plan")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "output format: table or json")
	return cmd
}

// loadConfig layers changed flags over the loaded configuration, starts
// logging and validates the result.
func loadConfig(cmd *cobra.Command, global *globalOptions, flags *menuFlags) (*config.Config, error) {
	cfg, err := config.LoadUnvalidated()
	if err != nil {
		return nil, &configError{err: err}
	}
	if flags != nil {
		if err := flags.apply(cmd.Flags(), cfg); err != nil {
			return nil, err
		}
	}
	initLogging(cfg, global)

	if err := cfg.Validate(); err != nil {
		return nil, &configError{err: fmt.Errorf("configuration validation failed: %w", err)}
	}
	return cfg, nil
}
