// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smilerz/cocktail-menu/internal/config"
	"github.com/smilerz/cocktail-menu/internal/logging"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "menu",
		Short: "Constraint-based recipe selection for Tandoor",
		Long: `menu picks a set of recipes from a Tandoor catalog so that every configured
constraint holds: how many recipes carry a keyword, use a food, come from a
book, reach a rating, or were cooked or created within a date window.

Among all selections that satisfy the constraints one is chosen at random;
pass --seed to make the choice repeatable.`,
		Example: `  # Six recipes, at least two tagged with keyword 73 or 273
  menu create --choices 6 --keywords "{condition: [73, 273], count: 2, operator: '>='}"

  # Same, written to tonight's meal plan
  menu create --mealplan --mp-type-name Dinner

  # Serve the HTTP API
  menu serve --port 8080`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.configPath != "" {
				if err := os.Setenv(config.ConfigPathEnvVar, opts.configPath); err != nil {
					return &configError{err: fmt.Errorf("set %s: %w", config.ConfigPathEnvVar, err)}
				}
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: config.yaml, config.yml or /etc/cocktail-menu/config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log", "", "log level: trace, debug, info, warn, error (case-insensitive)")

	root.AddCommand(
		newCreateCmd(opts),
		newServeCmd(opts),
		newCacheCmd(opts),
		newVersionCmd(),
	)
	return root
}

// run executes the command line and returns the process exit status.
func run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	if err != nil {
		logging.Error().Err(err).Int("exit_code", exitCode(err)).Msg("Command failed")
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	}
	return exitCode(err)
}

// initLogging applies the logging section, with --log taking precedence.
func initLogging(cfg *config.Config, opts *globalOptions) {
	level := cfg.Logging.Level
	if opts.logLevel != "" {
		level = opts.logLevel
		cfg.Logging.Level = level
	}
	logging.Init(logging.Config{
		Level:     level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})
}
