// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smilerz/cocktail-menu/internal/cache"
	"github.com/smilerz/cocktail-menu/internal/config"
	"github.com/smilerz/cocktail-menu/internal/logging"
)

func newCacheCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the persistent catalog cache",
	}

	var path string
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every entry from the persistent catalog cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Clearing does not talk to the catalog, so the Tandoor
			// settings are not validated here.
			cfg, err := config.LoadUnvalidated()
			if err != nil {
				return &configError{err: err}
			}
			if cmd.Flags().Changed("path") {
				cfg.Cache.Path = path
			}
			initLogging(cfg, global)

			n, err := clearCache(cfg.Cache.Path, cfg.Cache.TTL)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached catalog entries from %s\n", n, cfg.Cache.Path)
			return nil
		},
	}
	clearCmd.Flags().StringVar(&path, "path", "", "badger directory (CACHE_PATH)")

	cmd.AddCommand(clearCmd)
	return cmd
}

var errNoCachePath = errors.New("no persistent cache configured: set CACHE_PATH or --path")

// clearCache empties the badger store at path and reports how many live
// entries it held.
func clearCache(path string, ttl time.Duration) (int, error) {
	if path == "" {
		return 0, &configError{err: errNoCachePath}
	}

	store, err := cache.OpenBadger(path, ttl)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("Failed to close persistent cache")
		}
	}()

	n, err := store.Len()
	if err != nil {
		return 0, err
	}
	if err := store.Clear(); err != nil {
		return 0, err
	}
	logging.Info().Str("path", path).Int("entries", n).Msg("Persistent cache cleared")
	return n, nil
}
