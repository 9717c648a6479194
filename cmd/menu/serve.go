// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smilerz/cocktail-menu/internal/api"
	"github.com/smilerz/cocktail-menu/internal/config"
	"github.com/smilerz/cocktail-menu/internal/logging"
	"github.com/smilerz/cocktail-menu/internal/menu"
	"github.com/smilerz/cocktail-menu/internal/supervisor"
	"github.com/smilerz/cocktail-menu/internal/supervisor/services"
)

type serveOptions struct {
	url   string
	token string
	host  string
	port  int
}

func (o *serveOptions) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("url") {
		cfg.Tandoor.URL = o.url
	}
	if fs.Changed("token") {
		cfg.Tandoor.Token = o.token
	}
	if fs.Changed("host") {
		cfg.Server.Host = o.host
	}
	if fs.Changed("port") {
		cfg.Server.Port = o.port
	}
}

func newServeCmd(global *globalOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the menu API over HTTP",
		Long: `Run the HTTP API under a supervisor tree until SIGINT or SIGTERM.

  POST /api/v1/menus         select a menu (body overrides the configured request)
  GET  /api/v1/health/live   liveness
  GET  /api/v1/health/ready  readiness (pings the catalog)
  GET  /metrics              Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadUnvalidated()
			if err != nil {
				return &configError{err: err}
			}
			opts.apply(cmd.Flags(), cfg)
			initLogging(cfg, global)
			if err := cfg.Validate(); err != nil {
				return &configError{err: fmt.Errorf("configuration validation failed: %w", err)}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", "", "Tandoor server URL (TANDOOR_URL)")
	cmd.Flags().StringVar(&opts.token, "token", "", "Tandoor API token (TANDOOR_TOKEN)")
	cmd.Flags().StringVar(&opts.host, "host", "", "listen address (HTTP_HOST)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "listen port (HTTP_PORT)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	stack, err := newCatalogStack(cfg, false)
	if err != nil {
		return err
	}
	defer stack.Close()

	handler := api.NewHandler(menu.NewPlanner(stack.source), stack.source, cfg)
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Server))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// Leave room for the timeout response after a slow menu run.
		WriteTimeout: cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("failed to create supervisor tree: %w", err)
	}

	if cfg.Cache.Enabled {
		tree.AddCacheService(newCacheMaintenance(stack, cfg.Cache.CleanupInterval))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	err = tree.Serve(ctx)

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	logging.Info().Msg("Server stopped gracefully")
	return nil
}

// newCacheMaintenance avoids handing a nil *BadgerCache to the service as a
// non-nil interface.
func newCacheMaintenance(stack *catalogStack, interval time.Duration) *services.CacheMaintenanceService {
	var gc services.GarbageCollector
	if stack.store != nil {
		gc = stack.store
	}
	return services.NewCacheMaintenanceService(stack.memory, gc, interval)
}
