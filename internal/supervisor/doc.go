// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

/*
Package supervisor runs the long-lived parts of "menu serve" under a suture v4
supervisor tree.

# Overview

The tree separates cache upkeep from request handling so a failing badger GC
never takes the HTTP listener down with it:

	RootSupervisor ("cocktail-menu")
	├── CacheSupervisor ("cache-layer")
	│   └── CacheMaintenanceService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Each layer counts failures on its own. A service that keeps failing is
restarted with backoff (TreeConfig.FailureBackoff) until the layer's
FailureThreshold is crossed, after which the layer itself restarts.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddCacheService(services.NewCacheMaintenanceService(mem, store, cfg.Cache.CleanupInterval))
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.Timeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

# Logging

Supervisor events (service panics, terminations, backoff) are emitted through
the sutureslog hook onto the slog adapter in the logging package, so they land
in the same zerolog stream as everything else with component=supervisor.

# Shutdown

Cancelling the context passed to Serve stops every service. Services that do
not return within TreeConfig.ShutdownTimeout are listed by
UnstoppedServiceReport.
*/
package supervisor
