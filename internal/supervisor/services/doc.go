// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

/*
Package services adapts application components to suture.Service.

HTTPServerService wraps an *http.Server. ListenAndServe runs until the
supervisor context is cancelled, at which point Shutdown drains in-flight
requests for up to the configured timeout. A listener that stops on its own is
reported as an error so the supervisor restarts it.

CacheMaintenanceService replaces the in-memory cache's private sweep loop while
the server is running. Each tick it removes expired catalog entries and runs
badger value-log GC; a GC error ends Serve so the restart is logged and backed
off by the supervisor.

Both services implement fmt.Stringer so supervisor events name them.
*/
package services
