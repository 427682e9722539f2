// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
Package services adapts Foodgram components to suture.Service.

Each wrapper turns a component lifecycle (ListenAndServe, RunWithContext,
Run, a periodic task) into Serve(ctx) and reports itself via fmt.Stringer:

  - HTTPServerService: *http.Server with graceful shutdown
  - WebSocketHubService: websocket.Hub
  - EventRouterService: a fresh events.Router per start, since a watermill
    router cannot be run twice
  - PeriodicService: DuckDB CHECKPOINT and badger value-log GC

Returning ctx.Err() on shutdown tells suture the stop was requested; any other
error triggers a restart.
*/
package services
