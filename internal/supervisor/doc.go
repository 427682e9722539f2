// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
Package supervisor runs Foodgram's long-lived components under suture v4.

The tree has three layers so a crash in one area restarts only its siblings:

	foodgram (root)
	├── data-layer       DuckDB checkpoints, badger value-log GC
	├── messaging-layer  event router, websocket hub
	└── api-layer        HTTP server

Supervisor events (restarts, backoff, panics) are logged through sutureslog
on top of the zerolog-backed slog handler from internal/logging.

Service wrappers live in the services subpackage.
*/
package supervisor
