// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
Package main is the entry point for the Foodgram server.

Foodgram is a recipe sharing backend. Users publish recipes built from a
shared ingredient catalogue, tag them, follow other authors, collect
favorites and download a shopping list summed over the recipes in their
cart.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("foodgram")
	├── DataSupervisor ("data-layer")
	│   ├── DuckDB checkpoint (periodic)
	│   └── Revocation store GC (badger only)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── Event router (activity log, subscriber feed)
	│   └── WebSocket Hub
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config file and environment
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB with the recipe schema
 4. Bootstrap admin (when ADMIN_EMAIL is set)
 5. Authentication: token signing, revocation store, Casbin roles
 6. Media store, catalogue importer, event bus
 7. Supervisor tree and HTTP server

# Configuration

	HTTP_PORT=8000
	DUCKDB_PATH=/data/foodgram.duckdb
	JWT_SECRET=<32+ chars>
	PUBLIC_URL=https://foodgram.example.com
	MEDIA_ROOT=/data/media
	REVOCATION_STORE=badger      # badger or memory
	NATS_ENABLED=false           # in-memory event bus when false

	# Optional bootstrap admin
	ADMIN_EMAIL=admin@example.com
	ADMIN_USERNAME=admin
	ADMIN_PASSWORD=<password>

CONFIG_PATH points at an optional YAML file with the same keys.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The supervisor stops the HTTP
server first, waits for in-flight requests, then stops the event router and
the data layer. Services that miss the shutdown timeout are reported.
*/
package main
