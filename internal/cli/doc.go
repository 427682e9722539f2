// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package cli implements foodgramctl, the operator command line.
//
// Commands open the same DuckDB database as the server, so run them while
// the server is stopped or against a copy:
//
//	foodgramctl load-ingredients --path data
//	foodgramctl load-tags --path data --force
//	foodgramctl create-admin --email chef@example.com --username chef --password '...'
//
// Every command accepts --config (explicit YAML file, otherwise the
// server's lookup rules apply) and --format text|json.
package cli
