// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package config loads Foodgram configuration with koanf.
//
// Sources are layered, later ones winning:
//
//  1. built-in defaults (defaultConfig)
//  2. a YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml, /etc/foodgram/config.yaml
//  3. environment variables listed in envMappings (e.g. HTTP_PORT, DUCKDB_PATH, JWT_SECRET)
//
// Unknown environment variables are ignored so the process environment cannot
// inject arbitrary keys. Comma-separated values are split for slice fields
// such as CORS_ORIGINS.
//
// Load validates the result; the server refuses to start with an invalid config.
package config
