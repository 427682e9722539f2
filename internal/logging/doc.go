// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package logging provides the zerolog-based structured logger used across Foodgram.
//
// A single global logger is configured once at startup with Init and accessed
// through level helpers:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("recipe", name).Msg("recipe created")
//	logging.Ctx(ctx).Warn().Err(err).Msg("favorite insert failed")
//
// Ctx adds the request and correlation IDs carried by the context, so every
// line written while serving a request can be joined back to it.
//
// Two adapters let third-party libraries write into the same stream:
//
//   - SlogHandler implements slog.Handler (used by sutureslog)
//   - WatermillAdapter implements watermill.LoggerAdapter (used by the event bus)
//
// Always terminate an event chain with Msg or Send, otherwise nothing is written.
package logging
