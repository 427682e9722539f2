// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package middleware provides the HTTP middleware shared by every route:
// request ids, Prometheus instrumentation, access logging and gzip.
//
// All middleware uses the standard func(http.Handler) http.Handler shape so
// it plugs into chi's r.Use:
//
//	r.Use(middleware.RequestID)
//	r.Use(middleware.PrometheusMetrics)
//	r.Use(middleware.AccessLog(time.Second))
//	r.Use(middleware.Compression)
//
// The wrapped ResponseWriter keeps http.Hijacker and http.Flusher working so
// the websocket upgrade is not affected.
package middleware
