// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
Package api implements the Foodgram REST API on top of the chi router.

Handler methods are split across files by resource:
  - handler.go: Handler struct and constructor
  - router.go: route table and middleware stack (SetupChi)
  - chi_middleware.go: CORS and rate limit factories
  - response.go: JSON encoding, error bodies and request decoding
  - pagination.go: page-number pagination with absolute next/previous links
  - handlers_users.go: registration, profiles, password change, subscriptions
  - handlers_auth.go: token login and logout
  - handlers_catalog.go: tags and ingredients (cached)
  - handlers_recipes.go: recipe CRUD, favorites, shopping cart, shopping list
  - handlers_admin.go: admin listings and catalogue maintenance
  - handlers_import.go: bulk ingredient and tag uploads
  - handlers_health.go, handlers_ws.go: health check and websocket feed

Middleware order (outermost first):

	RequestID -> RealIP -> Recoverer -> CORS -> AccessLog -> Prometheus
	-> RateLimit -> auth.Optional -> authz.Authorize -> handler

Authorization is decided by the casbin policy on (role, path, method).
Ownership of a recipe is checked inside the handlers once the author is known.

Every non-2xx response carries a models.APIError body:

	{"detail": "not found", "code": "NOT_FOUND"}

Validation failures add a "fields" map of messages per field.
*/
package api
