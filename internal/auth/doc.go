// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
Package auth provides authentication for the Foodgram API.

Components:

  - Password hashing with bcrypt (HashPassword, CheckPassword)
  - JWTManager: HS256 tokens carrying user id, username, email, role and a
    unique jti
  - RevocationStore: logout revokes a token by jti until it would have
    expired. BadgerRevocationStore persists revocations with per-key TTL;
    MemoryRevocationStore serves tests and single-process development.
  - LoginThrottle: a token bucket per login email (golang.org/x/time/rate)
  - Middleware: Optional and Required HTTP middleware that parse
    "Authorization: Token <jwt>" (or "Bearer <jwt>") and put a *Subject
    into the request context

Authorization decisions (roles, ownership) live in the authz package.

Usage:

	jwtMgr, err := auth.NewJWTManager(&cfg.Security)
	store, err := auth.NewRevocationStore(&cfg.Security)
	mw := auth.NewMiddleware(jwtMgr, store, db)

	r.With(mw.Required).Post("/api/recipes/", h.CreateRecipe)
*/
package auth
