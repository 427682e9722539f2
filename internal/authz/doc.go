// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package authz enforces role-based access control with Casbin.
//
// Requests pass through auth.Middleware first, which resolves the caller's
// role. Middleware.Authorize then checks (role, path, method) against the
// policy:
//
//	Request -> auth.Optional -> authz.Authorize -> Handler
//
// # RBAC Model
//
// Roles are hierarchical: admin inherits user, user inherits anonymous.
// Objects are request paths matched with keyMatch2 ("/api/recipes/:id"),
// actions are HTTP methods or "*".
//
//	m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
//
// The model and policy are embedded; security.casbin.model_path and
// security.casbin.policy_path override them. A file-backed policy is reloaded
// periodically.
//
// Object-level rules (only the author or an admin may change a recipe) are
// not expressible as path policies; handlers call CanModify once the owner
// is known.
//
// Decisions are cached per (role, object, action) for
// security.casbin.cache_ttl. Policy changes clear the cache.
package authz
