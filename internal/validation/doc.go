// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package validation wraps go-playground/validator with Foodgram rules.
//
// Request structs declare constraints with `validate` tags; errors are
// reported under the JSON field name so they can be returned to clients as a
// field -> messages map. Custom tags:
//
//   - username: letters, digits and @.+-_ only, and not the reserved "me"
//   - slug: letters, digits, hyphen and underscore
//
// Built-in tags cover the rest, including `unique` for duplicate ingredient
// and tag IDs in recipe payloads.
package validation
