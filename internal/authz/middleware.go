// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package authz

import (
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/models"
)

// Middleware enforces the route policy for the caller's role.
type Middleware struct {
	enforcer *Enforcer
}

func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{enforcer: enforcer}
}

// Authorize must run after auth.Middleware.Optional. Anonymous callers that
// are denied get 401 so clients know to log in; authenticated callers get 403.
func (m *Middleware) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := auth.Role(r.Context())
		object := NormalizePath(r.URL.Path)
		action := r.Method
		if action == http.MethodHead {
			action = http.MethodGet
		}

		allowed, err := m.enforcer.Enforce(role, object, action)
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Str("object", object).Msg("Authorization error")
			writeError(w, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
			return
		}
		if allowed {
			next.ServeHTTP(w, r)
			return
		}

		logging.Ctx(r.Context()).Debug().
			Str("role", role).
			Str("object", object).
			Str("action", action).
			Msg("Request denied by policy")

		if role == models.RoleAnonymous {
			w.Header().Set("WWW-Authenticate", `Token realm="api"`)
			writeError(w, http.StatusUnauthorized, "authentication credentials were not provided", "NOT_AUTHENTICATED")
			return
		}
		writeError(w, http.StatusForbidden, "you do not have permission to perform this action", "PERMISSION_DENIED")
	})
}

// NormalizePath drops a trailing slash so "/api/recipes/" and
// "/api/recipes" hit the same policy line.
func NormalizePath(p string) string {
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	if p == "" {
		return "/"
	}
	return p
}

// CanModify reports whether the subject may change or delete a resource
// owned by authorID.
func CanModify(s *auth.Subject, authorID int64) bool {
	if s == nil {
		return false
	}
	return s.IsAdmin() || s.UserID == authorID
}

func writeError(w http.ResponseWriter, status int, detail, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(models.APIError{Detail: detail, Code: code}); err != nil {
		logging.Error().Err(err).Msg("Failed to encode authorization error")
	}
}
