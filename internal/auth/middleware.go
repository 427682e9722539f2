// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/models"
)

var (
	errMissingToken  = errors.New("authentication credentials were not provided")
	errInvalidHeader = errors.New("invalid authorization header")
	errInvalidToken  = errors.New("invalid token")
)

// UserLookup loads the current state of a token's user.
type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// Middleware authenticates requests from the Authorization header.
type Middleware struct {
	jwt         *JWTManager
	revocations RevocationStore
	users       UserLookup
}

func NewMiddleware(jwtManager *JWTManager, revocations RevocationStore, users UserLookup) *Middleware {
	return &Middleware{jwt: jwtManager, revocations: revocations, users: users}
}

// Optional attaches a subject when a token is present. A malformed, expired
// or revoked token is rejected with 401 even on public routes.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := ExtractToken(r, false)
		if errors.Is(err, errMissingToken) {
			next.ServeHTTP(w, r)
			return
		}
		if err != nil {
			writeAuthError(w, err)
			return
		}
		subject, err := m.Authenticate(r.Context(), token)
		if err != nil {
			writeAuthError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(m.withSubject(r.Context(), subject)))
	})
}

// Required rejects requests without a valid token.
func (m *Middleware) Required(next http.Handler) http.Handler {
	return m.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetSubject(r.Context()) == nil {
			writeAuthError(w, errMissingToken)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// Authenticate validates a raw token and resolves its subject.
func (m *Middleware) Authenticate(ctx context.Context, token string) (*Subject, error) {
	claims, err := m.jwt.ValidateToken(token)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("Token validation failed")
		return nil, errInvalidToken
	}

	if m.revocations != nil {
		revoked, err := m.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, errInvalidToken
		}
	}

	subject := &Subject{
		UserID:   claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
		Role:     claims.Role,
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		subject.ExpiresAt = claims.ExpiresAt.Time
	}

	// The stored user wins over the claims: deleted or deactivated accounts
	// lose access and role changes apply immediately.
	if m.users != nil {
		u, err := m.users.GetUserByID(ctx, claims.UserID)
		switch {
		case errors.Is(err, database.ErrNotFound):
			return nil, errInvalidToken
		case err != nil:
			return nil, fmt.Errorf("load token user %d: %w", claims.UserID, err)
		case !u.IsActive:
			return nil, errInvalidToken
		}
		subject.Username = u.Username
		subject.Email = u.Email
		subject.Role = u.Role()
	}
	return subject, nil
}

func (m *Middleware) withSubject(ctx context.Context, s *Subject) context.Context {
	ctx = ContextWithSubject(ctx, s)
	return logging.ContextWithUserID(ctx, s.UserID)
}

// ExtractToken reads "Authorization: Token <t>" or "Bearer <t>". When
// allowQuery is set the "token" query parameter is accepted as well, for
// websocket clients that cannot set headers.
func ExtractToken(r *http.Request, allowQuery bool) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		if allowQuery {
			if t := r.URL.Query().Get("token"); t != "" {
				return t, nil
			}
		}
		return "", errMissingToken
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", errInvalidHeader
	}
	switch strings.ToLower(scheme) {
	case "token", "bearer":
		return strings.TrimSpace(token), nil
	default:
		return "", errInvalidHeader
	}
}

// IsCredentialError reports whether err means the client's credentials were
// missing or rejected. Any other Authenticate error is a backend failure.
func IsCredentialError(err error) bool {
	return errors.Is(err, errMissingToken) || errors.Is(err, errInvalidHeader) || errors.Is(err, errInvalidToken)
}

func writeAuthError(w http.ResponseWriter, err error) {
	status := http.StatusUnauthorized
	body := models.APIError{Detail: err.Error(), Code: "NOT_AUTHENTICATED"}
	if !IsCredentialError(err) {
		logging.Error().Err(err).Msg("Authentication backend failure")
		status = http.StatusInternalServerError
		body = models.APIError{Detail: "internal server error", Code: "INTERNAL_ERROR"}
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Token realm="api"`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(body); encErr != nil {
		logging.Error().Err(encErr).Msg("Failed to encode auth error")
	}
}
