// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package auth

import (
	"context"
	"time"

	"github.com/tomtom215/foodgram/internal/models"
)

type contextKey string

// SubjectContextKey is the context key for *Subject.
const SubjectContextKey contextKey = "auth_subject"

// Subject is the authenticated caller of a request.
type Subject struct {
	UserID    int64
	Username  string
	Email     string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// IsAdmin reports whether the subject has the admin role.
func (s *Subject) IsAdmin() bool {
	return s != nil && s.Role == models.RoleAdmin
}

// ContextWithSubject returns ctx carrying s.
func ContextWithSubject(ctx context.Context, s *Subject) context.Context {
	return context.WithValue(ctx, SubjectContextKey, s)
}

// GetSubject returns the authenticated subject or nil for anonymous requests.
func GetSubject(ctx context.Context) *Subject {
	s, _ := ctx.Value(SubjectContextKey).(*Subject)
	return s
}

// ViewerID returns the subject's user id, or 0 when anonymous.
func ViewerID(ctx context.Context) int64 {
	if s := GetSubject(ctx); s != nil {
		return s.UserID
	}
	return 0
}

// Role returns the subject's role, or models.RoleAnonymous.
func Role(ctx context.Context) string {
	if s := GetSubject(ctx); s != nil {
		return s.Role
	}
	return models.RoleAnonymous
}
