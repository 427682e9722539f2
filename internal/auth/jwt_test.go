// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/models"
)

const testSecret = "this_is_a_very_long_secret_key_for_testing_purposes_12345"

func newTestJWT(t *testing.T, timeout time.Duration) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(&config.SecurityConfig{JWTSecret: testSecret, SessionTimeout: timeout})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	return m
}

func TestNewJWTManager_EphemeralSecret(t *testing.T) {
	m, err := NewJWTManager(&config.SecurityConfig{})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	if len(m.secret) != 32 {
		t.Errorf("ephemeral secret length = %d, want 32", len(m.secret))
	}
	if m.Lifetime() != 24*time.Hour {
		t.Errorf("Lifetime() = %v, want 24h default", m.Lifetime())
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	m := newTestJWT(t, time.Hour)

	tests := []struct {
		name string
		user *models.User
		role string
	}{
		{"regular user", &models.User{ID: 7, Username: "cook", Email: "cook@example.com"}, models.RoleUser},
		{"admin", &models.User{ID: 1, Username: "root", Email: "root@example.com", IsAdmin: true}, models.RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, issued, err := m.GenerateToken(tt.user)
			if err != nil {
				t.Fatalf("GenerateToken() error = %v", err)
			}
			if issued.ID == "" {
				t.Error("GenerateToken() left jti empty")
			}

			claims, err := m.ValidateToken(token)
			if err != nil {
				t.Fatalf("ValidateToken() error = %v", err)
			}
			if claims.UserID != tt.user.ID || claims.Username != tt.user.Username || claims.Email != tt.user.Email {
				t.Errorf("claims = %+v, want user %+v", claims, tt.user)
			}
			if claims.Role != tt.role {
				t.Errorf("Role = %q, want %q", claims.Role, tt.role)
			}
			if claims.ID != issued.ID {
				t.Errorf("jti = %q, want %q", claims.ID, issued.ID)
			}
		})
	}
}

func TestGenerateToken_UniqueJTI(t *testing.T) {
	m := newTestJWT(t, time.Hour)
	u := &models.User{ID: 3, Username: "a", Email: "a@example.com"}

	_, c1, _ := m.GenerateToken(u)
	_, c2, _ := m.GenerateToken(u)
	if c1.ID == c2.ID {
		t.Error("two tokens share a jti")
	}
}

func TestValidateToken_Rejects(t *testing.T) {
	m := newTestJWT(t, time.Hour)
	other, err := NewJWTManager(&config.SecurityConfig{JWTSecret: strings.Repeat("x", 40), SessionTimeout: time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	u := &models.User{ID: 5, Username: "u", Email: "u@example.com"}
	foreign, _, _ := other.GenerateToken(u)

	expired := func() string {
		now := time.Now()
		c := &Claims{UserID: 5, RegisteredClaims: jwt.RegisteredClaims{
			ID: "jti", Issuer: tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
		}}
		s, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(testSecret))
		return s
	}()

	wrongIssuer := func() string {
		c := &Claims{UserID: 5, RegisteredClaims: jwt.RegisteredClaims{
			ID: "jti", Issuer: "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		s, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(testSecret))
		return s
	}()

	noJTI := func() string {
		c := &Claims{UserID: 5, RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		s, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(testSecret))
		return s
	}()

	noneAlg := func() string {
		c := &Claims{UserID: 5, RegisteredClaims: jwt.RegisteredClaims{
			ID: "jti", Issuer: tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		s, _ := jwt.NewWithClaims(jwt.SigningMethodNone, c).SignedString(jwt.UnsafeAllowNoneSignatureType)
		return s
	}()

	tests := map[string]string{
		"garbage":      "not.a.token",
		"empty":        "",
		"other secret": foreign,
		"expired":      expired,
		"wrong issuer": wrongIssuer,
		"missing jti":  noJTI,
		"alg none":     noneAlg,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := m.ValidateToken(token); err == nil {
				t.Error("ValidateToken() accepted an invalid token")
			}
		})
	}
}
