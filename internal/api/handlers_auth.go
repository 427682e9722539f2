// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/metrics"
	"github.com/tomtom215/foodgram/internal/models"
)

// Login exchanges email and password for a token.
//
// @Summary Obtain a token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "Credentials"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} models.APIError
// @Failure 429 {object} models.APIError
// @Router /auth/token/login/ [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req, defaultBodyLimit) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if !validateRequest(w, &req) {
		return
	}

	logger := logging.Ctx(r.Context())
	if !h.throttle.Allow(req.Email) {
		metrics.RecordLogin("throttled")
		logger.Warn().Str("email", sanitizeLogValue(req.Email)).Msg("Login throttled")
		w.Header().Set("Retry-After", retryAfter(h.cfg.Security.LoginWindow, h.cfg.Security.LoginAttempts))
		respondError(w, r, http.StatusTooManyRequests, codeThrottled, "too many login attempts, try again later", nil)
		return
	}

	u, err := h.db.GetUserByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		respondInternal(w, r, err)
		return
	}
	if u == nil || !u.IsActive || auth.CheckPassword(u.PasswordHash, req.Password) != nil {
		metrics.RecordLogin("failure")
		logger.Info().Str("email", sanitizeLogValue(req.Email)).Msg("Login failed")
		respondError(w, r, http.StatusBadRequest, codeInvalidCredentials, auth.ErrInvalidCredentials.Error(), nil)
		return
	}

	token, _, err := h.jwt.GenerateToken(u)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	h.throttle.Reset(req.Email)
	metrics.RecordLogin("success")
	logger.Info().Int64("user_id", u.ID).Msg("Login succeeded")
	respondJSON(w, http.StatusOK, models.TokenResponse{AuthToken: token})
}

// Logout revokes the presented token until it would have expired.
//
// @Summary Revoke the current token
// @Tags Auth
// @Success 204
// @Security TokenAuth
// @Router /auth/token/logout/ [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	s := requireSubject(w, r)
	if s == nil {
		return
	}
	expires := s.ExpiresAt
	if expires.IsZero() {
		expires = time.Now().Add(h.jwt.Lifetime())
	}
	if h.revocations != nil {
		if err := h.revocations.Revoke(r.Context(), s.TokenID, expires); err != nil {
			respondInternal(w, r, err)
			return
		}
	}
	logging.Ctx(r.Context()).Info().Int64("user_id", s.UserID).Msg("Token revoked")
	respondNoContent(w)
}

// retryAfter is the number of seconds until one login attempt refills.
func retryAfter(window time.Duration, attempts int) string {
	if attempts < 1 {
		attempts = 1
	}
	secs := int((window / time.Duration(attempts)).Seconds())
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
