// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"net/http"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/logging"
)

// WebSocket upgrades to the realtime feed. Browsers cannot set headers on
// websocket requests, so the token may also arrive as ?token=.
//
// @Summary Realtime feed
// @Description Pushes new_recipe messages for followed authors
// @Tags Core
// @Param token query string false "Auth token"
// @Success 101
// @Failure 401 {object} models.APIError
// @Router /ws [get]
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, r, http.StatusServiceUnavailable, codeUnavailable, "realtime feed is disabled", nil)
		return
	}

	s := auth.GetSubject(r.Context())
	if s == nil {
		token, err := auth.ExtractToken(r, true)
		if err != nil {
			respondError(w, r, http.StatusUnauthorized, codeNotAuthenticated, err.Error(), nil)
			return
		}
		if s, err = h.authn.Authenticate(r.Context(), token); err != nil {
			if !auth.IsCredentialError(err) {
				respondInternal(w, r, err)
				return
			}
			respondError(w, r, http.StatusUnauthorized, codeNotAuthenticated, "invalid token", nil)
			return
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	if client := h.hub.Accept(conn, s.UserID); client != nil {
		logging.Ctx(r.Context()).Debug().Int64("user_id", s.UserID).Uint64("client_id", client.ID()).Msg("WebSocket client connected")
	}
}
