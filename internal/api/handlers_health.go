// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/foodgram/internal/models"
)

const healthPingTimeout = 2 * time.Second

// healthReporter is implemented by event buses that track publisher health.
type healthReporter interface {
	Healthy() bool
}

// Health handles health check requests
//
// @Summary Get system health status
// @Description Database connectivity, event bus state and websocket client count
// @Tags Core
// @Produce json
// @Success 200 {object} models.HealthResponse "Healthy"
// @Failure 503 {object} models.HealthResponse "Database unreachable"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	resp := models.HealthResponse{
		Status:    "healthy",
		Database:  "connected",
		Version:   Version,
		Uptime:    time.Since(h.startTime).Seconds(),
		Timestamp: time.Now().UTC(),
	}
	status := http.StatusOK

	if h.db == nil || h.db.Ping(ctx) != nil {
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
		status = http.StatusServiceUnavailable
	}

	// An open publish circuit degrades but does not fail the check: requests
	// still succeed without events.
	if hr, ok := h.events.(healthReporter); ok {
		resp.Events = "ok"
		if !hr.Healthy() {
			resp.Events = "circuit_open"
			if status == http.StatusOK {
				resp.Status = "degraded"
			}
		}
	}
	if h.hub != nil {
		resp.WebSocketClients = h.hub.GetClientCount()
	}

	respondJSON(w, status, resp)
}
