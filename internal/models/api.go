// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package models

import "time"

// APIError is the body of every error response.
type APIError struct {
	Detail string              `json:"detail"`
	Code   string              `json:"code"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// Page is the page-number pagination envelope.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Activity is one row of the append-only event log.
type Activity struct {
	ID        int64     `json:"id"`
	EventType string    `json:"event_type"`
	ActorID   int64     `json:"actor_id"`
	SubjectID int64     `json:"subject_id"`
	Payload   string    `json:"payload,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HealthResponse is returned by /api/health.
type HealthResponse struct {
	Status           string    `json:"status"`
	Database         string    `json:"database"`
	Events           string    `json:"events,omitempty"`
	WebSocketClients int       `json:"websocket_clients"`
	Version          string    `json:"version"`
	Uptime           float64   `json:"uptime_seconds"`
	Timestamp        time.Time `json:"timestamp"`
}
