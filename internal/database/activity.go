// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/foodgram/internal/models"
)

// RecordActivity appends an entry to the activity log. A zero CreatedAt is
// replaced with the current time.
func (db *DB) RecordActivity(ctx context.Context, a *models.Activity) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if a.CreatedAt.IsZero() {
		a.CreatedAt = now()
	}
	err := db.conn.QueryRowContext(ctx, `
		INSERT INTO activity (event_type, actor_id, subject_id, payload, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		a.EventType, a.ActorID, a.SubjectID, a.Payload, a.CreatedAt.UTC()).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// ListActivity returns the newest entries, optionally of one event type.
func (db *DB) ListActivity(ctx context.Context, limit int, eventType string) ([]models.Activity, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 100
	}
	query := `SELECT id, event_type, actor_id, subject_id, COALESCE(payload, ''), created_at FROM activity`
	var args []any
	if eventType != "" {
		query += ` WHERE event_type = ?`
		args = append(args, eventType)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	out := make([]models.Activity, 0)
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.EventType, &a.ActorID, &a.SubjectID, &a.Payload, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
