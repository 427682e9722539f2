// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/foodgram/internal/models"
)

// Subscribe makes userID follow authorID.
func (db *DB) Subscribe(ctx context.Context, userID, authorID int64) error {
	if userID == authorID {
		return ErrSelfSubscription
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	subscribed, err := db.IsSubscribed(ctx, userID, authorID)
	if err != nil {
		return err
	}
	if subscribed {
		return ErrAlreadyExists
	}
	if _, err := db.conn.ExecContext(ctx,
		`INSERT INTO subscriptions (user_id, author_id, created_at) VALUES (?, ?, ?)`,
		userID, authorID, now()); err != nil {
		if isUniqueConstraintError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	return nil
}

// Unsubscribe returns ErrNotFound when userID did not follow authorID.
func (db *DB) Unsubscribe(ctx context.Context, userID, authorID int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE user_id = ? AND author_id = ?`, userID, authorID)
	if err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) IsSubscribed(ctx context.Context, userID, authorID int64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE user_id = ? AND author_id = ?`, userID, authorID).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}
	return n > 0, nil
}

// ListSubscriptions returns one page of the authors userID follows, ordered by username.
func (db *DB) ListSubscriptions(ctx context.Context, userID int64, page Pagination) ([]models.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("list_subscriptions", time.Now())

	rows, err := db.conn.QueryContext(ctx, `
		SELECT u.id, u.email, u.username, u.first_name, u.last_name, u.password_hash, u.is_admin, u.is_active, u.date_joined
		FROM subscriptions s JOIN users u ON u.id = s.author_id
		WHERE s.user_id = ?
		ORDER BY u.username
		LIMIT ? OFFSET ?`, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	authors := make([]models.User, 0, page.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, *u)
	}
	return authors, rows.Err()
}

func (db *DB) CountSubscriptions(ctx context.Context, userID int64) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return n, nil
}

// ListSubscriberIDs returns the ids of users following authorID.
func (db *DB) ListSubscriberIDs(ctx context.Context, authorID int64) ([]int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT user_id FROM subscriptions WHERE author_id = ? ORDER BY user_id`, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
