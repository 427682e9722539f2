// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/foodgram/internal/models"
)

const userColumns = `id, email, username, first_name, last_name, password_hash, is_admin, is_active, date_joined`

// Pagination selects one page of a listing.
type Pagination struct {
	Limit  int
	Offset int
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
		&u.PasswordHash, &u.IsAdmin, &u.IsActive, &u.DateJoined); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts u and fills in its ID and DateJoined. A taken email or
// username yields a *ConflictError.
func (db *DB) CreateUser(ctx context.Context, u *models.User) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("create_user", time.Now())

	return db.withTx(ctx, func(tx *sql.Tx) error {
		var emailTaken, usernameTaken bool
		err := tx.QueryRowContext(ctx, `
			SELECT
				COALESCE(bool_or(lower(email) = lower(?)), false),
				COALESCE(bool_or(username = ?), false)
			FROM users`, u.Email, u.Username).Scan(&emailTaken, &usernameTaken)
		if err != nil {
			return fmt.Errorf("failed to check user uniqueness: %w", err)
		}
		if emailTaken {
			return &ConflictError{Field: "email"}
		}
		if usernameTaken {
			return &ConflictError{Field: "username"}
		}

		u.DateJoined = now()
		u.IsActive = true
		err = tx.QueryRowContext(ctx, `
			INSERT INTO users (email, username, first_name, last_name, password_hash, is_admin, is_active, date_joined)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id`,
			u.Email, u.Username, u.FirstName, u.LastName, u.PasswordHash, u.IsAdmin, u.IsActive, u.DateJoined,
		).Scan(&u.ID)
		if err != nil {
			if isUniqueConstraintError(err) {
				return &ConflictError{Field: "email"}
			}
			return fmt.Errorf("failed to insert user: %w", err)
		}
		return nil
	})
}

func (db *DB) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	u, err := scanUser(db.conn.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return db.getUser(ctx, "id = ?", id)
}

// GetUserByEmail matches the email case-insensitively.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return db.getUser(ctx, "lower(email) = lower(?)", strings.TrimSpace(email))
}

func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return db.getUser(ctx, "username = ?", username)
}

// UserExists reports whether a user with the id exists.
func (db *DB) UserExists(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return n > 0, nil
}

// ListUsers returns one page of users ordered by email.
func (db *DB) ListUsers(ctx context.Context, page Pagination) ([]models.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("list_users", time.Now())

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY email LIMIT ? OFFSET ?`, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0, page.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (db *DB) CountUsers(ctx context.Context) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// SubscribedSet returns which of authorIDs the user follows.
func (db *DB) SubscribedSet(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(authorIDs))
	if userID == 0 || len(authorIDs) == 0 {
		return out, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	placeholders, args := buildInClause(authorIDs)
	args = append([]any{userID}, args...)
	rows, err := db.conn.QueryContext(ctx,
		`SELECT author_id FROM subscriptions WHERE user_id = ? AND author_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		out[id] = true
	}
	return out, rows.Err()
}

func (db *DB) SetPassword(ctx context.Context, userID int64, hash string) error {
	return db.updateUserField(ctx, userID, "password_hash", hash)
}

func (db *DB) SetAdmin(ctx context.Context, userID int64, isAdmin bool) error {
	return db.updateUserField(ctx, userID, "is_admin", isAdmin)
}

func (db *DB) updateUserField(ctx context.Context, userID int64, column string, value any) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `UPDATE users SET `+column+` = ? WHERE id = ?`, value, userID)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", column, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes the user, their recipes and every row that references
// either. It returns the image paths of the deleted recipes so the caller
// can remove the files.
func (db *DB) DeleteUser(ctx context.Context, userID int64) ([]string, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("delete_user", time.Now())

	var images []string
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, userID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check user: %w", err)
		}
		if exists == 0 {
			return ErrNotFound
		}

		rows, err := tx.QueryContext(ctx, `SELECT image FROM recipes WHERE author_id = ?`, userID)
		if err != nil {
			return fmt.Errorf("failed to list user recipes: %w", err)
		}
		for rows.Next() {
			var img string
			if err := rows.Scan(&img); err != nil {
				closeQuietly(rows)
				return fmt.Errorf("failed to scan recipe image: %w", err)
			}
			images = append(images, img)
		}
		closeQuietly(rows)

		stmts := []string{
			`DELETE FROM recipe_ingredients WHERE recipe_id IN (SELECT id FROM recipes WHERE author_id = ?)`,
			`DELETE FROM recipe_tags WHERE recipe_id IN (SELECT id FROM recipes WHERE author_id = ?)`,
			`DELETE FROM favorites WHERE recipe_id IN (SELECT id FROM recipes WHERE author_id = ?)`,
			`DELETE FROM shopping_cart WHERE recipe_id IN (SELECT id FROM recipes WHERE author_id = ?)`,
			`DELETE FROM recipes WHERE author_id = ?`,
			`DELETE FROM favorites WHERE user_id = ?`,
			`DELETE FROM shopping_cart WHERE user_id = ?`,
			`DELETE FROM subscriptions WHERE user_id = ? OR author_id = ?`,
			`DELETE FROM users WHERE id = ?`,
		}
		for _, stmt := range stmts {
			args := []any{userID}
			if strings.Count(stmt, "?") == 2 {
				args = append(args, userID)
			}
			if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
				return fmt.Errorf("failed to delete user data: %w", err)
			}
		}
		return nil
	})
	return images, err
}
