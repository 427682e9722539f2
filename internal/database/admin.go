// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/foodgram/internal/models"
)

// AdminListUsers searches users by username or email and attaches recipe
// and subscriber counts. It also returns the total number of matches.
func (db *DB) AdminListUsers(ctx context.Context, search string, page Pagination) ([]models.AdminUserRow, int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where := ""
	var args []any
	if s := strings.TrimSpace(search); s != "" {
		where = ` WHERE contains(lower(u.username), lower(?)) OR contains(lower(u.email), lower(?))`
		args = append(args, s, s)
	}

	var total int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users u`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	args = append(args, page.Limit, page.Offset)
	rows, err := db.conn.QueryContext(ctx, `
		SELECT u.id, u.email, u.username, u.first_name, u.last_name, u.is_admin, u.date_joined,
			(SELECT COUNT(*) FROM recipes r WHERE r.author_id = u.id) AS recipe_count,
			(SELECT COUNT(*) FROM subscriptions s WHERE s.author_id = u.id) AS subscriber_count
		FROM users u`+where+`
		ORDER BY u.email
		LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	out := make([]models.AdminUserRow, 0, page.Limit)
	for rows.Next() {
		var r models.AdminUserRow
		if err := rows.Scan(&r.ID, &r.Email, &r.Username, &r.FirstName, &r.LastName, &r.IsAdmin,
			&r.DateJoined, &r.RecipeCount, &r.SubscriberCount); err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}

// AdminListRecipes searches recipes by name, author username or tag slug
// and attaches the in_favorite counter.
func (db *DB) AdminListRecipes(ctx context.Context, search, tagSlug string, page Pagination) ([]models.AdminRecipeRow, int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var conditions []string
	var args []any
	if s := strings.TrimSpace(search); s != "" {
		conditions = append(conditions, `(contains(lower(r.name), lower(?)) OR contains(lower(u.username), lower(?)))`)
		args = append(args, s, s)
	}
	if tagSlug != "" {
		conditions = append(conditions,
			`EXISTS (SELECT 1 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id WHERE rt.recipe_id = r.id AND t.slug = ?)`)
		args = append(args, tagSlug)
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM recipes r JOIN users u ON u.id = r.author_id`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	args = append(args, page.Limit, page.Offset)
	rows, err := db.conn.QueryContext(ctx, `
		SELECT r.id, r.name, r.author_id, u.username, r.pub_date,
			(SELECT COUNT(*) FROM favorites f WHERE f.recipe_id = r.id) AS in_favorite
		FROM recipes r JOIN users u ON u.id = r.author_id`+where+`
		ORDER BY r.pub_date DESC, r.id DESC
		LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	out := make([]models.AdminRecipeRow, 0, page.Limit)
	for rows.Next() {
		var r models.AdminRecipeRow
		if err := rows.Scan(&r.ID, &r.Name, &r.AuthorID, &r.AuthorUsername, &r.PubDate, &r.InFavorite); err != nil {
			return nil, 0, fmt.Errorf("failed to scan recipe: %w", err)
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}

// FavoriteCount returns how many users favorited the recipe.
func (db *DB) FavoriteCount(ctx context.Context, recipeID int64) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorites WHERE recipe_id = ?`, recipeID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return n, nil
}

// EnsureAdmin promotes the user with u.Email, or creates u as an admin when
// no such user exists. An existing user's password is left untouched.
// created reports which of the two happened; u is filled in either way.
func (db *DB) EnsureAdmin(ctx context.Context, u *models.User) (created bool, err error) {
	existing, err := db.GetUserByEmail(ctx, u.Email)
	switch {
	case err == nil:
		if !existing.IsAdmin {
			if err := db.SetAdmin(ctx, existing.ID, true); err != nil {
				return false, err
			}
			existing.IsAdmin = true
		}
		*u = *existing
		return false, nil
	case !errors.Is(err, ErrNotFound):
		return false, err
	}

	u.IsAdmin = true
	if err := db.CreateUser(ctx, u); err != nil {
		return false, err
	}
	return true, nil
}
