// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package database

import (
	"context"
	"fmt"
)

// relationTables are the user-to-recipe link tables.
var relationTables = map[string]bool{
	"favorites":     true,
	"shopping_cart": true,
}

func (db *DB) addRelation(ctx context.Context, table string, userID, recipeID int64) error {
	if !relationTables[table] {
		return fmt.Errorf("unknown relation table %q", table)
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	exists, err := db.hasRelation(ctx, table, userID, recipeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyExists
	}
	if _, err := db.conn.ExecContext(ctx,
		`INSERT INTO `+table+` (user_id, recipe_id, created_at) VALUES (?, ?, ?)`, userID, recipeID, now()); err != nil {
		if isUniqueConstraintError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

func (db *DB) removeRelation(ctx context.Context, table string, userID, recipeID int64) error {
	if !relationTables[table] {
		return fmt.Errorf("unknown relation table %q", table)
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `DELETE FROM `+table+` WHERE user_id = ? AND recipe_id = ?`, userID, recipeID)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) hasRelation(ctx context.Context, table string, userID, recipeID int64) (bool, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+table+` WHERE user_id = ? AND recipe_id = ?`, userID, recipeID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query %s: %w", table, err)
	}
	return n > 0, nil
}

// relationSet returns which of recipeIDs the user has in the table.
func (db *DB) relationSet(ctx context.Context, table string, userID int64, recipeIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool)
	if len(recipeIDs) == 0 {
		return out, nil
	}
	placeholders, args := buildInClause(recipeIDs)
	args = append([]any{userID}, args...)
	rows, err := db.conn.QueryContext(ctx,
		`SELECT recipe_id FROM `+table+` WHERE user_id = ? AND recipe_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		out[id] = true
	}
	return out, rows.Err()
}

// AddFavorite returns ErrAlreadyExists when the recipe is already a favorite.
func (db *DB) AddFavorite(ctx context.Context, userID, recipeID int64) error {
	return db.addRelation(ctx, "favorites", userID, recipeID)
}

// RemoveFavorite returns ErrNotFound when the recipe was not a favorite.
func (db *DB) RemoveFavorite(ctx context.Context, userID, recipeID int64) error {
	return db.removeRelation(ctx, "favorites", userID, recipeID)
}

func (db *DB) IsFavorited(ctx context.Context, userID, recipeID int64) (bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return db.hasRelation(ctx, "favorites", userID, recipeID)
}

// AddToCart returns ErrAlreadyExists when the recipe is already in the cart.
func (db *DB) AddToCart(ctx context.Context, userID, recipeID int64) error {
	return db.addRelation(ctx, "shopping_cart", userID, recipeID)
}

// RemoveFromCart returns ErrNotFound when the recipe was not in the cart.
func (db *DB) RemoveFromCart(ctx context.Context, userID, recipeID int64) error {
	return db.removeRelation(ctx, "shopping_cart", userID, recipeID)
}

func (db *DB) IsInCart(ctx context.Context, userID, recipeID int64) (bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return db.hasRelation(ctx, "shopping_cart", userID, recipeID)
}

// ClearCart empties the user's cart and returns how many entries were removed.
func (db *DB) ClearCart(ctx context.Context, userID int64) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `DELETE FROM shopping_cart WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
