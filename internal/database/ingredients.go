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

// ListIngredients returns ingredients whose name contains nameContains
// (case-insensitive). Prefix matches come first, then alphabetical order.
// An empty filter returns every ingredient.
func (db *DB) ListIngredients(ctx context.Context, nameContains string) ([]models.Ingredient, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("list_ingredients", time.Now())

	query := `SELECT id, name, measurement_unit FROM ingredients ORDER BY lower(name), name, measurement_unit`
	var args []any
	if q := strings.TrimSpace(nameContains); q != "" {
		query = `
			SELECT id, name, measurement_unit FROM ingredients
			WHERE contains(lower(name), lower(?))
			ORDER BY CASE WHEN starts_with(lower(name), lower(?)) THEN 0 ELSE 1 END, lower(name), name, measurement_unit`
		args = []any{q, q}
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	out := make([]models.Ingredient, 0)
	for rows.Next() {
		var ing models.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.MeasurementUnit); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

func (db *DB) GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var ing models.Ingredient
	err := db.conn.QueryRowContext(ctx, `SELECT id, name, measurement_unit FROM ingredients WHERE id = ?`, id).
		Scan(&ing.ID, &ing.Name, &ing.MeasurementUnit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return &ing, nil
}

// MissingIngredientIDs returns the ids in ids that have no ingredient row.
func (db *DB) MissingIngredientIDs(ctx context.Context, ids []int64) ([]int64, error) {
	return db.missingIDs(ctx, "ingredients", ids)
}

// MissingTagIDs returns the ids in ids that have no tag row.
func (db *DB) MissingTagIDs(ctx context.Context, ids []int64) ([]int64, error) {
	return db.missingIDs(ctx, "tags", ids)
}

func (db *DB) missingIDs(ctx context.Context, table string, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	placeholders, args := buildInClause(ids)
	rows, err := db.conn.QueryContext(ctx, `SELECT id FROM `+table+` WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", table, err)
	}
	defer rows.Close()

	found := make(map[int64]bool, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []int64
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// CreateIngredient inserts ing and sets its ID. A duplicate (name, unit)
// pair yields a *ConflictError.
func (db *DB) CreateIngredient(ctx context.Context, ing *models.Ingredient) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO ingredients (name, measurement_unit) VALUES (?, ?) RETURNING id`,
		ing.Name, ing.MeasurementUnit).Scan(&ing.ID)
	if err != nil {
		if isUniqueConstraintError(err) {
			return &ConflictError{Field: "name"}
		}
		return fmt.Errorf("failed to insert ingredient: %w", err)
	}
	return nil
}

func (db *DB) UpdateIngredient(ctx context.Context, ing *models.Ingredient) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var taken int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ingredients WHERE name = ? AND measurement_unit = ? AND id <> ?`,
		ing.Name, ing.MeasurementUnit, ing.ID).Scan(&taken); err != nil {
		return fmt.Errorf("failed to check ingredient uniqueness: %w", err)
	}
	if taken > 0 {
		return &ConflictError{Field: "name"}
	}

	res, err := db.conn.ExecContext(ctx,
		`UPDATE ingredients SET name = ?, measurement_unit = ? WHERE id = ?`, ing.Name, ing.MeasurementUnit, ing.ID)
	if err != nil {
		return fmt.Errorf("failed to update ingredient: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteIngredient removes the ingredient. Ingredients used by a recipe
// cannot be deleted and yield ErrConflict.
func (db *DB) DeleteIngredient(ctx context.Context, id int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var used int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM recipe_ingredients WHERE ingredient_id = ?`, id).Scan(&used); err != nil {
		return fmt.Errorf("failed to check ingredient usage: %w", err)
	}
	if used > 0 {
		return &ConflictError{Field: "recipes"}
	}

	res, err := db.conn.ExecContext(ctx, `DELETE FROM ingredients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// BulkInsertIngredients inserts the batch in one transaction, skipping
// (name, unit) pairs that already exist or repeat inside the batch.
func (db *DB) BulkInsertIngredients(ctx context.Context, items []models.Ingredient) (inserted, skipped int, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("bulk_insert_ingredients", time.Now())

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO ingredients (name, measurement_unit)
			SELECT ?, ?
			WHERE NOT EXISTS (SELECT 1 FROM ingredients WHERE name = ? AND measurement_unit = ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare ingredient insert: %w", err)
		}
		defer closeQuietly(stmt)

		seen := make(map[[2]string]bool, len(items))
		for _, ing := range items {
			key := [2]string{ing.Name, ing.MeasurementUnit}
			if seen[key] {
				skipped++
				continue
			}
			seen[key] = true

			res, err := stmt.ExecContext(ctx, ing.Name, ing.MeasurementUnit, ing.Name, ing.MeasurementUnit)
			if err != nil {
				return fmt.Errorf("failed to insert ingredient %q: %w", ing.Name, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				inserted++
			} else {
				skipped++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return inserted, skipped, nil
}
