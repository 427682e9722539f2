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

// ShoppingList sums ingredient amounts over every recipe in the user's cart,
// grouped by ingredient name and unit, ordered by name.
func (db *DB) ShoppingList(ctx context.Context, userID int64) ([]models.ShoppingItem, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("shopping_list", time.Now())

	rows, err := db.conn.QueryContext(ctx, `
		SELECT i.name, i.measurement_unit, SUM(ri.amount)::BIGINT AS amount
		FROM shopping_cart c
		JOIN recipe_ingredients ri ON ri.recipe_id = c.recipe_id
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE c.user_id = ?
		GROUP BY i.name, i.measurement_unit
		ORDER BY i.name, i.measurement_unit`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to build shopping list: %w", err)
	}
	defer rows.Close()

	items := make([]models.ShoppingItem, 0)
	for rows.Next() {
		var it models.ShoppingItem
		if err := rows.Scan(&it.Name, &it.MeasurementUnit, &it.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan shopping item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
