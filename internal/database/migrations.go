// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/foodgram/internal/logging"
)

// Migration is a versioned schema change applied exactly once.
type Migration struct {
	Version     int
	Name        string
	Description string
	SQL         string
	AppliedAt   time.Time
}

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name VARCHAR NOT NULL,
	description VARCHAR,
	applied_at TIMESTAMP NOT NULL
);
`

// migrations are append-only. Never edit or remove an applied entry.
var migrations = []Migration{
	{
		Version:     1,
		Name:        "favorites_recipe_index",
		Description: "Speed up in_favorite counters",
		SQL:         `CREATE INDEX IF NOT EXISTS idx_favorites_recipe ON favorites(recipe_id)`,
	},
	{
		Version:     2,
		Name:        "shopping_cart_user_index",
		Description: "Speed up shopping list aggregation",
		SQL:         `CREATE INDEX IF NOT EXISTS idx_shopping_cart_user ON shopping_cart(user_id)`,
	},
	{
		Version:     3,
		Name:        "recipe_tags_unique",
		Description: "A tag is attached to a recipe at most once",
		SQL: `
			DELETE FROM recipe_tags WHERE rowid NOT IN (
				SELECT min(rowid) FROM recipe_tags GROUP BY recipe_id, tag_id);
			CREATE UNIQUE INDEX IF NOT EXISTS uq_recipe_tags ON recipe_tags(recipe_id, tag_id);`,
	},
	{
		Version:     4,
		Name:        "recipe_ingredients_unique",
		Description: "An ingredient appears in a recipe at most once",
		SQL: `
			DELETE FROM recipe_ingredients WHERE rowid NOT IN (
				SELECT min(rowid) FROM recipe_ingredients GROUP BY recipe_id, ingredient_id);
			CREATE UNIQUE INDEX IF NOT EXISTS uq_recipe_ingredients ON recipe_ingredients(recipe_id, ingredient_id);`,
	},
}

func (db *DB) getAppliedMigrations(ctx context.Context) (map[int]Migration, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT version, name, COALESCE(description, ''), applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]Migration)
	for rows.Next() {
		var m Migration
		if err := rows.Scan(&m.Version, &m.Name, &m.Description, &m.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[m.Version] = m
	}
	return applied, rows.Err()
}

// runVersionedMigrations executes migrations that have not been applied yet.
func (db *DB) runVersionedMigrations() error {
	ctx, cancel := schemaContext()
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, schemaMigrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := db.getAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	newMigrations := 0
	for _, m := range migrations {
		if _, ok := applied[m.Version]; ok {
			continue
		}
		if _, err := db.conn.ExecContext(ctx, m.SQL); err != nil {
			return fmt.Errorf("failed to execute migration v%d (%s): %w", m.Version, m.Name, err)
		}
		if _, err := db.conn.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name, description, applied_at) VALUES (?, ?, ?, ?)`,
			m.Version, m.Name, m.Description, now()); err != nil {
			return fmt.Errorf("failed to record migration v%d: %w", m.Version, err)
		}
		newMigrations++
	}

	if newMigrations > 0 {
		logging.Info().Int("applied", newMigrations).Msg("Database migrations applied")
	}
	return nil
}

// CurrentSchemaVersion returns the highest applied migration version.
func (db *DB) CurrentSchemaVersion(ctx context.Context) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var version int
	err := db.conn.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
