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
	"time"

	"github.com/tomtom215/foodgram/internal/models"
)

// ListTags returns every tag ordered by name.
func (db *DB) ListTags(ctx context.Context) ([]models.Tag, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("list_tags", time.Now())

	rows, err := db.conn.QueryContext(ctx, `SELECT id, name, color, slug FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := make([]models.Tag, 0)
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (db *DB) GetTag(ctx context.Context, id int64) (*models.Tag, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var t models.Tag
	err := db.conn.QueryRowContext(ctx, `SELECT id, name, color, slug FROM tags WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.Color, &t.Slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	return &t, nil
}

// GetTagsBySlugs returns the tags whose slug is in slugs; unknown slugs are ignored.
func (db *DB) GetTagsBySlugs(ctx context.Context, slugs []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(slugs))
	if len(slugs) == 0 {
		return tags, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	placeholders, args := buildInClause(slugs)
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, color, slug FROM tags WHERE slug IN (`+placeholders+`) ORDER BY name`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags by slug: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// CreateTag inserts t and sets its ID. The color defaults to models.DefaultTagColor.
func (db *DB) CreateTag(ctx context.Context, t *models.Tag) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if t.Color == "" {
		t.Color = models.DefaultTagColor
	}
	if field, err := db.tagConflict(ctx, t, 0); err != nil {
		return err
	} else if field != "" {
		return &ConflictError{Field: field}
	}

	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO tags (name, color, slug) VALUES (?, ?, ?) RETURNING id`, t.Name, t.Color, t.Slug).Scan(&t.ID)
	if err != nil {
		if isUniqueConstraintError(err) {
			return &ConflictError{Field: "name"}
		}
		return fmt.Errorf("failed to insert tag: %w", err)
	}
	return nil
}

// UpdateTag overwrites the name, color and slug of t.ID.
func (db *DB) UpdateTag(ctx context.Context, t *models.Tag) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if field, err := db.tagConflict(ctx, t, t.ID); err != nil {
		return err
	} else if field != "" {
		return &ConflictError{Field: field}
	}

	res, err := db.conn.ExecContext(ctx,
		`UPDATE tags SET name = ?, color = ?, slug = ? WHERE id = ?`, t.Name, t.Color, t.Slug, t.ID)
	if err != nil {
		if isUniqueConstraintError(err) {
			return &ConflictError{Field: "name"}
		}
		return fmt.Errorf("failed to update tag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// tagConflict returns the first unique field of t already used by another tag.
func (db *DB) tagConflict(ctx context.Context, t *models.Tag, exceptID int64) (string, error) {
	var name, color, slug bool
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			COALESCE(bool_or(name = ?), false),
			COALESCE(bool_or(lower(color) = lower(?)), false),
			COALESCE(bool_or(slug = ?), false)
		FROM tags WHERE id <> ?`, t.Name, t.Color, t.Slug, exceptID).Scan(&name, &color, &slug)
	if err != nil {
		return "", fmt.Errorf("failed to check tag uniqueness: %w", err)
	}
	switch {
	case name:
		return "name", nil
	case color:
		return "color", nil
	case slug:
		return "slug", nil
	}
	return "", nil
}

// DeleteTag removes the tag and detaches it from recipes.
func (db *DB) DeleteTag(ctx context.Context, id int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_tags WHERE tag_id = ?`, id); err != nil {
			return fmt.Errorf("failed to detach tag: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete tag: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// BulkUpsertTags inserts tags whose name, color and slug are all unused.
// Tags colliding with an existing row are skipped.
func (db *DB) BulkUpsertTags(ctx context.Context, tags []models.Tag) (inserted, skipped int, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("bulk_upsert_tags", time.Now())

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		for i := range tags {
			t := tags[i]
			if t.Color == "" {
				t.Color = models.DefaultTagColor
			}
			res, err := tx.ExecContext(ctx, `
				INSERT INTO tags (name, color, slug)
				SELECT ?, ?, ?
				WHERE NOT EXISTS (
					SELECT 1 FROM tags WHERE name = ? OR lower(color) = lower(?) OR slug = ?
				)`, t.Name, t.Color, t.Slug, t.Name, t.Color, t.Slug)
			if err != nil {
				return fmt.Errorf("failed to insert tag %q: %w", t.Name, err)
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
