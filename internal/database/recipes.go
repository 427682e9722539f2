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

// CreateRecipe stores the recipe with its tags and ingredient amounts in
// one transaction and returns the new id.
func (db *DB) CreateRecipe(ctx context.Context, in models.RecipeInput) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("create_recipe", time.Now())

	var id int64
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO recipes (author_id, name, text, image, cooking_time, pub_date)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id`,
			in.AuthorID, in.Name, in.Text, in.Image, in.CookingTime, now()).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert recipe: %w", err)
		}
		return insertRecipeRelations(ctx, tx, id, in)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateRecipe replaces the recipe fields, tags and ingredients. An empty
// in.Image keeps the stored image. The previous image path is returned when
// it was replaced.
func (db *DB) UpdateRecipe(ctx context.Context, id int64, in models.RecipeInput) (replacedImage string, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("update_recipe", time.Now())

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		var current string
		err := tx.QueryRowContext(ctx, `SELECT image FROM recipes WHERE id = ?`, id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load recipe: %w", err)
		}

		image := in.Image
		if image == "" {
			image = current
		} else if image != current {
			replacedImage = current
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE recipes SET name = ?, text = ?, image = ?, cooking_time = ? WHERE id = ?`,
			in.Name, in.Text, image, in.CookingTime, id); err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = ?`, id); err != nil {
			return fmt.Errorf("failed to clear recipe ingredients: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_tags WHERE recipe_id = ?`, id); err != nil {
			return fmt.Errorf("failed to clear recipe tags: %w", err)
		}
		return insertRecipeRelations(ctx, tx, id, in)
	})
	if err != nil {
		return "", err
	}
	return replacedImage, nil
}

func insertRecipeRelations(ctx context.Context, tx *sql.Tx, recipeID int64, in models.RecipeInput) error {
	for _, tagID := range in.TagIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?)`, recipeID, tagID); err != nil {
			if isUniqueConstraintError(err) {
				return &ConflictError{Field: "tags"}
			}
			return fmt.Errorf("failed to attach tag %d: %w", tagID, err)
		}
	}
	for _, ia := range in.Ingredients {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount) VALUES (?, ?, ?)`,
			recipeID, ia.ID, ia.Amount); err != nil {
			if isUniqueConstraintError(err) {
				return &ConflictError{Field: "ingredients"}
			}
			return fmt.Errorf("failed to attach ingredient %d: %w", ia.ID, err)
		}
	}
	return nil
}

// DeleteRecipe removes the recipe and every row referencing it, returning
// the stored image path.
func (db *DB) DeleteRecipe(ctx context.Context, id int64) (string, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("delete_recipe", time.Now())

	var image string
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT image FROM recipes WHERE id = ?`, id).Scan(&image)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load recipe: %w", err)
		}
		for _, stmt := range []string{
			`DELETE FROM recipe_ingredients WHERE recipe_id = ?`,
			`DELETE FROM recipe_tags WHERE recipe_id = ?`,
			`DELETE FROM favorites WHERE recipe_id = ?`,
			`DELETE FROM shopping_cart WHERE recipe_id = ?`,
			`DELETE FROM recipes WHERE id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return fmt.Errorf("failed to delete recipe: %w", err)
			}
		}
		return nil
	})
	return image, err
}

// RecipeAuthor returns the author id of a recipe.
func (db *DB) RecipeAuthor(ctx context.Context, id int64) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var authorID int64
	err := db.conn.QueryRowContext(ctx, `SELECT author_id FROM recipes WHERE id = ?`, id).Scan(&authorID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get recipe author: %w", err)
	}
	return authorID, nil
}

// GetRecipe returns the full representation as seen by viewerID (0 for anonymous).
func (db *DB) GetRecipe(ctx context.Context, id, viewerID int64) (*models.Recipe, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("get_recipe", time.Now())

	var r models.Recipe
	err := db.conn.QueryRowContext(ctx, `
		SELECT id, author_id, name, text, image, cooking_time, pub_date
		FROM recipes WHERE id = ?`, id).
		Scan(&r.ID, &r.AuthorID, &r.Name, &r.Text, &r.Image, &r.CookingTime, &r.PubDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	recipes := []models.Recipe{r}
	if err := db.hydrateRecipes(ctx, recipes, viewerID); err != nil {
		return nil, err
	}
	return &recipes[0], nil
}

// ListRecipes returns one page of recipes matching f, newest first.
func (db *DB) ListRecipes(ctx context.Context, f models.RecipeFilter, page Pagination) ([]models.Recipe, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer observe("list_recipes", time.Now())

	where, args := recipeConditions(f)
	args = append(args, page.Limit, page.Offset)
	rows, err := db.conn.QueryContext(ctx, `
		SELECT r.id, r.author_id, r.name, r.text, r.image, r.cooking_time, r.pub_date
		FROM recipes r`+where+`
		ORDER BY r.pub_date DESC, r.id DESC
		LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	recipes := make([]models.Recipe, 0, page.Limit)
	for rows.Next() {
		var r models.Recipe
		if err := rows.Scan(&r.ID, &r.AuthorID, &r.Name, &r.Text, &r.Image, &r.CookingTime, &r.PubDate); err != nil {
			closeQuietly(rows)
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		closeQuietly(rows)
		return nil, err
	}
	closeQuietly(rows)

	if err := db.hydrateRecipes(ctx, recipes, f.ViewerID); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (db *DB) CountRecipes(ctx context.Context, f models.RecipeFilter) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := recipeConditions(f)
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes r`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return n, nil
}

// ListRecipesByAuthor returns the newest recipes of an author in short
// form. limit <= 0 returns all of them.
func (db *DB) ListRecipesByAuthor(ctx context.Context, authorID int64, limit int) ([]models.RecipeShort, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT id, name, image, cooking_time FROM recipes WHERE author_id = ? ORDER BY pub_date DESC, id DESC`
	args := []any{authorID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list author recipes: %w", err)
	}
	defer rows.Close()

	out := make([]models.RecipeShort, 0)
	for rows.Next() {
		var s models.RecipeShort
		if err := rows.Scan(&s.ID, &s.Name, &s.Image, &s.CookingTime); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (db *DB) CountRecipesByAuthor(ctx context.Context, authorID int64) (int, error) {
	return db.CountRecipes(ctx, models.RecipeFilter{AuthorID: authorID})
}

// hydrateRecipes fills author, tags, ingredients and viewer flags for a
// batch of recipes with one query per relation.
func (db *DB) hydrateRecipes(ctx context.Context, recipes []models.Recipe, viewerID int64) error {
	if len(recipes) == 0 {
		return nil
	}

	ids := make([]int64, len(recipes))
	authorIDs := make([]int64, 0, len(recipes))
	seenAuthor := make(map[int64]bool)
	index := make(map[int64]int, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
		index[recipes[i].ID] = i
		recipes[i].Tags = make([]models.Tag, 0)
		recipes[i].Ingredients = make([]models.RecipeIngredient, 0)
		if !seenAuthor[recipes[i].AuthorID] {
			seenAuthor[recipes[i].AuthorID] = true
			authorIDs = append(authorIDs, recipes[i].AuthorID)
		}
	}

	authors, err := db.usersByID(ctx, authorIDs)
	if err != nil {
		return err
	}
	subscribed, err := db.SubscribedSet(ctx, viewerID, authorIDs)
	if err != nil {
		return err
	}
	for i := range recipes {
		if u, ok := authors[recipes[i].AuthorID]; ok {
			recipes[i].Author = models.NewUserResponse(u, subscribed[u.ID])
		}
	}

	placeholders, args := buildInClause(ids)

	tagRows, err := db.conn.QueryContext(ctx, `
		SELECT rt.recipe_id, t.id, t.name, t.color, t.slug
		FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id IN (`+placeholders+`)
		ORDER BY t.name`, args...)
	if err != nil {
		return fmt.Errorf("failed to load recipe tags: %w", err)
	}
	for tagRows.Next() {
		var recipeID int64
		var t models.Tag
		if err := tagRows.Scan(&recipeID, &t.ID, &t.Name, &t.Color, &t.Slug); err != nil {
			closeQuietly(tagRows)
			return fmt.Errorf("failed to scan recipe tag: %w", err)
		}
		recipes[index[recipeID]].Tags = append(recipes[index[recipeID]].Tags, t)
	}
	closeQuietly(tagRows)

	ingRows, err := db.conn.QueryContext(ctx, `
		SELECT ri.recipe_id, i.id, i.name, i.measurement_unit, ri.amount
		FROM recipe_ingredients ri JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id IN (`+placeholders+`)
		ORDER BY i.name`, args...)
	if err != nil {
		return fmt.Errorf("failed to load recipe ingredients: %w", err)
	}
	for ingRows.Next() {
		var recipeID int64
		var ri models.RecipeIngredient
		if err := ingRows.Scan(&recipeID, &ri.ID, &ri.Name, &ri.MeasurementUnit, &ri.Amount); err != nil {
			closeQuietly(ingRows)
			return fmt.Errorf("failed to scan recipe ingredient: %w", err)
		}
		recipes[index[recipeID]].Ingredients = append(recipes[index[recipeID]].Ingredients, ri)
	}
	closeQuietly(ingRows)

	if viewerID == 0 {
		return nil
	}
	favorited, err := db.relationSet(ctx, "favorites", viewerID, ids)
	if err != nil {
		return err
	}
	inCart, err := db.relationSet(ctx, "shopping_cart", viewerID, ids)
	if err != nil {
		return err
	}
	for i := range recipes {
		recipes[i].IsFavorited = favorited[recipes[i].ID]
		recipes[i].IsInShoppingCart = inCart[recipes[i].ID]
	}
	return nil
}

func (db *DB) usersByID(ctx context.Context, ids []int64) (map[int64]*models.User, error) {
	placeholders, args := buildInClause(ids)
	rows, err := db.conn.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]*models.User, len(ids))
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		out[u.ID] = u
	}
	return out, rows.Err()
}
