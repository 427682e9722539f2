// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package database

import (
	"fmt"
	"strings"

	"github.com/tomtom215/foodgram/internal/models"
)

// buildInClause builds a parameterized IN clause
func buildInClause[T any](items []T) (string, []any) {
	placeholders := make([]string, len(items))
	args := make([]any, len(items))
	for i, item := range items {
		placeholders[i] = "?"
		args[i] = item
	}
	return strings.Join(placeholders, ","), args
}

// recipeConditions renders a RecipeFilter as a WHERE clause over the
// recipes table aliased as r.
func recipeConditions(f models.RecipeFilter) (string, []any) {
	var conditions []string
	var args []any

	if f.AuthorID != 0 {
		conditions = append(conditions, "r.author_id = ?")
		args = append(args, f.AuthorID)
	}

	if len(f.TagSlugs) > 0 {
		placeholders, slugArgs := buildInClause(f.TagSlugs)
		conditions = append(conditions, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
				WHERE rt.recipe_id = r.id AND t.slug IN (%s))`, placeholders))
		args = append(args, slugArgs...)
	}

	if f.ViewerID != 0 && f.Favorited {
		conditions = append(conditions, "EXISTS (SELECT 1 FROM favorites f WHERE f.recipe_id = r.id AND f.user_id = ?)")
		args = append(args, f.ViewerID)
	}

	if f.ViewerID != 0 && f.InCart {
		conditions = append(conditions, "EXISTS (SELECT 1 FROM shopping_cart c WHERE c.recipe_id = r.id AND c.user_id = ?)")
		args = append(args, f.ViewerID)
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		conditions = append(conditions, "contains(lower(r.name), lower(?))")
		args = append(args, s)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
