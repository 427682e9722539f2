// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext creates a context for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

var schemaStatements = []string{
	`CREATE SEQUENCE IF NOT EXISTS seq_users START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_tags START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_ingredients START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_recipes START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_favorites START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_shopping_cart START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_subscriptions START 1`,
	`CREATE SEQUENCE IF NOT EXISTS seq_activity START 1`,

	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_users'),
		email VARCHAR NOT NULL UNIQUE,
		username VARCHAR NOT NULL UNIQUE,
		first_name VARCHAR NOT NULL,
		last_name VARCHAR NOT NULL,
		password_hash VARCHAR NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT false,
		is_active BOOLEAN NOT NULL DEFAULT true,
		date_joined TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS tags (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_tags'),
		name VARCHAR NOT NULL UNIQUE,
		color VARCHAR NOT NULL UNIQUE DEFAULT '#ffd057',
		slug VARCHAR NOT NULL UNIQUE
	)`,

	`CREATE TABLE IF NOT EXISTS ingredients (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_ingredients'),
		name VARCHAR NOT NULL,
		measurement_unit VARCHAR NOT NULL,
		UNIQUE (name, measurement_unit)
	)`,

	`CREATE TABLE IF NOT EXISTS recipes (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_recipes'),
		author_id BIGINT NOT NULL,
		name VARCHAR NOT NULL,
		text VARCHAR NOT NULL,
		image VARCHAR NOT NULL,
		cooking_time INTEGER NOT NULL CHECK (cooking_time BETWEEN 1 AND 360),
		pub_date TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS recipe_ingredients (
		recipe_id BIGINT NOT NULL,
		ingredient_id BIGINT NOT NULL,
		amount INTEGER NOT NULL CHECK (amount BETWEEN 1 AND 1000)
	)`,

	`CREATE TABLE IF NOT EXISTS recipe_tags (
		recipe_id BIGINT NOT NULL,
		tag_id BIGINT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS favorites (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_favorites'),
		user_id BIGINT NOT NULL,
		recipe_id BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		UNIQUE (user_id, recipe_id)
	)`,

	`CREATE TABLE IF NOT EXISTS shopping_cart (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_shopping_cart'),
		user_id BIGINT NOT NULL,
		recipe_id BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		UNIQUE (user_id, recipe_id)
	)`,

	`CREATE TABLE IF NOT EXISTS subscriptions (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_subscriptions'),
		user_id BIGINT NOT NULL,
		author_id BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		UNIQUE (user_id, author_id),
		CHECK (user_id <> author_id)
	)`,

	`CREATE TABLE IF NOT EXISTS activity (
		id BIGINT PRIMARY KEY DEFAULT nextval('seq_activity'),
		event_type VARCHAR NOT NULL,
		actor_id BIGINT NOT NULL DEFAULT 0,
		subject_id BIGINT NOT NULL DEFAULT 0,
		payload VARCHAR,
		created_at TIMESTAMP NOT NULL
	)`,
}

// createTables creates sequences and tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

var indexStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_ingredients_name ON ingredients(name)`,
	`CREATE INDEX IF NOT EXISTS idx_recipes_author ON recipes(author_id)`,
	`CREATE INDEX IF NOT EXISTS idx_recipes_pub_date ON recipes(pub_date)`,
	`CREATE INDEX IF NOT EXISTS idx_recipe_ingredients_recipe ON recipe_ingredients(recipe_id)`,
	`CREATE INDEX IF NOT EXISTS idx_recipe_tags_recipe ON recipe_tags(recipe_id)`,
	`CREATE INDEX IF NOT EXISTS idx_subscriptions_author ON subscriptions(author_id)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_type ON activity(event_type)`,
}

func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, stmt := range indexStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
