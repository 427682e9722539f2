// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
Package database provides DuckDB persistence for Foodgram.

The DB type owns a single *sql.DB opened through the duckdb-go driver. Tables
are created with CREATE TABLE IF NOT EXISTS on startup, identifiers come from
sequences, and later schema changes go through versioned migrations tracked in
schema_migrations.

DuckDB has no ON DELETE CASCADE, so operations that remove users or recipes
delete dependent rows explicitly inside one transaction. The join tables
(recipe_ingredients, recipe_tags) carry no unique index because DuckDB checks
unique indexes eagerly inside a transaction that deletes and re-inserts the
same key; uniqueness there is guaranteed by request validation.

Errors:

  - ErrNotFound: the requested row does not exist
  - ErrAlreadyExists: a favorite, cart entry or subscription is duplicated
  - ErrSelfSubscription: a user tried to follow themselves
  - ErrConflict: a unique field (email, username, tag name) is taken; the
    concrete field is available through *ConflictError

Usage:

	db, err := database.New(&cfg.Database)
	if err != nil {
	    return err
	}
	defer db.Close()

	recipe, err := db.GetRecipe(ctx, id, viewerID)
*/
package database
