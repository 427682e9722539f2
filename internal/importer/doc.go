// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package importer bulk-loads the ingredient and tag catalogues from CSV or
// JSON files.
//
// # Formats
//
// Ingredients: CSV rows "name,measurement_unit" (the header row is optional)
// or a JSON array of {"name", "measurement_unit"} objects. Tags: CSV rows
// "name,color,slug" or a JSON array of {"name", "color", "slug"}. CSV files
// may be UTF-8 (with or without BOM) or Windows-1251.
//
// # Processing
//
// Every row is normalized to NFC, validated with the same struct tags the API
// uses, and collected into batches of import.batch_size. Invalid rows are
// counted and reported with their line numbers; valid rows are inserted in
// one transaction per batch, skipping duplicates.
//
// # Progress
//
// The SHA-256 of each source is stored in a ProgressTracker (Badger on disk
// or in memory). Re-running an unchanged file reports UpToDate and touches
// nothing unless Options.Force is set.
//
// # Example Usage
//
//	progress, err := importer.NewProgressTracker(&cfg.Import)
//	imp := importer.New(db, progress, &cfg.Import)
//	stats, err := imp.ImportFile(ctx, importer.KindIngredients, "data/ingredients.csv", importer.Options{})
package importer
