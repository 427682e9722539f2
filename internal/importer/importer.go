// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package importer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/metrics"
	"github.com/tomtom215/foodgram/internal/models"
)

// ErrMalformedSource marks sources that could not be decoded or parsed,
// as opposed to storage failures.
var ErrMalformedSource = errors.New("malformed import source")

// Store is the database surface the importer writes through.
type Store interface {
	BulkInsertIngredients(ctx context.Context, items []models.Ingredient) (inserted, skipped int, err error)
	BulkUpsertTags(ctx context.Context, tags []models.Tag) (inserted, skipped int, err error)
}

// Importer loads catalogue files into the Store.
type Importer struct {
	store    Store
	progress ProgressTracker
	encoding string
	batch    int
}

// New creates an importer. progress may be nil to disable change detection.
func New(store Store, progress ProgressTracker, cfg *config.ImportConfig) *Importer {
	batch := cfg.BatchSize
	if batch < 1 {
		batch = 500
	}
	return &Importer{store: store, progress: progress, encoding: cfg.Encoding, batch: batch}
}

// ImportFile reads path and imports it; the format follows the extension.
func (imp *Importer) ImportFile(ctx context.Context, kind Kind, path string, opts Options) (*Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return imp.Import(ctx, kind, Source{
		Name:     filepath.Base(path),
		Data:     data,
		Format:   FormatFromName(path),
		Encoding: opts.Encoding,
	}, opts)
}

// Import parses, validates and stores one source.
func (imp *Importer) Import(ctx context.Context, kind Kind, src Source, opts Options) (*Stats, error) {
	encoding := src.Encoding
	if encoding == "" {
		encoding = imp.encoding
	}
	encoding = canonicalEncoding(encoding)

	stats := &Stats{
		Kind:      kind,
		Source:    src.Name,
		Encoding:  encoding,
		Checksum:  sourceChecksum(src.Data, encoding),
		DryRun:    opts.DryRun,
		StartTime: time.Now(),
	}
	key := string(kind) + ":" + src.Name

	if imp.progress != nil && !opts.Force && !opts.DryRun {
		prev, err := imp.progress.Load(ctx, key)
		if err != nil {
			logging.Warn().Err(err).Str("source", src.Name).Msg("Failed to load import progress")
		} else if prev != nil && prev.Checksum == stats.Checksum {
			stats.UpToDate = true
			stats.EndTime = time.Now()
			logging.Info().Str("kind", string(kind)).Str("source", src.Name).Msg("Source unchanged since last import, skipping")
			return stats, nil
		}
	}

	var err error
	switch kind {
	case KindIngredients:
		err = imp.importIngredients(ctx, src, encoding, stats)
	case KindTags:
		err = imp.importTags(ctx, src, encoding, stats)
	default:
		err = fmt.Errorf("unknown import kind %q", kind)
	}
	stats.EndTime = time.Now()
	metrics.RecordImport(string(kind), stats.Inserted, stats.Skipped, stats.Errors, stats.Duration())
	if err != nil {
		return stats, err
	}

	if imp.progress != nil && !opts.DryRun {
		if err := imp.progress.Save(ctx, key, stats); err != nil {
			logging.Warn().Err(err).Str("source", src.Name).Msg("Failed to save import progress")
		}
	}

	logging.Info().
		Str("kind", string(kind)).
		Str("source", src.Name).
		Int("total", stats.Total).
		Int("inserted", stats.Inserted).
		Int("skipped", stats.Skipped).
		Int("errors", stats.Errors).
		Dur("duration", stats.Duration()).
		Msg("Import completed")
	return stats, nil
}

// sourceChecksum covers the bytes and the encoding they are read with, so
// re-reading the same file under another encoding is not "unchanged".
func sourceChecksum(data []byte, encoding string) string {
	h := sha256.New()
	h.Write([]byte(encoding))
	h.Write([]byte{0})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func (imp *Importer) importIngredients(ctx context.Context, src Source, encoding string, stats *Stats) error {
	rows, err := parseIngredients(src, encoding)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedSource, err)
	}
	valid := collectValid(rows, stats)
	if stats.DryRun {
		return nil
	}
	return inBatches(ctx, valid, imp.batch, stats, imp.store.BulkInsertIngredients)
}

func (imp *Importer) importTags(ctx context.Context, src Source, encoding string, stats *Stats) error {
	rows, err := parseTags(src, encoding)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedSource, err)
	}
	valid := collectValid(rows, stats)
	if stats.DryRun {
		return nil
	}
	return inBatches(ctx, valid, imp.batch, stats, imp.store.BulkUpsertTags)
}

func collectValid[T any](rows []row[T], stats *Stats) []T {
	stats.Total = len(rows)
	valid := make([]T, 0, len(rows))
	for _, r := range rows {
		if r.err != nil {
			stats.addRowError(r.line, r.err.Error())
			continue
		}
		valid = append(valid, r.value)
	}
	return valid
}

func inBatches[T any](ctx context.Context, items []T, size int, stats *Stats,
	insert func(context.Context, []T) (int, int, error)) error {
	for start := 0; start < len(items); start += size {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+size, len(items))
		inserted, skipped, err := insert(ctx, items[start:end])
		if err != nil {
			return fmt.Errorf("insert batch at row %d: %w", start+1, err)
		}
		stats.Inserted += inserted
		stats.Skipped += skipped
	}
	return nil
}
