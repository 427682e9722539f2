// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package importer

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Kind selects the catalogue being imported.
type Kind string

const (
	KindIngredients Kind = "ingredients"
	KindTags        Kind = "tags"
)

// ParseKind accepts "ingredients" or "tags".
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindIngredients, KindTags:
		return k, nil
	default:
		return "", fmt.Errorf("unknown import kind %q", s)
	}
}

// Format is the source file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// FormatFromName infers the format from a file extension, defaulting to CSV.
func FormatFromName(name string) Format {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return FormatJSON
	}
	return FormatCSV
}

// FormatFromContentType maps an upload's Content-Type to a format.
func FormatFromContentType(contentType string) (Format, bool) {
	mediaType, _, _ := strings.Cut(strings.ToLower(contentType), ";")
	switch strings.TrimSpace(mediaType) {
	case "application/json":
		return FormatJSON, true
	case "text/csv", "application/csv", "text/plain":
		return FormatCSV, true
	default:
		return "", false
	}
}

// Source is one input to import.
type Source struct {
	// Name identifies the source in progress tracking and logs, usually the
	// file name.
	Name     string
	Data     []byte
	Format   Format
	Encoding string // utf-8 or cp1251; empty uses the configured default
}

// Options tune a single run.
type Options struct {
	// Force re-imports a source whose checksum matches the previous run.
	Force bool
	// DryRun validates every row without writing.
	DryRun bool
	// Encoding overrides the configured CSV encoding for ImportFile.
	Encoding string
}

// RowError describes one rejected input row.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// maxReportedRowErrors bounds the row errors kept in Stats.
const maxReportedRowErrors = 100

// Stats summarizes an import run.
type Stats struct {
	Kind      Kind       `json:"kind"`
	Source    string     `json:"source"`
	Encoding  string     `json:"encoding"`
	Checksum  string     `json:"checksum"`
	Total     int        `json:"total"`
	Inserted  int        `json:"inserted"`
	Skipped   int        `json:"skipped"`
	Errors    int        `json:"errors"`
	RowErrors []RowError `json:"row_errors,omitempty"`
	UpToDate  bool       `json:"up_to_date"`
	DryRun    bool       `json:"dry_run"`
	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time"`
}

// Duration returns EndTime - StartTime, or the elapsed time for a running import.
func (s *Stats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

func (s *Stats) addRowError(line int, msg string) {
	s.Errors++
	if len(s.RowErrors) < maxReportedRowErrors {
		s.RowErrors = append(s.RowErrors, RowError{Line: line, Message: msg})
	}
}
