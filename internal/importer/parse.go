// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/text/encoding/charmap"

	"github.com/tomtom215/foodgram/internal/models"
	"github.com/tomtom215/foodgram/internal/validation"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// row is a parsed record and the 1-based line it came from.
type row[T any] struct {
	line  int
	value T
	err   error
}

// canonicalEncoding folds encoding aliases to one name so that "utf8" and
// "UTF-8" hash the same. Unknown names are returned lowercased.
func canonicalEncoding(encoding string) string {
	switch e := strings.ToLower(strings.TrimSpace(encoding)); e {
	case "", "utf-8", "utf8":
		return "utf-8"
	case "cp1251", "windows-1251":
		return "cp1251"
	default:
		return e
	}
}

// decode converts data to UTF-8.
func decode(data []byte, encoding string) ([]byte, error) {
	switch canonicalEncoding(encoding) {
	case "utf-8":
		return bytes.TrimPrefix(data, utf8BOM), nil
	case "cp1251":
		out, err := charmap.Windows1251.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decode cp1251: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}

// readCSV yields non-blank records with their line numbers. A first record
// whose first cell equals header is dropped.
func readCSV(data []byte, header string, minFields int) ([][]string, []int, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var records [][]string
	var lines []int
	first := true
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := r.FieldPos(0)
		if isBlank(rec) {
			continue
		}
		if first {
			first = false
			if strings.EqualFold(strings.TrimSpace(rec[0]), header) {
				continue
			}
		}
		for len(rec) < minFields {
			rec = append(rec, "")
		}
		records = append(records, rec)
		lines = append(lines, line)
	}
	return records, lines, nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func parseIngredients(src Source, encoding string) ([]row[models.Ingredient], error) {
	data, err := decode(src.Data, encoding)
	if err != nil {
		return nil, err
	}

	var rows []row[models.Ingredient]
	if src.Format == FormatJSON {
		var items []models.Ingredient
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		for i, it := range items {
			rows = append(rows, row[models.Ingredient]{line: i + 1, value: it})
		}
	} else {
		records, lines, err := readCSV(data, "name", 2)
		if err != nil {
			return nil, err
		}
		for i, rec := range records {
			rows = append(rows, row[models.Ingredient]{
				line:  lines[i],
				value: models.Ingredient{Name: rec[0], MeasurementUnit: rec[1]},
			})
		}
	}

	for i := range rows {
		ing := &rows[i].value
		ing.ID = 0
		ing.Name = validation.NormalizeText(ing.Name)
		ing.MeasurementUnit = validation.NormalizeText(ing.MeasurementUnit)
		if verr := validation.ValidateStruct(ing); verr != nil {
			rows[i].err = verr
		}
	}
	return rows, nil
}

func parseTags(src Source, encoding string) ([]row[models.Tag], error) {
	data, err := decode(src.Data, encoding)
	if err != nil {
		return nil, err
	}

	var rows []row[models.Tag]
	if src.Format == FormatJSON {
		var items []models.Tag
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		for i, it := range items {
			rows = append(rows, row[models.Tag]{line: i + 1, value: it})
		}
	} else {
		records, lines, err := readCSV(data, "name", 3)
		if err != nil {
			return nil, err
		}
		for i, rec := range records {
			rows = append(rows, row[models.Tag]{
				line:  lines[i],
				value: models.Tag{Name: rec[0], Color: rec[1], Slug: rec[2]},
			})
		}
	}

	for i := range rows {
		tag := &rows[i].value
		tag.ID = 0
		tag.Name = validation.NormalizeText(tag.Name)
		tag.Color = strings.TrimSpace(tag.Color)
		if tag.Color == "" {
			tag.Color = models.DefaultTagColor
		}
		tag.Slug = strings.TrimSpace(tag.Slug)
		if tag.Slug == "" {
			tag.Slug = validation.Slugify(tag.Name)
		}
		if verr := validation.ValidateStruct(tag); verr != nil {
			rows[i].err = verr
		}
	}
	return rows, nil
}
