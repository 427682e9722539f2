// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/foodgram/internal/importer"
)

// maxImportBytes caps uploaded catalogue files.
const maxImportBytes = 32 << 20

// AdminImport loads ingredients or tags from an uploaded CSV or JSON file.
// The file is either the multipart field "file" or the raw body, whose
// Content-Type then selects the format.
//
// Query parameters: force=1 re-imports an unchanged file, dry_run=1 only
// validates, encoding=cp1251 overrides the CSV encoding.
//
// @Summary Admin: bulk import
// @Tags Admin
// @Accept mpfd,json,plain
// @Produce json
// @Param kind path string true "ingredients or tags"
// @Param file formData file false "CSV or JSON file"
// @Success 200 {object} importer.Stats
// @Failure 400 {object} models.APIError
// @Security TokenAuth
// @Router /admin/import/{kind} [post]
func (h *Handler) AdminImport(w http.ResponseWriter, r *http.Request) {
	if h.importer == nil {
		respondError(w, r, http.StatusServiceUnavailable, codeUnavailable, "import is not configured", nil)
		return
	}
	kind, err := importer.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondNotFound(w, r, "import kind")
		return
	}

	src, ok := readImportSource(w, r)
	if !ok {
		return
	}
	src.Encoding = r.URL.Query().Get("encoding")
	opts := importer.Options{
		Force:  queryBool(r, "force"),
		DryRun: queryBool(r, "dry_run"),
	}

	stats, err := h.importer.Import(r.Context(), kind, src, opts)
	if err != nil {
		if errors.Is(err, importer.ErrMalformedSource) {
			respondError(w, r, http.StatusBadRequest, codeParseError, err.Error(), nil)
			return
		}
		respondInternal(w, r, err)
		return
	}
	if !opts.DryRun && stats.Inserted > 0 {
		h.invalidateCatalog()
	}
	respondJSON(w, http.StatusOK, stats)
}

func readImportSource(w http.ResponseWriter, r *http.Request) (importer.Source, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(strings.ToLower(contentType), "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			respondError(w, r, http.StatusBadRequest, codeParseError, "multipart field \"file\" is required", nil)
			return importer.Source{}, false
		}
		defer func() { _ = file.Close() }()
		data, err := io.ReadAll(file)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, codeParseError, "failed to read upload", err)
			return importer.Source{}, false
		}
		return importer.Source{
			Name:   header.Filename,
			Data:   data,
			Format: importer.FormatFromName(header.Filename),
		}, true
	}

	format, ok := importer.FormatFromContentType(contentType)
	if !ok {
		respondError(w, r, http.StatusUnsupportedMediaType, codeParseError,
			"send multipart/form-data, text/csv or application/json", nil)
		return importer.Source{}, false
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, codeParseError, "failed to read body", err)
		return importer.Source{}, false
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload." + string(format)
	}
	return importer.Source{Name: name, Data: data, Format: format}, true
}
