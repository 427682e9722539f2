// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/models"
	"github.com/tomtom215/foodgram/internal/validation"
)

// Error codes carried in models.APIError.Code.
const (
	codeBadRequest         = "BAD_REQUEST"
	codeParseError         = "PARSE_ERROR"
	codeValidation         = "VALIDATION_ERROR"
	codeInvalidCredentials = "INVALID_CREDENTIALS"
	codeNotAuthenticated   = "NOT_AUTHENTICATED"
	codePermissionDenied   = "PERMISSION_DENIED"
	codeNotFound           = "NOT_FOUND"
	codeConflict           = "CONFLICT"
	codeThrottled          = "THROTTLED"
	codeInternal           = "INTERNAL_ERROR"
	codeUnavailable        = "SERVICE_UNAVAILABLE"
)

// defaultBodyLimit caps JSON bodies that carry no image.
const defaultBodyLimit = 1 << 20

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// respondJSON sends v as a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Vary", "Accept-Encoding, Authorization")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func respondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// respondError sends an error body. err, when set, is logged but never
// shown to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, detail string, err error) {
	if err != nil {
		logger := logging.Ctx(r.Context())
		event := logger.Warn()
		if status >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.Str("code", code).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Token realm="api"`)
	}
	respondJSON(w, status, models.APIError{Detail: detail, Code: code})
}

// respondValidation sends a 400 with per-field messages.
func respondValidation(w http.ResponseWriter, ve *validation.RequestValidationError) {
	respondJSON(w, http.StatusBadRequest, models.APIError{
		Detail: ve.Error(),
		Code:   codeValidation,
		Fields: ve.Fields(),
	})
}

func respondInternal(w http.ResponseWriter, r *http.Request, err error) {
	respondError(w, r, http.StatusInternalServerError, codeInternal, "internal server error", err)
}

func respondNotFound(w http.ResponseWriter, r *http.Request, what string) {
	respondError(w, r, http.StatusNotFound, codeNotFound, what+" not found", nil)
}

// respondStoreError maps database sentinel errors to HTTP responses.
func respondStoreError(w http.ResponseWriter, r *http.Request, err error, what string) {
	var conflict *database.ConflictError
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondNotFound(w, r, what)
	case errors.As(err, &conflict):
		respondValidation(w, validation.NewFieldError(conflict.Field, conflict.Error()))
	case errors.Is(err, database.ErrAlreadyExists):
		respondError(w, r, http.StatusBadRequest, codeBadRequest, what+" already exists", nil)
	default:
		respondInternal(w, r, err)
	}
}

// decodeJSON reads a JSON body of at most limit bytes into dst and writes
// the error response itself when it returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, limit int64) bool {
	if limit <= 0 {
		limit = defaultBodyLimit
	}
	body := http.MaxBytesReader(w, r.Body, limit)
	err := json.NewDecoder(body).Decode(dst)
	if err == nil {
		return true
	}

	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		respondError(w, r, http.StatusRequestEntityTooLarge, codeParseError, "request body is too large", nil)
	case errors.Is(err, io.EOF):
		respondError(w, r, http.StatusBadRequest, codeParseError, "request body is empty", nil)
	default:
		respondError(w, r, http.StatusBadRequest, codeParseError, "malformed JSON: "+err.Error(), nil)
	}
	return false
}

// validateRequest runs the struct tags of v and writes a 400 on failure.
func validateRequest(w http.ResponseWriter, v any) bool {
	if ve := validation.ValidateStruct(v); ve != nil {
		respondValidation(w, ve)
		return false
	}
	return true
}

// pathID parses a positive integer URL parameter. An unparsable id is
// reported as a missing resource.
func pathID(w http.ResponseWriter, r *http.Request, param, what string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		respondNotFound(w, r, what)
		return 0, false
	}
	return id, true
}

// queryBool accepts the spellings web clients send for true.
func queryBool(r *http.Request, key string) bool {
	switch strings.ToLower(r.URL.Query().Get(key)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
