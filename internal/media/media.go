// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

// Package media stores recipe images uploaded as base64 data URLs.
//
// Images live under <root>/recipe_img/<uuid>.<ext>. The database keeps the
// relative name ("recipe_img/<uuid>.png") and API responses expose
// <url_prefix><name>.
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/logging"
)

// ImageDir is the subdirectory of the media root for recipe images.
const ImageDir = "recipe_img"

var (
	ErrInvalidDataURL   = errors.New("image must be a base64 data URL")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image is too large")
)

var extensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Store writes and removes image files.
type Store struct {
	root      string
	urlPrefix string
	maxBytes  int64
}

// NewStore creates the image directory if needed.
func NewStore(cfg *config.MediaConfig) (*Store, error) {
	dir := filepath.Join(cfg.Root, ImageDir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create media dir %s: %w", dir, err)
	}
	prefix := cfg.URLPrefix
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Store{root: cfg.Root, urlPrefix: prefix, maxBytes: cfg.MaxImageBytes}, nil
}

// Root returns the filesystem directory served under URLPrefix.
func (s *Store) Root() string { return s.root }

// URLPrefix returns the public prefix with a trailing slash.
func (s *Store) URLPrefix() string { return s.urlPrefix }

// Decode parses "data:image/<type>;base64,<payload>" and returns the bytes
// and file extension. The declared type must match the sniffed content.
func (s *Store) Decode(dataURL string) ([]byte, string, error) {
	header, payload, ok := strings.Cut(strings.TrimSpace(dataURL), ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, "", ErrInvalidDataURL
	}
	mime := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64"))
	ext, ok := extensions[mime]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedImage, mime)
	}

	// Reject before decoding when the encoded length already exceeds the limit.
	if s.maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(payload))) > s.maxBytes+2 {
		return nil, "", ErrImageTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", ErrInvalidDataURL
	}
	if len(data) == 0 {
		return nil, "", ErrInvalidDataURL
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, "", ErrImageTooLarge
	}

	sniffed := http.DetectContentType(data)
	if _, known := extensions[sniffed]; !known || extensions[sniffed] != ext {
		return nil, "", fmt.Errorf("%w: content is %s", ErrUnsupportedImage, sniffed)
	}
	return data, ext, nil
}

// SaveDataURL decodes and writes an image, returning its relative name.
func (s *Store) SaveDataURL(dataURL string) (string, error) {
	data, ext, err := s.Decode(dataURL)
	if err != nil {
		return "", err
	}
	name := ImageDir + "/" + uuid.NewString() + "." + ext
	path := filepath.Join(s.root, filepath.FromSlash(name))

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("write image: %w", err)
	}
	return name, nil
}

// Delete removes a stored image by relative name. Missing files and names
// outside the image directory are ignored.
func (s *Store) Delete(name string) {
	if name == "" {
		return
	}
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.Dir(clean) != ImageDir {
		logging.Warn().Str("name", name).Msg("Refusing to delete media outside the image directory")
		return
	}
	if err := os.Remove(filepath.Join(s.root, clean)); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Warn().Err(err).Str("name", name).Msg("Failed to delete image")
	}
}

// URL returns the public URL of a stored image name.
func (s *Store) URL(name string) string {
	if name == "" {
		return ""
	}
	return s.urlPrefix + name
}

// Handler serves stored images. Directory listings are disabled.
func (s *Store) Handler() http.Handler {
	fs := http.FileServer(http.Dir(s.root))
	return http.StripPrefix(s.urlPrefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		fs.ServeHTTP(w, r)
	}))
}
