// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/models"
)

// pageRequest is a parsed page/limit pair.
type pageRequest struct {
	Page  int
	Limit int
}

func (p pageRequest) Pagination() database.Pagination {
	return database.Pagination{Limit: p.Limit, Offset: (p.Page - 1) * p.Limit}
}

// parsePage reads ?page= and ?limit=. A malformed page is a 404, a
// malformed limit falls back to the default size.
func (h *Handler) parsePage(w http.ResponseWriter, r *http.Request) (pageRequest, bool) {
	q := r.URL.Query()
	p := pageRequest{Page: 1, Limit: h.cfg.API.DefaultPageSize}

	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			p.Limit = n
		}
	}
	if maxSize := h.cfg.API.MaxPageSize; maxSize > 0 && p.Limit > maxSize {
		p.Limit = maxSize
	}

	if raw := q.Get("page"); raw != "" && raw != "last" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, r, http.StatusNotFound, codeNotFound, "invalid page", nil)
			return p, false
		}
		p.Page = n
	}
	return p, true
}

// lastPage is the highest valid page number for count items, at least 1.
func (p pageRequest) lastPage(count int) int {
	if count <= 0 {
		return 1
	}
	return (count + p.Limit - 1) / p.Limit
}

// resolvePage turns page=last into a number and rejects pages past the end.
func (h *Handler) resolvePage(w http.ResponseWriter, r *http.Request, p pageRequest, count int) (pageRequest, bool) {
	if r.URL.Query().Get("page") == "last" {
		p.Page = p.lastPage(count)
	}
	if p.Page > p.lastPage(count) {
		respondError(w, r, http.StatusNotFound, codeNotFound, "invalid page", nil)
		return p, false
	}
	return p, true
}

// newPage builds the envelope with absolute next/previous links.
func newPage[T any](h *Handler, r *http.Request, p pageRequest, count int, results []T) models.Page[T] {
	if results == nil {
		results = []T{}
	}
	out := models.Page[T]{Count: count, Results: results}
	if p.Page < p.lastPage(count) {
		next := h.pageURL(r, p.Page+1)
		out.Next = &next
	}
	if p.Page > 1 {
		prev := h.pageURL(r, p.Page-1)
		out.Previous = &prev
	}
	return out
}

// pageURL rewrites the page parameter of the current request URL. The
// first page drops the parameter entirely.
func (h *Handler) pageURL(r *http.Request, page int) string {
	q := r.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u := url.URL{Path: r.URL.Path, RawQuery: q.Encode()}
	return h.baseURL(r) + u.String()
}

// baseURL is the configured public URL or the scheme and host of r.
func (h *Handler) baseURL(r *http.Request) string {
	if public := strings.TrimRight(h.cfg.Server.PublicURL, "/"); public != "" {
		return public
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd == "https" || fwd == "http" {
		scheme = fwd
	}
	return scheme + "://" + r.Host
}
