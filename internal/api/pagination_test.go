// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/models"
)

func TestPageRequest_LastPage(t *testing.T) {
	tests := []struct {
		count, limit, want int
	}{
		{0, 6, 1},
		{1, 6, 1},
		{6, 6, 1},
		{7, 6, 2},
		{13, 6, 3},
	}
	for _, tt := range tests {
		p := pageRequest{Page: 1, Limit: tt.limit}
		if got := p.lastPage(tt.count); got != tt.want {
			t.Errorf("lastPage(%d) with limit %d = %d, want %d", tt.count, tt.limit, got, tt.want)
		}
	}
}

func TestParsePage(t *testing.T) {
	h := &Handler{cfg: &config.Config{API: config.APIConfig{DefaultPageSize: 6, MaxPageSize: 50}}}

	tests := []struct {
		query  string
		ok     bool
		page   int
		limit  int
		status int
	}{
		{"", true, 1, 6, 0},
		{"?page=3&limit=10", true, 3, 10, 0},
		{"?limit=500", true, 1, 50, 0},
		{"?limit=abc", true, 1, 6, 0},
		{"?limit=-2", true, 1, 6, 0},
		{"?page=last", true, 1, 6, 0},
		{"?page=0", false, 0, 0, http.StatusNotFound},
		{"?page=two", false, 0, 0, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := httptest.NewRecorder()
			p, ok := h.parsePage(rec, httptest.NewRequest(http.MethodGet, "/api/recipes/"+tt.query, nil))
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				assert.Equal(t, tt.status, rec.Code)
				return
			}
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
		})
	}
}

func TestRecipePagination(t *testing.T) {
	s := newTestServer(t)
	author, _ := s.createUser("author@example.com", "author", false)
	tag := s.createTag("Lunch", "#49B64E", "lunch")
	for i := 0; i < 7; i++ {
		s.createRecipe(author, fmt.Sprintf("dish%d", i), []int64{tag.ID})
	}

	rec := s.do(http.MethodGet, "/api/recipes/?tags=lunch", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	first := decodeBody[models.Page[models.Recipe]](t, rec)
	assert.Equal(t, 7, first.Count)
	assert.Len(t, first.Results, config.DefaultPageSize)
	assert.Equal(t, "dish6", first.Results[0].Name, "newest first")
	require.NotNil(t, first.Next)
	assert.Equal(t, "http://foodgram.test/api/recipes/?page=2&tags=lunch", *first.Next)
	assert.Nil(t, first.Previous)

	rec = s.do(http.MethodGet, "/api/recipes/?page=2&tags=lunch", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	second := decodeBody[models.Page[models.Recipe]](t, rec)
	assert.Len(t, second.Results, 1)
	assert.Nil(t, second.Next)
	require.NotNil(t, second.Previous)
	assert.Equal(t, "http://foodgram.test/api/recipes/?tags=lunch", *second.Previous)

	rec = s.do(http.MethodGet, "/api/recipes/?page=last&limit=3", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	last := decodeBody[models.Page[models.Recipe]](t, rec)
	assert.Len(t, last.Results, 1)
	assert.Equal(t, "dish0", last.Results[0].Name)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/recipes/?page=3", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/recipes/?page=abc", "", nil).Code)

	rec = s.do(http.MethodGet, "/api/recipes/?tags=none", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	empty := decodeBody[models.Page[models.Recipe]](t, rec)
	assert.Zero(t, empty.Count)
	assert.NotNil(t, empty.Results, "empty pages render results as []")
}

func TestBaseURL(t *testing.T) {
	h := &Handler{cfg: &config.Config{}}

	r := httptest.NewRequest(http.MethodGet, "http://api.local/api/recipes/", nil)
	assert.Equal(t, "http://api.local", h.baseURL(r))

	r.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://api.local", h.baseURL(r))

	h.cfg.Server.PublicURL = "https://foodgram.example/"
	assert.Equal(t, "https://foodgram.example", h.baseURL(r))
}
