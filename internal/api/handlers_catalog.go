// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/foodgram/internal/cache"
	"github.com/tomtom215/foodgram/internal/models"
)

// ListTags returns every tag ordered by name.
//
// @Summary List tags
// @Tags Catalogue
// @Produce json
// @Success 200 {array} models.Tag
// @Router /tags/ [get]
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := cache.GetOrLoad(h.tagCache, "all", func() ([]models.Tag, error) {
		return h.db.ListTags(r.Context())
	})
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tags)
}

// GetTag returns a single tag.
func (h *Handler) GetTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "tag")
	if !ok {
		return
	}
	tag, err := h.db.GetTag(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err, "tag")
		return
	}
	respondJSON(w, http.StatusOK, tag)
}

// ListIngredients returns ingredients whose name contains ?name=,
// prefix matches first.
//
// @Summary Search ingredients
// @Tags Catalogue
// @Produce json
// @Param name query string false "Name filter"
// @Success 200 {array} models.Ingredient
// @Router /ingredients/ [get]
func (h *Handler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	key := "name:" + strings.ToLower(name)
	items, err := cache.GetOrLoad(h.ingredientCache, key, func() ([]models.Ingredient, error) {
		return h.db.ListIngredients(r.Context(), name)
	})
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) GetIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "ingredient")
	if !ok {
		return
	}
	ing, err := h.db.GetIngredient(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err, "ingredient")
		return
	}
	respondJSON(w, http.StatusOK, ing)
}
