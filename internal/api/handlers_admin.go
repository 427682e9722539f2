// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/events"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/models"
	"github.com/tomtom215/foodgram/internal/validation"
)

// adminPage runs a counted admin listing, re-querying when ?page=last
// resolves to a different page than the first guess.
func adminPage[T any](h *Handler, w http.ResponseWriter, r *http.Request,
	list func(database.Pagination) ([]T, int, error),
) {
	p, ok := h.parsePage(w, r)
	if !ok {
		return
	}
	rows, total, err := list(p.Pagination())
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	resolved, ok := h.resolvePage(w, r, p, total)
	if !ok {
		return
	}
	if resolved.Page != p.Page {
		if rows, total, err = list(resolved.Pagination()); err != nil {
			respondInternal(w, r, err)
			return
		}
	}
	respondJSON(w, http.StatusOK, newPage(h, r, resolved, total, rows))
}

// AdminListUsers searches users by username or email.
//
// @Summary Admin: list users
// @Tags Admin
// @Produce json
// @Param search query string false "Username or email fragment"
// @Success 200 {object} models.Page[models.AdminUserRow]
// @Security TokenAuth
// @Router /admin/users [get]
func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	adminPage(h, w, r, func(p database.Pagination) ([]models.AdminUserRow, int, error) {
		return h.db.AdminListUsers(r.Context(), search, p)
	})
}

type adminRoleRequest struct {
	IsAdmin *bool `json:"is_admin" validate:"required"`
}

// AdminSetRole grants or removes the admin role. Admins cannot demote
// themselves.
func (h *Handler) AdminSetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}
	var req adminRoleRequest
	if !decodeJSON(w, r, &req, defaultBodyLimit) || !validateRequest(w, &req) {
		return
	}
	if s := auth.GetSubject(r.Context()); s != nil && s.UserID == id && !*req.IsAdmin {
		respondError(w, r, http.StatusBadRequest, codeBadRequest, "you cannot remove your own admin role", nil)
		return
	}
	if err := h.db.SetAdmin(r.Context(), id, *req.IsAdmin); err != nil {
		respondStoreError(w, r, err, "user")
		return
	}
	logging.Ctx(r.Context()).Info().Int64("user_id", id).Bool("is_admin", *req.IsAdmin).Msg("User role changed")
	respondNoContent(w)
}

// AdminDeleteUser removes a user with their recipes and images.
func (h *Handler) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}
	if s := auth.GetSubject(r.Context()); s != nil && s.UserID == id {
		respondError(w, r, http.StatusBadRequest, codeBadRequest, "you cannot delete your own account", nil)
		return
	}
	images, err := h.db.DeleteUser(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err, "user")
		return
	}
	for _, img := range images {
		h.media.Delete(img)
	}
	logging.Ctx(r.Context()).Info().Int64("user_id", id).Int("recipes", len(images)).Msg("User deleted")
	respondNoContent(w)
}

// AdminListRecipes searches recipes by name or author, optionally by tag slug.
func (h *Handler) AdminListRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search, tag := q.Get("search"), q.Get("tag")
	adminPage(h, w, r, func(p database.Pagination) ([]models.AdminRecipeRow, int, error) {
		return h.db.AdminListRecipes(r.Context(), search, tag, p)
	})
}

func (h *Handler) AdminDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "recipe")
	if !ok {
		return
	}
	image, err := h.db.DeleteRecipe(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err, "recipe")
		return
	}
	h.media.Delete(image)
	h.emit(r.Context(), events.New(events.RecipeDeleted, auth.ViewerID(r.Context()), id))
	respondNoContent(w)
}

// tagRequest is the admin tag body. Omitted fields keep their value on
// update; on create an omitted slug is derived from the name.
type tagRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Slug  *string `json:"slug"`
}

func (req tagRequest) apply(t *models.Tag) {
	if req.Name != nil {
		t.Name = validation.NormalizeText(*req.Name)
	}
	if req.Color != nil {
		t.Color = strings.TrimSpace(*req.Color)
	}
	if req.Slug != nil {
		t.Slug = strings.TrimSpace(*req.Slug)
	}
	if t.Slug == "" {
		t.Slug = validation.Slugify(t.Name)
	}
	if t.Color == "" {
		t.Color = models.DefaultTagColor
	}
}

// AdminCreateTag adds a tag.
//
// @Summary Admin: create a tag
// @Tags Admin
// @Accept json
// @Produce json
// @Success 201 {object} models.Tag
// @Failure 400 {object} models.APIError
// @Security TokenAuth
// @Router /admin/tags [post]
func (h *Handler) AdminCreateTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if !decodeJSON(w, r, &req, defaultBodyLimit) {
		return
	}
	var tag models.Tag
	req.apply(&tag)
	if !validateRequest(w, &tag) {
		return
	}
	if err := h.db.CreateTag(r.Context(), &tag); err != nil {
		respondStoreError(w, r, err, "tag")
		return
	}
	h.invalidateCatalog()
	respondJSON(w, http.StatusCreated, tag)
}

func (h *Handler) AdminUpdateTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "tag")
	if !ok {
		return
	}
	var req tagRequest
	if !decodeJSON(w, r, &req, defaultBodyLimit) {
		return
	}
	tag, err := h.db.GetTag(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err, "tag")
		return
	}
	req.apply(tag)
	if !validateRequest(w, tag) {
		return
	}
	if err := h.db.UpdateTag(r.Context(), tag); err != nil {
		respondStoreError(w, r, err, "tag")
		return
	}
	h.invalidateCatalog()
	respondJSON(w, http.StatusOK, tag)
}

func (h *Handler) AdminDeleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "tag")
	if !ok {
		return
	}
	if err := h.db.DeleteTag(r.Context(), id); err != nil {
		respondStoreError(w, r, err, "tag")
		return
	}
	h.invalidateCatalog()
	respondNoContent(w)
}

// AdminListIngredients is the uncached ingredient search.
func (h *Handler) AdminListIngredients(w http.ResponseWriter, r *http.Request) {
	items, err := h.db.ListIngredients(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) decodeIngredient(w http.ResponseWriter, r *http.Request) (models.Ingredient, bool) {
	var ing models.Ingredient
	if !decodeJSON(w, r, &ing, defaultBodyLimit) {
		return ing, false
	}
	ing.Name = validation.NormalizeText(ing.Name)
	ing.MeasurementUnit = validation.NormalizeText(ing.MeasurementUnit)
	return ing, validateRequest(w, &ing)
}

func (h *Handler) AdminCreateIngredient(w http.ResponseWriter, r *http.Request) {
	ing, ok := h.decodeIngredient(w, r)
	if !ok {
		return
	}
	ing.ID = 0
	if err := h.db.CreateIngredient(r.Context(), &ing); err != nil {
		respondStoreError(w, r, err, "ingredient")
		return
	}
	h.invalidateCatalog()
	respondJSON(w, http.StatusCreated, ing)
}

func (h *Handler) AdminUpdateIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "ingredient")
	if !ok {
		return
	}
	ing, ok := h.decodeIngredient(w, r)
	if !ok {
		return
	}
	ing.ID = id
	if err := h.db.UpdateIngredient(r.Context(), &ing); err != nil {
		respondStoreError(w, r, err, "ingredient")
		return
	}
	h.invalidateCatalog()
	respondJSON(w, http.StatusOK, ing)
}

// AdminDeleteIngredient refuses to delete ingredients used by recipes.
func (h *Handler) AdminDeleteIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "ingredient")
	if !ok {
		return
	}
	err := h.db.DeleteIngredient(r.Context(), id)
	if errors.Is(err, database.ErrConflict) {
		respondError(w, r, http.StatusBadRequest, codeBadRequest, "ingredient is used by recipes", nil)
		return
	}
	if err != nil {
		respondStoreError(w, r, err, "ingredient")
		return
	}
	h.invalidateCatalog()
	respondNoContent(w)
}

const maxActivityLimit = 1000

// AdminActivity returns the newest activity log entries.
//
// @Summary Admin: activity log
// @Tags Admin
// @Produce json
// @Param limit query int false "Max entries (default 100)"
// @Param type query string false "Event type, e.g. recipe.created"
// @Success 200 {array} models.Activity
// @Security TokenAuth
// @Router /admin/activity [get]
func (h *Handler) AdminActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 100
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondValidation(w, validation.NewFieldError("limit", "limit must be a positive integer"))
			return
		}
		limit = min(n, maxActivityLimit)
	}
	eventType := q.Get("type")
	if eventType != "" && !events.Type(eventType).Valid() {
		respondValidation(w, validation.NewFieldError("type", "unknown event type"))
		return
	}
	items, err := h.db.ListActivity(r.Context(), limit, eventType)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}
