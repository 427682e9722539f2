// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/authz"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/events"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/media"
	"github.com/tomtom215/foodgram/internal/models"
	"github.com/tomtom215/foodgram/internal/shoppinglist"
	"github.com/tomtom215/foodgram/internal/validation"
)

// recipeBodyLimit leaves room for a base64 image of the maximum size.
func (h *Handler) recipeBodyLimit() int64 {
	return h.cfg.Media.MaxImageBytes*4/3 + defaultBodyLimit
}

func (h *Handler) presentRecipe(rec *models.Recipe) {
	rec.Image = h.media.URL(rec.Image)
}

func (h *Handler) presentShort(rec models.RecipeShort) models.RecipeShort {
	rec.Image = h.media.URL(rec.Image)
	return rec
}

// recipeFilter reads the list filters. tags may repeat.
func recipeFilter(w http.ResponseWriter, r *http.Request) (models.RecipeFilter, bool) {
	q := r.URL.Query()
	f := models.RecipeFilter{
		ViewerID:  auth.ViewerID(r.Context()),
		Favorited: queryBool(r, "is_favorited"),
		InCart:    queryBool(r, "is_in_shopping_cart"),
	}
	for _, slug := range q["tags"] {
		if slug = strings.TrimSpace(slug); slug != "" {
			f.TagSlugs = append(f.TagSlugs, slug)
		}
	}
	if raw := q.Get("author"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondValidation(w, validation.NewFieldError("author", "author must be a user id"))
			return f, false
		}
		f.AuthorID = id
	}
	return f, true
}

// ListRecipes returns a page of recipes, newest first.
//
// @Summary List recipes
// @Tags Recipes
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param tags query []string false "Tag slugs" collectionFormat(multi)
// @Param author query int false "Author ID"
// @Param is_favorited query int false "Only favorites (1)"
// @Param is_in_shopping_cart query int false "Only cart (1)"
// @Success 200 {object} models.Page[models.Recipe]
// @Router /recipes/ [get]
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	f, ok := recipeFilter(w, r)
	if !ok {
		return
	}
	p, ok := h.parsePage(w, r)
	if !ok {
		return
	}
	count, err := h.db.CountRecipes(r.Context(), f)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if p, ok = h.resolvePage(w, r, p, count); !ok {
		return
	}

	recipes, err := h.db.ListRecipes(r.Context(), f, p.Pagination())
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	for i := range recipes {
		h.presentRecipe(&recipes[i])
	}
	respondJSON(w, http.StatusOK, newPage(h, r, p, count, recipes))
}

// GetRecipe returns the full representation of one recipe.
//
// @Summary Get a recipe
// @Tags Recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} models.Recipe
// @Failure 404 {object} models.APIError
// @Router /recipes/{id}/ [get]
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "recipe")
	if !ok {
		return
	}
	h.respondRecipe(w, r, id, http.StatusOK)
}

func (h *Handler) respondRecipe(w http.ResponseWriter, r *http.Request, id int64, status int) {
	rec, err := h.db.GetRecipe(r.Context(), id, auth.ViewerID(r.Context()))
	if err != nil {
		respondStoreError(w, r, err, "recipe")
		return
	}
	h.presentRecipe(rec)
	respondJSON(w, status, rec)
}

// recipeInput validates a write request, including that every referenced
// tag and ingredient exists.
func (h *Handler) recipeInput(ctx context.Context, req *models.RecipeWriteRequest, imageRequired bool) (models.RecipeInput, *validation.RequestValidationError, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Text = strings.TrimSpace(req.Text)
	ve := validation.ValidateStruct(req)
	add := func(field, msg string) {
		if ve == nil {
			ve = validation.NewFieldError(field, msg)
			return
		}
		ve.Add(field, msg)
	}

	if imageRequired && strings.TrimSpace(req.Image) == "" {
		add("image", "image is required")
	}

	ingredientIDs := make([]int64, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		if ing.ID > 0 {
			ingredientIDs = append(ingredientIDs, ing.ID)
		}
	}
	if len(ingredientIDs) > 0 {
		missing, err := h.db.MissingIngredientIDs(ctx, ingredientIDs)
		if err != nil {
			return models.RecipeInput{}, nil, err
		}
		for _, id := range missing {
			add("ingredients", fmt.Sprintf("ingredient %d does not exist", id))
		}
	}
	if len(req.Tags) > 0 {
		missing, err := h.db.MissingTagIDs(ctx, req.Tags)
		if err != nil {
			return models.RecipeInput{}, nil, err
		}
		for _, id := range missing {
			add("tags", fmt.Sprintf("tag %d does not exist", id))
		}
	}
	if ve != nil {
		return models.RecipeInput{}, ve, nil
	}

	return models.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
		Ingredients: req.Ingredients,
	}, nil, nil
}

// saveImage stores a data URL image. Decoding problems become a field error.
func (h *Handler) saveImage(w http.ResponseWriter, r *http.Request, dataURL string) (string, bool) {
	name, err := h.media.SaveDataURL(dataURL)
	switch {
	case err == nil:
		return name, true
	case errors.Is(err, media.ErrInvalidDataURL),
		errors.Is(err, media.ErrUnsupportedImage),
		errors.Is(err, media.ErrImageTooLarge):
		respondValidation(w, validation.NewFieldError("image", err.Error()))
	default:
		respondInternal(w, r, err)
	}
	return "", false
}

// CreateRecipe publishes a new recipe by the current user.
//
// @Summary Create a recipe
// @Tags Recipes
// @Accept json
// @Produce json
// @Param body body models.RecipeWriteRequest true "Recipe"
// @Success 201 {object} models.Recipe
// @Failure 400 {object} models.APIError
// @Security TokenAuth
// @Router /recipes/ [post]
func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	s := requireSubject(w, r)
	if s == nil {
		return
	}
	var req models.RecipeWriteRequest
	if !decodeJSON(w, r, &req, h.recipeBodyLimit()) {
		return
	}
	in, ve, err := h.recipeInput(r.Context(), &req, true)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if ve != nil {
		respondValidation(w, ve)
		return
	}

	image, ok := h.saveImage(w, r, req.Image)
	if !ok {
		return
	}
	in.AuthorID = s.UserID
	in.Image = image

	id, err := h.db.CreateRecipe(r.Context(), in)
	if err != nil {
		h.media.Delete(image)
		respondInternal(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("recipe_id", id).Msg("Recipe created")
	h.emit(r.Context(), events.New(events.RecipeCreated, s.UserID, id).
		With("name", in.Name).
		With("author", s.Username))
	h.respondRecipe(w, r, id, http.StatusCreated)
}

// authorizeRecipeWrite loads the author and enforces owner-or-admin.
func (h *Handler) authorizeRecipeWrite(w http.ResponseWriter, r *http.Request, id int64) (*auth.Subject, bool) {
	s := requireSubject(w, r)
	if s == nil {
		return nil, false
	}
	authorID, err := h.db.RecipeAuthor(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err, "recipe")
		return nil, false
	}
	if !authz.CanModify(s, authorID) {
		respondError(w, r, http.StatusForbidden, codePermissionDenied,
			"you do not have permission to perform this action", nil)
		return nil, false
	}
	return s, true
}

// UpdateRecipe replaces the recipe. Omitting image keeps the stored one.
//
// @Summary Update a recipe
// @Tags Recipes
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param body body models.RecipeWriteRequest true "Recipe"
// @Success 200 {object} models.Recipe
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security TokenAuth
// @Router /recipes/{id}/ [patch]
func (h *Handler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "recipe")
	if !ok {
		return
	}
	s, ok := h.authorizeRecipeWrite(w, r, id)
	if !ok {
		return
	}

	var req models.RecipeWriteRequest
	if !decodeJSON(w, r, &req, h.recipeBodyLimit()) {
		return
	}
	in, ve, err := h.recipeInput(r.Context(), &req, false)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if ve != nil {
		respondValidation(w, ve)
		return
	}

	if strings.TrimSpace(req.Image) != "" {
		if in.Image, ok = h.saveImage(w, r, req.Image); !ok {
			return
		}
	}

	replaced, err := h.db.UpdateRecipe(r.Context(), id, in)
	if err != nil {
		h.media.Delete(in.Image)
		respondStoreError(w, r, err, "recipe")
		return
	}
	h.media.Delete(replaced)

	h.emit(r.Context(), events.New(events.RecipeUpdated, s.UserID, id).With("name", in.Name))
	h.respondRecipe(w, r, id, http.StatusOK)
}

// DeleteRecipe removes the recipe and its image.
//
// @Summary Delete a recipe
// @Tags Recipes
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security TokenAuth
// @Router /recipes/{id}/ [delete]
func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "recipe")
	if !ok {
		return
	}
	s, ok := h.authorizeRecipeWrite(w, r, id)
	if !ok {
		return
	}
	image, err := h.db.DeleteRecipe(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err, "recipe")
		return
	}
	h.media.Delete(image)

	logging.Ctx(r.Context()).Info().Int64("recipe_id", id).Msg("Recipe deleted")
	h.emit(r.Context(), events.New(events.RecipeDeleted, s.UserID, id))
	respondNoContent(w)
}

// recipeRelation describes a per-user recipe list: favorites or the cart.
type recipeRelation struct {
	label   string
	add     func(ctx context.Context, userID, recipeID int64) error
	remove  func(ctx context.Context, userID, recipeID int64) error
	added   events.Type
	removed events.Type
}

func (h *Handler) favorites() recipeRelation {
	return recipeRelation{
		label:   "favorites",
		add:     h.db.AddFavorite,
		remove:  h.db.RemoveFavorite,
		added:   events.FavoriteAdded,
		removed: events.FavoriteRemoved,
	}
}

func (h *Handler) shoppingCart() recipeRelation {
	return recipeRelation{
		label:   "shopping cart",
		add:     h.db.AddToCart,
		remove:  h.db.RemoveFromCart,
		added:   events.CartAdded,
		removed: events.CartRemoved,
	}
}

// addToRelation answers 201 with the short recipe. An unknown recipe or a
// duplicate entry is a 400.
func (h *Handler) addToRelation(w http.ResponseWriter, r *http.Request, rel recipeRelation) {
	s := requireSubject(w, r)
	if s == nil {
		return
	}
	id, ok := pathID(w, r, "id", "recipe")
	if !ok {
		return
	}
	rec, err := h.db.GetRecipe(r.Context(), id, s.UserID)
	if errors.Is(err, database.ErrNotFound) {
		respondValidation(w, validation.NewFieldError("recipe", fmt.Sprintf("recipe %d does not exist", id)))
		return
	}
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	if err := rel.add(r.Context(), s.UserID, id); err != nil {
		if errors.Is(err, database.ErrAlreadyExists) {
			respondError(w, r, http.StatusBadRequest, codeBadRequest, "recipe is already in "+rel.label, nil)
			return
		}
		respondInternal(w, r, err)
		return
	}
	h.emit(r.Context(), events.New(rel.added, s.UserID, id))
	respondJSON(w, http.StatusCreated, h.presentShort(rec.Short()))
}

// removeFromRelation answers 204, or 400 when the recipe was not there.
func (h *Handler) removeFromRelation(w http.ResponseWriter, r *http.Request, rel recipeRelation) {
	s := requireSubject(w, r)
	if s == nil {
		return
	}
	id, ok := pathID(w, r, "id", "recipe")
	if !ok {
		return
	}
	if err := rel.remove(r.Context(), s.UserID, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, r, http.StatusBadRequest, codeBadRequest, "recipe is not in "+rel.label, nil)
			return
		}
		respondInternal(w, r, err)
		return
	}
	h.emit(r.Context(), events.New(rel.removed, s.UserID, id))
	respondNoContent(w)
}

// AddFavorite marks a recipe as favorite.
//
// @Summary Add to favorites
// @Tags Recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 201 {object} models.RecipeShort
// @Failure 400 {object} models.APIError
// @Security TokenAuth
// @Router /recipes/{id}/favorite/ [post]
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	h.addToRelation(w, r, h.favorites())
}

func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	h.removeFromRelation(w, r, h.favorites())
}

// AddToCart puts a recipe into the shopping cart.
//
// @Summary Add to shopping cart
// @Tags Recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 201 {object} models.RecipeShort
// @Failure 400 {object} models.APIError
// @Security TokenAuth
// @Router /recipes/{id}/shopping_cart/ [post]
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	h.addToRelation(w, r, h.shoppingCart())
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	h.removeFromRelation(w, r, h.shoppingCart())
}

// DownloadShoppingCart renders the summed ingredients of the cart as a
// text attachment.
//
// @Summary Download the shopping list
// @Tags Recipes
// @Produce plain
// @Success 200 {string} string "shopping list"
// @Security TokenAuth
// @Router /recipes/download_shopping_cart/ [get]
func (h *Handler) DownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	s := requireSubject(w, r)
	if s == nil {
		return
	}
	items, err := h.db.ShoppingList(r.Context(), s.UserID)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := shoppinglist.Render(&buf, s.Username, items, time.Now()); err != nil {
		respondInternal(w, r, err)
		return
	}
	w.Header().Set("Content-Type", shoppinglist.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+shoppinglist.FileName(s.Username))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to write shopping list")
	}
}
