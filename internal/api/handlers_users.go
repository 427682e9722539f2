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

// requireSubject writes a 401 and returns nil for anonymous requests.
// Paths such as /api/users/me share a policy pattern with public routes,
// so the handler repeats the check.
func requireSubject(w http.ResponseWriter, r *http.Request) *auth.Subject {
	s := auth.GetSubject(r.Context())
	if s == nil {
		respondError(w, r, http.StatusUnauthorized, codeNotAuthenticated,
			"authentication credentials were not provided", nil)
	}
	return s
}

// ListUsers returns a page of users.
//
// @Summary List users
// @Tags Users
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} models.Page[models.UserResponse]
// @Router /users/ [get]
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	p, ok := h.parsePage(w, r)
	if !ok {
		return
	}
	count, err := h.db.CountUsers(r.Context())
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if p, ok = h.resolvePage(w, r, p, count); !ok {
		return
	}

	users, err := h.db.ListUsers(r.Context(), p.Pagination())
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	results, err := h.userResponses(r, users)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newPage(h, r, p, count, results))
}

// userResponses attaches is_subscribed for the current viewer.
func (h *Handler) userResponses(r *http.Request, users []models.User) ([]models.UserResponse, error) {
	ids := make([]int64, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	subscribed, err := h.db.SubscribedSet(r.Context(), auth.ViewerID(r.Context()), ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.UserResponse, len(users))
	for i := range users {
		out[i] = models.NewUserResponse(&users[i], subscribed[users[i].ID])
	}
	return out, nil
}

// CreateUser registers a new account.
//
// @Summary Register a user
// @Tags Users
// @Accept json
// @Produce json
// @Param body body models.UserCreateRequest true "New user"
// @Success 201 {object} models.UserCreatedResponse
// @Failure 400 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Router /users/ [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.UserCreateRequest
	if !decodeJSON(w, r, &req, defaultBodyLimit) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if !validateRequest(w, &req) {
		return
	}
	if problems := h.passwords.Check(req.Password, req.Username, req.Email); len(problems) > 0 {
		ve := validation.NewFieldError("password", problems[0])
		for _, p := range problems[1:] {
			ve.Add("password", p)
		}
		respondValidation(w, ve)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	u := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}
	if err := h.db.CreateUser(r.Context(), u); err != nil {
		var conflict *database.ConflictError
		if errors.As(err, &conflict) {
			respondJSON(w, http.StatusConflict, models.APIError{
				Detail: conflict.Error(),
				Code:   codeConflict,
				Fields: map[string][]string{conflict.Field: {conflict.Error()}},
			})
			return
		}
		respondInternal(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("user_id", u.ID).Str("username", u.Username).Msg("User registered")
	h.emit(r.Context(), events.New(events.UserRegistered, u.ID, u.ID).With("username", u.Username))

	respondJSON(w, http.StatusCreated, models.UserCreatedResponse{
		Email:     u.Email,
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	})
}

// GetUser returns one profile with is_subscribed for the viewer.
//
// @Summary Get a user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.UserResponse
// @Failure 404 {object} models.APIError
// @Router /users/{id}/ [get]
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}
	u, err := h.db.GetUserByID(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err, "user")
		return
	}
	subscribed, err := h.db.IsSubscribed(r.Context(), auth.ViewerID(r.Context()), u.ID)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, models.NewUserResponse(u, subscribed))
}

// Me returns the authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	s := requireSubject(w, r)
	if s == nil {
		return
	}
	u, err := h.db.GetUserByID(r.Context(), s.UserID)
	if err != nil {
		respondStoreError(w, r, err, "user")
		return
	}
	respondJSON(w, http.StatusOK, models.NewUserResponse(u, false))
}

// SetPassword changes the password after checking the current one.
//
// @Summary Change password
// @Tags Users
// @Accept json
// @Param body body models.SetPasswordRequest true "Passwords"
// @Success 204
// @Failure 400 {object} models.APIError
// @Security TokenAuth
// @Router /users/set_password/ [post]
func (h *Handler) SetPassword(w http.ResponseWriter, r *http.Request) {
	s := requireSubject(w, r)
	if s == nil {
		return
	}
	var req models.SetPasswordRequest
	if !decodeJSON(w, r, &req, defaultBodyLimit) || !validateRequest(w, &req) {
		return
	}

	u, err := h.db.GetUserByID(r.Context(), s.UserID)
	if err != nil {
		respondStoreError(w, r, err, "user")
		return
	}
	if auth.CheckPassword(u.PasswordHash, req.CurrentPassword) != nil {
		respondValidation(w, validation.NewFieldError("current_password", "invalid password"))
		return
	}
	if problems := h.passwords.Check(req.NewPassword, u.Username, u.Email); len(problems) > 0 {
		ve := validation.NewFieldError("new_password", problems[0])
		for _, p := range problems[1:] {
			ve.Add("new_password", p)
		}
		respondValidation(w, ve)
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if err := h.db.SetPassword(r.Context(), u.ID, hash); err != nil {
		respondStoreError(w, r, err, "user")
		return
	}
	logging.Ctx(r.Context()).Info().Int64("user_id", u.ID).Msg("Password changed")
	respondNoContent(w)
}

// parseRecipesLimit reads ?recipes_limit=. Absent means the configured
// default; anything but a non-negative integer is rejected.
func (h *Handler) parseRecipesLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("recipes_limit")
	if raw == "" {
		return h.cfg.API.RecipesLimitDefault, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		respondValidation(w, validation.NewFieldError("recipes_limit", "recipes_limit must be a non-negative integer"))
		return 0, false
	}
	return n, true
}

// subscriptionResponse renders an author with their newest recipes.
func (h *Handler) subscriptionResponse(r *http.Request, author *models.User, limit int) (models.SubscriptionResponse, error) {
	recipes, err := h.db.ListRecipesByAuthor(r.Context(), author.ID, limit)
	if err != nil {
		return models.SubscriptionResponse{}, err
	}
	count, err := h.db.CountRecipesByAuthor(r.Context(), author.ID)
	if err != nil {
		return models.SubscriptionResponse{}, err
	}
	for i := range recipes {
		recipes[i].Image = h.media.URL(recipes[i].Image)
	}
	return models.SubscriptionResponse{
		UserResponse: models.NewUserResponse(author, true),
		Recipes:      recipes,
		RecipesCount: count,
	}, nil
}

// Subscriptions lists the authors the user follows.
//
// @Summary List subscriptions
// @Tags Users
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param recipes_limit query int false "Recipes per author"
// @Success 200 {object} models.Page[models.SubscriptionResponse]
// @Security TokenAuth
// @Router /users/subscriptions/ [get]
func (h *Handler) Subscriptions(w http.ResponseWriter, r *http.Request) {
	s := requireSubject(w, r)
	if s == nil {
		return
	}
	recipesLimit, ok := h.parseRecipesLimit(w, r)
	if !ok {
		return
	}
	p, ok := h.parsePage(w, r)
	if !ok {
		return
	}
	count, err := h.db.CountSubscriptions(r.Context(), s.UserID)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if p, ok = h.resolvePage(w, r, p, count); !ok {
		return
	}

	authors, err := h.db.ListSubscriptions(r.Context(), s.UserID, p.Pagination())
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	results := make([]models.SubscriptionResponse, 0, len(authors))
	for i := range authors {
		sub, err := h.subscriptionResponse(r, &authors[i], recipesLimit)
		if err != nil {
			respondInternal(w, r, err)
			return
		}
		results = append(results, sub)
	}
	respondJSON(w, http.StatusOK, newPage(h, r, p, count, results))
}

// Subscribe follows the author in the path.
//
// @Summary Subscribe to an author
// @Tags Users
// @Produce json
// @Param id path int true "Author ID"
// @Param recipes_limit query int false "Recipes in the response"
// @Success 201 {object} models.SubscriptionResponse
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security TokenAuth
// @Router /users/{id}/subscribe/ [post]
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	s := requireSubject(w, r)
	if s == nil {
		return
	}
	authorID, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}
	recipesLimit, ok := h.parseRecipesLimit(w, r)
	if !ok {
		return
	}
	author, err := h.db.GetUserByID(r.Context(), authorID)
	if err != nil {
		respondStoreError(w, r, err, "user")
		return
	}

	switch err := h.db.Subscribe(r.Context(), s.UserID, author.ID); {
	case errors.Is(err, database.ErrSelfSubscription):
		respondError(w, r, http.StatusBadRequest, codeBadRequest, "you cannot subscribe to yourself", nil)
		return
	case errors.Is(err, database.ErrAlreadyExists):
		respondError(w, r, http.StatusBadRequest, codeBadRequest, "already subscribed", nil)
		return
	case err != nil:
		respondInternal(w, r, err)
		return
	}

	h.emit(r.Context(), events.New(events.SubscriptionCreated, s.UserID, author.ID))
	sub, err := h.subscriptionResponse(r, author, recipesLimit)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, sub)
}

// Unsubscribe stops following the author; 404 when not subscribed.
func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	s := requireSubject(w, r)
	if s == nil {
		return
	}
	authorID, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}
	if _, err := h.db.GetUserByID(r.Context(), authorID); err != nil {
		respondStoreError(w, r, err, "user")
		return
	}
	if err := h.db.Unsubscribe(r.Context(), s.UserID, authorID); err != nil {
		respondStoreError(w, r, err, "subscription")
		return
	}
	h.emit(r.Context(), events.New(events.SubscriptionRemoved, s.UserID, authorID))
	respondNoContent(w)
}
