// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/foodgram/internal/events"
	"github.com/tomtom215/foodgram/internal/models"
)

func registration(email, username, password string) map[string]string {
	return map[string]string{
		"email":      email,
		"username":   username,
		"first_name": "Vasya",
		"last_name":  "Pupkin",
		"password":   password,
	}
}

func TestCreateUser(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/users/", "", registration("vasya@example.com", "vasya", testPassword))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decodeBody[models.UserCreatedResponse](t, rec)
	assert.Equal(t, "vasya", created.Username)
	assert.NotZero(t, created.ID)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.Equal(t, []events.Type{events.UserRegistered}, s.emitter.types())

	t.Run("duplicate email", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/users/", "", registration("VASYA@example.com", "other", testPassword))
		require.Equal(t, http.StatusConflict, rec.Code)
		body := decodeBody[models.APIError](t, rec)
		assert.Contains(t, body.Fields, "email")
	})

	t.Run("duplicate username", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/users/", "", registration("new@example.com", "vasya", testPassword))
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, decodeBody[models.APIError](t, rec).Fields, "username")
	})
}

func TestCreateUser_Validation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		body  any
		field string
	}{
		{"reserved username", registration("me@example.com", "me", testPassword), "username"},
		{"bad username", registration("x@example.com", "bad name!", testPassword), "username"},
		{"bad email", registration("not-an-email", "someone", testPassword), "email"},
		{"short password", registration("a@example.com", "alice", "Xy1!"), "password"},
		{"numeric password", registration("b@example.com", "bob", "9876543210"), "password"},
		{"common password", registration("c@example.com", "carol", "password1"), "password"},
		{"password like username", registration("d@example.com", "dmitry", "dmitry2024"), "password"},
		{"missing names", map[string]string{"email": "e@example.com", "username": "eve", "password": testPassword}, "first_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/api/users/", "", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			body := decodeBody[models.APIError](t, rec)
			assert.Contains(t, body.Fields, tt.field)
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/users/", "", []byte(`{"email":`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoginLogout(t *testing.T) {
	s := newTestServer(t)
	s.createUser("chef@example.com", "chef", false)

	rec := s.do(http.MethodPost, "/api/auth/token/login/", "",
		map[string]string{"email": "chef@example.com", "password": testPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := decodeBody[models.TokenResponse](t, rec).AuthToken
	require.NotEmpty(t, token)

	rec = s.do(http.MethodGet, "/api/users/me/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "chef", decodeBody[models.UserResponse](t, rec).Username)

	rec = s.do(http.MethodPost, "/api/auth/token/logout/", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/users/me/", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "revoked token must not authenticate")
}

func TestLogin_Failures(t *testing.T) {
	s := newTestServer(t)
	s.createUser("chef@example.com", "chef", false)

	rec := s.do(http.MethodPost, "/api/auth/token/login/", "",
		map[string]string{"email": "nobody@example.com", "password": testPassword})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, codeInvalidCredentials, decodeBody[models.APIError](t, rec).Code)

	// The throttle allows three attempts per window.
	for i := 0; i < 3; i++ {
		rec = s.do(http.MethodPost, "/api/auth/token/login/", "",
			map[string]string{"email": "chef@example.com", "password": "wrong-password"})
		require.Equal(t, http.StatusBadRequest, rec.Code, "attempt %d", i+1)
	}
	rec = s.do(http.MethodPost, "/api/auth/token/login/", "",
		map[string]string{"email": "chef@example.com", "password": testPassword})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestMe_RequiresAuthentication(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/users/me/", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))

	rec = s.do(http.MethodGet, "/api/users/me/", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListAndGetUsers(t *testing.T) {
	s := newTestServer(t)
	viewer, token := s.createUser("viewer@example.com", "viewer", false)
	author, _ := s.createUser("author@example.com", "author", false)
	_ = viewer

	rec := s.do(http.MethodGet, "/api/users/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeBody[models.Page[models.UserResponse]](t, rec)
	assert.Equal(t, 2, page.Count)
	assert.Nil(t, page.Next)

	require.Equal(t, http.StatusCreated,
		s.do(http.MethodPost, fmt.Sprintf("/api/users/%d/subscribe/", author.ID), token, nil).Code)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/users/%d/", author.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[models.UserResponse](t, rec).IsSubscribed)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/users/%d/", author.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeBody[models.UserResponse](t, rec).IsSubscribed, "anonymous viewers are never subscribed")

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/users/9999/", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/users/abc/", "", nil).Code)
}

func TestSetPassword(t *testing.T) {
	s := newTestServer(t)
	_, token := s.createUser("chef@example.com", "chef", false)

	rec := s.do(http.MethodPost, "/api/users/set_password/", token,
		map[string]string{"current_password": "not-it", "new_password": "An0ther-Secret"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[models.APIError](t, rec).Fields, "current_password")

	rec = s.do(http.MethodPost, "/api/users/set_password/", token,
		map[string]string{"current_password": testPassword, "new_password": "123"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[models.APIError](t, rec).Fields, "new_password")

	rec = s.do(http.MethodPost, "/api/users/set_password/", token,
		map[string]string{"current_password": testPassword, "new_password": "An0ther-Secret"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/token/login/", "",
		map[string]string{"email": "chef@example.com", "password": "An0ther-Secret"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubscriptions(t *testing.T) {
	s := newTestServer(t)
	reader, token := s.createUser("reader@example.com", "reader", false)
	author, _ := s.createUser("author@example.com", "author", false)
	tag := s.createTag("Breakfast", "#E26C2D", "breakfast")
	for i := 0; i < 3; i++ {
		s.createRecipe(author, fmt.Sprintf("dish%d", i), []int64{tag.ID})
	}
	subscribe := fmt.Sprintf("/api/users/%d/subscribe/", author.ID)

	t.Run("anonymous", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, subscribe, "", nil).Code)
	})

	t.Run("self", func(t *testing.T) {
		rec := s.do(http.MethodPost, fmt.Sprintf("/api/users/%d/subscribe/", reader.ID), token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown author", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/api/users/9999/subscribe/", token, nil).Code)
	})

	rec := s.do(http.MethodPost, subscribe+"?recipes_limit=2", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sub := decodeBody[models.SubscriptionResponse](t, rec)
	assert.True(t, sub.IsSubscribed)
	assert.Len(t, sub.Recipes, 2)
	assert.Equal(t, 3, sub.RecipesCount)
	assert.Equal(t, "/media/recipes/dish2.png", sub.Recipes[0].Image)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, subscribe, token, nil).Code, "duplicate")

	rec = s.do(http.MethodGet, "/api/users/subscriptions/?recipes_limit=1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	subs := decodeBody[models.Page[models.SubscriptionResponse]](t, rec)
	require.Equal(t, 1, subs.Count)
	assert.Equal(t, author.ID, subs.Results[0].ID)
	assert.Len(t, subs.Results[0].Recipes, 1)

	assert.Equal(t, http.StatusBadRequest,
		s.do(http.MethodGet, "/api/users/subscriptions/?recipes_limit=-1", token, nil).Code)

	require.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, subscribe, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, subscribe, token, nil).Code)

	last := s.emitter.last()
	require.NotNil(t, last)
	assert.Equal(t, events.SubscriptionRemoved, last.Type)
	assert.Equal(t, author.ID, last.SubjectID)
}
