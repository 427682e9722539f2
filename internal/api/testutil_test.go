// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/authz"
	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/events"
	"github.com/tomtom215/foodgram/internal/importer"
	"github.com/tomtom215/foodgram/internal/media"
	"github.com/tomtom215/foodgram/internal/models"
)

const testPassword = "Sup3r-Secret-Pass"

var (
	testHashOnce sync.Once
	testHash     string
)

// passwordHash hashes testPassword once per test binary.
func passwordHash(t *testing.T) string {
	t.Helper()
	testHashOnce.Do(func() {
		h, err := auth.HashPassword(testPassword)
		if err != nil {
			panic(err)
		}
		testHash = h
	})
	return testHash
}

// testDBSemaphore serializes DuckDB instances across parallel tests.
var testDBSemaphore = make(chan struct{}, 1)

// recordingEmitter keeps emitted events for assertions.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.Event
}

func (r *recordingEmitter) Emit(_ context.Context, e *events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingEmitter) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func (r *recordingEmitter) last() *events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return nil
	}
	return r.events[len(r.events)-1]
}

type testServer struct {
	t       *testing.T
	db      *database.DB
	cfg     *config.Config
	handler *Handler
	http    http.Handler
	media   *media.Store
	emitter *recordingEmitter
	jwt     *auth.JWTManager
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{PublicURL: "http://foodgram.test"},
		API: config.APIConfig{
			DefaultPageSize: config.DefaultPageSize,
			MaxPageSize:     50,
			ListCacheTTL:    time.Minute,
		},
		Security: config.SecurityConfig{
			JWTSecret:         "api_tests_secret_that_is_long_enough_0123456789",
			SessionTimeout:    time.Hour,
			LoginAttempts:     3,
			LoginWindow:       time.Minute,
			RateLimitDisabled: true,
			CORSOrigins:       []string{"*"},
		},
		Media: config.MediaConfig{
			Root:          t.TempDir(),
			URLPrefix:     "/media/",
			MaxImageBytes: 1 << 20,
		},
		Import: config.ImportConfig{Encoding: "utf-8", BatchSize: 100, ProgressStore: "memory"},
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	cfg := testConfig(t)
	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	require.NoError(t, err)
	store, err := media.NewStore(&cfg.Media)
	require.NoError(t, err)
	enforcer, err := authz.NewEnforcer(&cfg.Security.Casbin)
	require.NoError(t, err)
	t.Cleanup(enforcer.Close)

	emitter := &recordingEmitter{}
	h := NewHandler(Dependencies{
		DB:          db,
		Config:      cfg,
		JWT:         jwtManager,
		Revocations: auth.NewMemoryRevocationStore(),
		Media:       store,
		Events:      emitter,
		Importer:    importer.New(db, importer.NewInMemoryProgress(), &cfg.Import),
	})
	t.Cleanup(h.Close)

	return &testServer{
		t:       t,
		db:      db,
		cfg:     cfg,
		handler: h,
		http:    NewRouter(h, enforcer).SetupChi(),
		media:   store,
		emitter: emitter,
		jwt:     jwtManager,
	}
}

// createUser inserts a user with testPassword and returns it with a token.
func (s *testServer) createUser(email, username string, admin bool) (*models.User, string) {
	s.t.Helper()
	u := &models.User{
		Email:        email,
		Username:     username,
		FirstName:    "First",
		LastName:     "Last",
		PasswordHash: passwordHash(s.t),
	}
	require.NoError(s.t, s.db.CreateUser(context.Background(), u))
	if admin {
		require.NoError(s.t, s.db.SetAdmin(context.Background(), u.ID, true))
		u.IsAdmin = true
	}
	token, _, err := s.jwt.GenerateToken(u)
	require.NoError(s.t, err)
	return u, token
}

func (s *testServer) createTag(name, color, slug string) *models.Tag {
	s.t.Helper()
	tag := &models.Tag{Name: name, Color: color, Slug: slug}
	require.NoError(s.t, s.db.CreateTag(context.Background(), tag))
	return tag
}

func (s *testServer) createIngredient(name, unit string) *models.Ingredient {
	s.t.Helper()
	ing := &models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(s.t, s.db.CreateIngredient(context.Background(), ing))
	return ing
}

// do sends a request through the full middleware stack. body is JSON
// encoded unless it is already a []byte.
func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	rec := httptest.NewRecorder()
	s.http.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func pngDataURL(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.RGBA{G: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// recipeBody is a valid write request for the given catalogue ids.
func recipeBody(t *testing.T, name string, tagIDs []int64, ingredientIDs ...int64) map[string]any {
	ings := make([]map[string]any, len(ingredientIDs))
	for i, id := range ingredientIDs {
		ings[i] = map[string]any{"id": id, "amount": 10 * (i + 1)}
	}
	return map[string]any{
		"name":         name,
		"text":         "Mix and cook.",
		"cooking_time": 15,
		"image":        pngDataURL(t),
		"tags":         tagIDs,
		"ingredients":  ings,
	}
}

// createRecipe stores a recipe directly, bypassing image upload.
func (s *testServer) createRecipe(author *models.User, name string, tagIDs []int64, ings ...models.IngredientAmount) int64 {
	s.t.Helper()
	id, err := s.db.CreateRecipe(context.Background(), models.RecipeInput{
		AuthorID:    author.ID,
		Name:        name,
		Text:        "Stir.",
		Image:       "recipes/" + name + ".png",
		CookingTime: 10,
		TagIDs:      tagIDs,
		Ingredients: ings,
	})
	require.NoError(s.t, err)
	return id
}
