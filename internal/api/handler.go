// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package api

import (
	"context"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/cache"
	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/events"
	"github.com/tomtom215/foodgram/internal/importer"
	"github.com/tomtom215/foodgram/internal/media"
	ws "github.com/tomtom215/foodgram/internal/websocket"
)

// Version is reported by the health endpoint. Overridden at build time.
var Version = "dev"

// Dependencies groups everything the handlers need. Events, Hub and
// Importer are optional.
type Dependencies struct {
	DB          *database.DB
	Config      *config.Config
	JWT         *auth.JWTManager
	Revocations auth.RevocationStore
	Media       *media.Store
	Events      events.Emitter
	Hub         *ws.Hub
	Importer    *importer.Importer
}

// Handler contains dependencies for API handlers
type Handler struct {
	db          *database.DB
	cfg         *config.Config
	jwt         *auth.JWTManager
	revocations auth.RevocationStore
	authn       *auth.Middleware
	throttle    *auth.LoginThrottle
	passwords   config.PasswordPolicy
	media       *media.Store
	events      events.Emitter
	hub         *ws.Hub
	upgrader    *gorillaws.Upgrader
	importer    *importer.Importer

	tagCache        *cache.Cache
	ingredientCache *cache.Cache

	startTime time.Time
}

// NewHandler wires the handler. Call Close to stop the list caches.
func NewHandler(deps Dependencies) *Handler {
	cfg := deps.Config
	ttl := cfg.API.ListCacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &Handler{
		db:              deps.DB,
		cfg:             cfg,
		jwt:             deps.JWT,
		revocations:     deps.Revocations,
		authn:           auth.NewMiddleware(deps.JWT, deps.Revocations, deps.DB),
		throttle:        auth.NewLoginThrottle(cfg.Security.LoginAttempts, cfg.Security.LoginWindow),
		passwords:       config.DefaultPasswordPolicy(),
		media:           deps.Media,
		events:          deps.Events,
		hub:             deps.Hub,
		upgrader:        ws.NewUpgrader(cfg.Security.CORSOrigins),
		importer:        deps.Importer,
		tagCache:        cache.New("tags", ttl),
		ingredientCache: cache.New("ingredients", ttl),
		startTime:       time.Now(),
	}
}

// Close releases the background cache janitors.
func (h *Handler) Close() {
	h.tagCache.Stop()
	h.ingredientCache.Stop()
}

// emit publishes e when an event bus is configured. Publish failures are
// logged by the bus and never fail the request.
func (h *Handler) emit(ctx context.Context, e *events.Event) {
	if h.events == nil || e == nil {
		return
	}
	h.events.Emit(ctx, e)
}

// invalidateCatalog drops cached tag and ingredient lists after writes.
func (h *Handler) invalidateCatalog() {
	h.tagCache.Clear()
	h.ingredientCache.Clear()
}
