// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/foodgram/docs" // Import generated swagger docs
	"github.com/tomtom215/foodgram/internal/api"
	"github.com/tomtom215/foodgram/internal/auth"
	"github.com/tomtom215/foodgram/internal/authz"
	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/events"
	"github.com/tomtom215/foodgram/internal/importer"
	"github.com/tomtom215/foodgram/internal/logging"
	"github.com/tomtom215/foodgram/internal/media"
	"github.com/tomtom215/foodgram/internal/models"
	"github.com/tomtom215/foodgram/internal/supervisor"
	"github.com/tomtom215/foodgram/internal/supervisor/services"
	ws "github.com/tomtom215/foodgram/internal/websocket"
)

const (
	checkpointInterval   = 10 * time.Minute
	revocationGCInterval = 30 * time.Minute
)

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", api.Version).
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Msg("Starting Foodgram with supervisor tree")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	if cfg.Security.AdminEmail != "" {
		if err := bootstrapAdmin(context.Background(), db, &cfg.Security); err != nil {
			_ = db.Close()
			logging.Fatal().Err(err).Msg("Failed to bootstrap admin user")
		}
	}

	revocations, err := auth.NewRevocationStore(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Str("store", cfg.Security.RevocationStore).Msg("Failed to open token revocation store")
	}
	defer func() {
		if err := revocations.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing revocation store")
		}
	}()

	if cfg.Security.RevocationStore == "memory" && !cfg.IsDevelopment() {
		logging.Warn().Msg("Token revocations are kept in memory and will be lost on restart (REVOCATION_STORE=memory)")
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize token manager")
	}

	enforcer, err := authz.NewEnforcer(&cfg.Security.Casbin)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authorization enforcer")
	}
	defer enforcer.Close()

	mediaStore, err := media.NewStore(&cfg.Media)
	if err != nil {
		logging.Fatal().Err(err).Str("root", cfg.Media.Root).Msg("Failed to initialize media store")
	}

	progress, err := importer.NewProgressTracker(&cfg.Import)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open import progress store")
	}
	defer func() {
		if err := progress.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing import progress store")
		}
	}()
	catalogImporter := importer.New(db, progress, &cfg.Import)

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus, err := events.NewBus(ctx, &cfg.NATS)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize event bus")
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()
	logging.Info().Str("transport", bus.Transport()).Msg("Event bus ready")

	// Bridges zerolog to slog for sutureslog
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	wsHub := ws.NewHub()

	handler := api.NewHandler(api.Dependencies{
		DB:          db,
		Config:      cfg,
		JWT:         jwtManager,
		Revocations: revocations,
		Media:       mediaStore,
		Events:      bus,
		Hub:         wsHub,
		Importer:    catalogImporter,
	})
	defer handler.Close()

	router := api.NewRouter(handler, enforcer)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	// Data layer services
	tree.AddDataService(services.NewPeriodicService("duckdb-checkpoint", checkpointInterval, db.Checkpoint))
	if badgerStore, ok := revocations.(*auth.BadgerRevocationStore); ok {
		tree.AddDataService(services.NewPeriodicService("revocation-gc", revocationGCInterval, func(context.Context) error {
			badgerStore.RunGC()
			return nil
		}))
	}

	// Messaging layer services
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddMessagingService(services.NewEventRouterService(func() (services.EventRouter, error) {
		r, err := events.NewRouter(bus)
		if err != nil {
			return nil, err
		}
		for _, h := range []events.Handler{
			events.NewActivityRecorder(db),
			events.NewFeedNotifier(db, wsHub),
		} {
			if err := r.AddHandler(h); err != nil {
				_ = r.Close()
				return nil, err
			}
		}
		return r, nil
	}))
	logging.Info().Msg("WebSocket hub and event router added to supervisor tree")

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// bootstrapAdmin creates or promotes the configured admin account.
// Configuration validation guarantees username and password are set
// alongside the email.
func bootstrapAdmin(ctx context.Context, db *database.DB, cfg *config.SecurityConfig) error {
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	u := &models.User{
		Email:        cfg.AdminEmail,
		Username:     cfg.AdminUsername,
		PasswordHash: hash,
	}
	created, err := db.EnsureAdmin(ctx, u)
	if err != nil {
		return err
	}
	logging.Info().
		Int64("user_id", u.ID).
		Str("email", u.Email).
		Bool("created", created).
		Msg("Admin account ready")
	return nil
}
