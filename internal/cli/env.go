// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package cli

import (
	"io"

	"github.com/tomtom215/foodgram/internal/config"
	"github.com/tomtom215/foodgram/internal/database"
	"github.com/tomtom215/foodgram/internal/logging"
)

// env is the configuration and database shared by one command run.
type env struct {
	cfg *config.Config
	db  *database.DB
}

// openEnv loads configuration, points logging at logOut and opens the database.
func openEnv(opts *RootOptions, logOut io.Writer) (*env, error) {
	cfg, err := config.LoadFile(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load configuration", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: "console",
		Output: logOut,
	})

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open database", err)
	}
	return &env{cfg: cfg, db: db}, nil
}

func (e *env) Close() {
	if err := e.db.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing database")
	}
}
