// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks the configuration; the first failure is returned.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	if err := c.validateNATS(); err != nil {
		return err
	}
	if err := c.validateImport(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be at least 1")
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE (%d) must be >= API_DEFAULT_PAGE_SIZE (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	if c.API.RecipesLimitDefault < 0 {
		return fmt.Errorf("API_RECIPES_LIMIT must not be negative")
	}
	return nil
}

const (
	minJWTSecretLength   = 32
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateSecurity() error {
	if err := c.validateJWTSecret(); err != nil {
		return err
	}
	if c.Security.SessionTimeout < time.Minute {
		return fmt.Errorf("SESSION_TIMEOUT must be at least 1m")
	}
	switch c.Security.RevocationStore {
	case "memory":
	case "badger":
		if c.Security.RevocationPath == "" {
			return fmt.Errorf("REVOCATION_PATH is required when REVOCATION_STORE=badger")
		}
	default:
		return fmt.Errorf("REVOCATION_STORE must be badger or memory, got %q", c.Security.RevocationStore)
	}
	if c.Security.LoginAttempts < 1 || c.Security.LoginWindow <= 0 {
		return fmt.Errorf("LOGIN_ATTEMPTS and LOGIN_WINDOW must be positive")
	}
	if err := c.validateCORS(); err != nil {
		return err
	}
	if err := c.validateRateLimits(); err != nil {
		return err
	}
	return c.validateBootstrapAdmin()
}

// validateJWTSecret only insists on a secret in production. Development
// without a secret gets an ephemeral random one at startup.
func (c *Config) validateJWTSecret() error {
	secret := c.Security.JWTSecret
	if secret == "" {
		if c.IsProduction() {
			return fmt.Errorf("JWT_SECRET is required when ENVIRONMENT=production")
		}
		return nil
	}
	if len(secret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	if containsPlaceholder(secret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value - generate one with: openssl rand -base64 32")
	}
	return nil
}

func (c *Config) validateCORS() error {
	if c.IsProduction() && c.hasWildcardCORS() {
		return fmt.Errorf("CORS_ORIGINS=* is not allowed in production; list the frontend origins explicitly")
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, o := range c.Security.CORSOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateBootstrapAdmin() error {
	s := c.Security
	if s.AdminEmail == "" && s.AdminPassword == "" {
		return nil
	}
	if s.AdminEmail == "" || s.AdminUsername == "" || s.AdminPassword == "" {
		return fmt.Errorf("ADMIN_EMAIL, ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	if containsPlaceholder(s.AdminPassword) {
		return fmt.Errorf("ADMIN_PASSWORD contains a placeholder value - set a real password")
	}
	if problems := DefaultPasswordPolicy().Check(s.AdminPassword, s.AdminUsername, s.AdminEmail); len(problems) > 0 {
		return fmt.Errorf("ADMIN_PASSWORD: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) validateMedia() error {
	if c.Media.Root == "" {
		return fmt.Errorf("MEDIA_ROOT is required")
	}
	if c.Media.MaxImageBytes < 1024 {
		return fmt.Errorf("MEDIA_MAX_IMAGE_BYTES must be at least 1024")
	}
	return validateURLPrefix(c.Media.URLPrefix, "MEDIA_URL_PREFIX")
}

func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}
	if !c.NATS.EmbeddedServer {
		if err := validateNATSURL(c.NATS.URL); err != nil {
			return fmt.Errorf("NATS_URL is invalid: %w", err)
		}
	} else if c.NATS.StoreDir == "" {
		return fmt.Errorf("NATS_STORE_DIR is required with the embedded server")
	}
	if c.NATS.StreamName == "" {
		return fmt.Errorf("NATS_STREAM is required when NATS_ENABLED=true")
	}
	if c.NATS.SubscribersCount < 1 {
		return fmt.Errorf("NATS_SUBSCRIBERS must be at least 1")
	}
	return nil
}

func (c *Config) validateImport() error {
	switch strings.ToLower(c.Import.Encoding) {
	case "utf-8", "utf8", "cp1251", "windows-1251":
	default:
		return fmt.Errorf("IMPORT_ENCODING must be utf-8 or cp1251, got %q", c.Import.Encoding)
	}
	if c.Import.BatchSize < 1 || c.Import.BatchSize > 10000 {
		return fmt.Errorf("IMPORT_BATCH_SIZE must be between 1 and 10000")
	}
	switch c.Import.ProgressStore {
	case "memory":
	case "badger":
		if c.Import.ProgressPath == "" {
			return fmt.Errorf("IMPORT_PROGRESS_PATH is required when IMPORT_PROGRESS_STORE=badger")
		}
	default:
		return fmt.Errorf("IMPORT_PROGRESS_STORE must be badger or memory, got %q", c.Import.ProgressStore)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, panic")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	return nil
}

// IsProduction reports ENVIRONMENT=production (or prod).
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}

var placeholderPatterns = []string{"CHANGEME", "CHANGE_ME", "REPLACE_ME", "YOUR_SECRET", "PLACEHOLDER", "EXAMPLE"}

func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, p := range placeholderPatterns {
		if strings.Contains(upper, p) {
			return true
		}
	}
	return false
}
