// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package config

import (
	"fmt"
	"time"
)

// Config is the complete Foodgram configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Media    MediaConfig    `koanf:"media"`
	NATS     NATSConfig     `koanf:"nats"`
	Import   ImportConfig   `koanf:"import"`
	Logging  LoggingConfig  `koanf:"logging"`
}

type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development or production
	PublicURL   string        `koanf:"public_url"`  // used for absolute pagination links; empty = derive from request
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Path      string `koanf:"path"`       // DuckDB file, ":memory:" for ephemeral
	MaxMemory string `koanf:"max_memory"` // DuckDB max_memory setting, e.g. "1GB"
	Threads   int    `koanf:"threads"`    // 0 = runtime.NumCPU()
}

type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
	// RecipesLimitDefault caps recipes embedded in subscription entries when
	// the client sends no recipes_limit. 0 means unlimited.
	RecipesLimitDefault int           `koanf:"recipes_limit_default"`
	ListCacheTTL        time.Duration `koanf:"list_cache_ttl"` // tag and ingredient list cache
}

type SecurityConfig struct {
	JWTSecret      string        `koanf:"jwt_secret"`
	SessionTimeout time.Duration `koanf:"session_timeout"` // token lifetime

	// RevocationStore is "badger" or "memory"; RevocationPath is the badger directory.
	RevocationStore string `koanf:"revocation_store"`
	RevocationPath  string `koanf:"revocation_path"`

	// LoginAttempts per LoginWindow are allowed for one email before 429.
	LoginAttempts int           `koanf:"login_attempts"`
	LoginWindow   time.Duration `koanf:"login_window"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins []string `koanf:"cors_origins"`

	// Bootstrap admin created at startup when both are set and the email is unused.
	AdminEmail    string `koanf:"admin_email"`
	AdminUsername string `koanf:"admin_username"`
	AdminPassword string `koanf:"admin_password"`

	Casbin CasbinConfig `koanf:"casbin"`
}

// CasbinConfig overrides the embedded RBAC model and policy when paths are set.
type CasbinConfig struct {
	ModelPath    string        `koanf:"model_path"`
	PolicyPath   string        `koanf:"policy_path"`
	CacheEnabled bool          `koanf:"cache_enabled"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`
}

type MediaConfig struct {
	Root          string `koanf:"root"`            // filesystem directory for uploads
	URLPrefix     string `koanf:"url_prefix"`      // public prefix, e.g. /media/
	MaxImageBytes int64  `koanf:"max_image_bytes"` // decoded size limit
}

// NATSConfig selects the event transport. Disabled means the in-process
// gochannel bus.
type NATSConfig struct {
	Enabled          bool          `koanf:"enabled"`
	URL              string        `koanf:"url"`
	EmbeddedServer   bool          `koanf:"embedded_server"`
	StoreDir         string        `koanf:"store_dir"`
	StreamName       string        `koanf:"stream_name"`
	DurableName      string        `koanf:"durable_name"`
	QueueGroup       string        `koanf:"queue_group"`
	SubscribersCount int           `koanf:"subscribers_count"`
	MaxReconnects    int           `koanf:"max_reconnects"`
	ReconnectWait    time.Duration `koanf:"reconnect_wait"`
	RetryCount       int           `koanf:"retry_count"`
	RetryInterval    time.Duration `koanf:"retry_interval"`
	CloseTimeout     time.Duration `koanf:"close_timeout"`
}

type ImportConfig struct {
	DataDir       string `koanf:"data_dir"` // default --path for foodgramctl
	Encoding      string `koanf:"encoding"` // utf-8 or cp1251
	BatchSize     int    `koanf:"batch_size"`
	ProgressStore string `koanf:"progress_store"` // badger or memory
	ProgressPath  string `koanf:"progress_path"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
