// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/foodgram/config.yaml",
	"/etc/foodgram/config.yml",
}

// ConfigPathEnvVar names the variable that points at an explicit config file.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultPageSize matches the page size the web client expects.
const DefaultPageSize = 6

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8000,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/foodgram.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		API: APIConfig{
			DefaultPageSize:     DefaultPageSize,
			MaxPageSize:         100,
			RecipesLimitDefault: 0,
			ListCacheTTL:        5 * time.Minute,
		},
		Security: SecurityConfig{
			SessionTimeout:    7 * 24 * time.Hour,
			RevocationStore:   "badger",
			RevocationPath:    "/data/revoked-tokens",
			LoginAttempts:     5,
			LoginWindow:       time.Minute,
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
			Casbin: CasbinConfig{
				CacheEnabled: true,
				CacheTTL:     5 * time.Minute,
			},
		},
		Media: MediaConfig{
			Root:          "/data/media",
			URLPrefix:     "/media/",
			MaxImageBytes: 5 << 20,
		},
		NATS: NATSConfig{
			Enabled:          false,
			URL:              "nats://127.0.0.1:4222",
			EmbeddedServer:   false,
			StoreDir:         "/data/nats",
			StreamName:       "FOODGRAM",
			DurableName:      "foodgram",
			QueueGroup:       "foodgram",
			SubscribersCount: 1,
			MaxReconnects:    -1,
			ReconnectWait:    2 * time.Second,
			RetryCount:       3,
			RetryInterval:    100 * time.Millisecond,
			CloseTimeout:     10 * time.Second,
		},
		Import: ImportConfig{
			DataDir:       "data",
			Encoding:      "utf-8",
			BatchSize:     500,
			ProgressStore: "memory",
			ProgressPath:  "/data/import-progress",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf layers defaults, the optional YAML file and mapped
// environment variables, then validates.
func LoadWithKoanf() (*Config, error) {
	return loadFrom(findConfigFile())
}

// LoadFile is LoadWithKoanf with an explicit config file path.
// An empty path behaves like LoadWithKoanf.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return LoadWithKoanf()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return loadFrom(path)
}

func loadFrom(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields turns "a, b" strings coming from env into []string.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := make([]string, 0)
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) == 0 {
			continue
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",
	"public_url":   "server.public_url",

	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",
	"api_recipes_limit":     "api.recipes_limit_default",
	"api_list_cache_ttl":    "api.list_cache_ttl",

	"jwt_secret":          "security.jwt_secret",
	"session_timeout":     "security.session_timeout",
	"revocation_store":    "security.revocation_store",
	"revocation_path":     "security.revocation_path",
	"login_attempts":      "security.login_attempts",
	"login_window":        "security.login_window",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"admin_email":         "security.admin_email",
	"admin_username":      "security.admin_username",
	"admin_password":      "security.admin_password",

	"casbin_model_path":    "security.casbin.model_path",
	"casbin_policy_path":   "security.casbin.policy_path",
	"casbin_cache_enabled": "security.casbin.cache_enabled",
	"casbin_cache_ttl":     "security.casbin.cache_ttl",

	"media_root":            "media.root",
	"media_url_prefix":      "media.url_prefix",
	"media_max_image_bytes": "media.max_image_bytes",

	"nats_enabled":     "nats.enabled",
	"nats_url":         "nats.url",
	"nats_embedded":    "nats.embedded_server",
	"nats_store_dir":   "nats.store_dir",
	"nats_stream":      "nats.stream_name",
	"nats_durable":     "nats.durable_name",
	"nats_queue_group": "nats.queue_group",
	"nats_subscribers": "nats.subscribers_count",

	"import_data_dir":       "import.data_dir",
	"import_encoding":       "import.encoding",
	"import_batch_size":     "import.batch_size",
	"import_progress_store": "import.progress_store",
	"import_progress_path":  "import.progress_path",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps known variables to koanf paths; everything else is
// dropped by returning "".
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
