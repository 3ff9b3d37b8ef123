// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

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

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/lumiskin/config.yaml",
	"/etc/lumiskin/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with every default applied. Defaults are
// loaded first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5000,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
			BaseURL:         "",
			MaxUploadBytes:  5 << 20, // 5MB
			MaxUploadFiles:  5,
		},
		Security: SecurityConfig{
			JWTSecret:         "",
			JWTTTL:            7 * 24 * time.Hour,
			BcryptCost:        12,
			CookieName:        "token",
			RateLimitReqs:     100,
			RateLimitWindow:   15 * time.Minute,
			AuthRateLimitReqs: 20,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"https://lumiskin-skincare.netlify.app"},
			AdminEmails:       []string{},

			LockoutAttempts:    5,
			LockoutDuration:    15 * time.Minute,
			LockoutMaxDuration: 24 * time.Hour,
		},
		Database: DatabaseConfig{
			Path:       "/data/lumiskin",
			InMemory:   false,
			GCInterval: 10 * time.Minute,
		},
		ML: MLConfig{
			BaseURL:             "http://localhost:8000",
			RecommendationsURL:  "http://localhost:8001",
			Timeout:             30 * time.Second,
			MaxRetries:          3,
			RetryDelay:          time.Second,
			HealthTimeout:       5 * time.Second,
			BatchSize:           5,
			RequestsPerSecond:   10,
			Burst:               5,
			BreakerMaxRequests:  3,
			BreakerInterval:     time.Minute,
			BreakerTimeout:      2 * time.Minute,
			BreakerMinRequests:  10,
			BreakerFailureRatio: 0.6,
		},
		Events: EventsConfig{
			NATSURL:       "", // forwarding disabled
			TopicPrefix:   "lumiskin",
			BufferSize:    256,
			CloseTimeout:  10 * time.Second,
			MaxReconnects: -1, // unlimited
			ReconnectWait: 2 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Catalog: CatalogConfig{
			SeedFile:      "",
			SeedOnStartup: true,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
//
// Precedence is ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// JWT_SECRET -> security.jwt_secret, ML_SERVICE_URL -> ml.base_url
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

// findConfigFile returns the first config file found, or "" if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.admin_emails",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"port":             "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",
	"base_url":         "server.base_url",
	"max_upload_bytes": "server.max_upload_bytes",
	"max_upload_files": "server.max_upload_files",

	// Security
	"jwt_secret":          "security.jwt_secret",
	"jwt_ttl":             "security.jwt_ttl",
	"bcrypt_cost":         "security.bcrypt_cost",
	"auth_cookie_name":    "security.cookie_name",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"auth_rate_limit":     "security.auth_rate_limit_reqs",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"admin_emails":        "security.admin_emails",

	// Login lockout
	"login_lockout_attempts":     "security.lockout_attempts",
	"login_lockout_duration":     "security.lockout_duration",
	"login_lockout_max_duration": "security.lockout_max_duration",

	// Database
	"badger_path":        "database.path",
	"badger_in_memory":   "database.in_memory",
	"badger_gc_interval": "database.gc_interval",

	// ML services
	"ml_service_url":         "ml.base_url",
	"ml_recommendations_url": "ml.recommendations_url",
	"ml_timeout":             "ml.timeout",
	"ml_max_retries":         "ml.max_retries",
	"ml_retry_delay":         "ml.retry_delay",
	"ml_health_timeout":      "ml.health_timeout",
	"ml_batch_size":          "ml.batch_size",
	"ml_requests_per_second": "ml.requests_per_second",
	"ml_burst":               "ml.burst",
	"ml_breaker_timeout":     "ml.breaker_timeout",

	// Events
	"nats_url":           "events.nats_url",
	"events_topic":       "events.topic_prefix",
	"events_buffer_size": "events.buffer_size",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Catalog
	"catalog_seed_file": "catalog.seed_file",
	"catalog_seed":      "catalog.seed_on_startup",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" and are skipped so that unrelated environment
// does not leak into the config.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
