// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	srv := http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)}
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Database DatabaseConfig `koanf:"database"`
	ML       MLConfig       `koanf:"ml"`
	Events   EventsConfig   `koanf:"events"`
	Logging  LoggingConfig  `koanf:"logging"`
	Catalog  CatalogConfig  `koanf:"catalog"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
	BaseURL         string        `koanf:"base_url"`

	// MaxUploadBytes caps a single uploaded image. MaxUploadFiles caps the
	// number of images in one batch analysis request.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`
	MaxUploadFiles int   `koanf:"max_upload_files"`
}

// SecurityConfig holds authentication and authorization settings.
type SecurityConfig struct {
	JWTSecret  string        `koanf:"jwt_secret"`
	JWTTTL     time.Duration `koanf:"jwt_ttl"`
	BcryptCost int           `koanf:"bcrypt_cost"`
	CookieName string        `koanf:"cookie_name"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	AuthRateLimitReqs int           `koanf:"auth_rate_limit_reqs"` // stricter limit for /api/auth
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins []string `koanf:"cors_origins"`

	// AdminEmails are granted the admin role at startup.
	AdminEmails []string `koanf:"admin_emails"`

	// LockoutAttempts consecutive failed logins lock an email for
	// LockoutDuration, doubling per repeat up to LockoutMaxDuration.
	// Zero disables lockout.
	LockoutAttempts    int           `koanf:"lockout_attempts"`
	LockoutDuration    time.Duration `koanf:"lockout_duration"`
	LockoutMaxDuration time.Duration `koanf:"lockout_max_duration"`
}

// DatabaseConfig holds BadgerDB settings.
type DatabaseConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`

	// GCInterval is how often value log garbage collection runs.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// MLConfig configures the external image analysis and recommendation services.
//
// Environment Variables:
//   - ML_SERVICE_URL: image analysis service (default: http://localhost:8000)
//   - ML_RECOMMENDATIONS_URL: recommendation service (default: http://localhost:8001)
//   - ML_TIMEOUT: per-request timeout (default: 30s)
//   - ML_MAX_RETRIES: attempts per request (default: 3)
//   - ML_RETRY_DELAY: base delay, multiplied by the attempt number (default: 1s)
type MLConfig struct {
	BaseURL            string        `koanf:"base_url"`
	RecommendationsURL string        `koanf:"recommendations_url"`
	Timeout            time.Duration `koanf:"timeout"`
	MaxRetries         int           `koanf:"max_retries"`
	RetryDelay         time.Duration `koanf:"retry_delay"`
	HealthTimeout      time.Duration `koanf:"health_timeout"`
	BatchSize          int           `koanf:"batch_size"`

	// Outbound token bucket.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`

	// Circuit breaker.
	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
}

// EventsConfig configures the in-process event bus and optional NATS forwarding.
type EventsConfig struct {
	// NATSURL enables forwarding of domain events to an external NATS server
	// when non-empty.
	NATSURL       string        `koanf:"nats_url"`
	TopicPrefix   string        `koanf:"topic_prefix"`
	BufferSize    int64         `koanf:"buffer_size"`
	CloseTimeout  time.Duration `koanf:"close_timeout"`
	MaxReconnects int           `koanf:"max_reconnects"`
	ReconnectWait time.Duration `koanf:"reconnect_wait"`
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// CatalogConfig controls product catalog seeding.
type CatalogConfig struct {
	// SeedFile overrides the embedded seed catalog. Empty uses the embedded one.
	SeedFile string `koanf:"seed_file"`
	// SeedOnStartup loads the seed catalog when the product store is empty.
	SeedOnStartup bool `koanf:"seed_on_startup"`
}

// Load loads configuration using Koanf with layered sources.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
