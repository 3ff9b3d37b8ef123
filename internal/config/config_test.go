// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package config

import (
	"strings"
	"testing"
	"time"
)

// validConfig returns defaults plus a JWT secret, which passes Validate.
func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = "k3vJ9qPz0wL8mN2rT5yU7iO1aS4dF6gH"
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults with secret", func(*Config) {}, ""},
		{"missing secret", func(c *Config) { c.Security.JWTSecret = "" }, "JWT_SECRET is required"},
		{"short secret allowed in development", func(c *Config) { c.Security.JWTSecret = "dev" }, ""},
		{"short secret in production", func(c *Config) {
			c.Server.Environment = "production"
			c.Security.JWTSecret = "short"
		}, "at least 32 characters"},
		{"placeholder secret in production", func(c *Config) {
			c.Server.Environment = "production"
			c.Security.JWTSecret = "changeme-changeme-changeme-changeme"
		}, "placeholder"},
		{"wildcard CORS in production", func(c *Config) {
			c.Server.Environment = "prod"
			c.Security.CORSOrigins = []string{"*"}
		}, "wildcard"},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "PORT"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "PORT"},
		{"bcrypt cost too low", func(c *Config) { c.Security.BcryptCost = 2 }, "BCRYPT_COST"},
		{"bcrypt cost too high", func(c *Config) { c.Security.BcryptCost = 40 }, "BCRYPT_COST"},
		{"negative lockout", func(c *Config) { c.Security.LockoutAttempts = -1 }, "LOGIN_LOCKOUT"},
		{"zero ML timeout", func(c *Config) { c.ML.Timeout = 0 }, "ML_TIMEOUT"},
		{"bad ML URL", func(c *Config) { c.ML.BaseURL = "ftp://ml" }, "ML_SERVICE_URL"},
		{"ML URL with path", func(c *Config) { c.ML.RecommendationsURL = "http://ml:8001/api" }, "base URL only"},
		{"bad NATS URL", func(c *Config) { c.Events.NATSURL = "http://nats:4222" }, "NATS_URL"},
		{"good NATS URL", func(c *Config) { c.Events.NATSURL = "nats://nats:4222" }, ""},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"rate limit out of range", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit ignored when disabled", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"badger path required", func(c *Config) { c.Database.Path = "" }, "BADGER_PATH"},
		{"in-memory needs no path", func(c *Config) {
			c.Database.Path = ""
			c.Database.InMemory = true
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestEnvironmentModes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env        string
		production bool
		dev        bool
	}{
		{"", false, true},
		{"development", false, true},
		{"dev", false, true},
		{"staging", false, false},
		{"production", true, false},
		{"PROD", true, false},
	}

	for _, tt := range tests {
		cfg := validConfig()
		cfg.Server.Environment = tt.env
		if got := cfg.IsProduction(); got != tt.production {
			t.Errorf("IsProduction(%q): expected %v, got %v", tt.env, tt.production, got)
		}
		if got := cfg.IsDevelopment(); got != tt.dev {
			t.Errorf("IsDevelopment(%q): expected %v, got %v", tt.env, tt.dev, got)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.Server.Port != 5000 {
		t.Errorf("Expected port 5000, got %d", cfg.Server.Port)
	}
	if cfg.Server.MaxUploadBytes != 5*1024*1024 {
		t.Errorf("Expected 5MB upload limit, got %d", cfg.Server.MaxUploadBytes)
	}
	if cfg.Security.JWTTTL != 7*24*time.Hour {
		t.Errorf("Expected 7 day token lifetime, got %v", cfg.Security.JWTTTL)
	}
	if cfg.Security.BcryptCost != 12 {
		t.Errorf("Expected bcrypt cost 12, got %d", cfg.Security.BcryptCost)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "https://lumiskin-skincare.netlify.app" {
		t.Errorf("Unexpected default CORS origins: %v", cfg.Security.CORSOrigins)
	}
	if cfg.ML.BaseURL != "http://localhost:8000" || cfg.ML.RecommendationsURL != "http://localhost:8001" {
		t.Errorf("Unexpected ML URLs: %s, %s", cfg.ML.BaseURL, cfg.ML.RecommendationsURL)
	}
	if cfg.ML.MaxRetries != 3 || cfg.ML.RetryDelay != time.Second || cfg.ML.BatchSize != 5 {
		t.Errorf("Unexpected ML retry settings: %+v", cfg.ML)
	}
	if cfg.Events.NATSURL != "" {
		t.Errorf("Expected NATS forwarding disabled by default, got %q", cfg.Events.NATSURL)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want string
	}{
		{"PORT", "server.port"},
		{"JWT_SECRET", "security.jwt_secret"},
		{"ML_SERVICE_URL", "ml.base_url"},
		{"ML_RECOMMENDATIONS_URL", "ml.recommendations_url"},
		{"NATS_URL", "events.nats_url"},
		{"LOG_LEVEL", "logging.level"},
		{"ADMIN_EMAILS", "security.admin_emails"},
		{"LOGIN_LOCKOUT_ATTEMPTS", "security.lockout_attempts"},
		{"HOME", ""},
		{"PATH", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.key); got != tt.want {
			t.Errorf("envTransformFunc(%q): expected %q, got %q", tt.key, tt.want, got)
		}
	}
}
