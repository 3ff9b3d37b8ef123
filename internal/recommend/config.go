// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains caching parameters.
	Cache CacheConfig `json:"cache"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultLimit is the number of products returned when none is requested.
	// Default: 10.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps the requested number of products.
	// Default: 100.
	MaxLimit int `json:"max_limit"`

	// CandidatesPerConcern is the number of catalog products considered for
	// each concern before scoring.
	// Default: 20.
	CandidatesPerConcern int `json:"candidates_per_concern"`

	// DefaultAlternatives is the number of budget alternatives returned when
	// none is requested.
	// Default: 5.
	DefaultAlternatives int `json:"default_alternatives"`
}

// CacheConfig contains caching parameters.
type CacheConfig struct {
	// Enabled controls whether caching is active.
	// Default: true.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 5m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries is the maximum number of cached entries.
	// Default: 1000.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			DefaultLimit:         10,
			MaxLimit:             100,
			CandidatesPerConcern: 20,
			DefaultAlternatives:  5,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 1000,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Limits.DefaultLimit < 1 {
		return fmt.Errorf("limits.default_limit must be positive, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit (%d) must be >= default_limit (%d)",
			c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}
	if c.Limits.CandidatesPerConcern < 1 {
		return fmt.Errorf("limits.candidates_per_concern must be positive, got %d", c.Limits.CandidatesPerConcern)
	}
	if c.Limits.DefaultAlternatives < 1 {
		return fmt.Errorf("limits.default_alternatives must be positive, got %d", c.Limits.DefaultAlternatives)
	}

	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive when enabled, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be positive when enabled, got %d", c.Cache.MaxEntries)
		}
	}

	return nil
}
