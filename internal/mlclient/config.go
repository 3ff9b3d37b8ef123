// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package mlclient

import (
	"time"

	"github.com/tomtom215/lumiskin/internal/config"
)

// Config holds the effective client settings.
type Config struct {
	BaseURL            string        `json:"baseURL"`
	RecommendationsURL string        `json:"recommendationsURL"`
	Timeout            time.Duration `json:"timeout"`
	Retries            int           `json:"retries"`
	RetryDelay         time.Duration `json:"retryDelay"`
	HealthTimeout      time.Duration `json:"healthTimeout"`
	BatchSize          int           `json:"batchSize"`

	RequestsPerSecond float64 `json:"requestsPerSecond"`
	Burst             int     `json:"burst"`

	BreakerMaxRequests  uint32        `json:"breakerMaxRequests"`
	BreakerInterval     time.Duration `json:"breakerInterval"`
	BreakerTimeout      time.Duration `json:"breakerTimeout"`
	BreakerMinRequests  uint32        `json:"breakerMinRequests"`
	BreakerFailureRatio float64       `json:"breakerFailureRatio"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		BaseURL:             "http://localhost:8000",
		RecommendationsURL:  "http://localhost:8001",
		Timeout:             30 * time.Second,
		Retries:             3,
		RetryDelay:          time.Second,
		HealthTimeout:       5 * time.Second,
		BatchSize:           5,
		RequestsPerSecond:   10,
		Burst:               20,
		BreakerMaxRequests:  3,
		BreakerInterval:     time.Minute,
		BreakerTimeout:      2 * time.Minute,
		BreakerMinRequests:  10,
		BreakerFailureRatio: 0.6,
	}
}

// FromConfig converts the application ML section, filling zero values
// with defaults.
func FromConfig(c *config.MLConfig) Config {
	cfg := Config{
		BaseURL:             c.BaseURL,
		RecommendationsURL:  c.RecommendationsURL,
		Timeout:             c.Timeout,
		Retries:             c.MaxRetries,
		RetryDelay:          c.RetryDelay,
		HealthTimeout:       c.HealthTimeout,
		BatchSize:           c.BatchSize,
		RequestsPerSecond:   c.RequestsPerSecond,
		Burst:               c.Burst,
		BreakerMaxRequests:  c.BreakerMaxRequests,
		BreakerInterval:     c.BreakerInterval,
		BreakerTimeout:      c.BreakerTimeout,
		BreakerMinRequests:  c.BreakerMinRequests,
		BreakerFailureRatio: c.BreakerFailureRatio,
	}
	return cfg.withDefaults()
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.RecommendationsURL == "" {
		c.RecommendationsURL = d.RecommendationsURL
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.Retries <= 0 {
		c.Retries = d.Retries
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = d.RetryDelay
	}
	if c.HealthTimeout <= 0 {
		c.HealthTimeout = d.HealthTimeout
	}
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = d.RequestsPerSecond
	}
	if c.Burst <= 0 {
		c.Burst = d.Burst
	}
	if c.BreakerMaxRequests == 0 {
		c.BreakerMaxRequests = d.BreakerMaxRequests
	}
	if c.BreakerInterval <= 0 {
		c.BreakerInterval = d.BreakerInterval
	}
	if c.BreakerTimeout <= 0 {
		c.BreakerTimeout = d.BreakerTimeout
	}
	if c.BreakerMinRequests == 0 {
		c.BreakerMinRequests = d.BreakerMinRequests
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		c.BreakerFailureRatio = d.BreakerFailureRatio
	}
	return c
}
