// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package events

import (
	"time"

	"github.com/tomtom215/lumiskin/internal/config"
)

// Config holds bus settings.
type Config struct {
	// TopicPrefix is prepended to every event type to form the topic.
	TopicPrefix string

	// BufferSize is the gochannel output buffer per subscription.
	BufferSize int64

	// CloseTimeout bounds router shutdown.
	CloseTimeout time.Duration

	// NATSURL enables forwarding when non-empty.
	NATSURL       string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultConfig returns local-only defaults.
func DefaultConfig() Config {
	return Config{
		TopicPrefix:   "lumiskin.",
		BufferSize:    256,
		CloseTimeout:  10 * time.Second,
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}
}

// FromConfig maps the application events config, keeping defaults for zero values.
func FromConfig(c *config.EventsConfig) Config {
	cfg := DefaultConfig()
	if c == nil {
		return cfg
	}
	if c.TopicPrefix != "" {
		cfg.TopicPrefix = c.TopicPrefix
	}
	if c.BufferSize > 0 {
		cfg.BufferSize = c.BufferSize
	}
	if c.CloseTimeout > 0 {
		cfg.CloseTimeout = c.CloseTimeout
	}
	if c.MaxReconnects != 0 {
		cfg.MaxReconnects = c.MaxReconnects
	}
	if c.ReconnectWait > 0 {
		cfg.ReconnectWait = c.ReconnectWait
	}
	cfg.NATSURL = c.NATSURL
	return cfg
}
