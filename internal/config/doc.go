// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

/*
Package config provides centralized configuration management for LumiSkin.

Configuration is layered with Koanf v2: struct defaults, then an optional YAML
file (CONFIG_PATH, ./config.yaml, /etc/lumiskin/config.yaml), then environment
variables. Only environment variables listed in the mapping table are read.

# Environment Variables

Server:
  - PORT: Listen port (default: 5000)
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - ENVIRONMENT: development or production (default: development)
  - MAX_UPLOAD_BYTES: Per-image upload limit (default: 5MB)

Security:
  - JWT_SECRET: Token signing secret (required; 32+ characters in production)
  - JWT_TTL: Token lifetime (default: 168h)
  - BCRYPT_COST: Password hash cost (default: 12)
  - CORS_ORIGINS: Comma-separated allowed origins
  - ADMIN_EMAILS: Comma-separated accounts granted the admin role
  - LOGIN_LOCKOUT_ATTEMPTS: Failed logins before lockout (default: 5, 0 disables)
  - LOGIN_LOCKOUT_DURATION, LOGIN_LOCKOUT_MAX_DURATION: First and longest lockout (default: 15m, 24h)

Storage:
  - BADGER_PATH: BadgerDB directory (default: /data/lumiskin)
  - BADGER_IN_MEMORY: Run without persistence (default: false)
  - BADGER_GC_INTERVAL: Value log GC period (default: 10m)

ML services:
  - ML_SERVICE_URL, ML_RECOMMENDATIONS_URL, ML_TIMEOUT, ML_MAX_RETRIES

Events:
  - NATS_URL: Forward domain events to NATS when set

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Example YAML

	server:
	  port: 5000
	security:
	  jwt_secret: "..."
	  cors_origins: ["https://lumiskin-skincare.netlify.app"]
	ml:
	  base_url: http://ml:8000
	  timeout: 30s
*/
package config
