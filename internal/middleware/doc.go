// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

/*
Package middleware provides the HTTP infrastructure middleware used by the
API router.

  - RequestID: propagates or generates X-Request-ID and X-Correlation-ID and seeds the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge keyed by route pattern
  - AccessLog: one structured log line per request, warning above a latency threshold

All middleware has the chi signature func(http.Handler) http.Handler and wraps
the response with chi's WrapResponseWriter, so websocket upgrades keep
working through the stack.

Typical stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(time.Second))
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
