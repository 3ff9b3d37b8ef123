// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
are exposed at /metrics in Prometheus text format:

	curl http://localhost:5000/metrics

# Available Metrics

HTTP Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rate limiter rejections (counter)

Store Metrics:
  - store_operation_duration_seconds, store_operation_errors_total
    Labels: operation, collection

ML Service Metrics:
  - ml_requests_total: Logical calls by result (success, failure, rejected)
  - ml_request_duration_seconds: Call latency including retries
  - ml_request_retries_total
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total, circuit_breaker_state_transitions_total

Domain Metrics:
  - skin_analyses_total: Analyses by overall severity
  - recommendation_requests_total, recommendation_products_returned
  - cache_hits_total, cache_misses_total: Labelled by cache_type
  - events_published_total, events_publish_errors_total: Labelled by topic

WebSocket Metrics:
  - websocket_connections, websocket_messages_sent_total, websocket_errors_total

# Thread Safety

All recording functions are safe for concurrent use.
*/
package metrics
