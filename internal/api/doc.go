// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

/*
Package api provides the HTTP REST API of the LumiSkin backend.

The router is built on chi. Every JSON endpoint answers with the
models.APIResponse envelope:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {"timestamp": "2026-01-02T15:04:05Z"}
	}

Errors carry a machine-readable code and a human message:

	{
	  "status": "error",
	  "data": null,
	  "metadata": {...},
	  "error": {"code": "VALIDATION_ERROR", "message": "email must be a valid email address"}
	}

# Route groups

  - /api/auth: registration, login and account management (stricter rate limit)
  - /api/users: profile alias of /api/auth/profile
  - /api/routines, /api/tracking: skincare routines and progress photos
  - /api/analysis: image analysis through the external ML service
  - /api/recommendations: product and ingredient recommendations
  - /api/ingredients: ingredient dictionary lookups
  - /api/products: catalog (admin role required for writes)
  - /api/chatbot: skincare advice conversation
  - /api/ws: WebSocket event stream
  - /api/health, /metrics, /swagger: operations

Handlers are methods on Handler and are split by resource across the
handlers_*.go files.
*/
package api
