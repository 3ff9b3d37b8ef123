// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

// General API information for swag. Regenerate docs/ with:
//
//	swag init -g cmd/server/docs.go -d ./,./internal/api,./internal/models,./internal/catalog
//
// @title LumiSkin API
// @version 1.0
// @description Skin image analysis, skincare routines and product recommendations.
// @description
// @description ## Authentication
// @description
// @description Register or log in through `/api/auth` to obtain a JWT. Send it as
// @description `Authorization: Bearer <token>` or rely on the `token` cookie set at login.
// @description
// @description ## Error Responses
// @description
// @description Every response uses the same envelope:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {"code": "VALIDATION_ERROR", "message": "Please provide a valid email"},
// @description   "metadata": {"timestamp": "2026-01-18T12:34:56Z"}
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/lumiskin/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:5000
// @BasePath /api
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT from /api/auth/login, sent as "Bearer <token>" or the token cookie.
//
// @tag.name auth
// @tag.description Accounts, profiles and tokens
//
// @tag.name analysis
// @tag.description Skin image analysis through the ML service
//
// @tag.name routines
// @tag.description Skincare routines
//
// @tag.name tracking
// @tag.description Routine progress entries
//
// @tag.name recommendations
// @tag.description Product and ingredient recommendations
//
// @tag.name ingredients
// @tag.description Ingredient safety lookups
//
// @tag.name products
// @tag.description Product catalog administration
//
// @tag.name chatbot
// @tag.description Skincare assistant conversation
//
// @tag.name health
// @tag.description Liveness and health
//
// @tag.name realtime
// @tag.description WebSocket event stream
package main
