// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/lumiskin/internal/auth"
	"github.com/tomtom215/lumiskin/internal/authz"
	"github.com/tomtom215/lumiskin/internal/config"
	"github.com/tomtom215/lumiskin/internal/logging"
	"github.com/tomtom215/lumiskin/internal/mlclient"
	"github.com/tomtom215/lumiskin/internal/recommend"
	"github.com/tomtom215/lumiskin/internal/store"
	ws "github.com/tomtom215/lumiskin/internal/websocket"
)

// EventPublisher publishes domain events. events.Bus satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, userID string, data interface{}) error
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: shared response and parsing helpers
//   - handlers_auth.go: account and token endpoints
//   - handlers_routines.go, handlers_tracking.go: routines and progress
//   - handlers_analysis.go: image analysis
//   - handlers_recommendations.go, handlers_ingredients.go: advice
//   - handlers_products.go: catalog administration
//   - handlers_chatbot.go: chatbot conversation
//   - handlers_realtime.go: health, root and WebSocket endpoints
type Handler struct {
	store      *store.Store
	engine     *recommend.Engine
	ml         *mlclient.Client
	jwtManager *auth.JWTManager
	authMW     *auth.Middleware
	lockout    *auth.LockoutManager
	authz      *authz.Middleware
	roles      *authz.Service
	events     EventPublisher
	wsHub      *ws.Hub
	config     *config.Config
	secLog     *logging.SecurityLogger
	startTime  time.Time
}

// Dependencies are the collaborators of Handler. Lockout, Events and Hub
// are optional.
type Dependencies struct {
	Store      *store.Store
	Engine     *recommend.Engine
	ML         *mlclient.Client
	JWTManager *auth.JWTManager
	Auth       *auth.Middleware
	Lockout    *auth.LockoutManager
	Roles      *authz.Service
	Events     EventPublisher
	Hub        *ws.Hub
	Config     *config.Config
}

// NewHandler creates a new API handler.
//
// Example:
//
//	handler := api.NewHandler(api.Dependencies{Store: db, Engine: engine, ...})
//	router := api.NewRouter(handler)
//	http.ListenAndServe(":5000", router.SetupChi())
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		store:      deps.Store,
		engine:     deps.Engine,
		ml:         deps.ML,
		jwtManager: deps.JWTManager,
		authMW:     deps.Auth,
		lockout:    deps.Lockout,
		authz:      authz.NewMiddleware(deps.Roles.Enforcer()),
		roles:      deps.Roles,
		events:     deps.Events,
		wsHub:      deps.Hub,
		config:     deps.Config,
		secLog:     logging.NewSecurityLogger(),
		startTime:  time.Now(),
	}
}

// publishEvent publishes a domain event when a publisher is configured.
// Failures are logged and never fail the request.
func (h *Handler) publishEvent(ctx context.Context, eventType, userID string, data interface{}) {
	if h.events == nil {
		return
	}
	if err := h.events.Publish(ctx, eventType, userID, data); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("event_type", eventType).Msg("Failed to publish event")
	}
}

// getUpgrader returns a WebSocket upgrader that only accepts the
// configured CORS origins. Without an Origin header the request is not a
// browser request and is allowed.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range h.config.Security.CORSOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected: origin not allowed")
			return false
		},
	}
}
