// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package authz

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/lumiskin/internal/auth"
	"github.com/tomtom215/lumiskin/internal/logging"
	"github.com/tomtom215/lumiskin/internal/models"
)

// Middleware provides authorization middleware using Casbin. It must run
// after auth.Middleware.Authenticate.
type Middleware struct {
	enforcer *Enforcer
}

// NewMiddleware creates a new authorization middleware.
func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{
		enforcer: enforcer,
	}
}

// AuthorizeRequest is middleware that determines the action from the HTTP
// method and authorizes against the request path.
func (m *Middleware) AuthorizeRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := auth.UserFromContext(r.Context())
		if user == nil {
			writeForbidden(w, "Forbidden: no authentication context")
			return
		}

		allowed, err := m.enforcer.Enforce(user.ID, r.URL.Path, methodToAction(r.Method))
		if err != nil {
			logging.Error().Err(err).Msg("Authorization error")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if !allowed {
			logging.Ctx(r.Context()).Warn().
				Str("path", r.URL.Path).
				Str("method", r.Method).
				Msg("Authorization denied")
			writeForbidden(w, "Forbidden: insufficient permissions")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Can reports whether the user may perform action on object. Errors deny.
func (m *Middleware) Can(user *models.User, object, action string) bool {
	if user == nil {
		return false
	}
	allowed, err := m.enforcer.Enforce(user.ID, object, action)
	if err != nil {
		logging.Error().Err(err).Msg("Authorization error")
		return false
	}
	return allowed
}

// methodToAction maps HTTP methods to Casbin actions.
func methodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ActionRead
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return ActionWrite
	case http.MethodDelete:
		return ActionDelete
	default:
		return ActionRead
	}
}

func writeForbidden(w http.ResponseWriter, message string) {
	resp := models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    &models.APIError{Code: "AUTHORIZATION_ERROR", Message: message},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Failed to encode authorization error")
	}
}
