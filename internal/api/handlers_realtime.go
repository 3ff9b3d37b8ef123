// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/lumiskin/internal/auth"
	"github.com/tomtom215/lumiskin/internal/logging"
	"github.com/tomtom215/lumiskin/internal/metrics"
	ws "github.com/tomtom215/lumiskin/internal/websocket"
)

// Root answers the plain-text liveness probe.
//
// @Summary Liveness probe
// @Tags health
// @Produce plain
// @Success 200 {string} string "LumiSkin Backend is running!"
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // the client is gone if this fails
	w.Write([]byte("LumiSkin Backend is running!"))
}

// Health reports that the API is up, along with uptime and connected
// WebSocket clients.
//
// @Summary API health
// @Tags health
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()

	clients := 0
	if h.wsHub != nil {
		clients = h.wsHub.GetClientCount()
	}
	metrics.UpdateUptime(h.startTime)

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"status":            "OK",
		"message":           "LumiSkin API is running",
		"uptime":            time.Since(h.startTime).Round(time.Second).String(),
		"websocket_clients": clients,
	}, start)
}

// NotFound answers unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusNotFound, codeNotFound, "Route not found", nil)
}

// MethodNotAllowed answers known routes hit with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusMethodNotAllowed, codeBadRequest, "Method not allowed", nil)
}

// maxSocketsPerUser bounds the open event streams of one account.
const maxSocketsPerUser = 5

// WebSocket upgrades an authenticated connection and streams the caller's
// events. Browsers cannot set headers on WebSocket requests, so the token
// may also be passed as the token query parameter.
//
// @Summary Event stream
// @Tags realtime
// @Param token query string false "JWT when no Authorization header or cookie is sent"
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} models.APIResponse
// @Failure 429 {object} models.APIResponse
// @Router /ws [get]
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		respondError(w, http.StatusServiceUnavailable, codeUnavailable, "Real-time updates are disabled", nil)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		token = h.authMW.ExtractToken(r)
	}

	user, _, err := h.authMW.AuthenticateToken(r.Context(), token)
	if err != nil {
		if auth.IsAuthFailure(err) {
			respondError(w, http.StatusUnauthorized, codeAuthentication, auth.ErrorMessage(err), nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "Authentication error.", err)
		return
	}

	if h.wsHub.ClientCountForUser(user.ID) >= maxSocketsPerUser {
		respondError(w, http.StatusTooManyRequests, codeRateLimited, "Too many open connections", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.wsHub, conn, user.ID)
	h.wsHub.Register <- client
	client.Start()
}
