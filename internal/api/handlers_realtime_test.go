// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/lumiskin/internal/events"
	"github.com/tomtom215/lumiskin/internal/metrics"
	ws "github.com/tomtom215/lumiskin/internal/websocket"
)

func TestRootAndHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/", nil, "")
	expectStatus(t, rec, http.StatusOK)
	if rec.Body.String() != "LumiSkin Backend is running!" {
		t.Errorf("root body = %q", rec.Body.String())
	}

	rec = env.do(http.MethodGet, "/api/health", nil, "")
	expectStatus(t, rec, http.StatusOK)
	var res struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	decode(t, rec, &res)
	if res.Status != "OK" || res.Message != "LumiSkin API is running" {
		t.Errorf("unexpected health %+v", res)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected request id header")
	}
	if uptime := testutil.ToFloat64(metrics.AppUptime); uptime <= 0 {
		t.Errorf("uptime gauge = %v after a health check", uptime)
	}
}

func TestUnknownRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/nope", nil, "")
	expectError(t, rec, http.StatusNotFound, "Route not found")

	rec = env.do(http.MethodGet, "/api/auth/login", nil, "")
	expectStatus(t, rec, http.StatusMethodNotAllowed)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func dialWS(t *testing.T, srv *httptest.Server, query string, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws" + query
	return websocket.DefaultDialer.Dial(url, header)
}

func readMessage(t *testing.T, conn *websocket.Conn) ws.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg ws.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return msg
}

func TestWebSocket(t *testing.T) {
	env := newTestEnv(t)
	token, user := env.register("socket@example.com")

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	t.Run("rejects missing token", func(t *testing.T) {
		_, resp, err := dialWS(t, srv, "", nil)
		if err == nil {
			t.Fatal("expected handshake failure")
		}
		if resp == nil || resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %+v", resp)
		}
	})

	t.Run("rejects foreign origin", func(t *testing.T) {
		header := http.Header{"Origin": []string{"http://evil.example"}}
		_, resp, err := dialWS(t, srv, "?token="+token, header)
		if err == nil {
			t.Fatal("expected handshake failure")
		}
		if resp == nil || resp.StatusCode != http.StatusForbidden {
			t.Fatalf("expected 403, got %+v", resp)
		}
	})

	t.Run("streams own events", func(t *testing.T) {
		conn, _, err := dialWS(t, srv, "?token="+token, nil)
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		defer conn.Close()

		if msg := readMessage(t, conn); msg.Type != ws.MessageTypeConnected {
			t.Fatalf("first message = %q, want connected", msg.Type)
		}
		if n := env.hub.ClientCountForUser(user.ID); n != 1 {
			t.Fatalf("hub clients for user = %d, want 1", n)
		}

		other, err := events.NewEvent(events.TypeAnalysisCompleted, "someone-else", map[string]string{"analysisId": "x"})
		if err != nil {
			t.Fatal(err)
		}
		env.hub.DeliverEvent(context.Background(), other)

		mine, err := events.NewEvent(events.TypeRoutineGenerated, user.ID, map[string]string{"routineId": "r1"})
		if err != nil {
			t.Fatal(err)
		}
		env.hub.DeliverEvent(context.Background(), mine)

		msg := readMessage(t, conn)
		if msg.Type != events.TypeRoutineGenerated {
			t.Errorf("type = %q, want %q", msg.Type, events.TypeRoutineGenerated)
		}
		data, ok := msg.Data.(map[string]interface{})
		if !ok || data["routineId"] != "r1" {
			t.Errorf("data = %#v", msg.Data)
		}
	})

	t.Run("limits connections per user", func(t *testing.T) {
		busyToken, _ := env.register("busy@example.com")
		for i := 0; i < maxSocketsPerUser; i++ {
			conn, _, err := dialWS(t, srv, "?token="+busyToken, nil)
			if err != nil {
				t.Fatalf("dial %d: %v", i+1, err)
			}
			defer conn.Close()
			readMessage(t, conn)
		}

		_, resp, err := dialWS(t, srv, "?token="+busyToken, nil)
		if err == nil {
			t.Fatal("expected handshake failure above the limit")
		}
		if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %+v", resp)
		}
	})
}
