// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/lumiskin/internal/events"
)

func TestClientRoundTrip(t *testing.T) {
	hub, stop := startHub(t)
	defer stop()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		client := NewClient(hub, conn, r.URL.Query().Get("user"))
		hub.Register <- client
		client.Start()
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/?user=user-7"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil || msg.Type != MessageTypeConnected {
		t.Fatalf("connected frame = %+v, %v", msg, err)
	}

	if err := conn.WriteJSON(map[string]string{"type": MessageTypePing}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if err := conn.ReadJSON(&msg); err != nil || msg.Type != MessageTypePong {
		t.Fatalf("pong frame = %+v, %v", msg, err)
	}

	e, err := events.NewEvent(events.TypeRoutineGenerated, "user-7", map[string]string{"id": "r1"})
	if err != nil {
		t.Fatal(err)
	}
	_ = hub.DeliverEvent(context.Background(), e)
	if err := conn.ReadJSON(&msg); err != nil || msg.Type != "routine.generated" {
		t.Fatalf("event frame = %+v, %v", msg, err)
	}

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCountForUser("user-7") != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if hub.ClientCountForUser("user-7") != 0 {
		t.Error("client not unregistered after close")
	}
}
