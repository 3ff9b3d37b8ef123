// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

/*
Package websocket pushes per-user realtime notifications to connected clients.

Clients connect to /api/ws with a bearer token (query parameter or header).
The API layer authenticates the request and registers a Client bound to the
user's ID. The Hub subscribes to the domain event bus and forwards each event
only to the connections of the event's user.

Every frame has the shape:

	{"type": "analysis.completed", "data": {...}, "timestamp": "2026-01-01T00:00:00Z"}

Each client runs two goroutines:
  - readPump: reads client frames, answers {"type":"ping"} with a pong
  - writePump: writes queued frames and keeps the connection alive with pings

The Hub implements suture.Service and closes every client when its context
is canceled.
*/
package websocket
