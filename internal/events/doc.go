// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

/*
Package events carries LumiSkin domain events over an in-process Watermill bus.

Three event types are published by the API layer:

  - analysis.completed: a skin analysis was stored for a user
  - routine.generated: a routine was generated from the latest analysis
  - profile.completed: a user finished the profile questionnaire

The bus is backed by the Watermill gochannel Pub/Sub. Subscribers register a
Handler before the bus is served; each Serve call builds a fresh Watermill
router so the bus can be restarted by a suture supervisor.

When a NATS URL is configured every event is also forwarded to core NATS
(JetStream disabled) under the same topic. Forwarding failures are logged and
never block local delivery.

Example:

	bus, err := events.NewBus(events.FromConfig(&cfg.Events))
	if err != nil {
		return err
	}
	bus.Subscribe("websocket", hub.DeliverEvent)
	go bus.Serve(ctx)

	_ = bus.Publish(ctx, events.TypeAnalysisCompleted, user.ID, analysis)
*/
package events
