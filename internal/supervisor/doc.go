// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

/*
Package supervisor runs the long-lived LumiSkin services under a suture v4
supervisor tree.

	RootSupervisor ("lumiskin")
	├── DataSupervisor ("data-layer")
	│   ├── events.Bus ("event-bus")
	│   └── StoreGCService ("store-gc")
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocketHubService ("websocket-hub")
	└── APISupervisor ("api-layer")
	    └── HTTPServerService ("http-server")

Crashed services are restarted with backoff. Supervisor events are logged
through sutureslog, which writes to the zerolog logger via
logging.NewSlogLogger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(bus)
	tree.AddDataService(services.NewStoreGCService(db, cfg.Database.GCInterval))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	errCh := tree.ServeBackground(ctx)
*/
package supervisor
