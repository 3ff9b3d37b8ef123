// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

// Package main is the LumiSkin API server.
//
// Startup order:
//
//  1. Configuration (koanf: defaults, config.yaml, environment)
//  2. BadgerDB store, seeded with the product catalog when empty
//  3. Authorization (casbin roles loaded from the store, configured admins)
//  4. Recommendation engine, ML client, event bus and WebSocket hub
//  5. HTTP router and the suture supervisor tree
//
// SIGINT and SIGTERM cancel the tree; the HTTP server drains for
// server.shutdown_timeout before the store is closed.
//
// Minimal development run:
//
//	export JWT_SECRET=$(openssl rand -base64 48)
//	export BADGER_PATH=./data
//	export ML_SERVICE_URL=http://localhost:8000
//	./lumiskin
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/lumiskin/docs" // registers the swagger spec
	"github.com/tomtom215/lumiskin/internal/api"
	"github.com/tomtom215/lumiskin/internal/auth"
	"github.com/tomtom215/lumiskin/internal/authz"
	"github.com/tomtom215/lumiskin/internal/catalog"
	"github.com/tomtom215/lumiskin/internal/config"
	"github.com/tomtom215/lumiskin/internal/events"
	"github.com/tomtom215/lumiskin/internal/logging"
	"github.com/tomtom215/lumiskin/internal/metrics"
	"github.com/tomtom215/lumiskin/internal/mlclient"
	"github.com/tomtom215/lumiskin/internal/recommend"
	"github.com/tomtom215/lumiskin/internal/store"
	"github.com/tomtom215/lumiskin/internal/supervisor"
	"github.com/tomtom215/lumiskin/internal/supervisor/services"
	ws "github.com/tomtom215/lumiskin/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // sequential startup wiring
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	metrics.SetAppInfo(version)
	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Bool("in_memory", cfg.Database.InMemory).
		Str("ml_service", cfg.ML.BaseURL).
		Msg("Starting LumiSkin")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Strs("origins", cfg.Security.CORSOrigins).Msg("Wildcard CORS origin configured")
	}

	db, err := store.Open(store.Options{Path: cfg.Database.Path, InMemory: cfg.Database.InMemory})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Catalog.SeedOnStartup {
		if _, err := catalog.SeedIfEmpty(ctx, db, cfg.Catalog); err != nil {
			logging.Fatal().Err(err).Msg("Failed to seed product catalog")
		}
	}

	roles, err := initAuthz(cfg, db)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authorization")
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}
	authMW := auth.NewMiddleware(jwtManager, db, db, cfg.Security.CookieName, func(err error) bool {
		return errors.Is(err, store.ErrNotFound)
	})
	lockout := auth.NewLockoutManager(db, auth.LockoutConfigFrom(&cfg.Security))

	engine, err := recommend.NewEngine(db, recommend.DefaultConfig(), logging.Logger().With().Str("component", "recommend").Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}

	mlClient := mlclient.New(mlclient.FromConfig(&cfg.ML))

	bus, err := events.NewBus(events.FromConfig(&cfg.Events))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize event bus")
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	wsHub := ws.NewHub()
	bus.Subscribe("websocket", wsHub.DeliverEvent)

	handler := api.NewHandler(api.Dependencies{
		Store:      db,
		Engine:     engine,
		ML:         mlClient,
		JWTManager: jwtManager,
		Auth:       authMW,
		Lockout:    lockout,
		Roles:      roles,
		Events:     bus,
		Hub:        wsHub,
		Config:     cfg,
	})
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(bus)
	tree.AddDataService(services.NewStoreGCService(db, cfg.Database.GCInterval))
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	// The tree only returns once ctx is canceled or the root gives up.
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("LumiSkin stopped")
}

// initAuthz loads persisted role grants and promotes the configured admin
// emails.
func initAuthz(cfg *config.Config, db *store.Store) (*authz.Service, error) {
	enforcer, err := authz.NewEnforcer(authz.DefaultEnforcerConfig())
	if err != nil {
		return nil, err
	}
	roles, err := authz.NewService(enforcer, db)
	if err != nil {
		return nil, err
	}

	if len(cfg.Security.AdminEmails) > 0 {
		n, err := roles.PromoteAdmins(db, cfg.Security.AdminEmails, "config")
		if err != nil {
			return nil, err
		}
		logging.Info().Int("promoted", n).Msg("Configured admins applied")
	}
	return roles, nil
}
