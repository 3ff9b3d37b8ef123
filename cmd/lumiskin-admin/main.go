// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

// Command lumiskin-admin performs maintenance on a LumiSkin data directory:
// catalog imports, account deactivation, admin promotion and token
// revocation. It opens the badger directory directly, so the API server
// must be stopped first (badger holds an exclusive directory lock).
//
//	lumiskin-admin --config /etc/lumiskin/config.yaml catalog import products.yaml
//	lumiskin-admin users promote ops@example.com
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/lumiskin/internal/config"
	"github.com/tomtom215/lumiskin/internal/logging"
	"github.com/tomtom215/lumiskin/internal/store"
)

// app holds what every subcommand needs. Tests inject db directly.
type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
	db         *store.Store
	ownsDB     bool
}

func main() {
	a := &app{}
	if err := newRootCmd(a).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "lumiskin-admin",
		Short:         "Administer a LumiSkin data directory",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !logging.ValidLevel(a.logLevel) {
				return fmt.Errorf("invalid log level %q", a.logLevel)
			}
			logging.SetLevelString(a.logLevel)
			return a.open()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: $CONFIG_PATH or ./config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")

	root.AddCommand(newCatalogCmd(a), newUsersCmd(a), newTokensCmd(a))
	return root
}

// open loads configuration and the store unless a store was injected.
func (a *app) open() error {
	if a.db != nil {
		if a.cfg == nil {
			a.cfg = &config.Config{}
		}
		return nil
	}

	if a.configPath != "" {
		if err := os.Setenv(config.ConfigPathEnvVar, a.configPath); err != nil {
			return err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	logging.Init(logging.Config{Level: a.logLevel, Format: "console"})

	if cfg.Database.InMemory {
		return fmt.Errorf("database.in_memory is set; nothing to administer")
	}
	db, err := store.Open(store.Options{Path: cfg.Database.Path})
	if err != nil {
		return err
	}
	a.db = db
	a.ownsDB = true
	return nil
}

func (a *app) close() error {
	if !a.ownsDB || a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

func printf(w io.Writer, format string, args ...interface{}) {
	//nolint:errcheck // terminal output
	fmt.Fprintf(w, format, args...)
}
