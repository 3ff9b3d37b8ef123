// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

/*
Package logging provides the zerolog-based logger shared by every LumiSkin
component.

A single global logger is configured once from main:

	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

Handlers log through the request context so that request and correlation IDs
set by the HTTP middleware travel with each line:

	logging.Ctx(r.Context()).Info().Str("analysis_id", id).Msg("Analysis stored")

Adapters are provided for libraries that bring their own logging interface:

  - NewSlogLogger for log/slog consumers such as sutureslog
  - NewWatermillAdapter for the watermill event bus

SecurityLogger records account events (login, logout, password change) with
email addresses masked.

Always terminate an event chain with Msg or Send; an unterminated chain is
never written.
*/
package logging
