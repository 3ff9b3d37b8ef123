// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

// Package services adapts LumiSkin components to suture.Service.
//
// Each wrapper translates a component lifecycle (ListenAndServe/Shutdown,
// RunWithContext, periodic maintenance) into Serve(ctx) and names itself
// through fmt.Stringer for supervisor logs. The wrappers depend on small
// interfaces rather than the concrete packages so they can be tested with
// fakes.
package services
