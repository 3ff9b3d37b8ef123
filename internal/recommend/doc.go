// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

// Package recommend implements the rule-based product recommendation engine.
//
// # Scoring
//
// Each candidate product receives a score in 0..100 built from:
//
//   - 30% of the product's stored recommendation score
//   - up to 25 points from the customer rating
//   - up to 25 points for the share of the user's concerns it targets
//   - 15 points for skin type compatibility
//   - 10 points for the same budget tier, 5 for an adjacent one
//   - up to 10 points for price per unit within the tier's range
//   - up to 5 points of popularity from the rating count
//
// The total is rounded half up and clamped.
//
// # Candidates
//
// For every concern the engine walks the catalog in order and keeps up to
// Limits.CandidatesPerConcern active products that target the concern. A
// non-normal skin type and a non-medium budget narrow the selection.
// Products containing one of the user's allergens are then dropped and the
// remainder is deduplicated by product id.
//
// # Usage
//
//	engine, err := recommend.NewEngine(store, recommend.DefaultConfig(), logger)
//	res, err := engine.Recommend(ctx, recommend.Request{
//	    Concerns: []string{"acne", "pores"},
//	    SkinType: "oily",
//	    Budget:   "low",
//	    Limit:    10,
//	})
//
// # Thread Safety
//
// The engine is safe for concurrent use. Results are cached per request
// shape until the TTL expires or InvalidateCache is called after a catalog
// write.
package recommend
