// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// Recommendation history sources.
const (
	HistorySourcePersonalized = "personalized"
	HistorySourceProducts     = "products"
	HistorySourceAnalysis     = "analysis"
)

// RecommendationHistory records one recommendation served to a user.
type RecommendationHistory struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Source    string          `json:"source"`
	ProfileID string          `json:"profileId,omitempty"`
	Filters   json.RawMessage `json:"filters,omitempty"`
	Products  []string        `json:"products"`
	Result    json.RawMessage `json:"result,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// RecommendationFeedback is a user's reaction to a recommended product.
type RecommendationFeedback struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ProfileID string    `json:"profileId"`
	ProductID string    `json:"productId"`
	Rating    *int      `json:"rating,omitempty"`
	Feedback  string    `json:"feedback,omitempty"`
	Purchased bool      `json:"purchased"`
	CreatedAt time.Time `json:"createdAt"`
}
