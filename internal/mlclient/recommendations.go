// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package mlclient

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
)

// DefaultMaxProducts is used when a recommendation request names no limit.
const DefaultMaxProducts = 5

// RecommendationRequest is the body of POST /recommendations.
type RecommendationRequest struct {
	SkinAnalysis    json.RawMessage `json:"skin_analysis"`
	UserPreferences json.RawMessage `json:"user_preferences"`
	MaxProducts     int             `json:"max_products"`
}

// Recommendations forwards a personalised recommendation request and
// returns the service's JSON answer unchanged.
func (c *Client) Recommendations(ctx context.Context, r RecommendationRequest) (json.RawMessage, error) {
	if r.MaxProducts <= 0 {
		r.MaxProducts = DefaultMaxProducts
	}
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode recommendation request: %w", err)
	}

	body, err := c.call(ctx, "recommendations", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.cfg.RecommendationsURL+"/recommendations", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	return jsonBody(body)
}

// ProfileRecommendations fetches stored recommendations for a profile.
func (c *Client) ProfileRecommendations(ctx context.Context, profileID string, maxProducts int) (json.RawMessage, error) {
	if maxProducts <= 0 {
		maxProducts = DefaultMaxProducts
	}
	u := c.cfg.RecommendationsURL + "/recommendations/" + url.PathEscape(profileID) +
		"?max_products=" + strconv.Itoa(maxProducts)

	body, err := c.call(ctx, "profile_recommendations", func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	})
	if err != nil {
		return nil, err
	}
	return jsonBody(body)
}

func jsonBody(body []byte) (json.RawMessage, error) {
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: body is not JSON", ErrInvalidResponse)
	}
	return json.RawMessage(body), nil
}
