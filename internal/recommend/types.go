// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package recommend

import (
	"context"
	"errors"

	"github.com/tomtom215/lumiskin/internal/models"
)

// ErrProductNotFound is returned when a referenced product is not in the catalog.
var ErrProductNotFound = errors.New("product not found")

// Catalog provides the product list the engine scores. Products must be
// returned in a stable catalog order; the engine does not mutate them.
type Catalog interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// Request describes a personalized product recommendation query.
type Request struct {
	// Concerns are the skin concerns to match against product targets.
	Concerns []string

	// SkinType filters candidates unless empty or "normal".
	SkinType string

	// Budget filters candidates unless empty or "medium".
	Budget string

	// Allergies remove products with a matching ingredient.
	Allergies []string

	// Limit is the number of products to return (0 uses the default).
	Limit int
}

// Filters echoes the inputs of a recommendation query.
type Filters struct {
	SkinConcerns []string `json:"skinConcerns"`
	SkinType     string   `json:"skinType"`
	Budget       string   `json:"budget"`
	Allergies    []string `json:"allergies"`
}

// Result is the outcome of a recommendation query. Each product carries its
// computed score in RecommendationScore.
type Result struct {
	Products   []models.Product            `json:"products"`
	Categories map[string][]models.Product `json:"categories"`
	TotalFound int                         `json:"totalFound"`
	Filters    Filters                     `json:"filters"`
}

// Query narrows the plain catalog listings.
type Query struct {
	SkinType string
	Budget   string
	Limit    int
}

// Stats holds engine counters.
type Stats struct {
	Requests     int64 `json:"requests"`
	CacheHits    int64 `json:"cache_hits"`
	CacheMisses  int64 `json:"cache_misses"`
	Errors       int64 `json:"errors"`
	CacheEntries int   `json:"cache_entries"`
}
