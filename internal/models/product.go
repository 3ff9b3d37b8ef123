// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package models

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Product categories.
var ProductCategories = []string{
	"cleanser", "toner", "serum", "moisturizer", "sunscreen", "treatment", "mask", "exfoliant",
}

// IsValidCategory reports whether s is a known product category.
func IsValidCategory(s string) bool { return contains(ProductCategories, s) }

// ProductIngredient is one ingredient line on a product.
type ProductIngredient struct {
	Name          string   `json:"name"`
	Concentration string   `json:"concentration,omitempty"`
	IsActive      bool     `json:"isActive"`
	Benefits      []string `json:"benefits,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Price holds a product's price and pack size ("30ml", "1.7 oz").
type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Size     string  `json:"size,omitempty"`
}

// Rating is the aggregate customer rating.
type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Product is a catalog entry.
type Product struct {
	ID                    string              `json:"id"`
	Name                  string              `json:"name"`
	Brand                 string              `json:"brand"`
	Category              string              `json:"category"`
	Description           string              `json:"description,omitempty"`
	Ingredients           []ProductIngredient `json:"ingredients"`
	SkinTypeCompatibility []string            `json:"skinTypeCompatibility"`
	SkinConcernTargets    []string            `json:"skinConcernTargets"`
	Price                 Price               `json:"price"`
	Budget                string              `json:"budget"`
	Rating                Rating              `json:"rating"`
	ImageURL              string              `json:"imageUrl,omitempty"`
	PurchaseURL           string              `json:"purchaseUrl,omitempty"`
	IsActive              bool                `json:"isActive"`
	IsRecommended         bool                `json:"isRecommended"`
	RecommendationScore   float64             `json:"recommendationScore"`
	CreatedAt             time.Time           `json:"createdAt"`
	UpdatedAt             time.Time           `json:"updatedAt"`
}

// ContainsIngredient reports whether an active ingredient's name contains
// name, case-insensitively.
func (p *Product) ContainsIngredient(name string) bool {
	needle := strings.ToLower(name)
	for _, ing := range p.Ingredients {
		if ing.IsActive && strings.Contains(strings.ToLower(ing.Name), needle) {
			return true
		}
	}
	return false
}

// ActiveIngredients returns the ingredients flagged active.
func (p *Product) ActiveIngredients() []ProductIngredient {
	out := make([]ProductIngredient, 0, len(p.Ingredients))
	for _, ing := range p.Ingredients {
		if ing.IsActive {
			out = append(out, ing)
		}
	}
	return out
}

// IsCompatibleWithSkinType reports whether skinType is in the compatibility list.
func (p *Product) IsCompatibleWithSkinType(skinType string) bool {
	return contains(p.SkinTypeCompatibility, skinType)
}

// TargetsSkinConcern reports whether the product targets concern.
func (p *Product) TargetsSkinConcern(concern string) bool {
	return contains(p.SkinConcernTargets, concern)
}

var sizeDigits = regexp.MustCompile(`(\d+)`)

// PricePerUnit divides the price by the first integer in the size string.
// ok is false when there is no size or no digits. A zero size yields +Inf
// (NaN for a zero price).
func (p *Product) PricePerUnit() (perUnit float64, ok bool) {
	if p.Price.Size == "" {
		return 0, false
	}
	m := sizeDigits.FindString(p.Price.Size)
	if m == "" {
		return 0, false
	}
	size, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return p.Price.Amount / size, true
}
