// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package recommend

import (
	"testing"

	"github.com/tomtom215/lumiskin/internal/models"
)

func TestScore(t *testing.T) {
	t.Parallel()

	premium := models.Product{
		RecommendationScore:   50,
		Rating:                models.Rating{Average: 4.5, Count: 120},
		SkinConcernTargets:    []string{"acne", "pores"},
		SkinTypeCompatibility: []string{"oily", "combination"},
		Budget:                "low",
		Price:                 models.Price{Amount: 10, Size: "30ml"},
	}

	tests := []struct {
		name     string
		product  models.Product
		concerns []string
		skinType string
		budget   string
		want     int
	}{
		{"clamped to 100", premium, []string{"acne"}, "oily", "low", 100},
		{"partial concern and adjacent budget", premium, []string{"acne", "aging"}, "dry", "medium", 70},
		{"no concerns gives no concern points", models.Product{Budget: "luxury"}, nil, "", "low", 5},
		{"unknown product budget is adjacent to low", models.Product{}, nil, "", "low", 10},
		{"half rounds up", models.Product{RecommendationScore: 5, Budget: "luxury"}, nil, "", "low", 7},
		{"above price range", models.Product{Budget: "low", Price: models.Price{Amount: 30, Size: "30ml"}}, nil, "", "luxury", 3},
		{"below price range", models.Product{Budget: "medium", Price: models.Price{Amount: 3, Size: "30ml"}}, nil, "", "luxury", 8},
		{"size without digits is neutral", models.Product{Budget: "luxury", Price: models.Price{Amount: 30, Size: "one jar"}}, nil, "", "low", 5},
		{"zero size scores above range", models.Product{Budget: "luxury", Price: models.Price{Amount: 30, Size: "0ml"}}, nil, "", "low", 3},
		{"free zero size is neutral", models.Product{Budget: "luxury", Price: models.Price{Size: "0ml"}}, nil, "", "low", 5},
		{"popularity over 50", models.Product{Budget: "luxury", Rating: models.Rating{Count: 51}}, nil, "", "low", 8},
		{"popularity over 10", models.Product{Budget: "luxury", Rating: models.Rating{Count: 11}}, nil, "", "low", 6},
		{"popularity at 10", models.Product{Budget: "luxury", Rating: models.Rating{Count: 10}}, nil, "", "low", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Score(&tt.product, tt.concerns, tt.skinType, tt.budget)
			if got != tt.want {
				t.Errorf("Expected score %d, got %d", tt.want, got)
			}
		})
	}
}

func TestBudgetDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"low", "low", 0},
		{"low", "medium", 1},
		{"luxury", "low", 3},
		{"", "low", 1},
		{"", "medium", 2},
	}

	for _, tt := range tests {
		if got := budgetDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("budgetDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMatchesFilters(t *testing.T) {
	t.Parallel()

	p := &models.Product{SkinTypeCompatibility: []string{"oily"}, Budget: "low"}

	tests := []struct {
		name     string
		skinType string
		budget   string
		want     bool
	}{
		{"no filters", "", "", true},
		{"normal skin does not narrow", "normal", "", true},
		{"medium budget does not narrow", "", "medium", true},
		{"compatible skin", "oily", "low", true},
		{"incompatible skin", "dry", "", false},
		{"other budget", "", "high", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := matchesFilters(p, tt.skinType, tt.budget); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestHasAllergen(t *testing.T) {
	t.Parallel()

	p := &models.Product{Ingredients: []models.ProductIngredient{{Name: "Benzoyl Peroxide"}, {Name: "Glycerin"}}}

	if !hasAllergen(p, []string{"PEROXIDE"}) {
		t.Error("Expected case-insensitive allergen match")
	}
	if hasAllergen(p, []string{"fragrance"}) {
		t.Error("Expected no allergen match")
	}
	if hasAllergen(p, nil) {
		t.Error("Expected no match without allergies")
	}
}
