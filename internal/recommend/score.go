// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package recommend

import (
	"math"
	"strings"

	"github.com/tomtom215/lumiskin/internal/models"
	"github.com/tomtom215/lumiskin/internal/severity"
)

// Score weights. The total is clamped to 0..100.
const (
	storedScoreWeight   = 0.3
	ratingPoints        = 25.0
	concernPoints       = 25.0
	skinTypePoints      = 15.0
	sameBudgetPoints    = 10.0
	nearBudgetPoints    = 5.0
	neutralPricePoints  = 5.0
	inRangePricePoints  = 10.0
	belowRangePoints    = 8.0
	aboveRangePoints    = 3.0
	maxRating           = 5.0
	maxScore            = 100
	popularityTopCount  = 100
	popularityMidCount  = 50
	popularityLowCount  = 10
	popularityTopPoints = 5.0
	popularityMidPoints = 3.0
	popularityLowPoints = 1.0
)

type priceRange struct {
	min, max float64
}

// Expected price per unit for each budget tier.
var priceRanges = map[string]priceRange{
	models.BudgetLow:    {0, 0.5},
	models.BudgetMedium: {0.3, 1.5},
	models.BudgetHigh:   {1.0, 3.0},
	models.BudgetLuxury: {2.0, 10.0},
}

// Score computes the personalized score of p for a user. The stored
// recommendation score of p contributes 30%.
func Score(p *models.Product, concerns []string, skinType, budget string) int {
	score := p.RecommendationScore * storedScoreWeight
	score += p.Rating.Average / maxRating * ratingPoints

	if len(concerns) > 0 {
		matches := 0
		for _, c := range concerns {
			if p.TargetsSkinConcern(c) {
				matches++
			}
		}
		score += float64(matches) / float64(len(concerns)) * concernPoints
	}

	if p.IsCompatibleWithSkinType(skinType) {
		score += skinTypePoints
	}

	if p.Budget == budget {
		score += sameBudgetPoints
	} else if budgetDistance(p.Budget, budget) == 1 {
		score += nearBudgetPoints
	}

	score += priceEfficiency(p)
	score += popularity(p.Rating.Count)

	rounded := int(severity.RoundHalfUp(score))
	return min(maxScore, max(0, rounded))
}

// budgetDistance is the distance between two tiers in the budget order.
// Unknown tiers sit at index -1.
func budgetDistance(a, b string) int {
	d := models.BudgetIndex(a) - models.BudgetIndex(b)
	if d < 0 {
		return -d
	}
	return d
}

func priceEfficiency(p *models.Product) float64 {
	perUnit, ok := p.PricePerUnit()
	if !ok || perUnit == 0 || math.IsNaN(perUnit) {
		return neutralPricePoints
	}

	r, known := priceRanges[p.Budget]
	if !known {
		return neutralPricePoints
	}

	switch {
	case perUnit >= r.min && perUnit <= r.max:
		return inRangePricePoints
	case perUnit < r.min:
		return belowRangePoints
	default:
		return aboveRangePoints
	}
}

func popularity(count int) float64 {
	switch {
	case count > popularityTopCount:
		return popularityTopPoints
	case count > popularityMidCount:
		return popularityMidPoints
	case count > popularityLowCount:
		return popularityLowPoints
	default:
		return 0
	}
}

// hasAllergen reports whether any ingredient name of p contains any allergy,
// ignoring case.
func hasAllergen(p *models.Product, allergies []string) bool {
	for _, ing := range p.Ingredients {
		name := strings.ToLower(ing.Name)
		for _, a := range allergies {
			if strings.Contains(name, strings.ToLower(a)) {
				return true
			}
		}
	}
	return false
}

// matchesFilters applies the skin type and budget candidate filters.
// "normal" skin and "medium" budget do not narrow the catalog.
func matchesFilters(p *models.Product, skinType, budget string) bool {
	if skinType != "" && skinType != models.SkinTypeNormal && !p.IsCompatibleWithSkinType(skinType) {
		return false
	}
	if budget != "" && budget != models.BudgetMedium && p.Budget != budget {
		return false
	}
	return true
}
