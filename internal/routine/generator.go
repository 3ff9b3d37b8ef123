// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

// Package routine derives a skincare routine from an analysis skin profile.
package routine

import (
	"github.com/tomtom215/lumiskin/internal/models"
	"github.com/tomtom215/lumiskin/internal/severity"
)

// GeneratedName is the name given to generated routines.
const GeneratedName = "Auto-generated routine"

// baseSteps holds the cleanser, moisturizer and sunscreen for each skin type.
var baseSteps = map[string][3]string{
	"oily":      {"Gel-based cleanser", "Oil-free moisturizer", "Sunscreen SPF 50"},
	"dry":       {"Hydrating cleanser", "Thick moisturizer", "Sunscreen SPF 30"},
	"sensitive": {"Gentle cleanser", "Fragrance-free moisturizer", "Mineral sunscreen"},
}

var defaultBase = [3]string{"Foam cleanser", "Light moisturizer", "Sunscreen SPF 40"}

// Steps builds the ordered steps for a skin profile.
func Steps(profile models.SkinProfile) []models.RoutineStep {
	r := &models.Routine{}

	base, ok := baseSteps[profile.SkinType]
	if !ok {
		base = defaultBase
	}
	for _, product := range base {
		r.AddStep(product, models.RoutineMorning)
	}

	switch profile.Acne {
	case severity.Mild, severity.Moderate:
		r.AddStep("Salicylic acid toner", models.RoutineMorning)
	case severity.Severe:
		r.AddStep("Consult dermatologist for treatment", models.RoutineMorning)
	}

	if profile.Hyperpigmentation {
		r.AddStep("Vitamin C serum", models.RoutineMorning)
	}
	if profile.Wrinkles {
		r.AddStep("Retinol (night use)", models.RoutineNight)
	}

	return r.Steps
}

// Generate returns an unsaved routine for userID built from profile.
func Generate(userID string, profile models.SkinProfile) *models.Routine {
	return &models.Routine{
		UserID: userID,
		Name:   GeneratedName,
		Steps:  Steps(profile),
	}
}
