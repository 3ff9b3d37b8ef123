// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

/*
Package ingredients maps skin concerns to active ingredients and holds the
static ingredient dictionary.

The package is pure data and functions; every call returns freshly allocated
slices so callers may modify results without affecting later calls.

Concern mapping:

	rec := ingredients.RecommendedIngredients([]string{"acne"}, "oily", []string{"peroxide"})
	// rec.Ingredients: Salicylic Acid, Niacinamide (Benzoyl Peroxide removed)
	// rec.Categories["exfoliant"]: Salicylic Acid

Interaction rules:

	c := ingredients.CheckCompatibility([]string{"Vitamin C Serum", "Retinoids"})
	// c.Warnings: ["Can cause irritation when used together"]

Dictionary lookups are case-insensitive on input and return lowercase names.
*/
package ingredients
