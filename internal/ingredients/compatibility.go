// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package ingredients

import "strings"

type incompatibility struct {
	tokens         []string
	issue          string
	recommendation string
}

var incompatibilities = []incompatibility{
	{
		tokens:         []string{"Vitamin C", "Retinoids"},
		issue:          "Can cause irritation when used together",
		recommendation: "Use Vitamin C in morning, Retinoids in evening",
	},
	{
		tokens:         []string{"Benzoyl Peroxide", "Retinoids"},
		issue:          "Can reduce effectiveness of both ingredients",
		recommendation: "Use on alternate days or different times",
	},
	{
		tokens:         []string{"AHA", "Retinoids"},
		issue:          "Can cause excessive irritation",
		recommendation: "Start with one ingredient, gradually introduce the other",
	},
}

// Compatibility lists the issues found in a set of ingredients.
type Compatibility struct {
	Warnings        []string `json:"warnings"`
	Recommendations []string `json:"recommendations"`
}

// CheckCompatibility reports every rule whose tokens all appear
// (case-sensitively) in at least one of names.
func CheckCompatibility(names []string) Compatibility {
	res := Compatibility{Warnings: []string{}, Recommendations: []string{}}
	for _, rule := range incompatibilities {
		if containsAll(names, rule.tokens) {
			res.Warnings = append(res.Warnings, rule.issue)
			res.Recommendations = append(res.Recommendations, rule.recommendation)
		}
	}
	return res
}

func containsAll(names, tokens []string) bool {
	for _, tok := range tokens {
		found := false
		for _, n := range names {
			if strings.Contains(n, tok) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
