// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package ingredients

import (
	"strings"
)

// Ingredient is a recommended active ingredient for a concern.
type Ingredient struct {
	Name                  string   `json:"name"`
	Category              string   `json:"category"`
	Concentration         string   `json:"concentration"`
	Benefits              []string `json:"benefits"`
	Warnings              []string `json:"warnings"`
	SkinTypeCompatibility []string `json:"skinTypeCompatibility"`
	Frequency             string   `json:"frequency"`
	TimeOfDay             string   `json:"timeOfDay"`
}

func (i Ingredient) clone() Ingredient {
	i.Benefits = append([]string(nil), i.Benefits...)
	i.Warnings = append([]string(nil), i.Warnings...)
	i.SkinTypeCompatibility = append([]string(nil), i.SkinTypeCompatibility...)
	return i
}

var all = []string{"all"}

var concernTable = map[string][]Ingredient{
	"acne": {
		{
			Name: "Salicylic Acid", Category: "exfoliant", Concentration: "0.5-2%",
			Benefits:              []string{"unclogs pores", "reduces inflammation", "exfoliates dead skin"},
			Warnings:              []string{"can be drying", "avoid with sensitive skin"},
			SkinTypeCompatibility: []string{"oily", "combination", "normal"},
			Frequency:             "daily", TimeOfDay: "evening",
		},
		{
			Name: "Benzoyl Peroxide", Category: "antibacterial", Concentration: "2.5-5%",
			Benefits:              []string{"kills acne bacteria", "reduces inflammation", "prevents breakouts"},
			Warnings:              []string{"can bleach fabrics", "may cause irritation"},
			SkinTypeCompatibility: []string{"oily", "combination"},
			Frequency:             "daily", TimeOfDay: "evening",
		},
		{
			Name: "Niacinamide", Category: "vitamin", Concentration: "2-5%",
			Benefits:              []string{"reduces oil production", "minimizes pores", "anti-inflammatory"},
			Warnings:              []string{"may cause flushing in high doses"},
			SkinTypeCompatibility: all,
			Frequency:             "daily", TimeOfDay: "both",
		},
	},
	"pores": {
		{
			Name: "Retinoids", Category: "vitamin", Concentration: "0.01-1%",
			Benefits:              []string{"increases cell turnover", "unclogs pores", "improves texture"},
			Warnings:              []string{"causes sun sensitivity", "may cause irritation"},
			SkinTypeCompatibility: all,
			Frequency:             "start 2-3x/week", TimeOfDay: "evening",
		},
		{
			Name: "Clay", Category: "absorbent", Concentration: "varies",
			Benefits:              []string{"absorbs excess oil", "deep cleanses", "tightens pores"},
			Warnings:              []string{"can be drying", "avoid with dry skin"},
			SkinTypeCompatibility: []string{"oily", "combination"},
			Frequency:             "1-2x/week", TimeOfDay: "evening",
		},
		{
			Name: "Alpha Hydroxy Acids (AHA)", Category: "exfoliant", Concentration: "5-10%",
			Benefits:              []string{"exfoliates surface", "improves texture", "reduces pore appearance"},
			Warnings:              []string{"causes sun sensitivity", "may cause irritation"},
			SkinTypeCompatibility: all,
			Frequency:             "2-3x/week", TimeOfDay: "evening",
		},
	},
	"pigmentation": {
		{
			Name: "Vitamin C", Category: "antioxidant", Concentration: "10-20%",
			Benefits:              []string{"brightens skin", "fades dark spots", "protects from free radicals"},
			Warnings:              []string{"unstable in light", "may cause irritation"},
			SkinTypeCompatibility: all,
			Frequency:             "daily", TimeOfDay: "morning",
		},
		{
			Name: "Hydroquinone", Category: "depigmenting", Concentration: "2-4%",
			Benefits:              []string{"fades dark spots", "inhibits melanin production"},
			Warnings:              []string{"prescription required", "may cause irritation"},
			SkinTypeCompatibility: all,
			Frequency:             "daily", TimeOfDay: "evening",
		},
		{
			Name: "Kojic Acid", Category: "depigmenting", Concentration: "1-2%",
			Benefits:              []string{"fades dark spots", "antioxidant properties"},
			Warnings:              []string{"may cause irritation"},
			SkinTypeCompatibility: all,
			Frequency:             "daily", TimeOfDay: "evening",
		},
	},
	"aging": {
		{
			Name: "Retinoids", Category: "vitamin", Concentration: "0.01-1%",
			Benefits:              []string{"increases collagen", "reduces fine lines", "improves texture"},
			Warnings:              []string{"causes sun sensitivity", "may cause irritation"},
			SkinTypeCompatibility: all,
			Frequency:             "start 2-3x/week", TimeOfDay: "evening",
		},
		{
			Name: "Peptides", Category: "protein", Concentration: "varies",
			Benefits:              []string{"stimulates collagen", "reduces fine lines", "improves elasticity"},
			Warnings:              []string{"minimal"},
			SkinTypeCompatibility: all,
			Frequency:             "daily", TimeOfDay: "both",
		},
		{
			Name: "Hyaluronic Acid", Category: "humectant", Concentration: "0.5-2%",
			Benefits:              []string{"hydrates skin", "plumps fine lines", "improves texture"},
			Warnings:              []string{"minimal"},
			SkinTypeCompatibility: all,
			Frequency:             "daily", TimeOfDay: "both",
		},
	},
	"sensitivity": {
		{
			Name: "Ceramides", Category: "lipid", Concentration: "varies",
			Benefits:              []string{"strengthens barrier", "reduces irritation", "locks in moisture"},
			Warnings:              []string{"minimal"},
			SkinTypeCompatibility: all,
			Frequency:             "daily", TimeOfDay: "both",
		},
		{
			Name: "Centella Asiatica", Category: "herbal", Concentration: "varies",
			Benefits:              []string{"soothes irritation", "promotes healing", "anti-inflammatory"},
			Warnings:              []string{"minimal"},
			SkinTypeCompatibility: all,
			Frequency:             "daily", TimeOfDay: "both",
		},
		{
			Name: "Aloe Vera", Category: "herbal", Concentration: "varies",
			Benefits:              []string{"soothes irritation", "hydrates", "anti-inflammatory"},
			Warnings:              []string{"minimal"},
			SkinTypeCompatibility: all,
			Frequency:             "daily", TimeOfDay: "both",
		},
	},
	"dryness": {
		{
			Name: "Hyaluronic Acid", Category: "humectant", Concentration: "0.5-2%",
			Benefits:              []string{"attracts moisture", "hydrates skin", "plumps fine lines"},
			Warnings:              []string{"minimal"},
			SkinTypeCompatibility: all,
			Frequency:             "daily", TimeOfDay: "both",
		},
		{
			Name: "Glycerin", Category: "humectant", Concentration: "5-15%",
			Benefits:              []string{"attracts moisture", "hydrates skin", "improves texture"},
			Warnings:              []string{"minimal"},
			SkinTypeCompatibility: all,
			Frequency:             "daily", TimeOfDay: "both",
		},
		{
			Name: "Squalane", Category: "emollient", Concentration: "varies",
			Benefits:              []string{"locks in moisture", "improves texture", "non-comedogenic"},
			Warnings:              []string{"minimal"},
			SkinTypeCompatibility: all,
			Frequency:             "daily", TimeOfDay: "both",
		},
	},
}

// ForConcern returns the recommended ingredients for concern, or nil for an
// unknown concern. The returned values are copies.
func ForConcern(concern string) []Ingredient {
	src := concernTable[concern]
	if len(src) == 0 {
		return nil
	}
	out := make([]Ingredient, len(src))
	for i, ing := range src {
		out[i] = ing.clone()
	}
	return out
}

// Recommendation is the ingredient advice for a set of concerns.
type Recommendation struct {
	Ingredients []Ingredient            `json:"ingredients"`
	Warnings    []string                `json:"warnings"`
	Categories  map[string][]Ingredient `json:"categories"`
	General     General                 `json:"general"`
}

// RecommendedIngredients collects the ingredients for every concern (duplicates across
// concerns are kept), removes allergens and groups the rest by category.
// skinType only affects the general advice; "" is treated as normal.
func RecommendedIngredients(concerns []string, skinType string, allergies []string) Recommendation {
	if skinType == "" {
		skinType = "normal"
	}

	var list []Ingredient
	for _, c := range concerns {
		list = append(list, ForConcern(c)...)
	}
	list = FilterAllergens(list, allergies)
	if list == nil {
		list = []Ingredient{}
	}

	return Recommendation{
		Ingredients: list,
		Warnings:    []string{},
		Categories:  GroupByCategory(list),
		General:     GeneralAdvice(skinType, concerns),
	}
}

// FilterAllergens drops ingredients whose lowercased name contains any
// lowercased allergy.
func FilterAllergens(list []Ingredient, allergies []string) []Ingredient {
	if len(allergies) == 0 {
		return list
	}
	out := list[:0:0]
	for _, ing := range list {
		if !matchesAllergy(ing.Name, allergies) {
			out = append(out, ing)
		}
	}
	return out
}

func matchesAllergy(name string, allergies []string) bool {
	lower := strings.ToLower(name)
	for _, a := range allergies {
		if strings.Contains(lower, strings.ToLower(a)) {
			return true
		}
	}
	return false
}

// GroupByCategory groups ingredients by category, preserving order.
func GroupByCategory(list []Ingredient) map[string][]Ingredient {
	groups := make(map[string][]Ingredient)
	for _, ing := range list {
		groups[ing.Category] = append(groups[ing.Category], ing)
	}
	return groups
}
