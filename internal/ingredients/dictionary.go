// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package ingredients

import (
	"errors"
	"sort"
	"strings"
)

// ErrNotFound is returned when an ingredient is not in the dictionary.
var ErrNotFound = errors.New("ingredient not found")

// ErrEmptyQuery is returned by Search for a blank query.
var ErrEmptyQuery = errors.New("query is required")

// Entry describes a dictionary ingredient.
type Entry struct {
	Ingredient  string `json:"ingredient"`
	Category    string `json:"category"`
	Harmful     bool   `json:"harmful"`
	Description string `json:"description"`
}

type entryInfo struct {
	category    string
	harmful     bool
	description string
}

var dictionary = map[string]entryInfo{
	"retinol":               {"Vitamin A derivative", false, "Retinol helps reduce wrinkles and improve skin texture."},
	"paraben":               {"Preservative", true, "Parabens may cause skin irritation and have potential hormone disruption effects."},
	"salicylic acid":        {"Beta hydroxy acid", false, "Helps exfoliate and treat acne."},
	"niacinamide":           {"Vitamin B3 derivative", false, "Reduces inflammation, brightens skin, and improves skin barrier function."},
	"hyaluronic acid":       {"Humectant", false, "Hydrates skin by attracting and retaining moisture."},
	"benzoyl peroxide":      {"Anti-acne agent", true, "Kills acne-causing bacteria but may cause dryness or irritation."},
	"glycolic acid":         {"Alpha hydroxy acid", false, "Exfoliates and improves skin texture and tone."},
	"tocopherol":            {"Vitamin E antioxidant", false, "Protects skin cells against oxidative damage."},
	"shea butter":           {"Emollient", false, "Moisturizes and nourishes dry skin."},
	"fragrance":             {"Additive", true, "Can cause skin irritation and allergic reactions."},
	"alcohol denat":         {"Solvent/Preservative", true, "Can dry out and irritate the skin."},
	"zinc oxide":            {"Physical sunscreen agent", false, "Blocks UVA and UVB rays to protect skin from sun damage."},
	"dimethicone":           {"Silicone emollient", false, "Smooths skin surface and locks in moisture."},
	"ceramide":              {"Skin barrier lipid", false, "Helps restore skin barrier and retain moisture."},
	"panthenol":             {"Provitamin B5", false, "Soothes and moisturizes skin."},
	"allantoin":             {"Skin protectant", false, "Promotes wound healing and soothes irritation."},
	"azelaic acid":          {"Anti-inflammatory", false, "Helps reduce redness and treat acne."},
	"squalane":              {"Emollient", false, "Softens skin and reduces moisture loss."},
	"caffeine":              {"Stimulant", false, "Reduces puffiness and inflammation."},
	"green tea extract":     {"Antioxidant", false, "Protects skin from free radical damage."},
	"licorice root extract": {"Skin brightener", false, "Helps reduce hyperpigmentation."},
}

// CheckResult is the dictionary verdict for one submitted ingredient.
// Harmful is nil when the ingredient is unknown.
type CheckResult struct {
	Ingredient  string `json:"ingredient"`
	Found       bool   `json:"found"`
	Harmful     *bool  `json:"harmful"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// Check looks up every ingredient, keeping the caller's spelling.
func Check(list []string) []CheckResult {
	out := make([]CheckResult, 0, len(list))
	for _, name := range list {
		res := CheckResult{
			Ingredient:  name,
			Category:    "Unknown",
			Description: "No information available",
		}
		if info, ok := dictionary[strings.ToLower(name)]; ok {
			harmful := info.harmful
			res.Found = true
			res.Harmful = &harmful
			res.Category = info.category
			res.Description = info.description
		}
		out = append(out, res)
	}
	return out
}

// Info returns the dictionary entry for name.
func Info(name string) (Entry, error) {
	key := strings.ToLower(name)
	info, ok := dictionary[key]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return info.entry(key), nil
}

// Search returns the entries whose name or description contains q,
// ignoring case, sorted by name.
func Search(q string) ([]Entry, error) {
	q = strings.ToLower(q)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	results := []Entry{}
	for name, info := range dictionary {
		if strings.Contains(name, q) || strings.Contains(strings.ToLower(info.description), q) {
			results = append(results, info.entry(name))
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Ingredient < results[j].Ingredient
	})
	return results, nil
}

// Size returns the number of dictionary entries.
func Size() int {
	return len(dictionary)
}

func (e entryInfo) entry(name string) Entry {
	return Entry{
		Ingredient:  name,
		Category:    e.category,
		Harmful:     e.harmful,
		Description: e.description,
	}
}
