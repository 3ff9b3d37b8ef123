// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package ingredients

import "slices"

// Cleansing is the cleanser advice for a skin type.
type Cleansing struct {
	Frequency   string   `json:"frequency"`
	Type        string   `json:"type"`
	Ingredients []string `json:"ingredients"`
	Avoid       []string `json:"avoid"`
}

// Moisturizing is the moisturizer advice for a skin type.
type Moisturizing struct {
	Type        string   `json:"type"`
	Ingredients []string `json:"ingredients"`
	Avoid       []string `json:"avoid"`
}

// SunProtection is the sunscreen advice.
type SunProtection struct {
	SPF           string   `json:"spf"`
	Type          string   `json:"type"`
	Ingredients   []string `json:"ingredients"`
	Reapplication string   `json:"reapplication"`
	Notes         string   `json:"notes"`
}

// Lifestyle holds habit suggestions grouped by theme.
type Lifestyle struct {
	Diet        []string `json:"diet"`
	Sleep       []string `json:"sleep"`
	Stress      []string `json:"stress"`
	Environment []string `json:"environment"`
}

// General bundles the non-ingredient advice.
type General struct {
	Cleansing     Cleansing     `json:"cleansing"`
	Moisturizing  Moisturizing  `json:"moisturizing"`
	SunProtection SunProtection `json:"sunProtection"`
	Lifestyle     Lifestyle     `json:"lifestyle"`
}

var cleansingTable = map[string]Cleansing{
	"oily": {
		Frequency: "twice daily", Type: "gentle foaming cleanser",
		Ingredients: []string{"salicylic acid", "niacinamide"},
		Avoid:       []string{"harsh scrubs", "alcohol-based cleansers"},
	},
	"dry": {
		Frequency: "once daily", Type: "cream or oil cleanser",
		Ingredients: []string{"ceramides", "hyaluronic acid"},
		Avoid:       []string{"foaming cleansers", "hot water"},
	},
	"combination": {
		Frequency: "twice daily", Type: "gentle gel cleanser",
		Ingredients: []string{"niacinamide", "glycerin"},
		Avoid:       []string{"harsh scrubs"},
	},
	"sensitive": {
		Frequency: "once daily", Type: "fragrance-free cream cleanser",
		Ingredients: []string{"ceramides", "centella asiatica"},
		Avoid:       []string{"fragrance", "essential oils", "hot water"},
	},
	"normal": {
		Frequency: "twice daily", Type: "gentle cleanser",
		Ingredients: []string{"glycerin", "niacinamide"},
		Avoid:       []string{"harsh scrubs"},
	},
}

var moisturizingTable = map[string]Moisturizing{
	"oily": {
		Type:        "lightweight gel or lotion",
		Ingredients: []string{"niacinamide", "hyaluronic acid"},
		Avoid:       []string{"heavy creams", "mineral oil"},
	},
	"dry": {
		Type:        "rich cream or balm",
		Ingredients: []string{"ceramides", "squalane", "hyaluronic acid"},
		Avoid:       []string{"alcohol", "fragrance"},
	},
	"combination": {
		Type:        "lightweight lotion",
		Ingredients: []string{"niacinamide", "hyaluronic acid"},
		Avoid:       []string{"heavy creams"},
	},
	"sensitive": {
		Type:        "fragrance-free cream",
		Ingredients: []string{"ceramides", "centella asiatica"},
		Avoid:       []string{"fragrance", "essential oils"},
	},
	"normal": {
		Type:        "lightweight lotion",
		Ingredients: []string{"hyaluronic acid", "glycerin"},
		Avoid:       []string{"heavy creams"},
	},
}

// GeneralAdvice builds cleansing, moisturizing, sun protection and lifestyle
// advice. Unknown skin types fall back to normal.
func GeneralAdvice(skinType string, concerns []string) General {
	return General{
		Cleansing:     cleansingFor(skinType),
		Moisturizing:  moisturizingFor(skinType),
		SunProtection: sunProtectionFor(skinType, concerns),
		Lifestyle:     lifestyleFor(concerns),
	}
}

func cleansingFor(skinType string) Cleansing {
	c, ok := cleansingTable[skinType]
	if !ok {
		c = cleansingTable["normal"]
	}
	c.Ingredients = slices.Clone(c.Ingredients)
	c.Avoid = slices.Clone(c.Avoid)
	return c
}

func moisturizingFor(skinType string) Moisturizing {
	m, ok := moisturizingTable[skinType]
	if !ok {
		m = moisturizingTable["normal"]
	}
	m.Ingredients = slices.Clone(m.Ingredients)
	m.Avoid = slices.Clone(m.Avoid)
	return m
}

func sunProtectionFor(skinType string, concerns []string) SunProtection {
	spf := "SPF 30+"
	if slices.Contains(concerns, "pigmentation") {
		spf = "SPF 50+"
	}
	kind := "lightweight lotion"
	if skinType == "oily" {
		kind = "oil-free gel"
	}
	return SunProtection{
		SPF:           spf,
		Type:          kind,
		Ingredients:   []string{"zinc oxide", "titanium dioxide"},
		Reapplication: "every 2 hours",
		Notes:         "Apply 15 minutes before sun exposure",
	}
}

func lifestyleFor(concerns []string) Lifestyle {
	l := Lifestyle{
		Diet:        []string{"Stay hydrated", "Eat antioxidant-rich foods", "Limit dairy if acne-prone"},
		Sleep:       []string{"Get 7-9 hours of sleep", "Sleep on clean pillowcases"},
		Stress:      []string{"Practice stress management", "Exercise regularly"},
		Environment: []string{"Avoid touching face", "Clean phone regularly", "Use humidifier in dry climates"},
	}
	if slices.Contains(concerns, "acne") {
		l.Diet = append(l.Diet, "Limit high-glycemic foods")
		l.Environment = append(l.Environment, "Change pillowcases weekly")
	}
	if slices.Contains(concerns, "pigmentation") {
		l.Environment = append(l.Environment, "Wear wide-brimmed hats", "Seek shade during peak hours")
	}
	return l
}
