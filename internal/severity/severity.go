// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

// Package severity converts image model probabilities into mild, moderate and
// severe classifications, per concern and overall.
package severity

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Severity levels.
const (
	Mild     = "mild"
	Moderate = "moderate"
	Severe   = "severe"
)

// ErrInvalidProbability is returned for probabilities outside [0, 1] or NaN.
var ErrInvalidProbability = errors.New("probability must be a number between 0 and 1")

// Thresholds are the upper bounds of the mild and moderate bands.
type Thresholds struct {
	Mild     float64 `json:"mild"`
	Moderate float64 `json:"moderate"`
}

var thresholds = map[string]Thresholds{
	"acne":         {Mild: 0.3, Moderate: 0.7},
	"pores":        {Mild: 0.25, Moderate: 0.65},
	"pigmentation": {Mild: 0.35, Moderate: 0.75},
	"general":      {Mild: 0.3, Moderate: 0.7},
}

// ThresholdsFor returns the band limits for concern, falling back to general.
func ThresholdsFor(concern string) Thresholds {
	if t, ok := thresholds[concern]; ok {
		return t
	}
	return thresholds["general"]
}

// Result is the severity of a single concern.
type Result struct {
	Severity    string  `json:"severity"`
	Confidence  float64 `json:"confidence"`
	Probability float64 `json:"probability"`
}

// MapProbability classifies probability p for concern.
func MapProbability(p float64, concern string) (Result, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidProbability, p)
	}

	t := ThresholdsFor(concern)

	var level string
	var conf float64
	switch {
	case p <= t.Mild:
		level = Mild
		conf = confidence(p, 0, t.Mild)
	case p <= t.Moderate:
		level = Moderate
		conf = confidence(p, t.Mild, t.Moderate)
	default:
		level = Severe
		conf = confidence(p, t.Moderate, 1)
	}

	return Result{
		Severity:    level,
		Confidence:  Round2(conf),
		Probability: Round2(p),
	}, nil
}

// confidence is highest at the centre of [lower, upper] and never below 0.5.
func confidence(p, lower, upper float64) float64 {
	position := (p - lower) / (upper - lower)
	return math.Max(0.5, 1-math.Abs(position-0.5))
}

// ConcernWeight returns the weight of concern in the overall assessment.
func ConcernWeight(concern string) float64 {
	switch concern {
	case "acne":
		return 1.2
	case "pores":
		return 0.8
	case "pigmentation":
		return 1.0
	case "skinTone":
		return 0.5
	default:
		return 1.0
	}
}

// Breakdown is the summed concern weight per severity level.
type Breakdown struct {
	Mild     float64 `json:"mild"`
	Moderate float64 `json:"moderate"`
	Severe   float64 `json:"severe"`
}

func (b *Breakdown) add(level string, w float64) {
	switch level {
	case Mild:
		b.Mild += w
	case Moderate:
		b.Moderate += w
	case Severe:
		b.Severe += w
	}
}

func (b *Breakdown) get(level string) float64 {
	switch level {
	case Moderate:
		return b.Moderate
	case Severe:
		return b.Severe
	default:
		return b.Mild
	}
}

// Overall is the weighted assessment across concerns.
type Overall struct {
	Severity   string     `json:"severity"`
	Confidence float64    `json:"confidence"`
	Score      int        `json:"overallScore"`
	Breakdown  *Breakdown `json:"breakdown,omitempty"`
}

// MapOverall combines per-concern probabilities into one assessment.
// Entries with invalid probabilities are skipped. With nothing left the
// result is mild with zero confidence and score.
func MapOverall(probabilities map[string]float64) Overall {
	concerns := make([]string, 0, len(probabilities))
	for c := range probabilities {
		concerns = append(concerns, c)
	}
	// Sorted for a deterministic summation order.
	sort.Strings(concerns)

	var b Breakdown
	total := 0.0
	for _, concern := range concerns {
		r, err := MapProbability(probabilities[concern], concern)
		if err != nil {
			continue
		}
		w := ConcernWeight(concern)
		b.add(r.Severity, w)
		total += w
	}

	if total == 0 {
		return Overall{Severity: Mild}
	}

	level := Mild
	switch {
	case b.Severe/total > 0.4:
		level = Severe
	case b.Moderate/total > 0.3:
		level = Moderate
	}

	score := int(RoundHalfUp((b.Mild*25 + b.Moderate*60 + b.Severe*90) / total))
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}

	return Overall{
		Severity:   level,
		Confidence: Round2(b.get(level) / total),
		Score:      score,
		Breakdown:  &b,
	}
}

// Info describes a severity level with care recommendations.
type Info struct {
	Description     string   `json:"description"`
	Urgency         string   `json:"urgency"`
	Recommendations []string `json:"recommendations"`
}

var baseInfo = map[string]Info{
	Mild: {
		Description:     "Minor skin concern that can be managed with basic care",
		Urgency:         "low",
		Recommendations: []string{"Gentle cleansing", "Basic moisturizing", "Sun protection"},
	},
	Moderate: {
		Description:     "Noticeable skin concern requiring targeted treatment",
		Urgency:         "medium",
		Recommendations: []string{"Targeted treatments", "Regular monitoring", "Professional consultation"},
	},
	Severe: {
		Description:     "Significant skin concern requiring immediate attention",
		Urgency:         "high",
		Recommendations: []string{"Professional consultation", "Medical treatment", "Regular monitoring"},
	},
}

var concernRecommendations = map[string]map[string][]string{
	"acne": {
		Mild:     {"Salicylic acid cleanser", "Non-comedogenic products"},
		Moderate: {"Benzoyl peroxide treatment", "Avoid touching face"},
		Severe:   {"Prescription medications", "Dermatologist consultation"},
	},
	"pores": {
		Mild:     {"Gentle exfoliation", "Oil-free products"},
		Moderate: {"Chemical exfoliants", "Clay masks"},
		Severe:   {"Professional treatments", "Regular deep cleaning"},
	},
	"pigmentation": {
		Mild:     {"Vitamin C serum", "Consistent sun protection"},
		Moderate: {"Retinoids", "Professional treatments"},
		Severe:   {"Medical-grade treatments", "Dermatologist consultation"},
	},
}

// InfoFor returns the description for level with the base recommendations
// followed by the ones specific to concern. Unknown levels use the mild
// description and get no concern-specific additions.
func InfoFor(level, concern string) Info {
	base, ok := baseInfo[level]
	if !ok {
		base = baseInfo[Mild]
	}

	specific := concernRecommendations[concern][level]
	recs := make([]string, 0, len(base.Recommendations)+len(specific))
	recs = append(recs, base.Recommendations...)
	recs = append(recs, specific...)

	return Info{
		Description:     base.Description,
		Urgency:         base.Urgency,
		Recommendations: recs,
	}
}

// IsValidLevel reports whether level is mild, moderate or severe.
func IsValidLevel(level string) bool {
	return level == Mild || level == Moderate || level == Severe
}

// ValidResult reports whether r has a known level and a confidence in [0, 1].
func ValidResult(r Result) bool {
	return IsValidLevel(r.Severity) && r.Confidence >= 0 && r.Confidence <= 1
}

// RoundHalfUp rounds x to the nearest integer, halves toward +Inf.
func RoundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// Round2 rounds x to two decimal places, halves toward +Inf.
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}
