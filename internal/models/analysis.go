// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package models

import (
	"time"

	"github.com/tomtom215/lumiskin/internal/severity"
)

// Skin tone classifications returned by the image model.
var SkinTones = []string{"very-fair", "fair", "medium", "olive", "dark", "very-dark"}

// IsValidSkinTone reports whether s is a known skin tone classification.
func IsValidSkinTone(s string) bool { return contains(SkinTones, s) }

// ConcernResult is the model's verdict for one concern.
type ConcernResult struct {
	Probability float64 `json:"probability"`
	Severity    string  `json:"severity"`
	Confidence  float64 `json:"confidence"`
}

// SkinToneResult is the model's skin tone classification.
type SkinToneResult struct {
	Classification string  `json:"classification"`
	Confidence     float64 `json:"confidence"`
}

// SkinAnalysisResult is a validated image model response.
type SkinAnalysisResult struct {
	Acne         ConcernResult  `json:"acne"`
	Pores        ConcernResult  `json:"pores"`
	Pigmentation ConcernResult  `json:"pigmentation"`
	SkinTone     SkinToneResult `json:"skinTone"`
	OverallScore float64        `json:"overallScore"`
}

// Probabilities returns the concern probabilities keyed by concern name.
func (r *SkinAnalysisResult) Probabilities() map[string]float64 {
	return map[string]float64{
		ConcernAcne:         r.Acne.Probability,
		ConcernPores:        r.Pores.Probability,
		ConcernPigmentation: r.Pigmentation.Probability,
	}
}

// SkinProfile summarises an analysis for routine generation.
type SkinProfile struct {
	SkinType          string `json:"skin_type"`
	Acne              string `json:"acne"`
	Hyperpigmentation bool   `json:"hyperpigmentation"`
	Wrinkles          bool   `json:"wrinkles"`
	SkinTone          string `json:"skin_tone"`
}

// Analysis is a stored image analysis.
type Analysis struct {
	ID              string             `json:"id"`
	UserID          string             `json:"userId"`
	Filename        string             `json:"filename"`
	ContentType     string             `json:"contentType"`
	Size            int64              `json:"size"`
	AnalysisType    string             `json:"analysisType,omitempty"`
	Results         SkinAnalysisResult `json:"results"`
	SkinProfile     SkinProfile        `json:"skin_profile"`
	OverallSeverity severity.Overall   `json:"overallSeverity"`
	CreatedAt       time.Time          `json:"createdAt"`
}
