// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package severity

import (
	"errors"
	"math"
	"testing"
)

func TestMapProbability(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		p              float64
		concern        string
		wantSeverity   string
		wantConfidence float64
		wantProb       float64
	}{
		{"acne centre of mild band", 0.15, "acne", Mild, 1.0, 0.15},
		{"acne zero", 0, "acne", Mild, 0.5, 0},
		{"acne mild upper bound inclusive", 0.3, "acne", Mild, 0.5, 0.3},
		{"acne centre of moderate band", 0.5, "acne", Moderate, 1.0, 0.5},
		{"acne severe", 0.85, "acne", Severe, 1.0, 0.85},
		{"acne one", 1, "acne", Severe, 0.5, 1},
		{"pores moderate above 0.25", 0.26, "pores", Moderate, 0.53, 0.26},
		{"pigmentation mild at 0.35", 0.35, "pigmentation", Mild, 0.5, 0.35},
		{"unknown concern uses general", 0.71, "redness", Severe, 0.53, 0.71},
		{"probability rounded", 0.123456, "acne", Mild, 0.91, 0.12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := MapProbability(tt.p, tt.concern)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got.Severity != tt.wantSeverity {
				t.Errorf("Expected severity %s, got %s", tt.wantSeverity, got.Severity)
			}
			if math.Abs(got.Confidence-tt.wantConfidence) > 1e-9 {
				t.Errorf("Expected confidence %v, got %v", tt.wantConfidence, got.Confidence)
			}
			if math.Abs(got.Probability-tt.wantProb) > 1e-9 {
				t.Errorf("Expected probability %v, got %v", tt.wantProb, got.Probability)
			}
		})
	}
}

func TestMapProbability_Invalid(t *testing.T) {
	t.Parallel()

	for _, p := range []float64{-0.01, 1.01, math.NaN(), math.Inf(1)} {
		if _, err := MapProbability(p, "acne"); !errors.Is(err, ErrInvalidProbability) {
			t.Errorf("Expected ErrInvalidProbability for %v, got %v", p, err)
		}
	}
}

func TestMapOverall(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		input          map[string]float64
		wantSeverity   string
		wantScore      int
		wantConfidence float64
		wantBreakdown  bool
	}{
		{"empty", map[string]float64{}, Mild, 0, 0, false},
		{"only invalid", map[string]float64{"acne": 2}, Mild, 0, 0, false},
		{"all mild", map[string]float64{"acne": 0.1, "pores": 0.1}, Mild, 25, 1, true},
		{"single moderate", map[string]float64{"acne": 0.5}, Moderate, 60, 1, true},
		{"all severe", map[string]float64{"acne": 0.9, "pigmentation": 0.9}, Severe, 90, 1, true},
		{"severe share above 0.4", map[string]float64{"acne": 0.9, "pores": 0.1}, Severe, 64, 0.6, true},
		{"skin tone weight", map[string]float64{"skinTone": 0.5}, Moderate, 60, 1, true},
		{"invalid entry skipped", map[string]float64{"acne": 0.1, "pores": -1}, Mild, 25, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := MapOverall(tt.input)
			if got.Severity != tt.wantSeverity {
				t.Errorf("Expected severity %s, got %s", tt.wantSeverity, got.Severity)
			}
			if got.Score != tt.wantScore {
				t.Errorf("Expected score %d, got %d", tt.wantScore, got.Score)
			}
			if math.Abs(got.Confidence-tt.wantConfidence) > 1e-9 {
				t.Errorf("Expected confidence %v, got %v", tt.wantConfidence, got.Confidence)
			}
			if (got.Breakdown != nil) != tt.wantBreakdown {
				t.Errorf("Expected breakdown present=%v, got %+v", tt.wantBreakdown, got.Breakdown)
			}
		})
	}
}

func TestMapOverall_BreakdownWeights(t *testing.T) {
	t.Parallel()

	got := MapOverall(map[string]float64{"acne": 0.9, "pores": 0.1, "pigmentation": 0.5})
	if got.Breakdown == nil {
		t.Fatal("Expected breakdown")
	}
	if math.Abs(got.Breakdown.Severe-1.2) > 1e-9 {
		t.Errorf("Expected severe weight 1.2, got %v", got.Breakdown.Severe)
	}
	if math.Abs(got.Breakdown.Mild-0.8) > 1e-9 {
		t.Errorf("Expected mild weight 0.8, got %v", got.Breakdown.Mild)
	}
	if math.Abs(got.Breakdown.Moderate-1.0) > 1e-9 {
		t.Errorf("Expected moderate weight 1.0, got %v", got.Breakdown.Moderate)
	}
}

func TestInfoFor(t *testing.T) {
	t.Parallel()

	info := InfoFor(Moderate, "acne")
	if info.Urgency != "medium" {
		t.Errorf("Expected urgency medium, got %s", info.Urgency)
	}
	want := []string{"Targeted treatments", "Regular monitoring", "Professional consultation", "Benzoyl peroxide treatment", "Avoid touching face"}
	if len(info.Recommendations) != len(want) {
		t.Fatalf("Expected %d recommendations, got %v", len(want), info.Recommendations)
	}
	for i := range want {
		if info.Recommendations[i] != want[i] {
			t.Errorf("Recommendation %d: expected %q, got %q", i, want[i], info.Recommendations[i])
		}
	}

	unknown := InfoFor("critical", "acne")
	if unknown.Urgency != "low" || len(unknown.Recommendations) != 3 {
		t.Errorf("Expected mild info without concern additions, got %+v", unknown)
	}

	other := InfoFor(Severe, "redness")
	if len(other.Recommendations) != 3 {
		t.Errorf("Expected only base recommendations for unknown concern, got %v", other.Recommendations)
	}
}

func TestInfoFor_DoesNotShareSlices(t *testing.T) {
	t.Parallel()

	a := InfoFor(Mild, "acne")
	a.Recommendations[0] = "mutated"
	b := InfoFor(Mild, "acne")
	if b.Recommendations[0] != "Gentle cleansing" {
		t.Errorf("Expected fresh slice, got %q", b.Recommendations[0])
	}
}

func TestValidResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		r    Result
		want bool
	}{
		{Result{Severity: Mild, Confidence: 0.5}, true},
		{Result{Severity: Severe, Confidence: 1}, true},
		{Result{Severity: "extreme", Confidence: 0.5}, false},
		{Result{Severity: Moderate, Confidence: 1.5}, false},
		{Result{Severity: Moderate, Confidence: -0.1}, false},
	}

	for _, tt := range tests {
		if got := ValidResult(tt.r); got != tt.want {
			t.Errorf("ValidResult(%+v): expected %v, got %v", tt.r, tt.want, got)
		}
	}
}

func TestRoundHalfUp(t *testing.T) {
	t.Parallel()

	tests := map[float64]float64{0.5: 1, 1.49: 1, 2.5: 3, 64.5: 65, 0: 0}
	for in, want := range tests {
		if got := RoundHalfUp(in); got != want {
			t.Errorf("RoundHalfUp(%v): expected %v, got %v", in, want, got)
		}
	}
}
