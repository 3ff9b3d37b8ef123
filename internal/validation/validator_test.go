// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package validation

import (
	"strings"
	"testing"
)

// ===================================================================================================
// Singleton Validator Tests
// ===================================================================================================

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}

	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

// ===================================================================================================
// ValidateStruct Tests
// ===================================================================================================

// TestStruct for basic validation tests
type TestStruct struct {
	Name   string `validate:"required,min=1,max=100"`
	Email  string `validate:"omitempty,email"`
	Limit  int    `validate:"min=1,max=1000"`
	Offset int    `validate:"min=0,max=1000000"`
}

// profileStruct mirrors the profile completion request.
type profileStruct struct {
	FirstName    string   `json:"firstName" validate:"required"`
	SkinType     string   `json:"skinType" validate:"omitempty,skintype"`
	SkinConcerns []string `json:"skinConcerns" validate:"omitempty,dive,skinconcern"`
	Budget       string   `json:"budget" validate:"omitempty,budget"`
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input TestStruct
	}{
		{"all valid fields", TestStruct{Name: "Jane Doe", Email: "jane@example.com", Limit: 100}},
		{"minimum values", TestStruct{Name: "A", Limit: 1}},
		{"maximum values", TestStruct{Name: "A", Limit: 1000, Offset: 1000000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(&tt.input); err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     TestStruct
		wantField string
		wantTag   string
	}{
		{"missing name", TestStruct{Limit: 1}, "Name", "required"},
		{"bad email", TestStruct{Name: "A", Email: "not-an-email", Limit: 1}, "Email", "email"},
		{"limit below min", TestStruct{Name: "A"}, "Limit", "min"},
		{"offset above max", TestStruct{Name: "A", Limit: 1, Offset: 1000001}, "Offset", "max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("Expected 1 error, got %d: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Expected field %s, got %s", tt.wantField, errs[0].Field())
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Expected tag %s, got %s", tt.wantTag, errs[0].Tag())
			}
		})
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	input := TestStruct{Limit: 100}

	err := ValidateStruct(&input)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %s", apiErr.Code)
	}
	if apiErr.Message != "Name is required" {
		t.Errorf("Expected message 'Name is required', got %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "Name" {
		t.Errorf("Expected details field Name, got %v", apiErr.Details["field"])
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	input := TestStruct{Limit: 0, Offset: -1}

	err := ValidateStruct(&input)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %s", apiErr.Code)
	}

	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("Expected details to contain 'fields', got %T", apiErr.Details["fields"])
	}
	if len(fields) != 3 {
		t.Errorf("Expected 3 field errors, got %d", len(fields))
	}
}

// ===================================================================================================
// Custom Validator Tests
// ===================================================================================================

func TestProfileValidators(t *testing.T) {
	tests := []struct {
		name      string
		input     profileStruct
		wantField string
	}{
		{"valid profile", profileStruct{FirstName: "Jane", SkinType: "oily", SkinConcerns: []string{"acne", "aging"}, Budget: "luxury"}, ""},
		{"empty optionals", profileStruct{FirstName: "Jane"}, ""},
		{"unknown skin type", profileStruct{FirstName: "Jane", SkinType: "scaly"}, "skinType"},
		{"unknown concern", profileStruct{FirstName: "Jane", SkinConcerns: []string{"acne", "warts"}}, "skinConcerns[1]"},
		{"unknown budget", profileStruct{FirstName: "Jane", Budget: "free"}, "budget"},
		{"json field name", profileStruct{}, "firstName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if got := err.Errors()[0].Field(); got != tt.wantField {
				t.Errorf("Expected field %s, got %s", tt.wantField, got)
			}
		})
	}
}

type catalogStruct struct {
	Category string `json:"category" validate:"required,category"`
	Time     string `json:"time" validate:"omitempty,routinetime"`
	Tone     string `json:"tone" validate:"omitempty,skintone"`
}

func TestCatalogValidators(t *testing.T) {
	tests := []struct {
		name    string
		input   catalogStruct
		wantErr bool
	}{
		{"serum at night", catalogStruct{Category: "serum", Time: "night", Tone: "olive"}, false},
		{"unknown category", catalogStruct{Category: "perfume"}, true},
		{"afternoon routine", catalogStruct{Category: "toner", Time: "afternoon"}, true},
		{"unknown tone", catalogStruct{Category: "toner", Tone: "green"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	input := profileStruct{FirstName: "Jane", Budget: "free"}

	err := ValidateStruct(&input)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	msg := err.Error()
	if !strings.HasPrefix(msg, "budget must be one of") {
		t.Errorf("Expected budget message, got %s", msg)
	}
}
