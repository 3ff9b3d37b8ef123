// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

// Package validation provides struct validation using go-playground/validator v10.
// It provides a thread-safe singleton validator instance with custom validators
// for the skin profile, catalog and routine enums.
//
// Features:
//   - Singleton validator instance (thread-safe, caches struct info)
//   - Custom tags: skintype, skinconcern, budget, category, routinetime, skintone
//   - Field names reported by their json tag ("firstName", not "FirstName")
//   - Error translation to the VALIDATION_ERROR response format
//
// Example usage:
//
//	type CompleteProfileRequest struct {
//	    SkinType     string   `json:"skinType" validate:"omitempty,skintype"`
//	    SkinConcerns []string `json:"skinConcerns" validate:"omitempty,dive,skinconcern"`
//	    Budget       string   `json:"budget" validate:"omitempty,budget"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
