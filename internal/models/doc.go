// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

/*
Package models defines the data structures shared across LumiSkin.

Key Components:

  - User: account and skin profile (skin type, concerns, allergies, budget)
  - Product: catalog entry with ingredients, price and rating
  - Routine, RoutineStep: morning/night skincare routines
  - Progress: tracking entries with optional inline photos
  - Analysis, SkinAnalysisResult: validated image model output
  - RecommendationHistory, RecommendationFeedback
  - ChatMessage
  - APIResponse: standard response wrapper

Enumerations (skin types, concerns, budgets, categories, skin tones) are
exported as slices with IsValid* helpers; the validation package registers
them as struct tags.

Domain JSON uses camelCase keys. SkinProfile keeps snake_case since it is
also the shape exchanged with the ML services.
*/
package models
