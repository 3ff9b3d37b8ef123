// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/lumiskin/internal/ingredients"
)

// CheckIngredientsRequest is the body of POST /api/ingredients/check.
type CheckIngredientsRequest struct {
	Ingredients []string `json:"ingredients"`
}

// CheckIngredients looks every submitted ingredient up in the dictionary.
//
// @Summary Check ingredients
// @Tags ingredients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CheckIngredientsRequest true "Ingredient names"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /ingredients/check [post]
func (h *Handler) CheckIngredients(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req CheckIngredientsRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Ingredients) == 0 {
		respondError(w, http.StatusBadRequest, codeValidation, "ingredients must be a non-empty array", nil)
		return
	}

	respondMessage(w, http.StatusOK, "Ingredient check result", map[string]interface{}{
		"analysis": ingredients.Check(req.Ingredients),
	}, start)
}

// IngredientInfo returns one dictionary entry.
//
// @Summary Ingredient details
// @Tags ingredients
// @Produce json
// @Security BearerAuth
// @Param ingredient path string true "Ingredient name"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /ingredients/info/{ingredient} [get]
func (h *Handler) IngredientInfo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	entry, err := ingredients.Info(strings.TrimSpace(chi.URLParam(r, "ingredient")))
	if err != nil {
		respondError(w, http.StatusNotFound, codeNotFound, "Ingredient not found", nil)
		return
	}

	respondSuccess(w, http.StatusOK, entry, start)
}

// SearchIngredients searches names and descriptions.
//
// @Summary Search ingredients
// @Tags ingredients
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search term"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /ingredients/search [get]
func (h *Handler) SearchIngredients(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	results, err := ingredients.Search(strings.TrimSpace(r.URL.Query().Get("q")))
	if err != nil {
		if errors.Is(err, ingredients.ErrEmptyQuery) {
			respondError(w, http.StatusBadRequest, codeValidation, "Query parameter q is required", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to search ingredients", err)
		return
	}

	respondMessage(w, http.StatusOK, "Search results", map[string]interface{}{
		"results": results,
	}, start)
}
