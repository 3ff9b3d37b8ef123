// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/lumiskin/internal/ingredients"
	"github.com/tomtom215/lumiskin/internal/logging"
	"github.com/tomtom215/lumiskin/internal/metrics"
	"github.com/tomtom215/lumiskin/internal/mlclient"
	"github.com/tomtom215/lumiskin/internal/models"
	"github.com/tomtom215/lumiskin/internal/recommend"
)

// concernThreshold is the probability above which an analysed concern is
// used for recommendations.
const concernThreshold = 0.3

// maxCatalogLimit caps the limit parameter of catalog listings.
const maxCatalogLimit = 50

// PersonalizedRequest is the body of POST /api/recommendations/personalized.
type PersonalizedRequest struct {
	SkinAnalysis    json.RawMessage `json:"skin_analysis"`
	UserPreferences json.RawMessage `json:"user_preferences"`
	MaxProducts     int             `json:"max_products" validate:"gte=0,lte=50"`
}

// FeedbackRequest is the body of POST /api/recommendations/feedback.
type FeedbackRequest struct {
	ProfileID string `json:"profile_id" validate:"max=64"`
	ProductID string `json:"product_id" validate:"max=100"`
	Rating    *int   `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Feedback  string `json:"feedback" validate:"max=2000"`
	Purchased bool   `json:"purchased"`
}

// ingredientName accepts either "niacinamide" or {"name": "niacinamide"}.
type ingredientName string

func (n *ingredientName) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*n = ingredientName(obj.Name)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*n = ingredientName(s)
	return nil
}

// CompatibilityRequest is the body of POST /api/recommendations/compatibility.
// A missing or null ingredients field is rejected; an empty array is not.
type CompatibilityRequest struct {
	Ingredients *[]ingredientName `json:"ingredients"`
}

func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func productIDs(products []models.Product) []string {
	ids := make([]string, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	return ids
}

// recordHistory stores a history entry. Failures are logged only.
func (h *Handler) recordHistory(ctx context.Context, entry *models.RecommendationHistory) {
	if entry.Products == nil {
		entry.Products = []string{}
	}
	if err := h.store.AddHistory(entry); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("source", entry.Source).Msg("Failed to store recommendation history")
	}
}

func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}

// PersonalizedRecommendations forwards to the ML recommendation service.
//
// @Summary Personalized recommendations from the ML service
// @Tags recommendations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PersonalizedRequest true "Analysis and preferences"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 502 {object} models.APIResponse
// @Router /recommendations/personalized [post]
func (h *Handler) PersonalizedRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req PersonalizedRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if isEmptyJSON(req.SkinAnalysis) || isEmptyJSON(req.UserPreferences) {
		respondError(w, http.StatusBadRequest, codeValidation, "Skin analysis and user preferences are required", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	result, err := h.ml.Recommendations(r.Context(), mlclient.RecommendationRequest{
		SkinAnalysis:    req.SkinAnalysis,
		UserPreferences: req.UserPreferences,
		MaxProducts:     req.MaxProducts,
	})
	if err != nil {
		respondMLError(w, "Failed to get personalized recommendations", err)
		return
	}

	h.recordHistory(r.Context(), &models.RecommendationHistory{
		UserID:  currentUser(r).ID,
		Source:  models.HistorySourcePersonalized,
		Filters: req.UserPreferences,
		Result:  result,
	})

	respondSuccess(w, http.StatusOK, result, start)
}

// RecommendationsByAnalysis recommends products for the concerns found by
// one of the caller's analyses.
//
// @Summary Recommendations for an analysis
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Param analysisId path string true "Analysis ID"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /recommendations/analysis/{analysisId} [get]
func (h *Handler) RecommendationsByAnalysis(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	a, ok := h.loadAnalysis(w, r)
	if !ok {
		return
	}
	user := currentUser(r)

	concerns := []string{}
	for _, c := range []struct {
		name string
		p    float64
	}{
		{models.ConcernAcne, a.Results.Acne.Probability},
		{models.ConcernPores, a.Results.Pores.Probability},
		{models.ConcernPigmentation, a.Results.Pigmentation.Probability},
	} {
		if c.p > concernThreshold {
			concerns = append(concerns, c.name)
		}
	}

	res, err := h.engine.Recommend(r.Context(), recommend.Request{
		Concerns:  concerns,
		SkinType:  user.SkinType,
		Budget:    user.Budget,
		Allergies: user.Allergies,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to get recommendations by analysis", err)
		return
	}
	advice := ingredients.RecommendedIngredients(concerns, user.SkinType, user.Allergies)

	metrics.RecordRecommendation(models.HistorySourceAnalysis, len(res.Products))
	h.recordHistory(r.Context(), &models.RecommendationHistory{
		UserID:    user.ID,
		Source:    models.HistorySourceAnalysis,
		ProfileID: a.ID,
		Filters:   mustJSON(res.Filters),
		Products:  productIDs(res.Products),
	})

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"analysisId":  a.ID,
		"concerns":    concerns,
		"products":    res.Products,
		"categories":  res.Categories,
		"totalFound":  res.TotalFound,
		"ingredients": advice,
	}, start)
}

// IngredientRecommendations returns ingredient advice. Missing parameters
// fall back to the caller's profile.
//
// @Summary Ingredient recommendations
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Param concerns query string false "Comma-separated concerns"
// @Param skin_type query string false "Skin type"
// @Param allergies query string false "Comma-separated allergies"
// @Success 200 {object} models.APIResponse
// @Router /recommendations/ingredients [get]
func (h *Handler) IngredientRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	user := currentUser(r)
	q := r.URL.Query()

	concerns := parseCommaSeparated(q.Get("concerns"))
	if concerns == nil {
		concerns = user.SkinConcerns
	}
	skinType := firstNonEmpty(q.Get("skin_type"), user.SkinType)
	allergies := parseCommaSeparated(q.Get("allergies"))
	if allergies == nil {
		allergies = user.Allergies
	}
	if concerns == nil {
		concerns = []string{}
	}

	advice := ingredients.RecommendedIngredients(concerns, skinType, allergies)

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"concerns":                concerns,
		"recommended_ingredients": advice.Ingredients,
		"categories":              advice.Categories,
		"warnings":                advice.Warnings,
		"avoid_ingredients":       []string{},
		"general_recommendations": advice.General,
	}, start)
}

// ProductRecommendations scores catalog products for the given or profile
// concerns. skin_type and budget fall back to the profile, then to normal
// and medium.
//
// @Summary Product recommendations
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Param concerns query string false "Comma-separated concerns"
// @Param skin_type query string false "Skin type"
// @Param budget query string false "Budget"
// @Param category query string false "Product category"
// @Param limit query int false "Maximum products" default(10)
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /recommendations/products [get]
func (h *Handler) ProductRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	user := currentUser(r)
	q := r.URL.Query()

	concerns := parseCommaSeparated(q.Get("concerns"))
	if concerns == nil {
		concerns = user.SkinConcerns
	}
	skinType := firstNonEmpty(q.Get("skin_type"), user.SkinType, models.SkinTypeNormal)
	budget := firstNonEmpty(q.Get("budget"), user.Budget, models.BudgetMedium)
	category := q.Get("category")
	limit := clamp(getIntParam(r, "limit", 10), 1, maxCatalogLimit)

	switch {
	case !models.IsValidSkinType(skinType):
		respondError(w, http.StatusBadRequest, codeValidation, "skin_type must be one of: "+strings.Join(models.SkinTypes, ", "), nil)
		return
	case !models.IsValidBudget(budget):
		respondError(w, http.StatusBadRequest, codeValidation, "budget must be one of: "+strings.Join(models.BudgetOrder, ", "), nil)
		return
	case category != "" && !models.IsValidCategory(category):
		respondError(w, http.StatusBadRequest, codeValidation, "category must be one of: "+strings.Join(models.ProductCategories, ", "), nil)
		return
	}

	req := recommend.Request{
		Concerns:  concerns,
		SkinType:  skinType,
		Budget:    budget,
		Allergies: user.Allergies,
		Limit:     limit,
	}
	if category != "" {
		// Filter after scoring, so score the whole candidate set.
		req.Limit = h.engine.GetConfig().Limits.MaxLimit
	}

	res, err := h.engine.Recommend(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to get product recommendations", err)
		return
	}

	products := res.Products
	if category != "" {
		filtered := make([]models.Product, 0, limit)
		for _, p := range products {
			if p.Category == category && len(filtered) < limit {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	filters := map[string]interface{}{
		"concerns":  nonNilStrings(parseCommaSeparated(q.Get("concerns"))),
		"skin_type": skinType,
		"budget":    budget,
		"category":  category,
	}

	metrics.RecordRecommendation(models.HistorySourceProducts, len(products))
	h.recordHistory(r.Context(), &models.RecommendationHistory{
		UserID:   user.ID,
		Source:   models.HistorySourceProducts,
		Filters:  mustJSON(filters),
		Products: productIDs(products),
	})

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"filters":  filters,
	}, start)
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// CheckCompatibility reports known conflicts between ingredients.
//
// @Summary Check ingredient compatibility
// @Tags recommendations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CompatibilityRequest true "Ingredients (strings or {name})"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /recommendations/compatibility [post]
func (h *Handler) CheckCompatibility(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req CompatibilityRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Ingredients == nil {
		respondError(w, http.StatusBadRequest, codeValidation, "Ingredients array is required", nil)
		return
	}

	names := make([]string, len(*req.Ingredients))
	for i, n := range *req.Ingredients {
		names[i] = string(n)
	}
	result := ingredients.CheckCompatibility(names)

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"ingredients":     names,
		"compatible":      len(result.Warnings) == 0,
		"warnings":        result.Warnings,
		"recommendations": result.Recommendations,
	}, start)
}

// RecommendationHistory lists the caller's past recommendations, newest first.
//
// @Summary Recommendation history
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} models.APIResponse
// @Router /recommendations/history [get]
func (h *Handler) RecommendationHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit := clamp(getIntParam(r, "limit", 10), 1, 100)
	offset := max(getIntParam(r, "offset", 0), 0)

	history, total, err := h.store.ListHistory(currentUser(r).ID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to get recommendation history", err)
		return
	}
	if history == nil {
		history = []models.RecommendationHistory{}
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"history": history,
		"pagination": models.Pagination{
			Limit:  limit,
			Offset: offset,
			Total:  total,
		},
	}, start)
}

// RecommendationFeedback stores the caller's feedback on a recommended product.
//
// @Summary Rate a recommended product
// @Tags recommendations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body FeedbackRequest true "Feedback"
// @Success 201 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /recommendations/feedback [post]
func (h *Handler) RecommendationFeedback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req FeedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ProfileID) == "" || strings.TrimSpace(req.ProductID) == "" {
		respondError(w, http.StatusBadRequest, codeValidation, "Profile ID and product ID are required", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	fb := &models.RecommendationFeedback{
		UserID:    currentUser(r).ID,
		ProfileID: req.ProfileID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Feedback:  req.Feedback,
		Purchased: req.Purchased,
	}
	if err := h.store.AddFeedback(fb); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to save feedback", err)
		return
	}

	respondMessage(w, http.StatusCreated, "Feedback saved successfully", map[string]interface{}{
		"feedback": fb,
	}, start)
}

// ListRecommendationFeedback returns the feedback the caller has given,
// oldest first.
//
// @Summary List recommendation feedback
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse
// @Router /recommendations/feedback [get]
func (h *Handler) ListRecommendationFeedback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	feedback, err := h.store.ListFeedback(currentUser(r).ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to get feedback", err)
		return
	}
	if feedback == nil {
		feedback = []models.RecommendationFeedback{}
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"feedback": feedback,
		"total":    len(feedback),
	}, start)
}

// ProfileRecommendations forwards a stored-profile request to the ML service.
//
// @Summary Recommendations for an ML profile
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Param profileId path string true "Profile ID"
// @Param max_products query int false "Maximum products" default(5)
// @Success 200 {object} models.APIResponse
// @Failure 502 {object} models.APIResponse
// @Router /recommendations/profile/{profileId} [get]
func (h *Handler) ProfileRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	profileID := chi.URLParam(r, "profileId")
	maxProducts := clamp(getIntParam(r, "max_products", mlclient.DefaultMaxProducts), 1, maxCatalogLimit)

	result, err := h.ml.ProfileRecommendations(r.Context(), profileID, maxProducts)
	if err != nil {
		respondMLError(w, "Failed to get profile recommendations", err)
		return
	}

	h.recordHistory(r.Context(), &models.RecommendationHistory{
		UserID:    currentUser(r).ID,
		Source:    models.HistorySourcePersonalized,
		ProfileID: profileID,
		Result:    result,
	})

	respondSuccess(w, http.StatusOK, result, start)
}

// ProductDetails returns one catalog product.
//
// @Summary Product details
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /recommendations/products/{productId} [get]
func (h *Handler) ProductDetails(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	p, err := h.engine.Product(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		if errors.Is(err, recommend.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "Product not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to get product details", err)
		return
	}

	respondSuccess(w, http.StatusOK, p, start)
}

// TrendingProducts lists the best rated active products.
//
// @Summary Trending products
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum products" default(10)
// @Success 200 {object} models.APIResponse
// @Router /recommendations/trending [get]
func (h *Handler) TrendingProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	products, err := h.engine.Trending(r.Context(), clamp(getIntParam(r, "limit", 10), 1, maxCatalogLimit))
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to get trending products", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"count":    len(products),
	}, start)
}

// ProductsByCategory lists active products of a category.
//
// @Summary Products by category
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Param category path string true "Category"
// @Param skin_type query string false "Skin type"
// @Param budget query string false "Budget"
// @Param limit query int false "Maximum products" default(10)
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /recommendations/category/{category} [get]
func (h *Handler) ProductsByCategory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	category := chi.URLParam(r, "category")
	if !models.IsValidCategory(category) {
		respondError(w, http.StatusBadRequest, codeValidation, "category must be one of: "+strings.Join(models.ProductCategories, ", "), nil)
		return
	}

	products, err := h.engine.ByCategory(r.Context(), category, h.catalogQuery(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to get products", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"category": category,
		"products": products,
		"count":    len(products),
	}, start)
}

// SearchProducts finds active products by name or brand.
//
// @Summary Search products
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search term"
// @Param limit query int false "Maximum products" default(10)
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /recommendations/search [get]
func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		respondError(w, http.StatusBadRequest, codeValidation, "Search query is required", nil)
		return
	}
	if len(term) > 100 {
		respondError(w, http.StatusBadRequest, codeValidation, "Search query is too long", nil)
		return
	}

	products, err := h.engine.Search(r.Context(), term, h.catalogQuery(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to search products", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"query":    term,
		"products": products,
		"count":    len(products),
	}, start)
}

// BudgetAlternatives lists same-category products in another budget.
//
// @Summary Budget alternatives for a product
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Param budget query string true "Target budget"
// @Param limit query int false "Maximum products" default(5)
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /recommendations/alternatives/{productId} [get]
func (h *Handler) BudgetAlternatives(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	budget := r.URL.Query().Get("budget")
	if !models.IsValidBudget(budget) {
		respondError(w, http.StatusBadRequest, codeValidation, "budget must be one of: "+strings.Join(models.BudgetOrder, ", "), nil)
		return
	}

	productID := chi.URLParam(r, "productId")
	products, err := h.engine.BudgetAlternatives(r.Context(), productID, budget, clamp(getIntParam(r, "limit", 0), 0, maxCatalogLimit))
	if err != nil {
		if errors.Is(err, recommend.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "Product not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to get alternatives", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"productId":    productID,
		"budget":       budget,
		"alternatives": products,
		"count":        len(products),
	}, start)
}

// catalogQuery reads the optional skin_type, budget and limit filters.
// Invalid values are ignored.
func (h *Handler) catalogQuery(r *http.Request) recommend.Query {
	q := r.URL.Query()
	query := recommend.Query{Limit: clamp(getIntParam(r, "limit", 10), 1, maxCatalogLimit)}
	if st := q.Get("skin_type"); models.IsValidSkinType(st) {
		query.SkinType = st
	}
	if b := q.Get("budget"); models.IsValidBudget(b) {
		query.Budget = b
	}
	return query
}
