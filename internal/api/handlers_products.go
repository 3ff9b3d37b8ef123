// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/lumiskin/internal/catalog"
	"github.com/tomtom215/lumiskin/internal/logging"
	"github.com/tomtom215/lumiskin/internal/models"
	"github.com/tomtom215/lumiskin/internal/store"
)

// ListProducts lists the catalog. Inactive products are included only with
// include_inactive=true.
//
// @Summary List catalog products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param include_inactive query bool false "Include inactive products"
// @Success 200 {object} models.APIResponse
// @Router /products [get]
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	all, err := h.store.ListProducts(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to list products", err)
		return
	}

	includeInactive := r.URL.Query().Get("include_inactive") == "true"
	products := make([]models.Product, 0, len(all))
	for _, p := range all {
		if p.IsActive || includeInactive {
			products = append(products, p)
		}
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"count":    len(products),
	}, start)
}

// GetProduct returns one catalog product, active or not.
//
// @Summary Get a catalog product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /products/{id} [get]
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	p, err := h.store.GetProduct(chi.URLParam(r, "id"))
	if err != nil {
		h.respondProductError(w, "Failed to get product", err)
		return
	}

	respondSuccess(w, http.StatusOK, p, start)
}

// CreateProduct adds a product to the catalog.
//
// @Summary Create a catalog product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body catalog.ProductInput true "Product"
// @Success 201 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse
// @Router /products [post]
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var in catalog.ProductInput
	if !decodeAndValidate(w, r, &in) {
		return
	}

	p := in.ToProduct()
	if p.ID != "" {
		if _, err := h.store.GetProduct(p.ID); err == nil {
			respondError(w, http.StatusConflict, codeConflict, "Product already exists", nil)
			return
		}
	}

	if err := h.store.PutProduct(p); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to create product", err)
		return
	}
	h.engine.InvalidateCache()

	logging.Ctx(r.Context()).Info().Str("product_id", p.ID).Str("by", currentUser(r).ID).Msg("Catalog product created")
	respondSuccess(w, http.StatusCreated, p, start)
}

// UpdateProduct replaces a catalog product.
//
// @Summary Replace a catalog product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param body body catalog.ProductInput true "Product"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /products/{id} [put]
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var in catalog.ProductInput
	if !decodeAndValidate(w, r, &in) {
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := h.store.GetProduct(id); err != nil {
		h.respondProductError(w, "Failed to update product", err)
		return
	}

	in.ID = id
	p := in.ToProduct()
	if err := h.store.PutProduct(p); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to update product", err)
		return
	}
	h.engine.InvalidateCache()

	respondSuccess(w, http.StatusOK, p, start)
}

// DeleteProduct removes a catalog product.
//
// @Summary Delete a catalog product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /products/{id} [delete]
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id := chi.URLParam(r, "id")
	if err := h.store.DeleteProduct(id); err != nil {
		h.respondProductError(w, "Failed to delete product", err)
		return
	}
	h.engine.InvalidateCache()

	respondMessage(w, http.StatusOK, "Product deleted", map[string]interface{}{"id": id}, start)
}

func (h *Handler) respondProductError(w http.ResponseWriter, message string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, codeNotFound, "Product not found", nil)
		return
	}
	respondError(w, http.StatusInternalServerError, codeInternal, message, err)
}
