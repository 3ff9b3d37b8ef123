// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package catalog

import (
	"strings"

	"github.com/tomtom215/lumiskin/internal/models"
)

// IngredientInput is a product ingredient as written in seed files and
// admin requests.
type IngredientInput struct {
	Name          string   `json:"name" yaml:"name" validate:"required,max=100"`
	Concentration string   `json:"concentration,omitempty" yaml:"concentration"`
	IsActive      bool     `json:"isActive" yaml:"active"`
	Benefits      []string `json:"benefits,omitempty" yaml:"benefits"`
	Warnings      []string `json:"warnings,omitempty" yaml:"warnings"`
}

// PriceInput is the product price.
type PriceInput struct {
	Amount   float64 `json:"amount" yaml:"amount" validate:"gte=0"`
	Currency string  `json:"currency" yaml:"currency" validate:"omitempty,len=3"`
	Size     string  `json:"size,omitempty" yaml:"size"`
}

// RatingInput is the aggregate customer rating.
type RatingInput struct {
	Average float64 `json:"average" yaml:"average" validate:"gte=0,lte=5"`
	Count   int     `json:"count" yaml:"count" validate:"gte=0"`
}

// ProductInput is the writable shape of a catalog product.
type ProductInput struct {
	ID                    string            `json:"id,omitempty" yaml:"id" validate:"omitempty,max=100"`
	Name                  string            `json:"name" yaml:"name" validate:"required,max=200"`
	Brand                 string            `json:"brand" yaml:"brand" validate:"required,max=100"`
	Category              string            `json:"category" yaml:"category" validate:"required,category"`
	Description           string            `json:"description,omitempty" yaml:"description" validate:"max=2000"`
	Ingredients           []IngredientInput `json:"ingredients" yaml:"ingredients" validate:"dive"`
	SkinTypeCompatibility []string          `json:"skinTypeCompatibility" yaml:"skin_types" validate:"dive,skintype"`
	SkinConcernTargets    []string          `json:"skinConcernTargets" yaml:"concerns" validate:"dive,skinconcern"`
	Price                 PriceInput        `json:"price" yaml:"price"`
	Budget                string            `json:"budget" yaml:"budget" validate:"required,budget"`
	Rating                RatingInput       `json:"rating" yaml:"rating"`
	ImageURL              string            `json:"imageUrl,omitempty" yaml:"image_url" validate:"omitempty,url"`
	PurchaseURL           string            `json:"purchaseUrl,omitempty" yaml:"purchase_url" validate:"omitempty,url"`
	IsActive              *bool             `json:"isActive,omitempty" yaml:"active"`
	IsRecommended         bool              `json:"isRecommended" yaml:"recommended"`
}

// ToProduct converts the input to a catalog product. Products are active
// unless explicitly disabled; the currency defaults to USD.
func (in *ProductInput) ToProduct() *models.Product {
	p := &models.Product{
		ID:                    in.ID,
		Name:                  strings.TrimSpace(in.Name),
		Brand:                 strings.TrimSpace(in.Brand),
		Category:              in.Category,
		Description:           in.Description,
		Ingredients:           make([]models.ProductIngredient, 0, len(in.Ingredients)),
		SkinTypeCompatibility: nonNil(in.SkinTypeCompatibility),
		SkinConcernTargets:    nonNil(in.SkinConcernTargets),
		Price: models.Price{
			Amount:   in.Price.Amount,
			Currency: in.Price.Currency,
			Size:     in.Price.Size,
		},
		Budget:        in.Budget,
		Rating:        models.Rating{Average: in.Rating.Average, Count: in.Rating.Count},
		ImageURL:      in.ImageURL,
		PurchaseURL:   in.PurchaseURL,
		IsActive:      in.IsActive == nil || *in.IsActive,
		IsRecommended: in.IsRecommended,
	}
	if p.Price.Currency == "" {
		p.Price.Currency = "USD"
	}
	for _, ing := range in.Ingredients {
		p.Ingredients = append(p.Ingredients, models.ProductIngredient{
			Name:          ing.Name,
			Concentration: ing.Concentration,
			IsActive:      ing.IsActive,
			Benefits:      ing.Benefits,
			Warnings:      ing.Warnings,
		})
	}
	return p
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
