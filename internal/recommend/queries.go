// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/lumiskin/internal/models"
)

// ByCategory lists active products of a category, best first.
func (e *Engine) ByCategory(ctx context.Context, category string, q Query) ([]models.Product, error) {
	return e.list(ctx, q.Limit, e.config.Limits.DefaultLimit, func(p *models.Product) bool {
		return p.Category == category && matchesFilters(p, q.SkinType, q.Budget)
	})
}

// Search lists active products whose name or brand contains term, ignoring
// case, best first.
func (e *Engine) Search(ctx context.Context, term string, q Query) ([]models.Product, error) {
	needle := strings.ToLower(term)
	return e.list(ctx, q.Limit, e.config.Limits.DefaultLimit, func(p *models.Product) bool {
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Brand), needle) {
			return false
		}
		return matchesFilters(p, q.SkinType, q.Budget)
	})
}

// Trending lists the best active products.
func (e *Engine) Trending(ctx context.Context, limit int) ([]models.Product, error) {
	return e.list(ctx, limit, e.config.Limits.DefaultLimit, func(*models.Product) bool { return true })
}

// BudgetAlternatives lists active products of the same category as
// productID in targetBudget, excluding the product itself.
func (e *Engine) BudgetAlternatives(ctx context.Context, productID, targetBudget string, limit int) ([]models.Product, error) {
	original, err := e.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	return e.list(ctx, limit, e.config.Limits.DefaultAlternatives, func(p *models.Product) bool {
		return p.ID != original.ID && p.Category == original.Category && p.Budget == targetBudget
	})
}

// Product returns a single catalog product, active or not.
func (e *Engine) Product(ctx context.Context, id string) (*models.Product, error) {
	products, err := e.catalog.ListProducts(ctx)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("list products: %w", err)
	}
	for i := range products {
		if products[i].ID == id {
			p := products[i]
			return &p, nil
		}
	}
	return nil, ErrProductNotFound
}

func (e *Engine) list(ctx context.Context, limit, defaultLimit int, keep func(*models.Product) bool) ([]models.Product, error) {
	e.requestCount.Add(1)

	products, err := e.catalog.ListProducts(ctx)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("list products: %w", err)
	}

	out := make([]models.Product, 0)
	for i := range products {
		if products[i].IsActive && keep(&products[i]) {
			out = append(out, products[i])
		}
	}
	SortCatalog(out)

	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > e.config.Limits.MaxLimit {
		limit = e.config.Limits.MaxLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SortCatalog orders products by stored recommendation score, then rating
// average, both descending. Ties keep catalog order.
func SortCatalog(products []models.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		if products[i].RecommendationScore != products[j].RecommendationScore {
			return products[i].RecommendationScore > products[j].RecommendationScore
		}
		return products[i].Rating.Average > products[j].Rating.Average
	})
}
