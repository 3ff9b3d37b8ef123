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
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/lumiskin/internal/metrics"
	"github.com/tomtom215/lumiskin/internal/models"
)

// Engine scores catalog products against a user's skin profile.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	catalog Catalog

	// Metrics
	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	errorCount   atomic.Int64

	// Cache of personalized results, cleared whenever the catalog changes.
	cache   map[string]cacheEntry
	cacheMu sync.RWMutex
}

// cacheEntry holds a cached recommendation result.
type cacheEntry struct {
	result    *Result
	expiresAt time.Time
}

// NewEngine creates a new recommendation engine over catalog.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(catalog Catalog, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config:  cfg,
		logger:  logger.With().Str("component", "recommend").Logger(),
		catalog: catalog,
		cache:   make(map[string]cacheEntry),
	}, nil
}

// Recommend returns the top products for the request, scored and grouped
// by category.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	e.requestCount.Add(1)

	req = e.prepareRequest(req)
	logger := e.createRequestLogger(req)
	logger.Debug().Msg("processing recommendation request")

	if res := e.tryGetCachedResult(req, logger); res != nil {
		return res, nil
	}

	products, err := e.catalog.ListProducts(ctx)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("list products: %w", err)
	}

	candidates := e.collectCandidates(products, req)
	scored := scoreUnique(candidates, req)

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].RecommendationScore != scored[j].RecommendationScore {
			return scored[i].RecommendationScore > scored[j].RecommendationScore
		}
		return scored[i].Name < scored[j].Name
	})
	if len(scored) > req.Limit {
		scored = scored[:req.Limit]
	}

	res := &Result{
		Products:   scored,
		Categories: GroupByCategory(scored),
		TotalFound: len(scored),
		Filters: Filters{
			SkinConcerns: req.Concerns,
			SkinType:     req.SkinType,
			Budget:       req.Budget,
			Allergies:    req.Allergies,
		},
	}
	e.cacheResult(req, res)

	logger.Debug().
		Int("candidates", len(candidates)).
		Int("returned", len(scored)).
		Int64("latency_ms", time.Since(start).Milliseconds()).
		Msg("recommendation complete")

	return copyResult(res), nil
}

// prepareRequest applies defaults and copies the caller's slices.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.Limit <= 0 {
		req.Limit = e.config.Limits.DefaultLimit
	}
	if req.Limit > e.config.Limits.MaxLimit {
		req.Limit = e.config.Limits.MaxLimit
	}
	req.Concerns = append([]string{}, req.Concerns...)
	req.Allergies = append([]string{}, req.Allergies...)
	return req
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", uuid.NewString()).
		Strs("concerns", req.Concerns).
		Str("skin_type", req.SkinType).
		Str("budget", req.Budget).
		Int("limit", req.Limit).
		Logger()
}

// collectCandidates selects, per concern and in catalog order, up to
// CandidatesPerConcern matching products, then drops products containing
// an allergen. A product matching several concerns appears once per concern.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) collectCandidates(products []models.Product, req Request) []*models.Product {
	var out []*models.Product
	for _, concern := range req.Concerns {
		taken := 0
		for i := range products {
			if taken >= e.config.Limits.CandidatesPerConcern {
				break
			}
			p := &products[i]
			if !p.IsActive || !p.TargetsSkinConcern(concern) || !matchesFilters(p, req.SkinType, req.Budget) {
				continue
			}
			taken++
			if len(req.Allergies) > 0 && hasAllergen(p, req.Allergies) {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

// scoreUnique deduplicates candidates by id, keeping first-seen order and
// the highest score.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func scoreUnique(candidates []*models.Product, req Request) []models.Product {
	index := make(map[string]int, len(candidates))
	out := make([]models.Product, 0, len(candidates))

	for _, p := range candidates {
		score := float64(Score(p, req.Concerns, req.SkinType, req.Budget))
		if i, seen := index[p.ID]; seen {
			if score > out[i].RecommendationScore {
				out[i].RecommendationScore = score
			}
			continue
		}
		scored := *p
		scored.RecommendationScore = score
		index[p.ID] = len(out)
		out = append(out, scored)
	}
	return out
}

// GroupByCategory groups products by category, preserving order.
func GroupByCategory(products []models.Product) map[string][]models.Product {
	groups := make(map[string][]models.Product)
	for i := range products {
		groups[products[i].Category] = append(groups[products[i].Category], products[i])
	}
	return groups
}

// tryGetCachedResult returns a cached copy of the result for req, if any.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) tryGetCachedResult(req Request, logger zerolog.Logger) *Result {
	if !e.config.Cache.Enabled {
		return nil
	}

	res := e.checkCache(cacheKey(req))
	if res == nil {
		e.cacheMisses.Add(1)
		metrics.RecordCacheLookup("recommend", false)
		return nil
	}

	e.cacheHits.Add(1)
	metrics.RecordCacheLookup("recommend", true)
	logger.Debug().Msg("cache hit")
	return res
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) cacheResult(req Request, res *Result) {
	if e.config.Cache.Enabled {
		e.storeCache(cacheKey(req), res)
	}
}

// cacheKey generates a cache key for a request.
//
//nolint:gocritic // hugeParam: req passed by value for simplicity
func cacheKey(req Request) string {
	return fmt.Sprintf("rec:%s:%s:%s:%s:%d",
		strings.Join(req.Concerns, ","), req.SkinType, req.Budget,
		strings.ToLower(strings.Join(req.Allergies, ",")), req.Limit)
}

// checkCache returns a copy of a live cached result.
func (e *Engine) checkCache(key string) *Result {
	e.cacheMu.RLock()
	defer e.cacheMu.RUnlock()

	entry, ok := e.cache[key]
	if !ok {
		return nil
	}

	if time.Now().After(entry.expiresAt) {
		return nil
	}

	return copyResult(entry.result)
}

// copyResult copies the product list and category groups of res.
func copyResult(res *Result) *Result {
	products := make([]models.Product, len(res.Products))
	copy(products, res.Products)

	return &Result{
		Products:   products,
		Categories: GroupByCategory(products),
		TotalFound: res.TotalFound,
		Filters:    res.Filters,
	}
}

// storeCache stores a result in the cache.
func (e *Engine) storeCache(key string, res *Result) {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	e.evictIfCacheFull()

	e.cache[key] = cacheEntry{
		result:    res,
		expiresAt: time.Now().Add(e.config.Cache.TTL),
	}
}

// evictIfCacheFull evicts expired entries if cache is at capacity, and
// clears it if that was not enough.
// Must be called with cacheMu held.
func (e *Engine) evictIfCacheFull() {
	if len(e.cache) < e.config.Cache.MaxEntries {
		return
	}
	now := time.Now()
	for key, entry := range e.cache {
		if now.After(entry.expiresAt) {
			delete(e.cache, key)
		}
	}
	if len(e.cache) >= e.config.Cache.MaxEntries {
		e.cache = make(map[string]cacheEntry)
	}
}

// InvalidateCache removes all cached results. Call it after catalog writes.
func (e *Engine) InvalidateCache() {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	e.cache = make(map[string]cacheEntry)
	e.logger.Debug().Msg("cache cleared")
}

// GetStats returns a snapshot of the engine counters.
func (e *Engine) GetStats() Stats {
	e.cacheMu.RLock()
	entries := len(e.cache)
	e.cacheMu.RUnlock()

	return Stats{
		Requests:     e.requestCount.Load(),
		CacheHits:    e.cacheHits.Load(),
		CacheMisses:  e.cacheMisses.Load(),
		Errors:       e.errorCount.Load(),
		CacheEntries: entries,
	}
}

// GetConfig returns a copy of the engine configuration.
func (e *Engine) GetConfig() Config {
	return *e.config
}
