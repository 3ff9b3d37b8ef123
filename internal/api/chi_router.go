// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/lumiskin/internal/middleware"
)

// Router wires handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router for handler using the handler's security config.
func NewRouter(handler *Handler) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(ChiMiddlewareFromConfig(&handler.config.Security)),
	}
}

// SetupChi builds the HTTP handler.
//
// Middleware order: request id, real ip, access log, panic recovery, CORS
// (global so OPTIONS preflights are answered), security headers, metrics.
// Everything below /api is rate limited per client IP; /api/auth uses the
// stricter auth limit on top.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(middleware.DefaultSlowThreshold))
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(APISecurityHeaders())
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Get("/", h.Root)
	r.Get("/api/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())

		// The upgrade handshake authenticates itself; browsers cannot set
		// headers on WebSocket requests.
		r.Get("/ws", h.WebSocket)

		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Compress(5, "application/json"))

			r.Route("/auth", func(r chi.Router) {
				r.Use(router.chiMiddleware.RateLimitAuth())
				r.Post("/register", h.Register)
				r.Post("/login", h.Login)

				r.Group(func(r chi.Router) {
					r.Use(h.authMW.Authenticate)
					r.Get("/profile", h.GetProfile)
					r.Put("/complete-profile", h.CompleteProfile)
					r.Put("/update-profile", h.UpdateProfile)
					r.Put("/change-password", h.ChangePassword)
					r.Delete("/account", h.DeleteAccount)
					r.Post("/refresh-token", h.RefreshToken)
					r.Post("/logout", h.Logout)
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(h.authMW.Authenticate)
				router.registerResourceRoutes(r)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}

// registerResourceRoutes adds the authenticated resource routes.
func (router *Router) registerResourceRoutes(r chi.Router) {
	h := router.handler

	r.Route("/users", func(r chi.Router) {
		r.Get("/profile", h.GetProfile)
		r.Put("/profile", h.UpdateProfile)
	})

	r.Route("/routines", func(r chi.Router) {
		r.Post("/", h.CreateRoutine)
		r.Post("/generate/{userId}", h.GenerateRoutine)
		r.Get("/{userId}", h.ListRoutines)
		r.Patch("/{routineId}", h.PatchRoutine)
		r.Put("/{routineId}", h.RenameRoutine)
		r.Delete("/{routineId}", h.DeleteRoutine)
	})

	r.Route("/tracking", func(r chi.Router) {
		r.Post("/", h.CreateProgress)
		r.Get("/{routineId}", h.ListProgress)
	})

	r.Route("/analysis", func(r chi.Router) {
		r.Post("/", h.AnalyzeImage)
		r.Post("/batch", h.BatchAnalyze)
		r.Get("/", h.ListAnalyses)
		r.Get("/health", h.AnalysisHealth)
		r.Get("/{analysisId}", h.GetAnalysis)
	})

	r.Route("/recommendations", func(r chi.Router) {
		r.Post("/personalized", h.PersonalizedRecommendations)
		r.Get("/analysis/{analysisId}", h.RecommendationsByAnalysis)
		r.Get("/ingredients", h.IngredientRecommendations)
		r.Get("/products", h.ProductRecommendations)
		r.Get("/products/{productId}", h.ProductDetails)
		r.Post("/compatibility", h.CheckCompatibility)
		r.Get("/history", h.RecommendationHistory)
		r.Post("/feedback", h.RecommendationFeedback)
		r.Get("/feedback", h.ListRecommendationFeedback)
		r.Get("/profile/{profileId}", h.ProfileRecommendations)
		r.Get("/trending", h.TrendingProducts)
		r.Get("/category/{category}", h.ProductsByCategory)
		r.Get("/search", h.SearchProducts)
		r.Get("/alternatives/{productId}", h.BudgetAlternatives)
	})

	r.Route("/ingredients", func(r chi.Router) {
		r.Post("/check", h.CheckIngredients)
		r.Get("/info/{ingredient}", h.IngredientInfo)
		r.Get("/search", h.SearchIngredients)
	})

	r.Route("/products", func(r chi.Router) {
		r.Use(h.authz.AuthorizeRequest)
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)
		r.Get("/{id}", h.GetProduct)
		r.Put("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)
	})

	r.Route("/chatbot", func(r chi.Router) {
		r.Post("/message", h.ChatMessage)
		r.Get("/history", h.ChatHistory)
		r.Delete("/history", h.ClearChatHistory)
	})
}
