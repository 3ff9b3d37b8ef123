// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package auth

import (
	"context"

	"github.com/tomtom215/lumiskin/internal/models"
)

type contextKey string

const (
	// ClaimsContextKey holds the validated *Claims.
	ClaimsContextKey contextKey = "claims"

	// UserContextKey holds the authenticated *models.User.
	UserContextKey contextKey = "user"
)

// WithUser returns ctx carrying the authenticated user and token claims.
func WithUser(ctx context.Context, user *models.User, claims *Claims) context.Context {
	ctx = context.WithValue(ctx, UserContextKey, user)
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(UserContextKey).(*models.User)
	return u
}

// ClaimsFromContext returns the validated token claims, or nil.
func ClaimsFromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(ClaimsContextKey).(*Claims)
	return c
}
