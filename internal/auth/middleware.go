// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/lumiskin/internal/logging"
	"github.com/tomtom215/lumiskin/internal/metrics"
	"github.com/tomtom215/lumiskin/internal/models"
)

// DefaultCookieName is the cookie checked when no Authorization header is sent.
const DefaultCookieName = "token"

var (
	// ErrNoToken is returned when the request carries no token.
	ErrNoToken = errors.New("no token provided")

	// ErrTokenRevoked is returned for tokens revoked by logout.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrUserNotFound is returned when the token subject no longer exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserInactive is returned when the token subject was deactivated.
	ErrUserInactive = errors.New("account is deactivated")
)

// UserStore loads the user a token belongs to.
type UserStore interface {
	GetUser(id string) (*models.User, error)
}

// RevocationStore records revoked token ids.
type RevocationStore interface {
	IsTokenRevoked(jti string) (bool, error)
	RevokeToken(jti string, expiresAt time.Time) error
}

// Middleware authenticates requests with bearer tokens.
type Middleware struct {
	jwtManager  *JWTManager
	users       UserStore
	revocations RevocationStore
	cookieName  string

	// isNotFound reports whether a UserStore error means "no such user".
	isNotFound func(error) bool
}

// NewMiddleware creates a new authentication middleware. isNotFound tells
// missing users apart from store failures.
func NewMiddleware(jwtManager *JWTManager, users UserStore, revocations RevocationStore, cookieName string, isNotFound func(error) bool) *Middleware {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Middleware{
		jwtManager:  jwtManager,
		users:       users,
		revocations: revocations,
		cookieName:  cookieName,
		isNotFound:  isNotFound,
	}
}

// Authenticate is middleware that enforces authentication. On success the
// user and claims are stored in the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.ExtractToken(r)

		user, claims, err := m.AuthenticateToken(r.Context(), token)
		if err != nil {
			status := http.StatusUnauthorized
			if !IsAuthFailure(err) {
				status = http.StatusInternalServerError
				logging.Ctx(r.Context()).Error().Err(err).Msg("Authentication error")
			}
			metrics.RecordAuthAttempt("token", false)
			writeError(w, status, ErrorMessage(err))
			return
		}

		ctx := WithUser(r.Context(), user, claims)
		ctx = logging.ContextWithUserID(ctx, user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthenticateToken validates token and loads its active, unrevoked user.
func (m *Middleware) AuthenticateToken(_ context.Context, token string) (*models.User, *Claims, error) {
	if token == "" {
		return nil, nil, ErrNoToken
	}

	claims, err := m.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, nil, err
	}

	if m.revocations != nil && claims.ID != "" {
		revoked, err := m.revocations.IsTokenRevoked(claims.ID)
		if err != nil {
			return nil, nil, err
		}
		if revoked {
			return nil, nil, ErrTokenRevoked
		}
	}

	user, err := m.users.GetUser(claims.UserID)
	if err != nil {
		if m.isNotFound != nil && m.isNotFound(err) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, ErrUserInactive
	}
	return user, claims, nil
}

// Revoke blacklists the token described by claims until it expires.
func (m *Middleware) Revoke(claims *Claims) error {
	if m.revocations == nil || claims == nil || claims.ID == "" {
		return nil
	}
	exp := time.Now().Add(m.jwtManager.TTL())
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return m.revocations.RevokeToken(claims.ID, exp)
}

// ExtractToken returns the bearer token from the Authorization header, or
// from the token cookie when there is no header.
func (m *Middleware) ExtractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}

	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// IsAuthFailure reports whether err is a client credential problem rather
// than a backend failure.
func IsAuthFailure(err error) bool {
	for _, target := range []error{ErrNoToken, ErrInvalidToken, ErrTokenExpired, ErrTokenRevoked, ErrUserNotFound, ErrUserInactive} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ErrorMessage maps AuthenticateToken errors to client messages.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoToken):
		return "Access denied. No token provided."
	case errors.Is(err, ErrTokenExpired):
		return "Token expired."
	case errors.Is(err, ErrTokenRevoked):
		return "Token has been revoked."
	case errors.Is(err, ErrUserNotFound):
		return "Invalid token. User not found."
	case errors.Is(err, ErrUserInactive):
		return "Account is deactivated."
	case errors.Is(err, ErrInvalidToken):
		return "Invalid token."
	default:
		return "Authentication error."
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	code := "AUTHENTICATION_ERROR"
	if status >= 500 {
		code = "INTERNAL_ERROR"
	}
	resp := models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    &models.APIError{Code: code, Message: message},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Failed to encode auth error")
	}
}
