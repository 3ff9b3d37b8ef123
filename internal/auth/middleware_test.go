// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/lumiskin/internal/models"
)

var errMissing = errors.New("missing")

type fakeUsers map[string]*models.User

func (f fakeUsers) GetUser(id string) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, errMissing
}

type fakeRevocations map[string]time.Time

func (f fakeRevocations) IsTokenRevoked(jti string) (bool, error) {
	_, ok := f[jti]
	return ok, nil
}

func (f fakeRevocations) RevokeToken(jti string, exp time.Time) error {
	f[jti] = exp
	return nil
}

func setupMiddleware(t *testing.T) (*Middleware, *JWTManager, fakeUsers, fakeRevocations) {
	t.Helper()
	m, err := NewJWTManager(testJWTConfig())
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	users := fakeUsers{
		"active":   {ID: "active", Email: "a@example.com", IsActive: true},
		"inactive": {ID: "inactive", Email: "i@example.com", IsActive: false},
	}
	revoked := fakeRevocations{}
	mw := NewMiddleware(m, users, revoked, "", func(err error) bool { return errors.Is(err, errMissing) })
	return mw, m, users, revoked
}

func TestAuthenticate(t *testing.T) {
	mw, jm, _, revoked := setupMiddleware(t)

	activeToken, _, _ := jm.GenerateToken(&models.User{ID: "active"})
	inactiveToken, _, _ := jm.GenerateToken(&models.User{ID: "inactive"})
	ghostToken, _, _ := jm.GenerateToken(&models.User{ID: "ghost"})
	revokedToken, revokedClaims, _ := jm.GenerateToken(&models.User{ID: "active"})
	if err := mw.Revoke(revokedClaims); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, ok := revoked[revokedClaims.ID]; !ok {
		t.Fatal("Revoke did not record jti")
	}

	tests := []struct {
		name       string
		header     string
		cookie     string
		wantStatus int
		wantMsg    string
	}{
		{"no token", "", "", http.StatusUnauthorized, "Access denied. No token provided."},
		{"bearer ok", "Bearer " + activeToken, "", http.StatusOK, ""},
		{"cookie ok", "", activeToken, http.StatusOK, ""},
		{"bad scheme", "Basic abc", "", http.StatusUnauthorized, "Access denied. No token provided."},
		{"garbage", "Bearer garbage", "", http.StatusUnauthorized, "Invalid token."},
		{"unknown user", "Bearer " + ghostToken, "", http.StatusUnauthorized, "Invalid token. User not found."},
		{"inactive user", "Bearer " + inactiveToken, "", http.StatusUnauthorized, "Account is deactivated."},
		{"revoked", "Bearer " + revokedToken, "", http.StatusUnauthorized, "Token has been revoked."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *models.User
			handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = UserFromContext(r.Context())
				if ClaimsFromContext(r.Context()) == nil {
					t.Error("claims missing from context")
				}
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus == http.StatusOK {
				if seen == nil || seen.ID != "active" {
					t.Errorf("user in context = %+v", seen)
				}
				return
			}

			var resp models.APIResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != "error" || resp.Error == nil || resp.Error.Code != "AUTHENTICATION_ERROR" {
				t.Fatalf("envelope = %+v", resp)
			}
			if resp.Error.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", resp.Error.Message, tt.wantMsg)
			}
		})
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	mw, jm, _, _ := setupMiddleware(t)
	jm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, _ := jm.GenerateToken(&models.User{ID: "active"})
	jm.now = time.Now

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mw.Authenticate(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler reached with expired token")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "Token expired.") {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestExtractToken_PrefersHeader(t *testing.T) {
	mw, _, _, _ := setupMiddleware(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer from-header")
	req.AddCookie(&http.Cookie{Name: "token", Value: "from-cookie"})
	if got := mw.ExtractToken(req); got != "from-header" {
		t.Errorf("ExtractToken = %q", got)
	}
}
