// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package authz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/lumiskin/internal/auth"
	"github.com/tomtom215/lumiskin/internal/models"
)

func TestAuthorizeRequest(t *testing.T) {
	mw := NewMiddleware(newTestEnforcer(t))
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		user   *models.User
		method string
		path   string
		want   int
	}{
		{"no user", nil, http.MethodGet, "/api/products", http.StatusForbidden},
		{"user reads", &models.User{ID: "user-1"}, http.MethodGet, "/api/products", http.StatusNoContent},
		{"user writes", &models.User{ID: "user-1"}, http.MethodPost, "/api/products", http.StatusForbidden},
		{"admin writes", &models.User{ID: "admin-1"}, http.MethodPut, "/api/products/p1", http.StatusNoContent},
		{"admin deletes", &models.User{ID: "admin-1"}, http.MethodDelete, "/api/products/p1", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.user != nil {
				req = req.WithContext(auth.WithUser(context.Background(), tt.user, &auth.Claims{UserID: tt.user.ID}))
			}
			rec := httptest.NewRecorder()
			mw.AuthorizeRequest(ok).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestCan(t *testing.T) {
	mw := NewMiddleware(newTestEnforcer(t))
	if mw.Can(nil, ObjectAnyRoutine, ActionRead) {
		t.Error("nil user allowed")
	}
	if mw.Can(&models.User{ID: "user-1"}, ObjectAnyRoutine, ActionRead) {
		t.Error("plain user may read other routines")
	}
	if !mw.Can(&models.User{ID: "admin-1"}, ObjectAnyRoutine, ActionRead) {
		t.Error("admin denied other routines")
	}
}
