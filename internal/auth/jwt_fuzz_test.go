// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package auth

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/tomtom215/lumiskin/internal/config"
	"github.com/tomtom215/lumiskin/internal/models"
)

// FuzzJWTValidateToken tests token validation against malformed, tampered
// and malicious inputs.
func FuzzJWTValidateToken(f *testing.F) {
	manager, err := NewJWTManager(&config.SecurityConfig{
		JWTSecret: "test-secret-key-for-fuzzing-at-least-32-chars-long",
		JWTTTL:    time.Hour,
	})
	if err != nil {
		f.Fatal(err)
	}

	validToken, _, err := manager.GenerateToken(&models.User{ID: "user-1", Email: "fuzz@example.com"})
	if err != nil {
		f.Fatal(err)
	}
	f.Add(validToken)
	f.Add("")
	f.Add("invalid.token.here")
	f.Add("eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJfaWQiOiJ1c2VyLTEifQ.invalid")        // bad signature
	f.Add("eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJfaWQiOiJ1c2VyLTEifQ.")               // alg none
	f.Add("eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9.eyJfaWQiOiJ1c2VyLTEifQ.sig")           // RS256 confusion
	f.Add("eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJlbWFpbCI6ImFAYi5jb20ifQ.signature") // no _id
	f.Add(validToken[:len(validToken)-5])
	f.Add(validToken + "...")
	f.Add("Bearer " + validToken)
	f.Add("\x00" + validToken)

	f.Fuzz(func(t *testing.T, tokenString string) {
		claims, err := manager.ValidateToken(tokenString)

		if err == nil && claims == nil {
			t.Fatal("ValidateToken returned nil error and nil claims")
		}
		if err == nil && claims.UserID == "" {
			t.Error("ValidateToken accepted claims without a user id")
		}
		if err == nil && strings.ContainsRune(tokenString, 0) {
			t.Error("ValidateToken accepted a token with a null byte")
		}
	})
}

// FuzzJWTRoundTrip checks that every generated token validates back to the
// same subject.
func FuzzJWTRoundTrip(f *testing.F) {
	manager, err := NewJWTManager(&config.SecurityConfig{
		JWTSecret: "test-secret-key-for-fuzzing-at-least-32-chars-long",
		JWTTTL:    time.Hour,
	})
	if err != nil {
		f.Fatal(err)
	}

	f.Add("user-1", "a@example.com")
	f.Add("64f1c2", "")
	f.Add("ünïcødé", "émail@exämple.com")
	f.Add("id\"with\\quotes", "x@y")

	f.Fuzz(func(t *testing.T, id, email string) {
		if id == "" || !utf8.ValidString(id) || !utf8.ValidString(email) {
			t.Skip()
		}
		token, _, err := manager.GenerateToken(&models.User{ID: id, Email: email})
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}
		claims, err := manager.ValidateToken(token)
		if err != nil {
			t.Fatalf("ValidateToken: %v", err)
		}
		if claims.UserID != id || claims.Email != email {
			t.Errorf("claims = %q/%q, want %q/%q", claims.UserID, claims.Email, id, email)
		}
	})
}
