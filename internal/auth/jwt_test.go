// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/lumiskin/internal/config"
	"github.com/tomtom215/lumiskin/internal/models"
)

// testJWTConfig returns a standard test security config for JWT
func testJWTConfig() *config.SecurityConfig {
	return &config.SecurityConfig{
		JWTSecret: "test-secret-key-that-is-at-least-32-characters-long",
		JWTTTL:    time.Hour,
	}
}

func TestNewJWTManager(t *testing.T) {
	if _, err := NewJWTManager(&config.SecurityConfig{}); err == nil {
		t.Error("expected error for empty secret")
	}

	m, err := NewJWTManager(&config.SecurityConfig{JWTSecret: "x"})
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	if m.TTL() != DefaultTokenTTL {
		t.Errorf("TTL = %v, want %v", m.TTL(), DefaultTokenTTL)
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	m, err := NewJWTManager(testJWTConfig())
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	user := &models.User{ID: "u-1", Email: "ana@example.com"}
	token, issued, err := m.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if issued.ID == "" {
		t.Error("token has no jti")
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "u-1" || claims.Email != "ana@example.com" || claims.ID != issued.ID {
		t.Errorf("claims = %+v", claims)
	}

	_, second, _ := m.GenerateToken(user)
	if second.ID == issued.ID {
		t.Error("two tokens share a jti")
	}
}

func TestValidateToken_Errors(t *testing.T) {
	m, _ := NewJWTManager(testJWTConfig())
	user := &models.User{ID: "u-1"}

	expired, _ := NewJWTManager(testJWTConfig())
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _, _ := expired.GenerateToken(user)

	other, _ := NewJWTManager(&config.SecurityConfig{JWTSecret: "another-secret-that-is-long-enough-to-use"})
	foreignToken, _, _ := other.GenerateToken(user)

	noneToken, _ := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "u-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"expired", expiredToken, ErrTokenExpired},
		{"wrong secret", foreignToken, ErrInvalidToken},
		{"alg none", noneToken, ErrInvalidToken},
		{"garbage", "not.a.token", ErrInvalidToken},
		{"empty", "", ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.ValidateToken(tt.token)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("secret1", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "secret1" {
		t.Fatal("password stored in clear")
	}
	if !CheckPassword(hash, "secret1") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "secret2") {
		t.Error("wrong password accepted")
	}
	if _, err := HashPassword("x", 99); err == nil {
		t.Error("invalid cost accepted")
	}
}
