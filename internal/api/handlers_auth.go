// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/lumiskin/internal/auth"
	"github.com/tomtom215/lumiskin/internal/events"
	"github.com/tomtom215/lumiskin/internal/logging"
	"github.com/tomtom215/lumiskin/internal/metrics"
	"github.com/tomtom215/lumiskin/internal/models"
	"github.com/tomtom215/lumiskin/internal/store"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=6,max=128"`
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CompleteProfileRequest is the body of PUT /api/auth/complete-profile.
type CompleteProfileRequest struct {
	SkinType     string   `json:"skinType" validate:"omitempty,oneof=oily dry combination sensitive"`
	SkinConcerns []string `json:"skinConcerns" validate:"omitempty,dive,skinconcern"`
	Allergies    []string `json:"allergies" validate:"omitempty,dive,max=100"`
	Budget       string   `json:"budget" validate:"omitempty,budget"`
}

// UpdateProfileRequest is the body of PUT /api/auth/update-profile. Empty
// fields are left unchanged.
type UpdateProfileRequest struct {
	FirstName    string   `json:"firstName" validate:"omitempty,max=50"`
	LastName     string   `json:"lastName" validate:"omitempty,max=50"`
	SkinType     string   `json:"skinType" validate:"omitempty,skintype"`
	SkinConcerns []string `json:"skinConcerns" validate:"omitempty,dive,skinconcern"`
	Allergies    []string `json:"allergies" validate:"omitempty,dive,max=100"`
	Budget       string   `json:"budget" validate:"omitempty,budget"`
}

// ChangePasswordRequest is the body of PUT /api/auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=128"`
}

// DeleteAccountRequest is the body of DELETE /api/auth/account.
type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and returns it with a token.
//
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Account details"
// @Success 201 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = normalizeEmail(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	hash, err := auth.HashPassword(req.Password, h.config.Security.BcryptCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Registration failed", err)
		return
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		SkinConcerns: []string{},
		Allergies:    []string{},
		IsActive:     true,
	}
	if err := h.store.CreateUser(user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			metrics.RecordAuthAttempt("register", false)
			respondError(w, http.StatusBadRequest, codeValidation, "User already exists", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "Registration failed", err)
		return
	}

	token, _, err := h.issueToken(w, user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Registration failed", err)
		return
	}

	metrics.RecordAuthAttempt("register", true)
	logging.Ctx(r.Context()).Info().
		Str("user_id", user.ID).
		Str("email", logging.SanitizeEmail(user.Email)).
		Msg("User registered")

	respondMessage(w, http.StatusCreated, "User registered successfully", map[string]interface{}{
		"user":  user,
		"token": token,
	}, start)
}

// Login authenticates with email and password.
//
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Failure 429 {object} models.APIResponse
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = normalizeEmail(req.Email)
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	ip := r.RemoteAddr
	if locked, remaining, err := h.lockout.CheckLocked(req.Email); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Lockout check failed")
	} else if locked {
		metrics.RecordAuthAttempt("login", false)
		h.secLog.LogLogin("", req.Email, ip, false, "locked out")
		respondLocked(w, remaining)
		return
	}

	fail := func(message, reason string) {
		metrics.RecordAuthAttempt("login", false)
		h.secLog.LogLogin("", req.Email, ip, false, reason)
		locked, remaining, err := h.lockout.RecordFailedAttempt(req.Email)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to record login failure")
		}
		if locked {
			respondLocked(w, remaining)
			return
		}
		respondError(w, http.StatusUnauthorized, codeAuthentication, message, nil)
	}

	user, err := h.store.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail("Invalid credentials", "unknown email")
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "Login failed", err)
		return
	}
	if !user.IsActive {
		fail("Account deactivated", "account deactivated")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		fail("Invalid credentials", "wrong password")
		return
	}

	now := time.Now().UTC()
	user.LastAnalysisDate = &now
	if err := h.store.UpdateUser(user); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Login failed", err)
		return
	}

	token, _, err := h.issueToken(w, user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Login failed", err)
		return
	}

	if err := h.lockout.RecordSuccessfulLogin(req.Email); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to clear lockout")
	}

	metrics.RecordAuthAttempt("login", true)
	h.secLog.LogLogin(user.ID, user.Email, ip, true, "")

	respondMessage(w, http.StatusOK, "Login successful", map[string]interface{}{
		"user":  user,
		"token": token,
	}, start)
}

// GetProfile returns the authenticated user.
//
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse
// @Router /auth/profile [get]
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"user": currentUser(r),
	}, time.Now())
}

// CompleteProfile records the skin profile once after registration.
//
// @Summary Complete the skin profile
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CompleteProfileRequest true "Skin profile"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /auth/complete-profile [put]
func (h *Handler) CompleteProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req CompleteProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user := currentUser(r)
	if user.ProfileCompleted {
		respondError(w, http.StatusBadRequest, codeValidation, "Profile already completed", nil)
		return
	}

	if req.SkinType != "" {
		user.SkinType = req.SkinType
	}
	if req.SkinConcerns != nil {
		user.SkinConcerns = req.SkinConcerns
	}
	if req.Allergies != nil {
		user.Allergies = req.Allergies
	}
	if req.Budget != "" {
		user.Budget = req.Budget
	}
	user.ProfileCompleted = true

	if err := h.store.UpdateUser(user); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to complete profile", err)
		return
	}

	h.publishEvent(r.Context(), events.TypeProfileCompleted, user.ID, map[string]interface{}{
		"skinType":     user.SkinType,
		"skinConcerns": user.SkinConcerns,
		"budget":       user.Budget,
	})

	respondMessage(w, http.StatusOK, "Profile completed successfully", map[string]interface{}{
		"user": user,
	}, start)
}

// UpdateProfile changes the non-empty fields of the profile.
//
// @Summary Update the profile
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} models.APIResponse
// @Router /auth/update-profile [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user := currentUser(r)
	if v := strings.TrimSpace(req.FirstName); v != "" {
		user.FirstName = v
	}
	if v := strings.TrimSpace(req.LastName); v != "" {
		user.LastName = v
	}
	if req.SkinType != "" {
		user.SkinType = req.SkinType
	}
	if len(req.SkinConcerns) > 0 {
		user.SkinConcerns = req.SkinConcerns
	}
	if len(req.Allergies) > 0 {
		user.Allergies = req.Allergies
	}
	if req.Budget != "" {
		user.Budget = req.Budget
	}

	if err := h.store.UpdateUser(user); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to update profile", err)
		return
	}
	h.engine.InvalidateCache()

	respondMessage(w, http.StatusOK, "Profile updated successfully", map[string]interface{}{
		"user": user,
	}, start)
}

// ChangePassword replaces the password after checking the current one.
//
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChangePasswordRequest true "Passwords"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /auth/change-password [put]
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ChangePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user := currentUser(r)
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		respondError(w, http.StatusBadRequest, codeValidation, "Invalid current password", nil)
		return
	}

	hash, err := auth.HashPassword(req.NewPassword, h.config.Security.BcryptCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to change password", err)
		return
	}
	user.PasswordHash = hash
	if err := h.store.UpdateUser(user); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to change password", err)
		return
	}

	h.secLog.LogEvent(&logging.AccountEvent{
		Event:     "password_change",
		UserID:    user.ID,
		IPAddress: r.RemoteAddr,
		Success:   true,
	})
	respondMessage(w, http.StatusOK, "Password changed successfully", nil, start)
}

// DeleteAccount deactivates the account after checking the password. The
// presented token is revoked.
//
// @Summary Delete the account
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body DeleteAccountRequest true "Password confirmation"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /auth/account [delete]
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req DeleteAccountRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user := currentUser(r)
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusBadRequest, codeValidation, "Invalid password", nil)
		return
	}

	user.IsActive = false
	if err := h.store.UpdateUser(user); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to delete account", err)
		return
	}
	if err := h.authMW.Revoke(auth.ClaimsFromContext(r.Context())); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to revoke token of deleted account")
	}
	h.clearTokenCookie(w)

	h.secLog.LogEvent(&logging.AccountEvent{
		Event:     "deactivate",
		UserID:    user.ID,
		IPAddress: r.RemoteAddr,
		Success:   true,
	})
	respondMessage(w, http.StatusOK, "Account deleted successfully", nil, start)
}

// RefreshToken issues a new token for the authenticated user.
//
// @Summary Refresh the token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Router /auth/refresh-token [post]
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	user, err := h.store.GetUser(currentUser(r).ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, codeAuthentication, "User not found or inactive", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to refresh token", err)
		return
	}
	if !user.IsActive {
		respondError(w, http.StatusUnauthorized, codeAuthentication, "User not found or inactive", nil)
		return
	}

	token, _, err := h.issueToken(w, user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to refresh token", err)
		return
	}

	respondMessage(w, http.StatusOK, "Token refreshed successfully", map[string]interface{}{
		"user":  user,
		"token": token,
	}, start)
}

// Logout revokes the presented token until it expires.
//
// @Summary Log out
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := h.authMW.Revoke(auth.ClaimsFromContext(r.Context())); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Logout failed", err)
		return
	}
	h.clearTokenCookie(w)

	h.secLog.LogLogout(currentUser(r).ID, r.RemoteAddr)
	respondMessage(w, http.StatusOK, "Logout successful", nil, start)
}

// issueToken signs a token for user and sets it as the auth cookie.
func (h *Handler) issueToken(w http.ResponseWriter, user *models.User) (string, *auth.Claims, error) {
	token, claims, err := h.jwtManager.GenerateToken(user)
	if err != nil {
		return "", nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName(),
		Value:    token,
		Path:     "/",
		Expires:  claims.ExpiresAt.Time,
		HttpOnly: true,
		Secure:   h.config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return token, claims, nil
}

func (h *Handler) clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) cookieName() string {
	if h.config.Security.CookieName != "" {
		return h.config.Security.CookieName
	}
	return auth.DefaultCookieName
}

// respondLocked rejects a login for a locked-out email.
func respondLocked(w http.ResponseWriter, remaining time.Duration) {
	secs := int(math.Ceil(remaining.Seconds()))
	w.Header().Set("Retry-After", strconv.Itoa(secs))
	respondError(w, http.StatusTooManyRequests, codeRateLimited,
		fmt.Sprintf("Too many failed login attempts. Try again in %v", remaining.Round(time.Second)), nil)
}
