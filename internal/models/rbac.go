// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package models

import (
	"time"
)

// Role constants define the standard roles in the system.
// These align with the Casbin policy in internal/authz/policy.csv.
const (
	// RoleUser is the default role granted to every registered account.
	RoleUser = "user"

	// RoleAdmin manages the product catalog and inherits user permissions.
	RoleAdmin = "admin"
)

// ValidRoles contains all valid role names for validation.
var ValidRoles = []string{RoleUser, RoleAdmin}

// IsValidRole checks if a role name is valid.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// RoleGrant is a persisted role assignment, loaded into the enforcer at startup.
type RoleGrant struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	GrantedBy string    `json:"granted_by"`
	GrantedAt time.Time `json:"granted_at"`
}

// LockoutEntry tracks failed logins for one email address.
type LockoutEntry struct {
	Subject        string    `json:"subject"`
	FailedAttempts int       `json:"failed_attempts"`
	LockoutCount   int       `json:"lockout_count"` // lockouts so far, drives the backoff
	LastAttempt    time.Time `json:"last_attempt"`
	LockedUntil    time.Time `json:"locked_until,omitempty"`
}

// IsLockedAt reports whether the entry is locked at t.
func (e *LockoutEntry) IsLockedAt(t time.Time) bool {
	return t.Before(e.LockedUntil)
}
