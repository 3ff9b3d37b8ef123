// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package authz

import (
	"fmt"
	"time"

	"github.com/tomtom215/lumiskin/internal/logging"
	"github.com/tomtom215/lumiskin/internal/models"
)

// GrantStore persists role grants.
type GrantStore interface {
	GrantRole(g *models.RoleGrant) error
	RevokeRole(userID, role string) error
	ListRoleGrants(userID string) ([]models.RoleGrant, error)
}

// Service keeps the enforcer and the persisted grants in step.
type Service struct {
	enforcer *Enforcer
	store    GrantStore
}

// NewService creates a service and loads every persisted grant into the
// enforcer.
func NewService(enforcer *Enforcer, store GrantStore) (*Service, error) {
	grants, err := store.ListRoleGrants("")
	if err != nil {
		return nil, fmt.Errorf("list role grants: %w", err)
	}
	if err := enforcer.LoadGrants(grants); err != nil {
		return nil, err
	}
	logging.Info().Int("grants", len(grants)).Msg("Role grants loaded")
	return &Service{enforcer: enforcer, store: store}, nil
}

// Enforcer returns the underlying enforcer.
func (s *Service) Enforcer() *Enforcer {
	return s.enforcer
}

// Grant assigns role to userID and persists the assignment.
func (s *Service) Grant(userID, role, grantedBy string) error {
	if !models.IsValidRole(role) {
		return fmt.Errorf("unknown role %q", role)
	}
	g := &models.RoleGrant{
		UserID:    userID,
		Role:      role,
		GrantedBy: grantedBy,
		GrantedAt: time.Now().UTC(),
	}
	if err := s.store.GrantRole(g); err != nil {
		return err
	}
	_, err := s.enforcer.AddRoleForUser(userID, role)
	return err
}

// Revoke removes role from userID.
func (s *Service) Revoke(userID, role string) error {
	if err := s.store.RevokeRole(userID, role); err != nil {
		return err
	}
	_, err := s.enforcer.DeleteRoleForUser(userID, role)
	return err
}

// IsAdmin reports whether userID holds the admin role.
func (s *Service) IsAdmin(userID string) bool {
	return s.enforcer.HasRole(userID, models.RoleAdmin)
}

// UserLookup resolves accounts by email. *store.Store satisfies it.
type UserLookup interface {
	GetUserByEmail(email string) (*models.User, error)
}

// PromoteAdmins grants the admin role to each listed email that belongs to
// an existing account and returns how many grants were made. Unknown
// emails are logged and skipped; they are picked up on a later start once
// the account exists.
func (s *Service) PromoteAdmins(users UserLookup, emails []string, grantedBy string) (int, error) {
	granted := 0
	for _, email := range emails {
		u, err := users.GetUserByEmail(email)
		if err != nil {
			logging.Warn().Err(err).Str("email", logging.SanitizeEmail(email)).Msg("Admin email has no account yet")
			continue
		}
		if s.IsAdmin(u.ID) {
			continue
		}
		if err := s.Grant(u.ID, models.RoleAdmin, grantedBy); err != nil {
			return granted, fmt.Errorf("grant admin to %s: %w", email, err)
		}
		granted++
	}
	return granted, nil
}
