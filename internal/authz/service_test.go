// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package authz

import (
	"errors"
	"testing"

	"github.com/tomtom215/lumiskin/internal/models"
)

type memoryGrants struct {
	grants map[string]models.RoleGrant
}

func (m *memoryGrants) GrantRole(g *models.RoleGrant) error {
	m.grants[g.UserID+":"+g.Role] = *g
	return nil
}

func (m *memoryGrants) RevokeRole(userID, role string) error {
	key := userID + ":" + role
	if _, ok := m.grants[key]; !ok {
		return errors.New("not found")
	}
	delete(m.grants, key)
	return nil
}

func (m *memoryGrants) ListRoleGrants(userID string) ([]models.RoleGrant, error) {
	var out []models.RoleGrant
	for _, g := range m.grants {
		if userID == "" || g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func TestService(t *testing.T) {
	store := &memoryGrants{grants: map[string]models.RoleGrant{
		"persisted:admin": {UserID: "persisted", Role: models.RoleAdmin},
	}}
	enforcer, err := NewEnforcer(nil)
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	svc, err := NewService(enforcer, store)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if !svc.IsAdmin("persisted") {
		t.Error("persisted grant not loaded")
	}
	if svc.IsAdmin("fresh") {
		t.Error("fresh user is admin")
	}

	if err := svc.Grant("fresh", "superuser", "test"); err == nil {
		t.Error("unknown role accepted")
	}
	if err := svc.Grant("fresh", models.RoleAdmin, "test"); err != nil {
		t.Fatalf("Grant: %v", err)
	}
	if !svc.IsAdmin("fresh") {
		t.Error("grant not applied")
	}
	if _, ok := store.grants["fresh:admin"]; !ok {
		t.Error("grant not persisted")
	}

	if err := svc.Revoke("fresh", models.RoleAdmin); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if svc.IsAdmin("fresh") {
		t.Error("revoke not applied")
	}
}

type emailDirectory map[string]*models.User

func (d emailDirectory) GetUserByEmail(email string) (*models.User, error) {
	if u, ok := d[email]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func TestPromoteAdmins(t *testing.T) {
	store := &memoryGrants{grants: map[string]models.RoleGrant{}}
	enforcer, err := NewEnforcer(nil)
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	svc, err := NewService(enforcer, store)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	users := emailDirectory{
		"ops@example.com":  {ID: "u-ops"},
		"lead@example.com": {ID: "u-lead"},
	}
	emails := []string{"ops@example.com", "ghost@example.com", "lead@example.com"}

	n, err := svc.PromoteAdmins(users, emails, "config")
	if err != nil {
		t.Fatalf("PromoteAdmins: %v", err)
	}
	if n != 2 {
		t.Errorf("granted = %d, want 2", n)
	}
	if !svc.IsAdmin("u-ops") || !svc.IsAdmin("u-lead") {
		t.Error("configured admins not promoted")
	}
	if g := store.grants["u-ops:admin"]; g.GrantedBy != "config" {
		t.Errorf("grantedBy = %q", g.GrantedBy)
	}

	n, err = svc.PromoteAdmins(users, emails, "config")
	if err != nil || n != 0 {
		t.Errorf("second run granted %d (%v), want 0", n, err)
	}
}
