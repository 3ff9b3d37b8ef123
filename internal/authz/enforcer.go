// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package authz

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/tomtom215/lumiskin/internal/models"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Actions understood by the policy.
const (
	ActionRead   = "read"
	ActionWrite  = "write"
	ActionDelete = "delete"
)

// ObjectAnyRoutine guards access to routines owned by other accounts.
const ObjectAnyRoutine = "routines:any"

// EnforcerConfig holds configuration for the Casbin enforcer.
type EnforcerConfig struct {
	// DefaultRole is held implicitly by every subject.
	DefaultRole string

	// CacheEnabled enables enforcement decision caching.
	CacheEnabled bool

	// CacheTTL is how long to cache decisions.
	CacheTTL time.Duration
}

// DefaultEnforcerConfig returns default configuration.
func DefaultEnforcerConfig() *EnforcerConfig {
	return &EnforcerConfig{
		DefaultRole:  models.RoleUser,
		CacheEnabled: true,
		CacheTTL:     5 * time.Minute,
	}
}

// Enforcer wraps the Casbin enforcer with additional functionality.
type Enforcer struct {
	config   *EnforcerConfig
	enforcer *casbin.SyncedEnforcer
	cache    *enforcementCache
}

// NewEnforcer creates a new authorization enforcer from the embedded model
// and policy.
func NewEnforcer(config *EnforcerConfig) (*Enforcer, error) {
	if config == nil {
		config = DefaultEnforcerConfig()
	}

	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err == nil {
		err = loadEmbeddedPolicy(enforcer, embeddedPolicy)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	e := &Enforcer{
		config:   config,
		enforcer: enforcer,
	}
	if config.CacheEnabled {
		e.cache = newEnforcementCache(config.CacheTTL)
	}
	return e, nil
}

// loadEmbeddedPolicy parses and loads the embedded policy CSV.
func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch ptype, rule := parts[0], parts[1:]; ptype {
		case "p":
			if len(rule) >= 3 {
				if _, err := enforcer.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
					return fmt.Errorf("failed to add policy %v: %w", rule, err)
				}
			}
		case "g":
			if len(rule) >= 2 {
				if _, err := enforcer.AddGroupingPolicy(rule[0], rule[1]); err != nil {
					return fmt.Errorf("failed to add grouping policy %v: %w", rule, err)
				}
			}
		}
	}
	return nil
}

// Enforce checks if the subject, or the default role, can perform the
// action on the object.
func (e *Enforcer) Enforce(subject, object, action string) (bool, error) {
	start := time.Now()

	if e.cache != nil {
		if allowed, ok := e.cache.get(subject, object, action); ok {
			recordDecision(allowed, true, time.Since(start))
			return allowed, nil
		}
	}

	allowed, err := e.enforcer.Enforce(subject, object, action)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	if !allowed && e.config.DefaultRole != "" && subject != e.config.DefaultRole {
		allowed, err = e.enforcer.Enforce(e.config.DefaultRole, object, action)
		if err != nil {
			return false, fmt.Errorf("enforcement failed: %w", err)
		}
	}

	if e.cache != nil {
		e.cache.set(subject, object, action, allowed)
	}
	recordDecision(allowed, false, time.Since(start))
	return allowed, nil
}

// AddRoleForUser assigns a role to a user.
func (e *Enforcer) AddRoleForUser(user, role string) (bool, error) {
	added, err := e.enforcer.AddRoleForUser(user, role)
	if err != nil {
		return false, err
	}
	if e.cache != nil {
		e.cache.invalidateUser(user)
	}
	recordRoleChange("add", role)
	return added, nil
}

// DeleteRoleForUser removes a role from a user.
func (e *Enforcer) DeleteRoleForUser(user, role string) (bool, error) {
	removed, err := e.enforcer.DeleteRoleForUser(user, role)
	if err != nil {
		return false, err
	}
	if e.cache != nil {
		e.cache.invalidateUser(user)
	}
	recordRoleChange("remove", role)
	return removed, nil
}

// HasRole reports whether user holds role, directly or through the default role.
func (e *Enforcer) HasRole(user, role string) bool {
	if role == e.config.DefaultRole {
		return true
	}
	roles, err := e.enforcer.GetImplicitRolesForUser(user)
	if err != nil {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// LoadGrants adds persisted role grants to the enforcer.
func (e *Enforcer) LoadGrants(grants []models.RoleGrant) error {
	for _, g := range grants {
		if _, err := e.AddRoleForUser(g.UserID, g.Role); err != nil {
			return fmt.Errorf("load grant %s/%s: %w", g.UserID, g.Role, err)
		}
	}
	return nil
}
