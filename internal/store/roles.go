// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/lumiskin/internal/models"
)

const (
	roleKeyPrefix    = "role:"
	revokedKeyPrefix = "revoked:"
)

func roleKey(userID, role string) string { return roleKeyPrefix + userID + ":" + role }

// GrantRole persists a role assignment. Granting an existing role refreshes it.
func (s *Store) GrantRole(g *models.RoleGrant) error {
	if g.UserID == "" || g.Role == "" {
		return fmt.Errorf("grant requires user and role")
	}
	if g.GrantedAt.IsZero() {
		g.GrantedAt = s.now().UTC()
	}
	return s.update("put", "roles", func(txn *badger.Txn) error {
		return setJSON(txn, roleKey(g.UserID, g.Role), g)
	})
}

// RevokeRole removes a role assignment.
func (s *Store) RevokeRole(userID, role string) error {
	return s.update("delete", "roles", func(txn *badger.Txn) error {
		ok, err := exists(txn, roleKey(userID, role))
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		return deleteKey(txn, roleKey(userID, role))
	})
}

// ListRoleGrants returns all persisted grants, or only userID's when it is
// non-empty.
func (s *Store) ListRoleGrants(userID string) ([]models.RoleGrant, error) {
	prefix := roleKeyPrefix
	if userID != "" {
		prefix += userID + ":"
	}
	var grants []models.RoleGrant
	err := s.view("list", "roles", func(txn *badger.Txn) error {
		var err error
		grants, err = listJSON[models.RoleGrant](txn, prefix)
		return err
	})
	return grants, err
}

// RevokeToken blacklists a token id until its expiry. Badger drops the key
// once the TTL passes.
func (s *Store) RevokeToken(jti string, expiresAt time.Time) error {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return fmt.Errorf("token id is required")
	}
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.update("put", "revoked_tokens", func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(revokedKeyPrefix+jti), []byte{1}).WithTTL(ttl)
		return txn.SetEntry(e)
	})
}

// IsTokenRevoked reports whether jti has been revoked and not yet expired.
func (s *Store) IsTokenRevoked(jti string) (bool, error) {
	var revoked bool
	err := s.view("get", "revoked_tokens", func(txn *badger.Txn) error {
		var err error
		revoked, err = exists(txn, revokedKeyPrefix+jti)
		return err
	})
	return revoked, err
}
