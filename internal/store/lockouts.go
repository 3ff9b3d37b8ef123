// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/lumiskin/internal/models"
)

const lockoutKeyPrefix = "lockout:"

// GetLockout returns the lockout entry for subject, or nil when there is none.
func (s *Store) GetLockout(subject string) (*models.LockoutEntry, error) {
	var entry *models.LockoutEntry
	err := s.view("get", "lockouts", func(txn *badger.Txn) error {
		var e models.LockoutEntry
		err := getJSON(txn, lockoutKeyPrefix+subject, &e)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		entry = &e
		return nil
	})
	return entry, err
}

// SaveLockout stores entry. Badger drops it once ttl has passed.
func (s *Store) SaveLockout(entry *models.LockoutEntry, ttl time.Duration) error {
	if entry.Subject == "" {
		return fmt.Errorf("lockout subject is required")
	}
	if ttl <= 0 {
		return s.DeleteLockout(entry.Subject)
	}
	data, err := marshalJSON(entry)
	if err != nil {
		return err
	}
	return s.update("put", "lockouts", func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(lockoutKeyPrefix+entry.Subject), data).WithTTL(ttl))
	})
}

// DeleteLockout clears the entry for subject. Missing entries are ignored.
func (s *Store) DeleteLockout(subject string) error {
	return s.update("delete", "lockouts", func(txn *badger.Txn) error {
		return deleteKey(txn, lockoutKeyPrefix+subject)
	})
}
