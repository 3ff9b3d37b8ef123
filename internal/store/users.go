// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/lumiskin/internal/models"
)

const (
	userKeyPrefix      = "user:"
	userEmailKeyPrefix = "user_email:"
)

func userKey(id string) string { return userKeyPrefix + id }

func userEmailKey(email string) string {
	return userEmailKeyPrefix + normalizeEmail(email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser stores a new user. The email is normalized and must be unique.
func (s *Store) CreateUser(u *models.User) error {
	u.Email = normalizeEmail(u.Email)
	s.stamp(&u.ID, &u.CreatedAt, &u.UpdatedAt)

	return s.update("create", "users", func(txn *badger.Txn) error {
		taken, err := exists(txn, userEmailKey(u.Email))
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicate
		}
		if err := setJSON(txn, userKey(u.ID), u.ToStored()); err != nil {
			return err
		}
		return txn.Set([]byte(userEmailKey(u.Email)), []byte(u.ID))
	})
}

// GetUser returns the user with id.
func (s *Store) GetUser(id string) (*models.User, error) {
	var u *models.User
	err := s.view("get", "users", func(txn *badger.Txn) error {
		var err error
		u, err = getUser(txn, id)
		return err
	})
	return u, err
}

// GetUserByEmail returns the user registered with email.
func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	var u *models.User
	err := s.view("get_by_email", "users", func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userEmailKey(email)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		u, err = getUser(txn, string(id))
		return err
	})
	return u, err
}

// UpdateUser replaces a stored user, moving the email index if the email
// changed.
func (s *Store) UpdateUser(u *models.User) error {
	u.Email = normalizeEmail(u.Email)
	u.UpdatedAt = s.now().UTC()

	return s.update("update", "users", func(txn *badger.Txn) error {
		old, err := getUser(txn, u.ID)
		if err != nil {
			return err
		}
		if old.Email != u.Email {
			taken, err := exists(txn, userEmailKey(u.Email))
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicate
			}
			if err := deleteKey(txn, userEmailKey(old.Email)); err != nil {
				return err
			}
			if err := txn.Set([]byte(userEmailKey(u.Email)), []byte(u.ID)); err != nil {
				return err
			}
		}
		return setJSON(txn, userKey(u.ID), u.ToStored())
	})
}

// ListUsers returns all users, oldest first.
func (s *Store) ListUsers() ([]*models.User, error) {
	var users []*models.User
	err := s.view("list", "users", func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := []byte(userKeyPrefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			var u *models.User
			err := it.Item().Value(func(val []byte) error {
				var err error
				u, err = decodeUser(val)
				return err
			})
			if err != nil {
				return fmt.Errorf("decode user: %w", err)
			}
			users = append(users, u)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortByCreated(users,
		func(u **models.User) time.Time { return (*u).CreatedAt },
		func(u **models.User) string { return (*u).ID })
	return users, nil
}

func getUser(txn *badger.Txn, id string) (*models.User, error) {
	item, err := txn.Get([]byte(userKey(id)))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	var u *models.User
	err = item.Value(func(val []byte) error {
		var err error
		u, err = decodeUser(val)
		return err
	})
	return u, err
}

func decodeUser(val []byte) (*models.User, error) {
	return models.UserFromStored(func(v interface{}) error {
		return json.Unmarshal(val, v)
	})
}
