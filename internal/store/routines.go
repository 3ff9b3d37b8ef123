// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package store

import (
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/lumiskin/internal/models"
)

const (
	routineKeyPrefix     = "routine:"
	routineUserKeyPrefix = "routine_user:"
	progressKeyPrefix    = "progress:"
)

func routineKey(id string) string { return routineKeyPrefix + id }

func routineUserKey(userID, id string) string {
	return routineUserKeyPrefix + userID + ":" + id
}

func progressKey(routineID, id string) string {
	return progressKeyPrefix + routineID + ":" + id
}

// CreateRoutine stores a new routine.
func (s *Store) CreateRoutine(r *models.Routine) error {
	s.stamp(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if r.Steps == nil {
		r.Steps = []models.RoutineStep{}
	}

	return s.update("create", "routines", func(txn *badger.Txn) error {
		if err := setJSON(txn, routineKey(r.ID), r); err != nil {
			return err
		}
		return txn.Set([]byte(routineUserKey(r.UserID, r.ID)), nil)
	})
}

// GetRoutine returns the routine with id.
func (s *Store) GetRoutine(id string) (*models.Routine, error) {
	var r models.Routine
	err := s.view("get", "routines", func(txn *badger.Txn) error {
		return getJSON(txn, routineKey(id), &r)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRoutinesByUser returns the user's routines, oldest first.
func (s *Store) ListRoutinesByUser(userID string) ([]models.Routine, error) {
	routines := make([]models.Routine, 0)
	err := s.view("list", "routines", func(txn *badger.Txn) error {
		prefix := routineUserKeyPrefix + userID + ":"
		return scanKeys(txn, prefix, func(key string) error {
			var r models.Routine
			if err := getJSON(txn, routineKey(strings.TrimPrefix(key, prefix)), &r); err != nil {
				return err
			}
			routines = append(routines, r)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortByCreated(routines,
		func(r *models.Routine) time.Time { return r.CreatedAt },
		func(r *models.Routine) string { return r.ID })
	return routines, nil
}

// UpdateRoutine replaces a stored routine. The owner cannot change.
func (s *Store) UpdateRoutine(r *models.Routine) error {
	r.UpdatedAt = s.now().UTC()
	return s.update("update", "routines", func(txn *badger.Txn) error {
		var old models.Routine
		if err := getJSON(txn, routineKey(r.ID), &old); err != nil {
			return err
		}
		r.UserID = old.UserID
		r.CreatedAt = old.CreatedAt
		return setJSON(txn, routineKey(r.ID), r)
	})
}

// DeleteRoutine removes a routine and its progress entries.
func (s *Store) DeleteRoutine(id string) error {
	return s.update("delete", "routines", func(txn *badger.Txn) error {
		var r models.Routine
		if err := getJSON(txn, routineKey(id), &r); err != nil {
			return err
		}
		var progress []string
		if err := scanKeys(txn, progressKeyPrefix+id+":", func(key string) error {
			progress = append(progress, key)
			return nil
		}); err != nil {
			return err
		}
		for _, key := range progress {
			if err := deleteKey(txn, key); err != nil {
				return err
			}
		}
		if err := deleteKey(txn, routineUserKey(r.UserID, id)); err != nil {
			return err
		}
		return deleteKey(txn, routineKey(id))
	})
}

// CreateProgress stores a progress entry for a routine.
func (s *Store) CreateProgress(p *models.Progress) error {
	s.stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return s.update("create", "progress", func(txn *badger.Txn) error {
		return setJSON(txn, progressKey(p.RoutineID, p.ID), p)
	})
}

// ListProgressByRoutine returns a routine's progress entries, oldest first.
func (s *Store) ListProgressByRoutine(routineID string) ([]models.Progress, error) {
	var entries []models.Progress
	err := s.view("list", "progress", func(txn *badger.Txn) error {
		var err error
		entries, err = listJSON[models.Progress](txn, progressKeyPrefix+routineID+":")
		return err
	})
	if err != nil {
		return nil, err
	}
	sortByCreated(entries,
		func(p *models.Progress) time.Time { return p.CreatedAt },
		func(p *models.Progress) string { return p.ID })
	return entries, nil
}
