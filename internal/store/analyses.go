// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package store

import (
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/lumiskin/internal/models"
)

const analysisKeyPrefix = "analysis:"

// Analyses are keyed by owner so per-user listing is a prefix scan.
func analysisKey(userID, id string) string {
	return analysisKeyPrefix + userID + ":" + id
}

// CreateAnalysis stores a completed analysis.
func (s *Store) CreateAnalysis(a *models.Analysis) error {
	s.stamp(&a.ID, &a.CreatedAt, nil)
	return s.update("create", "analyses", func(txn *badger.Txn) error {
		return setJSON(txn, analysisKey(a.UserID, a.ID), a)
	})
}

// GetAnalysis returns an analysis owned by userID. Analyses of other users
// are reported as not found.
func (s *Store) GetAnalysis(userID, id string) (*models.Analysis, error) {
	var a models.Analysis
	err := s.view("get", "analyses", func(txn *badger.Txn) error {
		return getJSON(txn, analysisKey(userID, id), &a)
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAnalysesByUser returns the user's analyses, newest first.
func (s *Store) ListAnalysesByUser(userID string) ([]models.Analysis, error) {
	var list []models.Analysis
	err := s.view("list", "analyses", func(txn *badger.Txn) error {
		var err error
		list, err = listJSON[models.Analysis](txn, analysisKeyPrefix+userID+":")
		return err
	})
	if err != nil {
		return nil, err
	}
	sortByCreated(list,
		func(a *models.Analysis) time.Time { return a.CreatedAt },
		func(a *models.Analysis) string { return a.ID })
	reverse(list)
	return list, nil
}

// LatestAnalysis returns the user's most recent analysis.
func (s *Store) LatestAnalysis(userID string) (*models.Analysis, error) {
	list, err := s.ListAnalysesByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return &list[0], nil
}
