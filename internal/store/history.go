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

const (
	historyKeyPrefix  = "history:"
	feedbackKeyPrefix = "feedback:"
	chatKeyPrefix     = "chat:"
)

func userScopedKey(prefix, userID, id string) string {
	return prefix + userID + ":" + id
}

// AddHistory records a recommendation request.
func (s *Store) AddHistory(h *models.RecommendationHistory) error {
	s.stamp(&h.ID, &h.CreatedAt, nil)
	if h.Products == nil {
		h.Products = []string{}
	}
	return s.update("create", "history", func(txn *badger.Txn) error {
		return setJSON(txn, userScopedKey(historyKeyPrefix, h.UserID, h.ID), h)
	})
}

// ListHistory returns one page of the user's history, newest first, and the
// total number of entries.
func (s *Store) ListHistory(userID string, limit, offset int) ([]models.RecommendationHistory, int, error) {
	var all []models.RecommendationHistory
	err := s.view("list", "history", func(txn *badger.Txn) error {
		var err error
		all, err = listJSON[models.RecommendationHistory](txn, historyKeyPrefix+userID+":")
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	sortByCreated(all,
		func(h *models.RecommendationHistory) time.Time { return h.CreatedAt },
		func(h *models.RecommendationHistory) string { return h.ID })
	reverse(all)

	total := len(all)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []models.RecommendationHistory{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

// AddFeedback records feedback on a recommended product.
func (s *Store) AddFeedback(f *models.RecommendationFeedback) error {
	s.stamp(&f.ID, &f.CreatedAt, nil)
	return s.update("create", "feedback", func(txn *badger.Txn) error {
		return setJSON(txn, userScopedKey(feedbackKeyPrefix, f.UserID, f.ID), f)
	})
}

// ListFeedback returns the user's feedback, oldest first.
func (s *Store) ListFeedback(userID string) ([]models.RecommendationFeedback, error) {
	var list []models.RecommendationFeedback
	err := s.view("list", "feedback", func(txn *badger.Txn) error {
		var err error
		list, err = listJSON[models.RecommendationFeedback](txn, feedbackKeyPrefix+userID+":")
		return err
	})
	if err != nil {
		return nil, err
	}
	sortByCreated(list,
		func(f *models.RecommendationFeedback) time.Time { return f.CreatedAt },
		func(f *models.RecommendationFeedback) string { return f.ID })
	return list, nil
}

// AddChatMessage appends a message to the user's conversation.
func (s *Store) AddChatMessage(m *models.ChatMessage) error {
	s.stamp(&m.ID, &m.CreatedAt, nil)
	return s.update("create", "chat", func(txn *badger.Txn) error {
		return setJSON(txn, userScopedKey(chatKeyPrefix, m.UserID, m.ID), m)
	})
}

// ListChat returns the user's conversation in the order it was written.
func (s *Store) ListChat(userID string) ([]models.ChatMessage, error) {
	var list []models.ChatMessage
	err := s.view("list", "chat", func(txn *badger.Txn) error {
		var err error
		list, err = listJSON[models.ChatMessage](txn, chatKeyPrefix+userID+":")
		return err
	})
	if err != nil {
		return nil, err
	}
	sortByCreated(list,
		func(m *models.ChatMessage) time.Time { return m.CreatedAt },
		func(m *models.ChatMessage) string { return m.ID })
	return list, nil
}

// ClearChat deletes the user's conversation and returns how many messages
// were removed.
func (s *Store) ClearChat(userID string) (int, error) {
	var keys []string
	err := s.update("delete", "chat", func(txn *badger.Txn) error {
		if err := scanKeys(txn, chatKeyPrefix+userID+":", func(key string) error {
			keys = append(keys, key)
			return nil
		}); err != nil {
			return err
		}
		for _, key := range keys {
			if err := deleteKey(txn, key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}
