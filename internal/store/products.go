// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package store

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/lumiskin/internal/models"
)

const productKeyPrefix = "product:"

func productKey(id string) string { return productKeyPrefix + id }

// PutProduct inserts or replaces a catalog product. CreatedAt is kept when
// the product already exists.
func (s *Store) PutProduct(p *models.Product) error {
	s.stamp(&p.ID, nil, &p.UpdatedAt)
	return s.update("put", "products", func(txn *badger.Txn) error {
		var old models.Product
		err := getJSON(txn, productKey(p.ID), &old)
		switch {
		case err == nil:
			p.CreatedAt = old.CreatedAt
		case errors.Is(err, ErrNotFound):
			if p.CreatedAt.IsZero() {
				p.CreatedAt = p.UpdatedAt
			}
		default:
			return err
		}
		return setJSON(txn, productKey(p.ID), p)
	})
}

// GetProduct returns the product with id.
func (s *Store) GetProduct(id string) (*models.Product, error) {
	var p models.Product
	err := s.view("get", "products", func(txn *badger.Txn) error {
		return getJSON(txn, productKey(id), &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProduct removes a product.
func (s *Store) DeleteProduct(id string) error {
	return s.update("delete", "products", func(txn *badger.Txn) error {
		ok, err := exists(txn, productKey(id))
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		return deleteKey(txn, productKey(id))
	})
}

// ListProducts returns every product in insertion order. It satisfies
// recommend.Catalog.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var products []models.Product
	err := s.view("list", "products", func(txn *badger.Txn) error {
		var err error
		products, err = listJSON[models.Product](txn, productKeyPrefix)
		return err
	})
	if err != nil {
		return nil, err
	}
	sortByCreated(products,
		func(p *models.Product) time.Time { return p.CreatedAt },
		func(p *models.Product) string { return p.ID })
	return products, nil
}

// CountProducts returns the catalog size.
func (s *Store) CountProducts() (int, error) {
	n := 0
	err := s.view("count", "products", func(txn *badger.Txn) error {
		return scanKeys(txn, productKeyPrefix, func(string) error {
			n++
			return nil
		})
	})
	return n, err
}
