// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tomtom215/lumiskin/internal/config"
	"github.com/tomtom215/lumiskin/internal/logging"
	"github.com/tomtom215/lumiskin/internal/models"
	"github.com/tomtom215/lumiskin/internal/validation"
)

//go:embed seed.yaml
var embeddedSeed []byte

// Store is the product persistence the catalog writes to.
type Store interface {
	PutProduct(p *models.Product) error
	CountProducts() (int, error)
}

type seedFile struct {
	Products []ProductInput `yaml:"products"`
}

// Load parses and validates a YAML catalog. Unknown keys are rejected.
func Load(r io.Reader) ([]models.Product, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f seedFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog file is empty")
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	products := make([]models.Product, 0, len(f.Products))
	seen := make(map[string]bool, len(f.Products))
	for i := range f.Products {
		in := &f.Products[i]
		if verr := validation.ValidateStruct(in); verr != nil {
			return nil, fmt.Errorf("product %d (%s): %w", i+1, in.Name, verr)
		}
		if in.ID != "" {
			if seen[in.ID] {
				return nil, fmt.Errorf("product %d: duplicate id %q", i+1, in.ID)
			}
			seen[in.ID] = true
		}
		products = append(products, *in.ToProduct())
	}
	return products, nil
}

// LoadFile loads a catalog from path.
func LoadFile(path string) ([]models.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Embedded returns the catalog compiled into the binary.
func Embedded() ([]models.Product, error) {
	return Load(bytes.NewReader(embeddedSeed))
}

// Import upserts products into the store and returns how many were written.
func Import(ctx context.Context, s Store, products []models.Product) (int, error) {
	for i := range products {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := s.PutProduct(&products[i]); err != nil {
			return i, fmt.Errorf("store product %q: %w", products[i].Name, err)
		}
	}
	return len(products), nil
}

// SeedIfEmpty imports the seed catalog when the store holds no products.
// cfg.SeedFile replaces the embedded catalog when set.
func SeedIfEmpty(ctx context.Context, s Store, cfg config.CatalogConfig) (int, error) {
	count, err := s.CountProducts()
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		logging.Debug().Int("products", count).Msg("Catalog already populated, skipping seed")
		return 0, nil
	}

	var products []models.Product
	if cfg.SeedFile != "" {
		products, err = LoadFile(cfg.SeedFile)
	} else {
		products, err = Embedded()
	}
	if err != nil {
		return 0, err
	}

	n, err := Import(ctx, s, products)
	if err != nil {
		return n, err
	}
	logging.Info().Int("products", n).Str("source", seedSource(cfg)).Msg("Catalog seeded")
	return n, nil
}

func seedSource(cfg config.CatalogConfig) string {
	if cfg.SeedFile != "" {
		return cfg.SeedFile
	}
	return "embedded"
}
