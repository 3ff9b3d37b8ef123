// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomtom215/lumiskin/internal/config"
	"github.com/tomtom215/lumiskin/internal/store"
)

func TestEmbedded(t *testing.T) {
	products, err := Embedded()
	if err != nil {
		t.Fatalf("Embedded: %v", err)
	}
	if len(products) < 10 {
		t.Fatalf("embedded catalog has %d products", len(products))
	}

	categories := map[string]bool{}
	for _, p := range products {
		if p.ID == "" || !p.IsActive {
			t.Errorf("product %q: id=%q active=%v", p.Name, p.ID, p.IsActive)
		}
		if p.Price.Currency != "USD" {
			t.Errorf("product %q currency = %q", p.Name, p.Price.Currency)
		}
		categories[p.Category] = true
	}
	for _, c := range []string{"cleanser", "serum", "moisturizer", "sunscreen"} {
		if !categories[c] {
			t.Errorf("embedded catalog missing category %s", c)
		}
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
		wantN   int
	}{
		{
			name: "valid",
			yaml: `products:
  - name: Test Cleanser
    brand: Acme
    category: cleanser
    budget: low
    active: false
    skin_types: [oily]
`,
			wantN: 1,
		},
		{
			name:    "empty",
			yaml:    "",
			wantErr: "empty",
		},
		{
			name: "unknown field",
			yaml: `products:
  - name: X
    brand: Y
    category: cleanser
    budget: low
    colour: red
`,
			wantErr: "colour",
		},
		{
			name: "invalid category",
			yaml: `products:
  - name: X
    brand: Y
    category: perfume
    budget: low
`,
			wantErr: "category",
		},
		{
			name: "invalid skin type",
			yaml: `products:
  - name: X
    brand: Y
    category: toner
    budget: low
    skin_types: [scaly]
`,
			wantErr: "product 1",
		},
		{
			name: "duplicate id",
			yaml: `products:
  - {id: a, name: X, brand: Y, category: toner, budget: low}
  - {id: a, name: Z, brand: Y, category: toner, budget: low}
`,
			wantErr: "duplicate id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := Load(strings.NewReader(tt.yaml))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Load error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(products) != tt.wantN {
				t.Fatalf("len = %d, want %d", len(products), tt.wantN)
			}
			if products[0].IsActive {
				t.Error("active: false was ignored")
			}
			if len(products[0].SkinConcernTargets) != 0 || products[0].SkinConcernTargets == nil {
				t.Error("concerns should default to an empty slice")
			}
		})
	}
}

func TestSeedIfEmpty(t *testing.T) {
	s, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	n, err := SeedIfEmpty(ctx, s, config.CatalogConfig{SeedOnStartup: true})
	if err != nil {
		t.Fatalf("SeedIfEmpty: %v", err)
	}
	embedded, _ := Embedded()
	if n != len(embedded) {
		t.Errorf("seeded %d, want %d", n, len(embedded))
	}

	again, err := SeedIfEmpty(ctx, s, config.CatalogConfig{})
	if err != nil || again != 0 {
		t.Errorf("second seed = %d, %v; want 0, nil", again, err)
	}

	count, _ := s.CountProducts()
	if count != len(embedded) {
		t.Errorf("store holds %d products", count)
	}
}

func TestSeedFromFile(t *testing.T) {
	s, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	defer s.Close()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	body := "products:\n  - {id: only, name: Solo Serum, brand: Acme, category: serum, budget: high}\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	n, err := SeedIfEmpty(context.Background(), s, config.CatalogConfig{SeedFile: path})
	if err != nil || n != 1 {
		t.Fatalf("SeedIfEmpty = %d, %v", n, err)
	}
	p, err := s.GetProduct("only")
	if err != nil || p.Name != "Solo Serum" {
		t.Errorf("GetProduct = %+v, %v", p, err)
	}
}

func TestImportCanceled(t *testing.T) {
	s, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	defer s.Close()

	products, _ := Embedded()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if n, err := Import(ctx, s, products); err == nil || n != 0 {
		t.Errorf("Import on canceled ctx = %d, %v", n, err)
	}
}
