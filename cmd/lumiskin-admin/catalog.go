// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tomtom215/lumiskin/internal/catalog"
	"github.com/tomtom215/lumiskin/internal/models"
	"github.com/tomtom215/lumiskin/internal/recommend"
)

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the product catalog",
	}

	importCmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import products from a YAML catalog file",
		Long: `Import products from a YAML file in the seed catalog format.

Products are upserted by id; existing products with the same id are
replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}
			n, err := catalog.Import(cmd.Context(), a.db, products)
			if err != nil {
				return fmt.Errorf("imported %d of %d products: %w", n, len(products), err)
			}
			printf(cmd.OutOrStdout(), "Imported %d products from %s\n", n, args[0])
			return nil
		},
	}

	var category string
	var includeInactive bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if category != "" && !models.IsValidCategory(category) {
				return fmt.Errorf("unknown category %q", category)
			}
			products, err := a.db.ListProducts(cmd.Context())
			if err != nil {
				return err
			}
			recommend.SortCatalog(products)

			tbl := newTable("ID", "NAME", "BRAND", "CATEGORY", "BUDGET", "RATING", "ACTIVE")
			shown := 0
			for i := range products {
				p := &products[i]
				if category != "" && p.Category != category {
					continue
				}
				if !p.IsActive && !includeInactive {
					continue
				}
				tbl.addRow(p.ID, p.Name, p.Brand, p.Category, p.Budget,
					strconv.FormatFloat(p.Rating.Average, 'f', 1, 64), strconv.FormatBool(p.IsActive))
				shown++
			}
			if err := tbl.render(cmd.OutOrStdout()); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%d products\n", shown)
			return nil
		},
	}
	listCmd.Flags().StringVar(&category, "category", "", "only list this category")
	listCmd.Flags().BoolVar(&includeInactive, "all", false, "include inactive products")

	cmd.AddCommand(importCmd, listCmd)
	return cmd
}
