// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

// Package catalog loads skincare products from YAML and seeds the product
// store. A starter catalog is embedded in the binary; operators can replace
// it with catalog.seed_file or import additional files with lumiskin-admin.
package catalog
