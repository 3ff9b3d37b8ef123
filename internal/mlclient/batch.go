// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package mlclient

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/lumiskin/internal/logging"
)

// BatchAnalyze analyzes images in batches of Config.BatchSize, each batch
// concurrently. A failed image yields {success:false, error} in its slot;
// results keep the input order.
func (c *Client) BatchAnalyze(ctx context.Context, images []Image, opts Options) []BatchResult {
	results := make([]BatchResult, len(images))
	size := c.cfg.BatchSize

	for start := 0; start < len(images); start += size {
		end := min(start+size, len(images))

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				res, err := c.Analyze(ctx, images[i], opts)
				results[i] = BatchResult{
					Filename:  images[i].Filename,
					Success:   err == nil,
					Results:   res,
					Timestamp: time.Now().UTC(),
				}
				if err != nil {
					results[i].Error = err.Error()
				}
				return nil
			})
		}
		_ = g.Wait()

		logging.Debug().
			Int("batch_start", start).
			Int("batch_end", end).
			Int("total", len(images)).
			Msg("ML batch analyzed")
	}
	return results
}
