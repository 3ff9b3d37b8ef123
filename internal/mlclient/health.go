// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package mlclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// Health status values.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthStatus is the answer of Health.
type HealthStatus struct {
	Status    string          `json:"status"`
	Response  json.RawMessage `json:"response,omitempty"`
	Error     string          `json:"error,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Health calls GET /health with the health timeout. It bypasses the breaker
// so an open circuit does not hide a recovered service.
func (c *Client) Health(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.HealthTimeout)
	defer cancel()

	status := HealthStatus{Status: StatusHealthy}
	body, err := c.healthCheck(ctx)
	status.Timestamp = time.Now().UTC()
	if err != nil {
		status.Status = StatusUnhealthy
		status.Error = err.Error()
		return status
	}
	if json.Valid(body) {
		status.Response = body
	} else {
		quoted, _ := json.Marshal(string(body))
		status.Response = quoted
	}
	return status
}

func (c *Client) healthCheck(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/health", http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return body, nil
}
