// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package mlclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/lumiskin/internal/logging"
	"github.com/tomtom215/lumiskin/internal/metrics"
)

const breakerName = "ml-service"

// maxResponseBytes bounds how much of an ML response is read.
const maxResponseBytes = 10 << 20

var (
	// ErrInvalidResponse is returned when the ML service answers with a
	// payload that fails validation.
	ErrInvalidResponse = errors.New("invalid response from ML service")

	// ErrCircuitOpen is returned when the breaker refuses a call.
	ErrCircuitOpen = errors.New("ML service circuit breaker is open")
)

// StatusError is a non-2xx answer from the ML service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ML service error: %d", e.Code)
}

// isClientError reports whether err is a 4xx answer. Client errors are
// never retried and do not count against the breaker.
func isClientError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code >= 400 && se.Code < 500
}

// Client calls the external image analysis and recommendation services.
// Every call except Health goes through the rate limiter, the circuit
// breaker and the retry loop. It is safe for concurrent use.
type Client struct {
	cfg     Config
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[[]byte]
	limiter *rate.Limiter
	sleep   func(ctx context.Context, d time.Duration) error
}

// New creates a client. Zero fields in cfg take their defaults.
func New(cfg Config) *Client {
	cfg = cfg.withDefaults()

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= cfg.BreakerFailureRatio
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening ML circuit")
			}
			return shouldTrip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isClientError(err) || errors.Is(err, context.Canceled)
		},
	})

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		cb:      cb,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		sleep:   sleepCtx,
	}
}

// Config returns the effective settings.
func (c *Client) Config() Config {
	return c.cfg
}

// BreakerState returns the breaker state name ("closed", "half-open", "open").
func (c *Client) BreakerState() string {
	return c.cb.State().String()
}

// requestFunc builds a fresh request for each attempt.
type requestFunc func(ctx context.Context) (*http.Request, error)

// call runs build through the limiter, the breaker and the retry loop and
// returns the response body.
func (c *Client) call(ctx context.Context, endpoint string, build requestFunc) ([]byte, error) {
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.RecordMLRequest(endpoint, time.Since(start), err, true)
		return nil, fmt.Errorf("ML rate limiter: %w", err)
	}

	body, err := c.cb.Execute(func() ([]byte, error) {
		return c.withRetry(ctx, endpoint, build)
	})

	rejected := errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
	metrics.RecordMLRequest(endpoint, time.Since(start), err, rejected)

	switch {
	case rejected:
		metrics.RecordCircuitBreakerRequest(breakerName, "rejected")
		logging.Warn().Err(err).Str("endpoint", endpoint).Msg("[CIRCUIT BREAKER] Request rejected")
		return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	case err != nil:
		metrics.RecordCircuitBreakerRequest(breakerName, "failure")
		return nil, err
	}

	metrics.RecordCircuitBreakerRequest(breakerName, "success")
	return body, nil
}

// withRetry makes up to cfg.Retries attempts, waiting RetryDelay×attempt
// between them. 4xx answers are returned at once.
func (c *Client) withRetry(ctx context.Context, endpoint string, build requestFunc) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.cfg.Retries; attempt++ {
		body, err := c.do(ctx, build)
		if err == nil {
			return body, nil
		}
		if isClientError(err) || ctx.Err() != nil {
			return nil, err
		}
		lastErr = err

		logging.Warn().
			Err(err).
			Str("endpoint", endpoint).
			Int("attempt", attempt).
			Int("max_attempts", c.cfg.Retries).
			Msg("ML service request failed")

		if attempt < c.cfg.Retries {
			metrics.RecordMLRetry(endpoint)
			if err := c.sleep(ctx, c.cfg.RetryDelay*time.Duration(attempt)); err != nil {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("ML service request failed after %d attempts: %w", c.cfg.Retries, lastErr)
}

func (c *Client) do(ctx context.Context, build requestFunc) ([]byte, error) {
	req, err := build(ctx)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}
	return body, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
