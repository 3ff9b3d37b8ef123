// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

/*
Package mlclient talks to the external skin analysis service.

The image model and the recommendation model run as separate HTTP services.
This package sends images to POST /predict, forwards recommendation requests
to POST /recommendations and GET /recommendations/{id}, and checks
GET /health.

Resilience:

  - an x/time/rate token bucket paces outbound calls
  - a sony/gobreaker circuit breaker (3 half-open requests, 1 minute
    interval, 2 minute open timeout, trips at 60% failures over at least
    10 requests) fails fast while the service is down
  - each call is attempted up to Retries times with RetryDelay×attempt
    between attempts; 4xx answers are never retried

Callers distinguish an open circuit (ErrCircuitOpen) from other upstream
failures to choose between 503 and 502.

Predictions are validated by ValidateResponse before use: the three concern
results and the skin tone must be present and in range, probabilities are
rounded to two decimals, and a missing overall score is derived from the
concern severities.
*/
package mlclient
