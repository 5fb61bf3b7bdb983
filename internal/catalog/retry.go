// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/melodex-dev/melodex/internal/metrics"
)

// retryAfterCap bounds how long a Retry-After header can make us wait.
// Anything longer and failing fast beats blocking the request.
const retryAfterCap = 30 * time.Second

// doWithRetry performs a GET with bounded exponential backoff. Retries on
// network errors, 429, and 5xx; 429 waits honor the Retry-After header.
// Only called for idempotent reads; post never routes through here.
func (c *Client) doWithRetry(req *http.Request, endpoint string) (*http.Response, error) {
	ctx := req.Context()

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("request canceled: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		retryAfter, reason := shouldRetry(resp, err)
		if reason == "" {
			return resp, err
		}

		metrics.CatalogRetriesTotal.WithLabelValues(metricEndpoint(endpoint), reason).Inc()

		if err != nil {
			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("attempt", attempt+1).
				Err(err).
				Msg("catalog request failed, retrying")
		} else {
			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("attempt", attempt+1).
				Int("status", resp.StatusCode).
				Msg("catalog request rejected, retrying")
			_ = resp.Body.Close()
		}

		if attempt == c.maxRetries-1 {
			if err != nil {
				return nil, fmt.Errorf("%s failed after %d attempts: %w", endpoint, c.maxRetries, err)
			}
			return nil, fmt.Errorf("%s failed after %d attempts: status %d", endpoint, c.maxRetries, resp.StatusCode)
		}

		backoff := c.baseBackoff * time.Duration(1<<attempt)
		if retryAfter > 0 {
			backoff = retryAfter
		}
		if err := sleepWithContext(ctx, backoff); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%s failed after %d attempts", endpoint, c.maxRetries)
}

// shouldRetry classifies a response. The returned reason is empty when the
// response is final; otherwise it names the retry trigger for metrics.
func shouldRetry(resp *http.Response, err error) (time.Duration, string) {
	if err != nil {
		return 0, "network"
	}
	if resp == nil {
		return 0, ""
	}
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return parseRetryAfter(resp), "rate_limited"
	case resp.StatusCode >= http.StatusInternalServerError:
		return parseRetryAfter(resp), "server_error"
	default:
		return 0, ""
	}
}

// parseRetryAfter extracts the Retry-After delay, capped at retryAfterCap.
// Only delta-seconds form is supported; the HTTP-date form is rare enough
// that falling back to exponential backoff is fine.
func parseRetryAfter(resp *http.Response) time.Duration {
	raw := resp.Header.Get("Retry-After")
	if raw == "" {
		return 0
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return 0
	}
	d := time.Duration(seconds) * time.Second
	if d > retryAfterCap {
		return retryAfterCap
	}
	return d
}

// sleepWithContext waits for d or until the context is done.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("request canceled during backoff: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
