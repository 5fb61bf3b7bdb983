// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/melodex-dev/melodex/internal/metrics"
)

// Config holds catalog client configuration.
type Config struct {
	// BaseURL is the catalog API root, e.g. https://api.catalog.example.
	BaseURL string

	// Token is the bearer token for every request.
	Token string

	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration

	// MaxRetries is the attempt ceiling for idempotent reads.
	MaxRetries int

	// RetryBackoff is the base backoff; attempt n waits 2^n times this,
	// unless the catalog supplies Retry-After.
	RetryBackoff time.Duration

	// RateLimit is the sustained request rate in requests per second.
	RateLimit float64

	// RateBurst is the token bucket burst size.
	RateBurst int

	// PageSize is the page size for enumeration endpoints.
	PageSize int

	// CacheSize and CacheTTL configure the audio feature cache.
	CacheSize int
	CacheTTL  time.Duration
}

// DefaultConfig returns production defaults for the catalog client.
func DefaultConfig() Config {
	return Config{
		Timeout:      30 * time.Second,
		MaxRetries:   3,
		RetryBackoff: 500 * time.Millisecond,
		RateLimit:    10,
		RateBurst:    20,
		PageSize:     50,
		CacheSize:    10000,
		CacheTTL:     15 * time.Minute,
	}
}

// featureBatchLimit is the catalog's ceiling on IDs per batched features
// call.
const featureBatchLimit = 100

// Client is the low-level catalog API client. Wrap it in a BreakerClient
// for production use; the engine consumes either through the
// CatalogProvider interface.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *featureCache
	logger     zerolog.Logger

	maxRetries  int
	baseBackoff time.Duration
	pageSize    int
}

// NewClient creates a catalog client.
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("catalog base URL not set")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("catalog token not set")
	}

	defaults := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaults.MaxRetries
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = defaults.RetryBackoff
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaults.RateLimit
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = defaults.RateBurst
	}
	if cfg.PageSize <= 0 || cfg.PageSize > 50 {
		cfg.PageSize = defaults.PageSize
	}

	return &Client{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		token:       cfg.Token,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		limiter:     rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		cache:       newFeatureCache(cfg.CacheSize, cfg.CacheTTL),
		logger:      logger.With().Str("component", "catalog").Logger(),
		maxRetries:  cfg.MaxRetries,
		baseBackoff: cfg.RetryBackoff,
		pageSize:    cfg.PageSize,
	}, nil
}

// get performs a rate-limited, retried GET and decodes the JSON response
// into out.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	fullURL := c.baseURL + endpoint
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.doWithRetry(req, endpoint)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.ObserveCatalogRequest(metricEndpoint(endpoint), resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return c.apiError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// post performs a rate-limited POST. Mutations are never retried: a timeout
// after the catalog applied the write must not duplicate it.
func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.ObserveCatalogRequest(metricEndpoint(endpoint), resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return c.apiError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// setHeaders applies the auth and content headers every request carries.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Melodex/1.0")
}

// httpError carries a non-2xx catalog response. Callers translate status
// 404 into NotFoundError with resource context; everything else becomes a
// CollaboratorError.
type httpError struct {
	Status  int
	Message string
}

func (e *httpError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("catalog returned status %d", e.Status)
	}
	return fmt.Sprintf("catalog returned status %d: %s", e.Status, e.Message)
}

// isNotFound reports whether err is a catalog 404.
func isNotFound(err error) bool {
	he, ok := err.(*httpError)
	return ok && he.Status == http.StatusNotFound
}

// apiError reads a non-2xx response into an httpError, preferring the
// catalog's structured error message over the raw body.
func (c *Client) apiError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return &httpError{Status: resp.StatusCode}
	}

	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return &httpError{Status: resp.StatusCode, Message: parsed.Error.Message}
	}
	return &httpError{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
}

// knownSegments are the fixed path segments of the catalog API; anything
// else is an identifier.
var knownSegments = map[string]struct{}{
	"v1": {}, "me": {}, "tracks": {}, "top-tracks": {}, "albums": {},
	"playlists": {}, "artists": {}, "audio-features": {}, "recommendations": {},
	"search": {},
}

// metricEndpoint collapses ID-bearing paths to a bounded label set.
func metricEndpoint(endpoint string) string {
	parts := strings.Split(strings.TrimPrefix(endpoint, "/"), "/")
	for i, part := range parts {
		if _, ok := knownSegments[part]; !ok {
			parts[i] = "{id}"
		}
	}
	return "/" + strings.Join(parts, "/")
}
