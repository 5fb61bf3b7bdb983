// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

// Package catalog implements the remote music catalog client backing the
// similarity engine's CatalogProvider interface.
//
// The client speaks the catalog's REST API with bearer token auth and
// layers three resilience mechanisms over it:
//
//   - a token bucket rate limiter ahead of every request
//   - bounded exponential backoff retries for idempotent reads, honoring
//     Retry-After on 429 responses; mutations are never retried
//   - a circuit breaker around read endpoints so a degraded catalog fails
//     fast instead of piling up timeouts
//
// Audio feature lookups go through an in-process LRU cache with TTL, so
// repeated requests over overlapping pools avoid refetching vectors.
package catalog
