// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

// Package config loads Melodex configuration with koanf, layering three
// sources with clear precedence: environment variables over an optional
// YAML file over built-in defaults.
//
// Environment variables use the MELODEX_ prefix and map section by
// section: MELODEX_CATALOG_BASE_URL sets catalog.base_url.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Catalog CatalogConfig `koanf:"catalog"`
	Engine  EngineConfig  `koanf:"engine"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	// Host is the bind address.
	Host string `koanf:"host"`

	// Port is the listen port.
	Port int `koanf:"port" validate:"min=1,max=65535"`

	// ReadTimeout and WriteTimeout bound request IO.
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CORSOrigins lists allowed CORS origins. Empty means same-origin
	// only.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitRequests and RateLimitWindow throttle per-client request
	// rates at the HTTP layer.
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// CatalogConfig configures the upstream catalog client.
type CatalogConfig struct {
	// BaseURL is the catalog API root.
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// Token is the bearer token. Required; there is no anonymous access.
	Token string `koanf:"token" validate:"required"`

	// Timeout bounds a single upstream attempt.
	Timeout time.Duration `koanf:"timeout"`

	// MaxRetries caps read retries.
	MaxRetries int `koanf:"max_retries" validate:"min=1,max=10"`

	// RetryBackoff is the base backoff between retries.
	RetryBackoff time.Duration `koanf:"retry_backoff"`

	// RateLimit and RateBurst shape outbound request rate.
	RateLimit float64 `koanf:"rate_limit" validate:"gt=0"`
	RateBurst int     `koanf:"rate_burst" validate:"min=1"`

	// PageSize is the enumeration page size, capped by the catalog at 50.
	PageSize int `koanf:"page_size" validate:"min=1,max=50"`

	// CacheSize and CacheTTL configure the audio feature cache.
	CacheSize int           `koanf:"cache_size" validate:"min=0"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`

	// BreakerEnabled toggles the circuit breaker around reads.
	BreakerEnabled bool `koanf:"breaker_enabled"`
}

// EngineConfig configures the similarity engine.
type EngineConfig struct {
	// SeedTopTracks is how many artist top tracks feed the seed vector.
	SeedTopTracks int `koanf:"seed_top_tracks" validate:"min=1,max=50"`

	// SeedPlaylistTracks is how many leading playlist tracks feed the
	// seed vector.
	SeedPlaylistTracks int `koanf:"seed_playlist_tracks" validate:"min=1,max=100"`

	// FeatureBatchSize is the feature lookup chunk size.
	FeatureBatchSize int `koanf:"feature_batch_size" validate:"min=1,max=100"`

	// GenreFetchConcurrency bounds concurrent artist genre lookups.
	GenreFetchConcurrency int `koanf:"genre_fetch_concurrency" validate:"min=1,max=32"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	// Level is the minimum log level.
	Level string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error fatal"`

	// Format is json or console.
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
}

// defaultConfig returns the built-in defaults, the lowest-precedence
// layer.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      60 * time.Second,
			ShutdownTimeout:   15 * time.Second,
			RateLimitRequests: 60,
			RateLimitWindow:   time.Minute,
		},
		Catalog: CatalogConfig{
			Timeout:        30 * time.Second,
			MaxRetries:     3,
			RetryBackoff:   500 * time.Millisecond,
			RateLimit:      10,
			RateBurst:      20,
			PageSize:       50,
			CacheSize:      10000,
			CacheTTL:       15 * time.Minute,
			BreakerEnabled: true,
		},
		Engine: EngineConfig{
			SeedTopTracks:         10,
			SeedPlaylistTracks:    20,
			FeatureBatchSize:      100,
			GenreFetchConcurrency: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Addr returns the server's listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
