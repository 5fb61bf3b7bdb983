// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

// Command server runs the Melodex HTTP service: a similarity and
// playlist curation engine over a remote music catalog API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/melodex-dev/melodex/internal/api"
	"github.com/melodex-dev/melodex/internal/catalog"
	"github.com/melodex-dev/melodex/internal/config"
	"github.com/melodex-dev/melodex/internal/logging"
	"github.com/melodex-dev/melodex/internal/similarity"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})
	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("catalog", cfg.Catalog.BaseURL).
		Bool("breaker", cfg.Catalog.BreakerEnabled).
		Msg("starting melodex")

	provider, err := buildProvider(cfg.Catalog)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build catalog client")
	}

	engine, err := similarity.NewEngine(provider, similarity.Config{
		SeedTopTracks:         cfg.Engine.SeedTopTracks,
		SeedPlaylistTracks:    cfg.Engine.SeedPlaylistTracks,
		FeatureBatchSize:      cfg.Engine.FeatureBatchSize,
		GenreFetchConcurrency: cfg.Engine.GenreFetchConcurrency,
	}, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build similarity engine")
	}

	handler := api.NewHandler(engine, provider, logging.Logger())
	router := api.NewRouter(handler, cfg.Server)
	server := api.NewServer(cfg.Server, router.Setup())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logging.Fatal().Err(err).Msg("http server failed")
		}
	case <-ctx.Done():
		stop()
		if err := server.Shutdown(context.Background()); err != nil {
			logging.Error().Err(err).Msg("shutdown incomplete")
		}
	}

	logging.Info().Msg("melodex stopped")
}

// buildProvider wires the catalog client, optionally wrapped by the
// circuit breaker.
func buildProvider(cfg config.CatalogConfig) (api.Catalog, error) {
	client, err := catalog.NewClient(catalog.Config{
		BaseURL:      cfg.BaseURL,
		Token:        cfg.Token,
		Timeout:      cfg.Timeout,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		RateLimit:    cfg.RateLimit,
		RateBurst:    cfg.RateBurst,
		PageSize:     cfg.PageSize,
		CacheSize:    cfg.CacheSize,
		CacheTTL:     cfg.CacheTTL,
	}, logging.Logger())
	if err != nil {
		return nil, err
	}
	if cfg.BreakerEnabled {
		return catalog.NewBreakerClient(client), nil
	}
	return client, nil
}
