// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package catalog

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/melodex-dev/melodex/internal/logging"
	"github.com/melodex-dev/melodex/internal/metrics"
	"github.com/melodex-dev/melodex/internal/similarity"
)

// Ensure both client flavors satisfy the engine's provider interface.
var (
	_ similarity.CatalogProvider = (*Client)(nil)
	_ similarity.CatalogProvider = (*BreakerClient)(nil)
)

// BreakerClient wraps Client with a circuit breaker over read endpoints,
// so a degraded catalog fails fast instead of stacking up timeouts.
//
// Mutations (CreatePlaylist, AddTracks) bypass the breaker: they are rare,
// never retried, and rejecting them on read-path failures would block
// playlist curation for no protective gain.
type BreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[any]
	name   string
}

// NewBreakerClient wraps a catalog client with circuit breaker protection.
// The breaker opens after a 60% failure rate over at least 10 requests,
// holds open for 2 minutes, then admits up to 3 probe requests.
func NewBreakerClient(client *Client) *BreakerClient {
	cbName := "catalog-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= 0.6 {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("opening catalog circuit")
				return true
			}
			return false
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("catalog circuit state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
		},

		// Seed/scope lookups that legitimately 404 are not catalog
		// failures and must not trip the breaker.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var nfe *similarity.NotFoundError
			return errors.As(err, &nfe)
		},
	})

	return &BreakerClient{client: client, cb: cb, name: cbName}
}

// execute routes a read through the circuit breaker.
func (b *BreakerClient) execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			return nil, &similarity.CollaboratorError{Op: "circuit breaker", Err: err}
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return result, nil
}

// GetTrack implements CatalogProvider.
func (b *BreakerClient) GetTrack(ctx context.Context, trackID string) (similarity.Track, error) {
	result, err := b.execute(func() (any, error) {
		return b.client.GetTrack(ctx, trackID)
	})
	if err != nil {
		return similarity.Track{}, err
	}
	return result.(similarity.Track), nil
}

// GetAudioFeatures implements CatalogProvider.
func (b *BreakerClient) GetAudioFeatures(ctx context.Context, trackIDs []string) (map[string]similarity.FeatureVector, error) {
	result, err := b.execute(func() (any, error) {
		return b.client.GetAudioFeatures(ctx, trackIDs)
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string]similarity.FeatureVector), nil
}

// GetArtistGenres implements CatalogProvider.
func (b *BreakerClient) GetArtistGenres(ctx context.Context, artistID string) (similarity.GenreSet, error) {
	result, err := b.execute(func() (any, error) {
		return b.client.GetArtistGenres(ctx, artistID)
	})
	if err != nil {
		return nil, err
	}
	return result.(similarity.GenreSet), nil
}

// GetArtistTopTracks implements CatalogProvider.
func (b *BreakerClient) GetArtistTopTracks(ctx context.Context, artistID string) ([]similarity.Track, error) {
	return b.executeTracks(func() (any, error) {
		return b.client.GetArtistTopTracks(ctx, artistID)
	})
}

// GetRecommendations implements CatalogProvider.
func (b *BreakerClient) GetRecommendations(ctx context.Context, seedTrackID, seedArtistID string, target similarity.FeatureVector, limit int) ([]similarity.Track, error) {
	return b.executeTracks(func() (any, error) {
		return b.client.GetRecommendations(ctx, seedTrackID, seedArtistID, target, limit)
	})
}

// GetPlaylistTracks implements CatalogProvider.
func (b *BreakerClient) GetPlaylistTracks(ctx context.Context, playlistID string) ([]similarity.Track, error) {
	return b.executeTracks(func() (any, error) {
		return b.client.GetPlaylistTracks(ctx, playlistID)
	})
}

// GetArtistTracks implements CatalogProvider.
func (b *BreakerClient) GetArtistTracks(ctx context.Context, artistID string) ([]similarity.Track, error) {
	return b.executeTracks(func() (any, error) {
		return b.client.GetArtistTracks(ctx, artistID)
	})
}

// GetAlbumTracks implements CatalogProvider.
func (b *BreakerClient) GetAlbumTracks(ctx context.Context, albumID string) ([]similarity.Track, error) {
	return b.executeTracks(func() (any, error) {
		return b.client.GetAlbumTracks(ctx, albumID)
	})
}

// GetSavedTracks implements CatalogProvider.
func (b *BreakerClient) GetSavedTracks(ctx context.Context) ([]similarity.Track, error) {
	return b.executeTracks(func() (any, error) {
		return b.client.GetSavedTracks(ctx)
	})
}

// searchResult pairs a track page with its total for breaker transit.
type searchResult struct {
	tracks []similarity.Track
	total  int
}

// SearchTracks routes catalog search through the breaker.
func (b *BreakerClient) SearchTracks(ctx context.Context, query string, limit, offset int) ([]similarity.Track, int, error) {
	result, err := b.execute(func() (any, error) {
		tracks, total, err := b.client.SearchTracks(ctx, query, limit, offset)
		return searchResult{tracks: tracks, total: total}, err
	})
	if err != nil {
		return nil, 0, err
	}
	sr := result.(searchResult)
	return sr.tracks, sr.total, nil
}

// playlistPage pairs a playlist page with its total for breaker transit.
type playlistPage struct {
	playlists []similarity.Playlist
	total     int
}

// GetUserPlaylists routes the playlist listing through the breaker.
func (b *BreakerClient) GetUserPlaylists(ctx context.Context, limit, offset int) ([]similarity.Playlist, int, error) {
	result, err := b.execute(func() (any, error) {
		playlists, total, err := b.client.GetUserPlaylists(ctx, limit, offset)
		return playlistPage{playlists: playlists, total: total}, err
	})
	if err != nil {
		return nil, 0, err
	}
	pp := result.(playlistPage)
	return pp.playlists, pp.total, nil
}

// executeTracks routes a track-slice read through the breaker.
func (b *BreakerClient) executeTracks(fn func() (any, error)) ([]similarity.Track, error) {
	result, err := b.execute(fn)
	if err != nil {
		return nil, err
	}
	return result.([]similarity.Track), nil
}

// CreatePlaylist implements CatalogProvider. Bypasses the breaker.
func (b *BreakerClient) CreatePlaylist(ctx context.Context, name, description string) (similarity.Playlist, error) {
	return b.client.CreatePlaylist(ctx, name, description)
}

// AddTracks implements CatalogProvider. Bypasses the breaker.
func (b *BreakerClient) AddTracks(ctx context.Context, playlistID string, trackIDs []string) (similarity.AddReport, error) {
	return b.client.AddTracks(ctx, playlistID, trackIDs)
}

// stateToString converts a gobreaker state to its metric label.
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// stateToFloat converts a gobreaker state to its gauge value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
