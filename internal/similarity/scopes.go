// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package similarity

import (
	"context"
	"fmt"
)

// poolRequest carries the inputs a candidate source needs to enumerate its
// pool.
type poolRequest struct {
	// seedTrackID and seedArtistID steer the catalog scope's
	// recommendation call; exactly one may be set.
	seedTrackID  string
	seedArtistID string

	// target is the raw seed feature vector, used by the catalog scope to
	// steer recommendations.
	target FeatureVector

	// scopeID identifies the playlist, artist, or album container.
	scopeID string

	// limit bounds the catalog scope's recommendation call. Enumerable
	// scopes return their full pool regardless; top-k ranking needs it.
	limit int
}

// CandidateSource produces the unscored candidate pool for one scope. The
// five implementations share an output shape and differ only in their
// enumeration source.
//
// Enumerable sources paginate to exhaustion before returning: the ranker
// requires the complete pool, so no source yields incrementally.
type CandidateSource interface {
	// Name returns the scope tag.
	Name() Scope

	// Tracks enumerates the pool.
	Tracks(ctx context.Context, provider CatalogProvider, req poolRequest) ([]Track, error)
}

// newCandidateSource selects the implementation for a scope.
func newCandidateSource(scope Scope) CandidateSource {
	switch scope {
	case ScopeCatalog:
		return catalogSource{}
	case ScopePlaylist:
		return playlistSource{}
	case ScopeArtist:
		return artistSource{}
	case ScopeAlbum:
		return albumSource{}
	case ScopeSavedTracks:
		return savedTracksSource{}
	default:
		return nil
	}
}

// catalogSource delegates to the catalog's recommendation facility, seeded
// by the source track or artist and steered toward the seed's feature
// vector. The catalog pre-filters, so the pool arrives bounded by limit.
type catalogSource struct{}

func (catalogSource) Name() Scope { return ScopeCatalog }

func (catalogSource) Tracks(ctx context.Context, provider CatalogProvider, req poolRequest) ([]Track, error) {
	tracks, err := provider.GetRecommendations(ctx, req.seedTrackID, req.seedArtistID, req.target, req.limit)
	if err != nil {
		return nil, fmt.Errorf("catalog recommendations: %w", err)
	}
	return tracks, nil
}

// playlistSource enumerates all tracks of the playlist named by scope_id.
type playlistSource struct{}

func (playlistSource) Name() Scope { return ScopePlaylist }

func (playlistSource) Tracks(ctx context.Context, provider CatalogProvider, req poolRequest) ([]Track, error) {
	tracks, err := provider.GetPlaylistTracks(ctx, req.scopeID)
	if err != nil {
		return nil, fmt.Errorf("playlist tracks: %w", err)
	}
	return tracks, nil
}

// artistSource enumerates the discography of the artist named by scope_id.
type artistSource struct{}

func (artistSource) Name() Scope { return ScopeArtist }

func (artistSource) Tracks(ctx context.Context, provider CatalogProvider, req poolRequest) ([]Track, error) {
	tracks, err := provider.GetArtistTracks(ctx, req.scopeID)
	if err != nil {
		return nil, fmt.Errorf("artist tracks: %w", err)
	}
	return tracks, nil
}

// albumSource enumerates the tracks of the album named by scope_id.
type albumSource struct{}

func (albumSource) Name() Scope { return ScopeAlbum }

func (albumSource) Tracks(ctx context.Context, provider CatalogProvider, req poolRequest) ([]Track, error) {
	tracks, err := provider.GetAlbumTracks(ctx, req.scopeID)
	if err != nil {
		return nil, fmt.Errorf("album tracks: %w", err)
	}
	return tracks, nil
}

// savedTracksSource enumerates the caller's saved library. No scope_id; the
// library is implicit in the caller's credentials.
type savedTracksSource struct{}

func (savedTracksSource) Name() Scope { return ScopeSavedTracks }

func (savedTracksSource) Tracks(ctx context.Context, provider CatalogProvider, req poolRequest) ([]Track, error) {
	tracks, err := provider.GetSavedTracks(ctx)
	if err != nil {
		return nil, fmt.Errorf("saved tracks: %w", err)
	}
	return tracks, nil
}

// Ensure all sources implement the interface.
var (
	_ CandidateSource = catalogSource{}
	_ CandidateSource = playlistSource{}
	_ CandidateSource = artistSource{}
	_ CandidateSource = albumSource{}
	_ CandidateSource = savedTracksSource{}
)
