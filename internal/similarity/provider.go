// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package similarity

import "context"

// CatalogProvider is the engine's view of the remote catalog service.
// Implemented by the catalog package; mocked in tests.
//
// All enumeration methods paginate exhaustively before returning: the
// engine requires the complete pool before scoring begins, so no method
// streams partial results. Read methods may be retried by the
// implementation; CreatePlaylist and AddTracks must never be silently
// retried.
type CatalogProvider interface {
	// GetTrack returns track metadata. Returns NotFoundError if the track
	// does not exist.
	GetTrack(ctx context.Context, trackID string) (Track, error)

	// GetAudioFeatures returns raw feature vectors for up to 100 tracks.
	// Tracks without features are absent from the returned map, never
	// present with a degenerate vector.
	GetAudioFeatures(ctx context.Context, trackIDs []string) (map[string]FeatureVector, error)

	// GetArtistGenres returns the genre set of an artist.
	GetArtistGenres(ctx context.Context, artistID string) (GenreSet, error)

	// GetArtistTopTracks returns the artist's most popular tracks.
	GetArtistTopTracks(ctx context.Context, artistID string) ([]Track, error)

	// GetRecommendations returns catalog-wide recommendations seeded by a
	// track or artist, steered toward the target feature vector. The
	// catalog pre-filters and bounds the result by limit.
	GetRecommendations(ctx context.Context, seedTrackID, seedArtistID string, target FeatureVector, limit int) ([]Track, error)

	// GetPlaylistTracks enumerates every track of a playlist.
	GetPlaylistTracks(ctx context.Context, playlistID string) ([]Track, error)

	// GetArtistTracks enumerates the artist's discography (albums then
	// tracks).
	GetArtistTracks(ctx context.Context, artistID string) ([]Track, error)

	// GetAlbumTracks enumerates the album's tracks.
	GetAlbumTracks(ctx context.Context, albumID string) ([]Track, error)

	// GetSavedTracks enumerates the caller's saved library.
	GetSavedTracks(ctx context.Context) ([]Track, error)

	// CreatePlaylist creates a caller-owned playlist.
	CreatePlaylist(ctx context.Context, name, description string) (Playlist, error)

	// AddTracks appends tracks to a playlist in the given order and
	// reports per-track success or failure. Partial success is reported,
	// never rolled back.
	AddTracks(ctx context.Context, playlistID string, trackIDs []string) (AddReport, error)
}
