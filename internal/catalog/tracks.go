// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/melodex-dev/melodex/internal/similarity"
)

// GetTrack returns track metadata.
func (c *Client) GetTrack(ctx context.Context, trackID string) (similarity.Track, error) {
	var t trackObject
	if err := c.get(ctx, "/v1/tracks/"+url.PathEscape(trackID), nil, &t); err != nil {
		if isNotFound(err) {
			return similarity.Track{}, &similarity.NotFoundError{Resource: "track", ID: trackID}
		}
		return similarity.Track{}, &similarity.CollaboratorError{Op: "get track", Err: err}
	}
	return toTrack(t), nil
}

// GetAudioFeatures returns raw feature vectors for up to 100 tracks.
// Cached vectors are served locally; the remainder is fetched in one
// batched call. When the batch endpoint rejects the whole request, each
// missing track is fetched individually so one bad ID cannot poison the
// batch. Tracks without features are absent from the result.
func (c *Client) GetAudioFeatures(ctx context.Context, trackIDs []string) (map[string]similarity.FeatureVector, error) {
	if len(trackIDs) == 0 {
		return map[string]similarity.FeatureVector{}, nil
	}
	if len(trackIDs) > featureBatchLimit {
		return nil, fmt.Errorf("at most %d track IDs per features call, got %d", featureBatchLimit, len(trackIDs))
	}

	out := make(map[string]similarity.FeatureVector, len(trackIDs))
	missing := make([]string, 0, len(trackIDs))
	for _, id := range trackIDs {
		if v, ok := c.cache.Get(id); ok {
			out[id] = v
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}

	if err := c.fetchFeaturesBatch(ctx, missing, out); err != nil {
		c.logger.Warn().Err(err).Int("ids", len(missing)).Msg("batched features call failed, falling back to individual requests")
		if err := c.fetchFeaturesIndividually(ctx, missing, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// fetchFeaturesBatch fills out from the batched features endpoint. The
// catalog returns a null slot for tracks without features; those are
// skipped, never zero-filled.
func (c *Client) fetchFeaturesBatch(ctx context.Context, trackIDs []string, out map[string]similarity.FeatureVector) error {
	query := url.Values{"ids": {strings.Join(trackIDs, ",")}}

	var batch audioFeaturesBatch
	if err := c.get(ctx, "/v1/audio-features", query, &batch); err != nil {
		return err
	}

	for _, f := range batch.AudioFeatures {
		if f == nil || f.ID == "" {
			continue
		}
		v := toVector(*f)
		out[f.ID] = v
		c.cache.Add(f.ID, v)
	}
	return nil
}

// fetchFeaturesIndividually fetches one vector per request. 404s mean the
// track has no features and are skipped; other failures abort.
func (c *Client) fetchFeaturesIndividually(ctx context.Context, trackIDs []string, out map[string]similarity.FeatureVector) error {
	for _, id := range trackIDs {
		var f audioFeaturesObject
		if err := c.get(ctx, "/v1/audio-features/"+url.PathEscape(id), nil, &f); err != nil {
			if isNotFound(err) {
				continue
			}
			return &similarity.CollaboratorError{Op: "get audio features", Err: err}
		}
		if f.ID == "" {
			f.ID = id
		}
		v := toVector(f)
		out[f.ID] = v
		c.cache.Add(f.ID, v)
	}
	return nil
}

// GetArtistGenres returns the artist's genre labels.
func (c *Client) GetArtistGenres(ctx context.Context, artistID string) (similarity.GenreSet, error) {
	var a artistObject
	if err := c.get(ctx, "/v1/artists/"+url.PathEscape(artistID), nil, &a); err != nil {
		if isNotFound(err) {
			return nil, &similarity.NotFoundError{Resource: "artist", ID: artistID}
		}
		return nil, &similarity.CollaboratorError{Op: "get artist", Err: err}
	}
	return similarity.GenreSet(a.Genres), nil
}

// GetArtistTopTracks returns the artist's most popular tracks.
func (c *Client) GetArtistTopTracks(ctx context.Context, artistID string) ([]similarity.Track, error) {
	var resp topTracksResponse
	if err := c.get(ctx, "/v1/artists/"+url.PathEscape(artistID)+"/top-tracks", nil, &resp); err != nil {
		if isNotFound(err) {
			return nil, &similarity.NotFoundError{Resource: "artist", ID: artistID}
		}
		return nil, &similarity.CollaboratorError{Op: "get artist top tracks", Err: err}
	}
	return toTracks(resp.Tracks), nil
}

// GetRecommendations returns catalog-wide recommendations seeded by a
// track or artist and steered toward the target feature vector.
func (c *Client) GetRecommendations(ctx context.Context, seedTrackID, seedArtistID string, target similarity.FeatureVector, limit int) ([]similarity.Track, error) {
	query := url.Values{}
	if seedTrackID != "" {
		query.Set("seed_tracks", seedTrackID)
	}
	if seedArtistID != "" {
		query.Set("seed_artists", seedArtistID)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	for dim, value := range target.ToMap() {
		query.Set("target_"+dim, strconv.FormatFloat(value, 'f', 4, 64))
	}

	var resp recommendationsResponse
	if err := c.get(ctx, "/v1/recommendations", query, &resp); err != nil {
		return nil, &similarity.CollaboratorError{Op: "get recommendations", Err: err}
	}
	return toTracks(resp.Tracks), nil
}

// GetArtistTracks enumerates the artist's discography: every album's
// tracks, paginated to exhaustion on both levels.
func (c *Client) GetArtistTracks(ctx context.Context, artistID string) ([]similarity.Track, error) {
	albumIDs, err := c.artistAlbumIDs(ctx, artistID)
	if err != nil {
		return nil, err
	}

	var all []similarity.Track
	for _, albumID := range albumIDs {
		tracks, err := c.GetAlbumTracks(ctx, albumID)
		if err != nil {
			return nil, err
		}
		all = append(all, tracks...)
	}
	return all, nil
}

// artistAlbumIDs paginates the artist's album listing.
func (c *Client) artistAlbumIDs(ctx context.Context, artistID string) ([]string, error) {
	endpoint := "/v1/artists/" + url.PathEscape(artistID) + "/albums"

	var ids []string
	offset := 0
	for {
		query := url.Values{
			"limit":  {strconv.Itoa(c.pageSize)},
			"offset": {strconv.Itoa(offset)},
		}

		var p page[albumRef]
		if err := c.get(ctx, endpoint, query, &p); err != nil {
			if isNotFound(err) {
				return nil, &similarity.NotFoundError{Resource: "artist", ID: artistID}
			}
			return nil, &similarity.CollaboratorError{Op: "get artist albums", Err: err}
		}

		for _, album := range p.Items {
			ids = append(ids, album.ID)
		}

		offset += len(p.Items)
		if len(p.Items) < c.pageSize || p.Next == "" {
			break
		}
	}
	return ids, nil
}
