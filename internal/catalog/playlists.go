// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package catalog

import (
	"context"
	"net/url"
	"strconv"

	"github.com/melodex-dev/melodex/internal/metrics"
	"github.com/melodex-dev/melodex/internal/similarity"
)

// GetPlaylistTracks enumerates every track of a playlist, paginating to
// exhaustion.
func (c *Client) GetPlaylistTracks(ctx context.Context, playlistID string) ([]similarity.Track, error) {
	endpoint := "/v1/playlists/" + url.PathEscape(playlistID) + "/tracks"

	var all []similarity.Track
	offset := 0
	for {
		query := url.Values{
			"limit":  {strconv.Itoa(c.pageSize)},
			"offset": {strconv.Itoa(offset)},
		}

		var p page[playlistTrackItem]
		if err := c.get(ctx, endpoint, query, &p); err != nil {
			if isNotFound(err) {
				return nil, &similarity.NotFoundError{Resource: "playlist", ID: playlistID}
			}
			return nil, &similarity.CollaboratorError{Op: "get playlist tracks", Err: err}
		}

		for _, item := range p.Items {
			if item.Track.ID == "" {
				continue
			}
			all = append(all, toTrack(item.Track))
		}

		offset += len(p.Items)
		if len(p.Items) < c.pageSize || p.Next == "" {
			break
		}
	}
	return all, nil
}

// GetUserPlaylists returns one page of the caller's playlists plus the
// total count. Listing feeds browsing, so pagination is left to the
// caller via limit and offset.
func (c *Client) GetUserPlaylists(ctx context.Context, limit, offset int) ([]similarity.Playlist, int, error) {
	query := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}

	var p page[playlistObject]
	if err := c.get(ctx, "/v1/me/playlists", query, &p); err != nil {
		return nil, 0, &similarity.CollaboratorError{Op: "get user playlists", Err: err}
	}

	playlists := make([]similarity.Playlist, 0, len(p.Items))
	for _, item := range p.Items {
		if item.ID == "" {
			continue
		}
		playlists = append(playlists, toPlaylist(item))
	}
	return playlists, p.Total, nil
}

// CreatePlaylist creates a caller-owned playlist. Never retried.
func (c *Client) CreatePlaylist(ctx context.Context, name, description string) (similarity.Playlist, error) {
	body := createPlaylistRequest{Name: name, Description: description}

	var p playlistObject
	if err := c.post(ctx, "/v1/me/playlists", body, &p); err != nil {
		return similarity.Playlist{}, &similarity.CollaboratorError{Op: "create playlist", Err: err}
	}
	return toPlaylist(p), nil
}

// AddTracks appends tracks to a playlist in order and reports per-track
// outcomes. The batch endpoint is tried first; when the catalog rejects
// the batch with a client error, each track is added individually so one
// unavailable track cannot sink the rest. Nothing is rolled back.
func (c *Client) AddTracks(ctx context.Context, playlistID string, trackIDs []string) (similarity.AddReport, error) {
	if len(trackIDs) == 0 {
		return similarity.AddReport{}, nil
	}

	endpoint := "/v1/playlists/" + url.PathEscape(playlistID) + "/tracks"

	err := c.post(ctx, endpoint, addTracksRequest{TrackIDs: trackIDs}, nil)
	if err == nil {
		report := similarity.AddReport{Results: make([]similarity.TrackAddResult, 0, len(trackIDs))}
		for _, id := range trackIDs {
			report.Results = append(report.Results, similarity.TrackAddResult{TrackID: id, OK: true})
		}
		metrics.PlaylistTracksAdded.WithLabelValues("ok").Add(float64(len(trackIDs)))
		return report, nil
	}

	if isNotFound(err) {
		return similarity.AddReport{}, &similarity.NotFoundError{Resource: "playlist", ID: playlistID}
	}
	if !isClientError(err) {
		return similarity.AddReport{}, &similarity.CollaboratorError{Op: "add playlist tracks", Err: err}
	}

	c.logger.Warn().Err(err).Str("playlist_id", playlistID).Msg("batch add rejected, adding tracks individually")
	return c.addTracksIndividually(ctx, endpoint, playlistID, trackIDs)
}

// addTracksIndividually adds one track per request, recording per-track
// outcomes. Client errors mark that track failed and continue; anything
// else aborts with the partial report discarded in favor of the error.
func (c *Client) addTracksIndividually(ctx context.Context, endpoint, playlistID string, trackIDs []string) (similarity.AddReport, error) {
	report := similarity.AddReport{Results: make([]similarity.TrackAddResult, 0, len(trackIDs))}

	for _, id := range trackIDs {
		err := c.post(ctx, endpoint, addTracksRequest{TrackIDs: []string{id}}, nil)
		if err == nil {
			report.Results = append(report.Results, similarity.TrackAddResult{TrackID: id, OK: true})
			metrics.PlaylistTracksAdded.WithLabelValues("ok").Inc()
			continue
		}
		if isClientError(err) {
			report.Results = append(report.Results, similarity.TrackAddResult{TrackID: id, OK: false, Reason: err.Error()})
			metrics.PlaylistTracksAdded.WithLabelValues("failed").Inc()
			continue
		}
		return similarity.AddReport{}, &similarity.CollaboratorError{Op: "add playlist track", Err: err}
	}
	return report, nil
}

// isClientError reports whether err is a catalog 4xx other than 429.
func isClientError(err error) bool {
	he, ok := err.(*httpError)
	return ok && he.Status >= 400 && he.Status < 500 && he.Status != 429
}
