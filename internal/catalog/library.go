// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package catalog

import (
	"context"
	"net/url"
	"strconv"

	"github.com/melodex-dev/melodex/internal/similarity"
)

// GetSavedTracks enumerates the caller's saved library, paginating to
// exhaustion.
func (c *Client) GetSavedTracks(ctx context.Context) ([]similarity.Track, error) {
	var all []similarity.Track
	offset := 0
	for {
		query := url.Values{
			"limit":  {strconv.Itoa(c.pageSize)},
			"offset": {strconv.Itoa(offset)},
		}

		var p page[savedTrackItem]
		if err := c.get(ctx, "/v1/me/tracks", query, &p); err != nil {
			return nil, &similarity.CollaboratorError{Op: "get saved tracks", Err: err}
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

// GetAlbumTracks enumerates the album's tracks, paginating to exhaustion.
func (c *Client) GetAlbumTracks(ctx context.Context, albumID string) ([]similarity.Track, error) {
	endpoint := "/v1/albums/" + url.PathEscape(albumID) + "/tracks"

	var all []similarity.Track
	offset := 0
	for {
		query := url.Values{
			"limit":  {strconv.Itoa(c.pageSize)},
			"offset": {strconv.Itoa(offset)},
		}

		var p page[trackObject]
		if err := c.get(ctx, endpoint, query, &p); err != nil {
			if isNotFound(err) {
				return nil, &similarity.NotFoundError{Resource: "album", ID: albumID}
			}
			return nil, &similarity.CollaboratorError{Op: "get album tracks", Err: err}
		}

		all = append(all, toTracks(p.Items)...)

		offset += len(p.Items)
		if len(p.Items) < c.pageSize || p.Next == "" {
			break
		}
	}
	return all, nil
}
