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

// SearchTracks searches the catalog by free text, returning one page of
// relevance-ranked tracks plus the total match count. Unlike the
// enumeration endpoints this does not paginate to exhaustion: search feeds
// browsing, not pool assembly.
func (c *Client) SearchTracks(ctx context.Context, query string, limit, offset int) ([]similarity.Track, int, error) {
	params := url.Values{
		"q":      {query},
		"type":   {"track"},
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}

	var resp searchResponse
	if err := c.get(ctx, "/v1/search", params, &resp); err != nil {
		return nil, 0, &similarity.CollaboratorError{Op: "search tracks", Err: err}
	}
	return toTracks(resp.Tracks.Items), resp.Tracks.Total, nil
}
