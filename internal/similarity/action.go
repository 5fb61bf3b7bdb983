// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package similarity

import (
	"context"
	"fmt"
)

// executeAction performs the request's side effect on the ranked result.
// return_tracks is a no-op; the two playlist actions add the ranked tracks
// in rank order and report per-track outcomes instead of failing on the
// first rejected track.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) executeAction(ctx context.Context, req Request, ranked []Candidate) (*PlaylistOutcome, error) {
	switch req.Action {
	case ActionReturnTracks:
		return nil, nil

	case ActionCreatePlaylist:
		return e.createAndFill(ctx, req, ranked)

	case ActionAddToPlaylist:
		return e.appendToExisting(ctx, req, ranked)

	default:
		// Unreachable after validation.
		return nil, newValidationError("action", "unknown action %q", req.Action)
	}
}

// createAndFill creates a fresh playlist and adds the ranked tracks to it.
// The playlist is created even when the ranked result is empty, so the
// caller gets a usable (if empty) playlist rather than an error.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createAndFill(ctx context.Context, req Request, ranked []Candidate) (*PlaylistOutcome, error) {
	description := fmt.Sprintf("Similar tracks found using %s strategy", req.Strategy)

	playlist, err := e.provider.CreatePlaylist(ctx, req.PlaylistName, description)
	if err != nil {
		return nil, err
	}

	report, err := e.addRanked(ctx, playlist.ID, ranked)
	if err != nil {
		return nil, err
	}

	e.logger.Info().
		Str("playlist_id", playlist.ID).
		Int("added", report.Added()).
		Int("failed", len(report.Failed())).
		Msg("playlist created")

	return &PlaylistOutcome{
		Action:       ActionCreatePlaylist,
		PlaylistID:   playlist.ID,
		PlaylistName: playlist.Name,
		PlaylistURL:  playlist.URL,
		TracksAdded:  report.Added(),
		Failures:     report.Failed(),
	}, nil
}

// appendToExisting adds the ranked tracks to an existing playlist.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) appendToExisting(ctx context.Context, req Request, ranked []Candidate) (*PlaylistOutcome, error) {
	report, err := e.addRanked(ctx, req.TargetPlaylistID, ranked)
	if err != nil {
		return nil, err
	}

	e.logger.Info().
		Str("playlist_id", req.TargetPlaylistID).
		Int("added", report.Added()).
		Int("failed", len(report.Failed())).
		Msg("tracks added to playlist")

	return &PlaylistOutcome{
		Action:      ActionAddToPlaylist,
		PlaylistID:  req.TargetPlaylistID,
		TracksAdded: report.Added(),
		Failures:    report.Failed(),
	}, nil
}

// addRanked adds the ranked tracks in rank order, producing the per-track
// report. An empty ranked result yields an empty report without touching
// the catalog.
func (e *Engine) addRanked(ctx context.Context, playlistID string, ranked []Candidate) (AddReport, error) {
	if len(ranked) == 0 {
		return AddReport{}, nil
	}

	ids := make([]string, 0, len(ranked))
	for _, c := range ranked {
		ids = append(ids, c.Track.ID)
	}

	report, err := e.provider.AddTracks(ctx, playlistID, ids)
	if err != nil {
		return AddReport{}, err
	}
	return report, nil
}
