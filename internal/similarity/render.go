// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package similarity

import (
	"fmt"
	"strings"
)

// RenderMarkdown renders a response as human-readable Markdown. The item
// ordering and scores are exactly those of the structured response; only
// the presentation differs.
func RenderMarkdown(resp *Response) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Similar Tracks (%s, %s scope)\n\n", resp.Result.Strategy, resp.Result.Scope)

	if len(resp.Result.Items) == 0 {
		b.WriteString("No matching tracks found.\n")
	} else {
		fmt.Fprintf(&b, "%d of %d candidates:\n\n", len(resp.Result.Items), resp.Result.TotalCandidates)
		for i, item := range resp.Result.Items {
			fmt.Fprintf(&b, "%d. **%s** by %s — %.3f\n", i+1, item.Track.Name, artistNames(item.Track.Artists), item.Score)
		}
	}

	if resp.Playlist != nil {
		b.WriteString("\n")
		renderPlaylist(&b, resp.Playlist)
	}

	return b.String()
}

// renderPlaylist renders the playlist outcome section, including per-track
// failures when any track was rejected.
func renderPlaylist(b *strings.Builder, outcome *PlaylistOutcome) {
	if outcome.Action == ActionCreatePlaylist {
		fmt.Fprintf(b, "Created playlist **%s** (`%s`): %d added", outcome.PlaylistName, outcome.PlaylistID, outcome.TracksAdded)
	} else {
		fmt.Fprintf(b, "Playlist `%s`: %d added", outcome.PlaylistID, outcome.TracksAdded)
	}
	if len(outcome.Failures) > 0 {
		fmt.Fprintf(b, ", %d failed:\n", len(outcome.Failures))
		for _, r := range outcome.Failures {
			fmt.Fprintf(b, "- `%s`: %s\n", r.TrackID, r.Reason)
		}
	} else {
		b.WriteString(".\n")
	}
}

// artistNames joins artist display names with commas.
func artistNames(artists []ArtistRef) string {
	if len(artists) == 0 {
		return "Unknown Artist"
	}
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}
