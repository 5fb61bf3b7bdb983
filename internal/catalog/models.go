// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package catalog

import "github.com/melodex-dev/melodex/internal/similarity"

// Wire types for the catalog REST API. Field names follow the catalog's
// JSON schema, not ours; converters at the bottom translate to the engine's
// domain types.

type artistObject struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres,omitempty"`
}

type albumRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type trackObject struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Artists    []artistObject `json:"artists"`
	Album      albumRef       `json:"album"`
	URI        string         `json:"uri"`
	DurationMS int            `json:"duration_ms"`
	Popularity int            `json:"popularity"`
}

type audioFeaturesObject struct {
	ID               string  `json:"id"`
	Acousticness     float64 `json:"acousticness"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Loudness         float64 `json:"loudness"`
	Speechiness      float64 `json:"speechiness"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
}

// audioFeaturesBatch is the envelope of the batched features endpoint. The
// catalog returns null array slots for tracks without features.
type audioFeaturesBatch struct {
	AudioFeatures []*audioFeaturesObject `json:"audio_features"`
}

// page is the catalog's offset pagination envelope.
type page[T any] struct {
	Items  []T    `json:"items"`
	Total  int    `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Next   string `json:"next"`
}

type playlistTrackItem struct {
	Track trackObject `json:"track"`
}

type savedTrackItem struct {
	AddedAt string      `json:"added_at"`
	Track   trackObject `json:"track"`
}

type topTracksResponse struct {
	Tracks []trackObject `json:"tracks"`
}

type recommendationsResponse struct {
	Tracks []trackObject `json:"tracks"`
}

type playlistObject struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	Tracks      struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

// searchResponse is the envelope of the search endpoint; track results
// arrive as a nested page.
type searchResponse struct {
	Tracks page[trackObject] `json:"tracks"`
}

type createPlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type addTracksRequest struct {
	TrackIDs []string `json:"track_ids"`
}

type apiErrorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// toTrack converts a wire track to the engine's representation.
func toTrack(t trackObject) similarity.Track {
	artists := make([]similarity.ArtistRef, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, similarity.ArtistRef{ID: a.ID, Name: a.Name})
	}
	return similarity.Track{
		ID:         t.ID,
		Name:       t.Name,
		Artists:    artists,
		Album:      t.Album.Name,
		URI:        t.URI,
		DurationMS: t.DurationMS,
		Popularity: t.Popularity,
	}
}

// toTracks converts a slice of wire tracks, skipping empty slots.
func toTracks(ts []trackObject) []similarity.Track {
	out := make([]similarity.Track, 0, len(ts))
	for _, t := range ts {
		if t.ID == "" {
			continue
		}
		out = append(out, toTrack(t))
	}
	return out
}

// toPlaylist converts a wire playlist to the engine's representation.
func toPlaylist(p playlistObject) similarity.Playlist {
	return similarity.Playlist{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		URL:         p.URL,
		TrackCount:  p.Tracks.Total,
	}
}

// toVector converts a wire features object to a raw feature vector.
func toVector(f audioFeaturesObject) similarity.FeatureVector {
	return similarity.FeatureVector{
		Acousticness:     f.Acousticness,
		Danceability:     f.Danceability,
		Energy:           f.Energy,
		Instrumentalness: f.Instrumentalness,
		Liveness:         f.Liveness,
		Loudness:         f.Loudness,
		Speechiness:      f.Speechiness,
		Valence:          f.Valence,
		Tempo:            f.Tempo,
	}
}
