// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package similarity

import "strings"

// Strategy identifies a similarity scoring function.
type Strategy string

// The eight supported strategies. The set is closed: new strategies are a
// code change, not a registration call.
const (
	StrategyEuclidean   Strategy = "euclidean"
	StrategyManhattan   Strategy = "manhattan"
	StrategyCosine      Strategy = "cosine"
	StrategyWeighted    Strategy = "weighted"
	StrategyEnergyMatch Strategy = "energy_match"
	StrategyMoodMatch   Strategy = "mood_match"
	StrategyRhythmMatch Strategy = "rhythm_match"
	StrategyGenreMatch  Strategy = "genre_match"
)

// Valid reports whether s is one of the supported strategies.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyEuclidean, StrategyManhattan, StrategyCosine, StrategyWeighted,
		StrategyEnergyMatch, StrategyMoodMatch, StrategyRhythmMatch, StrategyGenreMatch:
		return true
	default:
		return false
	}
}

// Scope identifies the source pool candidates are drawn from.
type Scope string

// The five supported scopes.
const (
	ScopeCatalog     Scope = "catalog"
	ScopePlaylist    Scope = "playlist"
	ScopeArtist      Scope = "artist"
	ScopeAlbum       Scope = "album"
	ScopeSavedTracks Scope = "saved_tracks"
)

// Valid reports whether s is one of the supported scopes.
func (s Scope) Valid() bool {
	switch s {
	case ScopeCatalog, ScopePlaylist, ScopeArtist, ScopeAlbum, ScopeSavedTracks:
		return true
	default:
		return false
	}
}

// RequiresScopeID reports whether the scope needs a scope_id to identify its
// container. Catalog derives its pool from the seed and saved_tracks is
// implicitly the caller's library.
func (s Scope) RequiresScopeID() bool {
	switch s {
	case ScopePlaylist, ScopeArtist, ScopeAlbum:
		return true
	default:
		return false
	}
}

// Action identifies the disposition of the ranked result.
type Action string

// The three supported result actions.
const (
	ActionReturnTracks   Action = "return_tracks"
	ActionCreatePlaylist Action = "create_playlist"
	ActionAddToPlaylist  Action = "add_to_playlist"
)

// Valid reports whether a is one of the supported actions.
func (a Action) Valid() bool {
	switch a {
	case ActionReturnTracks, ActionCreatePlaylist, ActionAddToPlaylist:
		return true
	default:
		return false
	}
}

// Feature dimension names, in canonical order. The first seven are natively
// in [0,1]; tempo and loudness are rescaled by Normalize.
const (
	DimAcousticness     = "acousticness"
	DimDanceability     = "danceability"
	DimEnergy           = "energy"
	DimInstrumentalness = "instrumentalness"
	DimLiveness         = "liveness"
	DimLoudness         = "loudness"
	DimSpeechiness      = "speechiness"
	DimValence          = "valence"
	DimTempo            = "tempo"
)

// FeatureDimensions lists all nine dimension names in canonical order.
var FeatureDimensions = []string{
	DimAcousticness,
	DimDanceability,
	DimEnergy,
	DimInstrumentalness,
	DimLiveness,
	DimLoudness,
	DimSpeechiness,
	DimValence,
	DimTempo,
}

// FeatureVector holds the nine audio characteristics of a track.
//
// In raw form, the seven perceptual dimensions are in [0,1], tempo is in
// BPM, and loudness is in dB (typically negative). Normalize converts a raw
// vector to the comparable [0,1] representation the scorers consume.
type FeatureVector struct {
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

// ToMap returns the vector as a dimension-name keyed map.
func (v FeatureVector) ToMap() map[string]float64 {
	return map[string]float64{
		DimAcousticness:     v.Acousticness,
		DimDanceability:     v.Danceability,
		DimEnergy:           v.Energy,
		DimInstrumentalness: v.Instrumentalness,
		DimLiveness:         v.Liveness,
		DimLoudness:         v.Loudness,
		DimSpeechiness:      v.Speechiness,
		DimValence:          v.Valence,
		DimTempo:            v.Tempo,
	}
}

// FeatureWeights maps dimensions to positive weights for the weighted
// strategy. Zero-valued fields default to 1.0 at scoring time, so an empty
// struct weights every dimension equally and behaves as euclidean.
type FeatureWeights struct {
	Acousticness     float64 `json:"acousticness,omitempty" validate:"gte=0,lte=10"`
	Danceability     float64 `json:"danceability,omitempty" validate:"gte=0,lte=10"`
	Energy           float64 `json:"energy,omitempty" validate:"gte=0,lte=10"`
	Instrumentalness float64 `json:"instrumentalness,omitempty" validate:"gte=0,lte=10"`
	Liveness         float64 `json:"liveness,omitempty" validate:"gte=0,lte=10"`
	Loudness         float64 `json:"loudness,omitempty" validate:"gte=0,lte=10"`
	Speechiness      float64 `json:"speechiness,omitempty" validate:"gte=0,lte=10"`
	Valence          float64 `json:"valence,omitempty" validate:"gte=0,lte=10"`
	Tempo            float64 `json:"tempo,omitempty" validate:"gte=0,lte=10"`
}

// ToMap returns the weights as a dimension-name keyed map with zero fields
// replaced by the default weight of 1.0.
func (w FeatureWeights) ToMap() map[string]float64 {
	m := map[string]float64{
		DimAcousticness:     w.Acousticness,
		DimDanceability:     w.Danceability,
		DimEnergy:           w.Energy,
		DimInstrumentalness: w.Instrumentalness,
		DimLiveness:         w.Liveness,
		DimLoudness:         w.Loudness,
		DimSpeechiness:      w.Speechiness,
		DimValence:          w.Valence,
		DimTempo:            w.Tempo,
	}
	for dim, weight := range m {
		if weight == 0 {
			m[dim] = 1.0
		}
	}
	return m
}

// GenreSet holds the genre labels of a track's primary artists.
type GenreSet []string

// Normalize returns a lowercased, deduplicated copy preserving first-seen
// order so genre comparison is case-insensitive and stable.
func (g GenreSet) Normalize() GenreSet {
	if len(g) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(g))
	out := make(GenreSet, 0, len(g))
	for _, genre := range g {
		lower := strings.ToLower(strings.TrimSpace(genre))
		if lower == "" {
			continue
		}
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, lower)
	}
	return out
}

// ArtistRef identifies an artist on a track.
type ArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Track holds catalog metadata for a track.
type Track struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Artists    []ArtistRef `json:"artists,omitempty"`
	Album      string      `json:"album,omitempty"`
	URI        string      `json:"uri,omitempty"`
	DurationMS int         `json:"duration_ms,omitempty"`
	Popularity int         `json:"popularity,omitempty"`
}

// Candidate is a track under consideration for similarity ranking.
// Created unscored by the scope resolver, scored by the strategy, consumed
// by the ranker.
type Candidate struct {
	Track Track `json:"track"`

	// Features is the raw feature vector; zero-valued until resolved.
	Features FeatureVector `json:"-"`

	// HasFeatures records whether the catalog had a feature vector for the
	// track. Candidates without one are excluded by numeric strategies.
	HasFeatures bool `json:"-"`

	// Genres is the normalized genre set of the track's artists. Resolved
	// only for genre_match.
	Genres GenreSet `json:"genres,omitempty"`

	// Score is the similarity to the seed, set by the scorer.
	Score float64 `json:"similarity"`

	// Contributions is the optional per-dimension score breakdown.
	Contributions map[string]float64 `json:"contributions,omitempty"`
}

// Playlist holds catalog metadata for a playlist.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`

	// TrackCount is the playlist's track total, populated by listing
	// endpoints.
	TrackCount int `json:"track_count,omitempty"`
}

// Request is a single similarity request. Exactly one of TrackID, ArtistID,
// PlaylistID must be set.
type Request struct {
	TrackID    string `json:"track_id,omitempty" validate:"omitempty,max=100"`
	ArtistID   string `json:"artist_id,omitempty" validate:"omitempty,max=100"`
	PlaylistID string `json:"playlist_id,omitempty" validate:"omitempty,max=100"`

	Strategy Strategy        `json:"strategy,omitempty"`
	Weights  *FeatureWeights `json:"weights,omitempty"`

	Scope   Scope  `json:"scope,omitempty"`
	ScopeID string `json:"scope_id,omitempty" validate:"omitempty,max=100"`

	Limit         int      `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
	MinSimilarity *float64 `json:"min_similarity,omitempty" validate:"omitempty,gte=0,lte=1"`

	Action           Action `json:"action,omitempty"`
	PlaylistName     string `json:"playlist_name,omitempty" validate:"omitempty,min=1,max=100"`
	TargetPlaylistID string `json:"target_playlist_id,omitempty" validate:"omitempty,max=100"`

	// RequestID is a unique identifier for tracing. Generated if empty.
	RequestID string `json:"request_id,omitempty"`
}

// DefaultLimit is applied when a request leaves Limit zero.
const DefaultLimit = 20

// withDefaults returns a copy of the request with zero-valued optionals
// replaced by their defaults.
func (r Request) withDefaults() Request {
	if r.Strategy == "" {
		r.Strategy = StrategyEuclidean
	}
	if r.Scope == "" {
		r.Scope = ScopeCatalog
	}
	if r.Action == "" {
		r.Action = ActionReturnTracks
	}
	if r.Limit == 0 {
		r.Limit = DefaultLimit
	}
	return r
}

// seedCount returns how many seed references are populated.
func (r Request) seedCount() int {
	n := 0
	if r.TrackID != "" {
		n++
	}
	if r.ArtistID != "" {
		n++
	}
	if r.PlaylistID != "" {
		n++
	}
	return n
}

// RankedResult is the ordered sequence of scored candidates: length at most
// the request limit, non-increasing by score, ties broken by retrieval
// order.
type RankedResult struct {
	Strategy Strategy    `json:"strategy"`
	Scope    Scope       `json:"scope"`
	Items    []Candidate `json:"tracks"`

	// TotalCandidates is the pool size before thresholding and truncation.
	TotalCandidates int `json:"total_candidates"`
}

// TrackAddResult reports the outcome of adding a single track to a
// playlist.
type TrackAddResult struct {
	TrackID string `json:"track_id"`
	OK      bool   `json:"ok"`
	Reason  string `json:"reason,omitempty"`
}

// AddReport is the per-track outcome of a playlist mutation. Mutations are
// never rolled back; callers get the full picture instead.
type AddReport struct {
	Results []TrackAddResult `json:"results"`
}

// Added returns the number of successfully added tracks.
func (r AddReport) Added() int {
	n := 0
	for _, res := range r.Results {
		if res.OK {
			n++
		}
	}
	return n
}

// Failed returns the results for tracks that could not be added.
func (r AddReport) Failed() []TrackAddResult {
	var failed []TrackAddResult
	for _, res := range r.Results {
		if !res.OK {
			failed = append(failed, res)
		}
	}
	return failed
}

// PlaylistOutcome describes the playlist mutation performed by the
// create_playlist and add_to_playlist actions.
type PlaylistOutcome struct {
	Action       Action           `json:"action"`
	PlaylistID   string           `json:"playlist_id"`
	PlaylistName string           `json:"playlist_name,omitempty"`
	PlaylistURL  string           `json:"playlist_url,omitempty"`
	TracksAdded  int              `json:"tracks_added"`
	Failures     []TrackAddResult `json:"failures,omitempty"`
}

// Response is the combined engine output: the ranked result and, for
// playlist actions, the mutation outcome.
type Response struct {
	Result   RankedResult     `json:"result"`
	Playlist *PlaylistOutcome `json:"playlist,omitempty"`

	// RequestID is the tracing identifier of the request.
	RequestID string `json:"request_id"`

	// LatencyMS is the total engine latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`
}
