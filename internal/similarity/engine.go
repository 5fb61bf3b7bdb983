// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package similarity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/melodex-dev/melodex/internal/validation"
)

// Note: this package depends only on the CatalogProvider interface, never
// on the HTTP client, so the engine can be exercised entirely with mocks.

// Config bounds the engine's seed resolution and candidate fetching.
type Config struct {
	// SeedTopTracks is how many of an artist seed's top tracks feed the
	// mean seed vector.
	SeedTopTracks int

	// SeedPlaylistTracks is how many leading tracks of a playlist seed
	// feed the mean seed vector and the seed genre union.
	SeedPlaylistTracks int

	// FeatureBatchSize is the chunk size for batched feature lookups. The
	// catalog accepts at most 100 IDs per call.
	FeatureBatchSize int

	// GenreFetchConcurrency bounds concurrent artist-genre lookups during
	// genre_match candidate resolution.
	GenreFetchConcurrency int
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		SeedTopTracks:         10,
		SeedPlaylistTracks:    20,
		FeatureBatchSize:      100,
		GenreFetchConcurrency: 4,
	}
}

// Validate checks configuration bounds.
func (c Config) Validate() error {
	if c.SeedTopTracks < 1 {
		return fmt.Errorf("seed top tracks must be positive, got %d", c.SeedTopTracks)
	}
	if c.SeedPlaylistTracks < 1 {
		return fmt.Errorf("seed playlist tracks must be positive, got %d", c.SeedPlaylistTracks)
	}
	if c.FeatureBatchSize < 1 || c.FeatureBatchSize > 100 {
		return fmt.Errorf("feature batch size must be in [1,100], got %d", c.FeatureBatchSize)
	}
	if c.GenreFetchConcurrency < 1 {
		return fmt.Errorf("genre fetch concurrency must be positive, got %d", c.GenreFetchConcurrency)
	}
	return nil
}

// Engine runs similarity requests end to end. It is safe for concurrent
// use; every request's pool, vectors, and scores are request-scoped and
// discarded on completion.
type Engine struct {
	provider CatalogProvider
	config   Config
	logger   zerolog.Logger
}

// NewEngine creates an engine over the given catalog provider.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(provider CatalogProvider, cfg Config, logger zerolog.Logger) (*Engine, error) {
	if provider == nil {
		return nil, fmt.Errorf("catalog provider not set")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Engine{
		provider: provider,
		config:   cfg,
		logger:   logger.With().Str("component", "similarity").Logger(),
	}, nil
}

// Run processes one similarity request: validate, resolve seed, resolve
// pool, score, rank, act.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Run(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	req = req.withDefaults()
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	logger := e.createRequestLogger(req)

	// All validation happens before any collaborator call.
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	logger.Debug().Msg("processing similarity request")

	seed, err := e.resolveSeed(ctx, req)
	if err != nil {
		return nil, err
	}

	pool, err := e.resolvePool(ctx, req, seed)
	if err != nil {
		return nil, err
	}

	candidates, err := e.resolveCandidateData(ctx, req, pool)
	if err != nil {
		return nil, err
	}

	scored := e.scoreCandidates(req, seed, candidates)
	ranked := rank(scored, req.MinSimilarity, req.Limit)

	outcome, err := e.executeAction(ctx, req, ranked)
	if err != nil {
		return nil, err
	}

	resp := e.buildResponse(req, ranked, len(candidates), outcome, start)
	logger.Debug().
		Int("pool", len(candidates)).
		Int("returned", len(ranked)).
		Int64("latency_ms", resp.LatencyMS).
		Msg("similarity request complete")

	return resp, nil
}

// createRequestLogger creates a logger with request context.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Str("strategy", string(req.Strategy)).
		Str("scope", string(req.Scope)).
		Logger()
}

// validateRequest enforces the request invariants. Returns only
// ValidationError values.
//
// Field bounds run first through the struct's validate tags (identifier
// lengths, limit and min_similarity ranges, weight bounds), then the
// cross-field rules the tags cannot express.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func validateRequest(req Request) error {
	if serr := validation.ValidateStruct(&req); serr != nil {
		fe := serr.Errors()[0]
		return newValidationError(fe.Field(), "%s", fe.Error())
	}

	switch req.seedCount() {
	case 1:
	case 0:
		return newValidationError("track_id", "exactly one of track_id, artist_id, playlist_id must be provided")
	default:
		return newValidationError("track_id", "conflicting seed references: provide exactly one of track_id, artist_id, playlist_id")
	}

	if !req.Strategy.Valid() {
		return newValidationError("strategy", "unknown strategy %q", req.Strategy)
	}
	if !req.Scope.Valid() {
		return newValidationError("scope", "unknown scope %q", req.Scope)
	}
	if !req.Action.Valid() {
		return newValidationError("action", "unknown action %q", req.Action)
	}

	if req.Limit < 1 || req.Limit > 100 {
		return newValidationError("limit", "limit must be in [1,100], got %d", req.Limit)
	}
	if req.MinSimilarity != nil && (*req.MinSimilarity < 0 || *req.MinSimilarity > 1) {
		return newValidationError("min_similarity", "min_similarity must be in [0,1], got %g", *req.MinSimilarity)
	}

	if req.Scope.RequiresScopeID() && req.ScopeID == "" {
		return newValidationError("scope_id", "scope_id is required for scope %q", req.Scope)
	}
	if !req.Scope.RequiresScopeID() && req.ScopeID != "" {
		return newValidationError("scope_id", "scope_id is not accepted for scope %q", req.Scope)
	}

	// Genre matching needs per-candidate genre data, which the catalog's
	// recommendation facility does not expose.
	if req.Strategy == StrategyGenreMatch && req.Scope == ScopeCatalog {
		return newValidationError("strategy", "genre_match requires an enumerable scope (playlist, artist, album, saved_tracks), not catalog")
	}

	switch req.Action {
	case ActionCreatePlaylist:
		if req.PlaylistName == "" {
			return newValidationError("playlist_name", "playlist_name is required for action %q", ActionCreatePlaylist)
		}
	case ActionAddToPlaylist:
		if req.TargetPlaylistID == "" {
			return newValidationError("target_playlist_id", "target_playlist_id is required for action %q", ActionAddToPlaylist)
		}
	}

	return nil
}

// resolveSeed resolves the seed's comparable representation: a normalized
// feature vector for numeric strategies, a genre set for genre_match.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) resolveSeed(ctx context.Context, req Request) (Seed, error) {
	if req.Strategy == StrategyGenreMatch {
		genres, err := e.resolveSeedGenres(ctx, req)
		if err != nil {
			return Seed{}, err
		}
		if len(genres) == 0 {
			return Seed{}, ErrNoSeedGenres
		}
		return Seed{Genres: genres}, nil
	}

	raw, err := e.resolveSeedVector(ctx, req)
	if err != nil {
		return Seed{}, err
	}
	return Seed{Vector: Normalize(raw)}, nil
}

// resolveSeedVector produces the raw seed feature vector: the track's own
// vector for a track seed, the mean over top tracks for an artist seed, the
// mean over leading tracks for a playlist seed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) resolveSeedVector(ctx context.Context, req Request) (FeatureVector, error) {
	switch {
	case req.TrackID != "":
		features, err := e.provider.GetAudioFeatures(ctx, []string{req.TrackID})
		if err != nil {
			return FeatureVector{}, err
		}
		v, ok := features[req.TrackID]
		if !ok {
			return FeatureVector{}, &NotFoundError{Resource: "audio_features", ID: req.TrackID}
		}
		return v, nil

	case req.ArtistID != "":
		tracks, err := e.provider.GetArtistTopTracks(ctx, req.ArtistID)
		if err != nil {
			return FeatureVector{}, err
		}
		if len(tracks) > e.config.SeedTopTracks {
			tracks = tracks[:e.config.SeedTopTracks]
		}
		return e.meanTrackVector(ctx, req.ArtistID, "artist", tracks)

	default:
		tracks, err := e.provider.GetPlaylistTracks(ctx, req.PlaylistID)
		if err != nil {
			return FeatureVector{}, err
		}
		if len(tracks) > e.config.SeedPlaylistTracks {
			tracks = tracks[:e.config.SeedPlaylistTracks]
		}
		return e.meanTrackVector(ctx, req.PlaylistID, "playlist", tracks)
	}
}

// meanTrackVector fetches features for the given tracks and averages them.
func (e *Engine) meanTrackVector(ctx context.Context, seedID, resource string, tracks []Track) (FeatureVector, error) {
	if len(tracks) == 0 {
		return FeatureVector{}, &NotFoundError{Resource: resource, ID: seedID}
	}

	ids := trackIDs(tracks)
	features, err := e.fetchFeatures(ctx, ids)
	if err != nil {
		return FeatureVector{}, err
	}

	vectors := make([]FeatureVector, 0, len(ids))
	for _, id := range ids {
		if v, ok := features[id]; ok {
			vectors = append(vectors, v)
		}
	}
	if len(vectors) == 0 {
		return FeatureVector{}, &NotFoundError{Resource: "audio_features", ID: seedID}
	}
	return MeanVector(vectors), nil
}

// resolveSeedGenres produces the seed genre set for genre_match.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) resolveSeedGenres(ctx context.Context, req Request) (GenreSet, error) {
	switch {
	case req.ArtistID != "":
		genres, err := e.provider.GetArtistGenres(ctx, req.ArtistID)
		if err != nil {
			return nil, err
		}
		return genres.Normalize(), nil

	case req.TrackID != "":
		track, err := e.provider.GetTrack(ctx, req.TrackID)
		if err != nil {
			return nil, err
		}
		return e.trackGenres(ctx, track)

	default:
		tracks, err := e.provider.GetPlaylistTracks(ctx, req.PlaylistID)
		if err != nil {
			return nil, err
		}
		if len(tracks) > e.config.SeedPlaylistTracks {
			tracks = tracks[:e.config.SeedPlaylistTracks]
		}
		var all GenreSet
		for _, track := range tracks {
			genres, err := e.trackGenres(ctx, track)
			if err != nil {
				return nil, err
			}
			all = append(all, genres...)
		}
		return all.Normalize(), nil
	}
}

// trackGenres unions the genre sets of a track's artists.
//
//nolint:gocritic // hugeParam: track passed by value for immutability
func (e *Engine) trackGenres(ctx context.Context, track Track) (GenreSet, error) {
	var all GenreSet
	for _, artist := range track.Artists {
		genres, err := e.provider.GetArtistGenres(ctx, artist.ID)
		if err != nil {
			// A single unavailable artist does not sink the track.
			e.logger.Warn().Str("artist_id", artist.ID).Err(err).Msg("artist genre lookup failed")
			continue
		}
		all = append(all, genres...)
	}
	return all.Normalize(), nil
}

// resolvePool enumerates the candidate pool for the request's scope,
// excluding the seed track from its own pool.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) resolvePool(ctx context.Context, req Request, seed Seed) ([]Track, error) {
	source := newCandidateSource(req.Scope)

	tracks, err := source.Tracks(ctx, e.provider, poolRequest{
		seedTrackID:  req.TrackID,
		seedArtistID: req.ArtistID,
		target:       seed.Vector,
		scopeID:      req.ScopeID,
		limit:        req.Limit,
	})
	if err != nil {
		return nil, err
	}

	// The seed never competes against itself. Deduplicate while at it so
	// a track appearing twice in a playlist is scored once.
	seen := make(map[string]struct{}, len(tracks))
	pool := make([]Track, 0, len(tracks))
	for _, track := range tracks {
		if track.ID == "" || track.ID == req.TrackID {
			continue
		}
		if _, ok := seen[track.ID]; ok {
			continue
		}
		seen[track.ID] = struct{}{}
		pool = append(pool, track)
	}
	return pool, nil
}

// resolveCandidateData attaches the data the strategy needs to every pool
// track: feature vectors for numeric strategies, genre sets for
// genre_match. All lookups complete before scoring begins.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) resolveCandidateData(ctx context.Context, req Request, pool []Track) ([]Candidate, error) {
	if req.Strategy == StrategyGenreMatch {
		return e.resolveCandidateGenres(ctx, pool)
	}
	return e.resolveCandidateFeatures(ctx, pool)
}

// resolveCandidateFeatures batch-fetches feature vectors for the pool.
func (e *Engine) resolveCandidateFeatures(ctx context.Context, pool []Track) ([]Candidate, error) {
	features, err := e.fetchFeatures(ctx, trackIDs(pool))
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(pool))
	for _, track := range pool {
		c := Candidate{Track: track}
		if v, ok := features[track.ID]; ok {
			c.Features = v
			c.HasFeatures = true
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// fetchFeatures batch-fetches features in catalog-sized chunks, gathering
// every chunk before returning.
func (e *Engine) fetchFeatures(ctx context.Context, ids []string) (map[string]FeatureVector, error) {
	out := make(map[string]FeatureVector, len(ids))
	for start := 0; start < len(ids); start += e.config.FeatureBatchSize {
		end := start + e.config.FeatureBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch, err := e.provider.GetAudioFeatures(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		for id, v := range batch {
			out[id] = v
		}
	}
	return out, nil
}

// resolveCandidateGenres resolves the genre set of every pool track. Artist
// lookups are deduplicated across the pool and fetched with bounded
// concurrency; everything is gathered before scoring.
func (e *Engine) resolveCandidateGenres(ctx context.Context, pool []Track) ([]Candidate, error) {
	artistIDs := make([]string, 0)
	seen := make(map[string]struct{})
	for _, track := range pool {
		for _, artist := range track.Artists {
			if _, ok := seen[artist.ID]; ok || artist.ID == "" {
				continue
			}
			seen[artist.ID] = struct{}{}
			artistIDs = append(artistIDs, artist.ID)
		}
	}

	genresByArtist := e.fetchArtistGenres(ctx, artistIDs)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(pool))
	for _, track := range pool {
		var all GenreSet
		for _, artist := range track.Artists {
			all = append(all, genresByArtist[artist.ID]...)
		}
		candidates = append(candidates, Candidate{
			Track:  track,
			Genres: all.Normalize(),
		})
	}
	return candidates, nil
}

// fetchArtistGenres looks up artist genre sets with bounded concurrency.
// Individual lookup failures leave that artist without genres rather than
// failing the request; affected candidates fall out as insufficient data.
func (e *Engine) fetchArtistGenres(ctx context.Context, artistIDs []string) map[string]GenreSet {
	type result struct {
		artistID string
		genres   GenreSet
	}

	sem := make(chan struct{}, e.config.GenreFetchConcurrency)
	results := make(chan result, len(artistIDs))
	var wg sync.WaitGroup

	for _, artistID := range artistIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			genres, err := e.provider.GetArtistGenres(ctx, id)
			if err != nil {
				e.logger.Warn().Str("artist_id", id).Err(err).Msg("artist genre lookup failed")
				return
			}
			results <- result{artistID: id, genres: genres}
		}(artistID)
	}

	wg.Wait()
	close(results)

	out := make(map[string]GenreSet, len(artistIDs))
	for r := range results {
		out[r.artistID] = r.genres
	}
	return out
}

// scoreCandidates scores the pool against the seed, silently excluding
// candidates lacking the data the strategy needs.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) scoreCandidates(req Request, seed Seed, candidates []Candidate) []Candidate {
	scorer := newScorer(req.Strategy, req.Weights)

	scored := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		score, contributions, ok := scorer.Score(seed, c)
		if !ok {
			continue
		}
		c.Score = score
		c.Contributions = contributions
		scored = append(scored, c)
	}
	return scored
}

// buildResponse assembles the final response.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) buildResponse(req Request, ranked []Candidate, totalCandidates int, outcome *PlaylistOutcome, start time.Time) *Response {
	if ranked == nil {
		ranked = []Candidate{}
	}
	return &Response{
		Result: RankedResult{
			Strategy:        req.Strategy,
			Scope:           req.Scope,
			Items:           ranked,
			TotalCandidates: totalCandidates,
		},
		Playlist:  outcome,
		RequestID: req.RequestID,
		LatencyMS: time.Since(start).Milliseconds(),
	}
}

// trackIDs extracts the IDs of a track slice, preserving order.
func trackIDs(tracks []Track) []string {
	ids := make([]string, 0, len(tracks))
	for _, t := range tracks {
		ids = append(ids, t.ID)
	}
	return ids
}
