// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/melodex-dev/melodex/internal/metrics"
	"github.com/melodex-dev/melodex/internal/similarity"
)

// maxRequestBody bounds request body reads.
const maxRequestBody = 1 << 20 // 1 MiB

// searchPageLimit caps search and listing page sizes, matching the
// catalog's ceiling.
const searchPageLimit = 50

// defaultPageSize is the page size when the caller leaves limit unset.
const defaultPageSize = 20

// Catalog is the catalog surface the handlers consume: everything the
// engine needs plus the browsing endpoints (search, playlist listing)
// exposed as plumbing.
type Catalog interface {
	similarity.CatalogProvider

	// SearchTracks returns one relevance-ranked page of tracks matching
	// the query, plus the total match count.
	SearchTracks(ctx context.Context, query string, limit, offset int) ([]similarity.Track, int, error)

	// GetUserPlaylists returns one page of the caller's playlists plus
	// the total count.
	GetUserPlaylists(ctx context.Context, limit, offset int) ([]similarity.Playlist, int, error)
}

// Handler serves the HTTP endpoints. The similarity engine handles
// /similar; the catalog provider backs the passthrough endpoints.
type Handler struct {
	engine   *similarity.Engine
	provider Catalog
	logger   zerolog.Logger
}

// NewHandler creates the endpoint handler.
func NewHandler(engine *similarity.Engine, provider Catalog, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:   engine,
		provider: provider,
		logger:   logger.With().Str("component", "api").Logger(),
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Similar runs a similarity request. The response is JSON by default;
// ?format=markdown renders the ranked result as Markdown instead.
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	var req similarity.Request
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, "body", "invalid request body: "+err.Error())
		return
	}
	if req.RequestID == "" {
		req.RequestID = RequestIDFromContext(r.Context())
	}

	start := time.Now()
	resp, err := h.engine.Run(r.Context(), req)
	observeSimilarity(req, resp, err, time.Since(start))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(similarity.RenderMarkdown(resp)))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Track returns track metadata for a single catalog track.
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	track, err := h.provider.GetTrack(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, track)
}

// audioFeaturesRequest is the body of POST /audio-features.
type audioFeaturesRequest struct {
	TrackIDs  []string `json:"track_ids"`
	Normalize bool     `json:"normalize,omitempty"`
}

// audioFeaturesResponse maps track IDs to feature vectors. Tracks
// without features are absent.
type audioFeaturesResponse struct {
	Features map[string]similarity.FeatureVector `json:"features"`
}

// AudioFeatures returns raw or normalized feature vectors for a batch
// of tracks.
func (h *Handler) AudioFeatures(w http.ResponseWriter, r *http.Request) {
	var req audioFeaturesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, "body", "invalid request body: "+err.Error())
		return
	}
	if len(req.TrackIDs) == 0 {
		writeBadRequest(w, r, "track_ids", "track_ids must not be empty")
		return
	}
	if len(req.TrackIDs) > 100 {
		writeBadRequest(w, r, "track_ids", "track_ids must not exceed 100 entries")
		return
	}

	features, err := h.provider.GetAudioFeatures(r.Context(), req.TrackIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.Normalize {
		for id, vec := range features {
			features[id] = similarity.Normalize(vec)
		}
	}
	writeJSON(w, http.StatusOK, audioFeaturesResponse{Features: features})
}

// searchTracksResponse is the body of GET /search.
type searchTracksResponse struct {
	Tracks []similarity.Track `json:"tracks"`
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

// Search returns one page of tracks matching a free-text query.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeBadRequest(w, r, "q", "q must not be empty")
		return
	}
	if len(query) > 200 {
		writeBadRequest(w, r, "q", "q must be at most 200 characters")
		return
	}
	limit, offset, field, err := pageParams(r)
	if err != nil {
		writeBadRequest(w, r, field, err.Error())
		return
	}

	tracks, total, err := h.provider.SearchTracks(r.Context(), query, limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchTracksResponse{
		Tracks: tracks,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// userPlaylistsResponse is the body of GET /me/playlists.
type userPlaylistsResponse struct {
	Playlists []similarity.Playlist `json:"playlists"`
	Total     int                   `json:"total"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
}

// UserPlaylists returns one page of the caller's playlists.
func (h *Handler) UserPlaylists(w http.ResponseWriter, r *http.Request) {
	limit, offset, field, err := pageParams(r)
	if err != nil {
		writeBadRequest(w, r, field, err.Error())
		return
	}

	playlists, total, err := h.provider.GetUserPlaylists(r.Context(), limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if playlists == nil {
		playlists = []similarity.Playlist{}
	}
	writeJSON(w, http.StatusOK, userPlaylistsResponse{
		Playlists: playlists,
		Total:     total,
		Limit:     limit,
		Offset:    offset,
	})
}

// pageParams parses the limit and offset query parameters with defaults.
// The returned field names the offending parameter on error.
func pageParams(r *http.Request) (limit, offset int, field string, err error) {
	limit = defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > searchPageLimit {
			return 0, 0, "limit", fmt.Errorf("limit must be an integer in [1,%d]", searchPageLimit)
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, "offset", fmt.Errorf("offset must be a non-negative integer")
		}
	}
	return limit, offset, "", nil
}

// playlistTracksResponse is the body of GET /playlists/{id}/tracks.
type playlistTracksResponse struct {
	Tracks []similarity.Track `json:"tracks"`
	Total  int                `json:"total"`
}

// PlaylistTracks enumerates every track of a playlist.
func (h *Handler) PlaylistTracks(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tracks, err := h.provider.GetPlaylistTracks(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playlistTracksResponse{Tracks: tracks, Total: len(tracks)})
}

// observeSimilarity records request metrics. Strategy and scope default
// before validation, so the labels are meaningful even on failures.
func observeSimilarity(req similarity.Request, resp *similarity.Response, err error, elapsed time.Duration) {
	strategy := string(req.Strategy)
	if strategy == "" {
		strategy = string(similarity.StrategyEuclidean)
	}
	scope := string(req.Scope)
	if scope == "" {
		scope = string(similarity.ScopeCatalog)
	}

	outcome := "success"
	if err != nil {
		outcome = errorOutcome(err)
	}
	metrics.SimilarityRequestsTotal.WithLabelValues(strategy, scope, outcome).Inc()
	metrics.SimilarityDuration.WithLabelValues(strategy, scope).Observe(elapsed.Seconds())
	if err == nil && resp != nil {
		metrics.SimilarityPoolSize.WithLabelValues(scope).Observe(float64(resp.Result.TotalCandidates))
	}
}

// errorOutcome buckets an error for the outcome metric label.
func errorOutcome(err error) string {
	status, _ := classifyError(err)
	switch status {
	case http.StatusBadRequest:
		return "validation_error"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusUnprocessableEntity:
		return "insufficient_data"
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return "catalog_error"
	default:
		return "error"
	}
}

// decodeJSON decodes a bounded request body, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON encodes v with the standard headers.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
