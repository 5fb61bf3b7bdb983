// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/melodex-dev/melodex/internal/config"
	"github.com/melodex-dev/melodex/internal/metrics"
	"github.com/melodex-dev/melodex/internal/similarity"
)

var errUnexpectedCall = errors.New("unexpected provider call")

// mockProvider implements the Catalog surface through function fields.
// Unset methods fail the request.
type mockProvider struct {
	getTrack          func(ctx context.Context, id string) (similarity.Track, error)
	getAudioFeatures  func(ctx context.Context, ids []string) (map[string]similarity.FeatureVector, error)
	getArtistGenres   func(ctx context.Context, id string) (similarity.GenreSet, error)
	getArtistTop      func(ctx context.Context, id string) ([]similarity.Track, error)
	getRecommendation func(ctx context.Context, seedTrack, seedArtist string, target similarity.FeatureVector, limit int) ([]similarity.Track, error)
	getPlaylistTracks func(ctx context.Context, id string) ([]similarity.Track, error)
	getArtistTracks   func(ctx context.Context, id string) ([]similarity.Track, error)
	getAlbumTracks    func(ctx context.Context, id string) ([]similarity.Track, error)
	getSavedTracks    func(ctx context.Context) ([]similarity.Track, error)
	createPlaylist    func(ctx context.Context, name, description string) (similarity.Playlist, error)
	addTracks         func(ctx context.Context, playlistID string, ids []string) (similarity.AddReport, error)
	searchTracks      func(ctx context.Context, query string, limit, offset int) ([]similarity.Track, int, error)
	getUserPlaylists  func(ctx context.Context, limit, offset int) ([]similarity.Playlist, int, error)
}

func (m *mockProvider) GetTrack(ctx context.Context, id string) (similarity.Track, error) {
	if m.getTrack == nil {
		return similarity.Track{}, errUnexpectedCall
	}
	return m.getTrack(ctx, id)
}

func (m *mockProvider) GetAudioFeatures(ctx context.Context, ids []string) (map[string]similarity.FeatureVector, error) {
	if m.getAudioFeatures == nil {
		return nil, errUnexpectedCall
	}
	return m.getAudioFeatures(ctx, ids)
}

func (m *mockProvider) GetArtistGenres(ctx context.Context, id string) (similarity.GenreSet, error) {
	if m.getArtistGenres == nil {
		return nil, errUnexpectedCall
	}
	return m.getArtistGenres(ctx, id)
}

func (m *mockProvider) GetArtistTopTracks(ctx context.Context, id string) ([]similarity.Track, error) {
	if m.getArtistTop == nil {
		return nil, errUnexpectedCall
	}
	return m.getArtistTop(ctx, id)
}

func (m *mockProvider) GetRecommendations(ctx context.Context, seedTrack, seedArtist string, target similarity.FeatureVector, limit int) ([]similarity.Track, error) {
	if m.getRecommendation == nil {
		return nil, errUnexpectedCall
	}
	return m.getRecommendation(ctx, seedTrack, seedArtist, target, limit)
}

func (m *mockProvider) GetPlaylistTracks(ctx context.Context, id string) ([]similarity.Track, error) {
	if m.getPlaylistTracks == nil {
		return nil, errUnexpectedCall
	}
	return m.getPlaylistTracks(ctx, id)
}

func (m *mockProvider) GetArtistTracks(ctx context.Context, id string) ([]similarity.Track, error) {
	if m.getArtistTracks == nil {
		return nil, errUnexpectedCall
	}
	return m.getArtistTracks(ctx, id)
}

func (m *mockProvider) GetAlbumTracks(ctx context.Context, id string) ([]similarity.Track, error) {
	if m.getAlbumTracks == nil {
		return nil, errUnexpectedCall
	}
	return m.getAlbumTracks(ctx, id)
}

func (m *mockProvider) GetSavedTracks(ctx context.Context) ([]similarity.Track, error) {
	if m.getSavedTracks == nil {
		return nil, errUnexpectedCall
	}
	return m.getSavedTracks(ctx)
}

func (m *mockProvider) CreatePlaylist(ctx context.Context, name, description string) (similarity.Playlist, error) {
	if m.createPlaylist == nil {
		return similarity.Playlist{}, errUnexpectedCall
	}
	return m.createPlaylist(ctx, name, description)
}

func (m *mockProvider) AddTracks(ctx context.Context, playlistID string, ids []string) (similarity.AddReport, error) {
	if m.addTracks == nil {
		return similarity.AddReport{}, errUnexpectedCall
	}
	return m.addTracks(ctx, playlistID, ids)
}

func (m *mockProvider) SearchTracks(ctx context.Context, query string, limit, offset int) ([]similarity.Track, int, error) {
	if m.searchTracks == nil {
		return nil, 0, errUnexpectedCall
	}
	return m.searchTracks(ctx, query, limit, offset)
}

func (m *mockProvider) GetUserPlaylists(ctx context.Context, limit, offset int) ([]similarity.Playlist, int, error) {
	if m.getUserPlaylists == nil {
		return nil, 0, errUnexpectedCall
	}
	return m.getUserPlaylists(ctx, limit, offset)
}

var _ Catalog = (*mockProvider)(nil)

func newTestHandler(t *testing.T, provider Catalog) http.Handler {
	t.Helper()

	engine, err := similarity.NewEngine(provider, similarity.Config{
		SeedTopTracks:         10,
		SeedPlaylistTracks:    20,
		FeatureBatchSize:      100,
		GenreFetchConcurrency: 4,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	handler := NewHandler(engine, provider, zerolog.Nop())
	router := NewRouter(handler, config.ServerConfig{
		Host:              "127.0.0.1",
		Port:              0,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
	})
	return router.Setup()
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t, &mockProvider{})

	rec := doRequest(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestRequestIDEchoed(t *testing.T) {
	h := newTestHandler(t, &mockProvider{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "trace-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "trace-42" {
		t.Errorf("X-Request-ID = %q, want trace-42", got)
	}
}

func TestRequestIDGenerated(t *testing.T) {
	h := newTestHandler(t, &mockProvider{})

	rec := doRequest(t, h, http.MethodGet, "/healthz", "")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected generated X-Request-ID header")
	}
}

func TestSimilarReturnsRankedTracks(t *testing.T) {
	seed := similarity.Track{ID: "seed", Name: "Seed"}
	features := map[string]similarity.FeatureVector{
		"seed":  {Energy: 0.8, Tempo: 120, Loudness: -10},
		"close": {Energy: 0.8, Tempo: 120, Loudness: -10},
		"far":   {Energy: 0.1, Tempo: 190, Loudness: -50},
	}
	provider := &mockProvider{
		getTrack: func(_ context.Context, id string) (similarity.Track, error) {
			return seed, nil
		},
		getSavedTracks: func(context.Context) ([]similarity.Track, error) {
			return []similarity.Track{
				{ID: "close", Name: "Close"},
				{ID: "far", Name: "Far"},
			}, nil
		},
		getAudioFeatures: func(_ context.Context, ids []string) (map[string]similarity.FeatureVector, error) {
			out := make(map[string]similarity.FeatureVector)
			for _, id := range ids {
				if v, ok := features[id]; ok {
					out[id] = v
				}
			}
			return out, nil
		},
	}
	h := newTestHandler(t, provider)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/similar",
		`{"track_id":"seed","scope":"saved_tracks"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp similarity.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Result.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(resp.Result.Items))
	}
	if resp.Result.Items[0].Track.ID != "close" {
		t.Errorf("top item = %q, want close", resp.Result.Items[0].Track.ID)
	}
	if resp.RequestID == "" {
		t.Error("expected request_id in response")
	}
}

func TestSimilarMarkdownFormat(t *testing.T) {
	provider := &mockProvider{
		getTrack: func(_ context.Context, id string) (similarity.Track, error) {
			return similarity.Track{ID: "seed", Name: "Seed"}, nil
		},
		getSavedTracks: func(context.Context) ([]similarity.Track, error) {
			return []similarity.Track{{ID: "c1", Name: "Candidate", Artists: []similarity.ArtistRef{{ID: "a1", Name: "Artist"}}}}, nil
		},
		getAudioFeatures: func(_ context.Context, ids []string) (map[string]similarity.FeatureVector, error) {
			out := make(map[string]similarity.FeatureVector)
			for _, id := range ids {
				out[id] = similarity.FeatureVector{Energy: 0.5, Tempo: 120, Loudness: -10}
			}
			return out, nil
		},
	}
	h := newTestHandler(t, provider)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/similar?format=markdown",
		`{"track_id":"seed","scope":"saved_tracks"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Errorf("Content-Type = %q, want text/markdown", ct)
	}
	if !strings.Contains(rec.Body.String(), "**Candidate** by Artist") {
		t.Errorf("markdown body missing track line: %s", rec.Body.String())
	}
}

func TestSimilarValidationError(t *testing.T) {
	h := newTestHandler(t, &mockProvider{})

	rec := doRequest(t, h, http.MethodPost, "/api/v1/similar",
		`{"track_id":"a","artist_id":"b"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "validation_error" {
		t.Errorf("code = %q, want validation_error", body.Error.Code)
	}
	if body.Error.Field != "track_id" {
		t.Errorf("field = %q, want track_id", body.Error.Field)
	}
	if body.RequestID == "" {
		t.Error("expected request_id in error body")
	}
}

func TestSimilarMalformedBody(t *testing.T) {
	h := newTestHandler(t, &mockProvider{})

	rec := doRequest(t, h, http.MethodPost, "/api/v1/similar", `{"track_id":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSimilarSeedNotFound(t *testing.T) {
	provider := &mockProvider{
		getAudioFeatures: func(_ context.Context, ids []string) (map[string]similarity.FeatureVector, error) {
			return map[string]similarity.FeatureVector{}, nil
		},
	}
	h := newTestHandler(t, provider)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/similar",
		`{"track_id":"missing","scope":"saved_tracks"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body.String())
	}
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "not_found" {
		t.Errorf("code = %q, want not_found", body.Error.Code)
	}
}

func TestSimilarGenreSeedWithoutGenres(t *testing.T) {
	provider := &mockProvider{
		getTrack: func(_ context.Context, id string) (similarity.Track, error) {
			return similarity.Track{ID: id, Artists: []similarity.ArtistRef{{ID: "a1"}}}, nil
		},
		getArtistGenres: func(context.Context, string) (similarity.GenreSet, error) {
			return nil, nil
		},
	}
	h := newTestHandler(t, provider)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/similar",
		`{"track_id":"seed","strategy":"genre_match","scope":"saved_tracks"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", rec.Code, rec.Body.String())
	}
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "insufficient_data" {
		t.Errorf("code = %q, want insufficient_data", body.Error.Code)
	}
}

func TestSimilarCollaboratorFailure(t *testing.T) {
	provider := &mockProvider{
		getAudioFeatures: func(context.Context, []string) (map[string]similarity.FeatureVector, error) {
			return nil, &similarity.CollaboratorError{Op: "get audio features", Err: errors.New("connection refused")}
		},
	}
	h := newTestHandler(t, provider)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/similar",
		`{"track_id":"seed","scope":"saved_tracks"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502: %s", rec.Code, rec.Body.String())
	}
}

func TestTrackEndpoint(t *testing.T) {
	provider := &mockProvider{
		getTrack: func(_ context.Context, id string) (similarity.Track, error) {
			if id != "t1" {
				return similarity.Track{}, &similarity.NotFoundError{Resource: "track", ID: id}
			}
			return similarity.Track{ID: "t1", Name: "First"}, nil
		},
	}
	h := newTestHandler(t, provider)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/tracks/t1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var track similarity.Track
	if err := json.Unmarshal(rec.Body.Bytes(), &track); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if track.Name != "First" {
		t.Errorf("name = %q, want First", track.Name)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/v1/tracks/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestAudioFeaturesEndpoint(t *testing.T) {
	provider := &mockProvider{
		getAudioFeatures: func(_ context.Context, ids []string) (map[string]similarity.FeatureVector, error) {
			return map[string]similarity.FeatureVector{
				"t1": {Energy: 0.5, Tempo: 125, Loudness: -30},
			}, nil
		},
	}
	h := newTestHandler(t, provider)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/audio-features",
		`{"track_ids":["t1","t2"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp audioFeaturesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Features) != 1 {
		t.Fatalf("features = %d, want 1", len(resp.Features))
	}
	if got := resp.Features["t1"].Tempo; got != 125 {
		t.Errorf("tempo = %v, want raw 125", got)
	}
}

func TestAudioFeaturesNormalized(t *testing.T) {
	provider := &mockProvider{
		getAudioFeatures: func(_ context.Context, ids []string) (map[string]similarity.FeatureVector, error) {
			return map[string]similarity.FeatureVector{
				"t1": {Tempo: 125, Loudness: -30},
			}, nil
		},
	}
	h := newTestHandler(t, provider)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/audio-features",
		`{"track_ids":["t1"],"normalize":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp audioFeaturesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := resp.Features["t1"].Tempo; got != 0.5 {
		t.Errorf("normalized tempo = %v, want 0.5", got)
	}
	if got := resp.Features["t1"].Loudness; got != 0.5 {
		t.Errorf("normalized loudness = %v, want 0.5", got)
	}
}

func TestAudioFeaturesRejectsBadBatch(t *testing.T) {
	h := newTestHandler(t, &mockProvider{})

	rec := doRequest(t, h, http.MethodPost, "/api/v1/audio-features", `{"track_ids":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty batch status = %d, want 400", rec.Code)
	}

	ids := make([]string, 101)
	for i := range ids {
		ids[i] = "t"
	}
	payload, _ := json.Marshal(audioFeaturesRequest{TrackIDs: ids})
	rec = doRequest(t, h, http.MethodPost, "/api/v1/audio-features", string(payload))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("oversized batch status = %d, want 400", rec.Code)
	}
}

func TestPlaylistTracksEndpoint(t *testing.T) {
	provider := &mockProvider{
		getPlaylistTracks: func(_ context.Context, id string) ([]similarity.Track, error) {
			if id != "pl1" {
				return nil, &similarity.NotFoundError{Resource: "playlist", ID: id}
			}
			return []similarity.Track{{ID: "t1"}, {ID: "t2"}}, nil
		},
	}
	h := newTestHandler(t, provider)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/playlists/pl1/tracks", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp playlistTracksResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 2 || len(resp.Tracks) != 2 {
		t.Errorf("total = %d len = %d, want 2/2", resp.Total, len(resp.Tracks))
	}

	rec = doRequest(t, h, http.MethodGet, "/api/v1/playlists/nope/tracks", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSimilarRejectsNegativeWeight(t *testing.T) {
	h := newTestHandler(t, &mockProvider{})

	rec := doRequest(t, h, http.MethodPost, "/api/v1/similar",
		`{"track_id":"seed","strategy":"weighted","weights":{"energy":-5}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}

	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "validation_error" {
		t.Errorf("code = %q, want validation_error", body.Error.Code)
	}
	if body.Error.Field != "energy" {
		t.Errorf("field = %q, want energy", body.Error.Field)
	}
}

func TestSearchEndpoint(t *testing.T) {
	provider := &mockProvider{
		searchTracks: func(_ context.Context, query string, limit, offset int) ([]similarity.Track, int, error) {
			if query != "neon nights" {
				t.Errorf("query = %q, want neon nights", query)
			}
			if limit != 2 || offset != 4 {
				t.Errorf("limit/offset = %d/%d, want 2/4", limit, offset)
			}
			return []similarity.Track{{ID: "t1", Name: "Neon"}, {ID: "t2", Name: "Nights"}}, 37, nil
		},
	}
	h := newTestHandler(t, provider)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/search?q=neon+nights&limit=2&offset=4", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp searchTracksResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Tracks) != 2 || resp.Total != 37 {
		t.Errorf("tracks/total = %d/%d, want 2/37", len(resp.Tracks), resp.Total)
	}
	if resp.Limit != 2 || resp.Offset != 4 {
		t.Errorf("limit/offset echoed = %d/%d, want 2/4", resp.Limit, resp.Offset)
	}
}

func TestSearchRejectsBadParams(t *testing.T) {
	h := newTestHandler(t, &mockProvider{})

	rec := doRequest(t, h, http.MethodGet, "/api/v1/search", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing q status = %d, want 400", rec.Code)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/v1/search?q=x&limit=51", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("oversized limit status = %d, want 400", rec.Code)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/v1/search?q=x&offset=-1", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("negative offset status = %d, want 400", rec.Code)
	}
}

func TestUserPlaylistsEndpoint(t *testing.T) {
	provider := &mockProvider{
		getUserPlaylists: func(_ context.Context, limit, offset int) ([]similarity.Playlist, int, error) {
			if limit != 20 || offset != 0 {
				t.Errorf("limit/offset = %d/%d, want defaults 20/0", limit, offset)
			}
			return []similarity.Playlist{
				{ID: "pl1", Name: "Morning", TrackCount: 42},
				{ID: "pl2", Name: "Focus", TrackCount: 7},
			}, 2, nil
		},
	}
	h := newTestHandler(t, provider)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/me/playlists", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp userPlaylistsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Playlists) != 2 || resp.Total != 2 {
		t.Errorf("playlists/total = %d/%d, want 2/2", len(resp.Playlists), resp.Total)
	}
	if resp.Playlists[0].TrackCount != 42 {
		t.Errorf("track count = %d, want 42", resp.Playlists[0].TrackCount)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	h := newTestHandler(t, &mockProvider{})

	metrics.SimilarityRequestsTotal.WithLabelValues("euclidean", "catalog", "success").Add(0)

	rec := doRequest(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "melodex_") {
		t.Error("expected melodex metrics in exposition")
	}
}
