// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/melodex-dev/melodex/internal/similarity"
)

func TestGetTrackNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"status":404,"message":"track not found"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.GetTrack(context.Background(), "ghost")

	nfe, ok := similarity.AsNotFoundError(err)
	if !ok {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if nfe.Resource != "track" || nfe.ID != "ghost" {
		t.Errorf("NotFoundError = %+v", nfe)
	}
}

func TestGetAudioFeaturesBatch(t *testing.T) {
	var gotIDs string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio-features" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotIDs = r.URL.Query().Get("ids")
		// t2 has no features: null slot.
		_, _ = w.Write([]byte(`{"audio_features":[{"id":"t1","energy":0.8,"tempo":120,"loudness":-8},null]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	features, err := client.GetAudioFeatures(context.Background(), []string{"t1", "t2"})
	if err != nil {
		t.Fatalf("GetAudioFeatures: %v", err)
	}

	if gotIDs != "t1,t2" {
		t.Errorf("ids param = %q, want t1,t2", gotIDs)
	}
	if len(features) != 1 {
		t.Fatalf("features = %v, want only t1", features)
	}
	if v := features["t1"]; v.Energy != 0.8 || v.Tempo != 120 {
		t.Errorf("t1 = %+v", v)
	}
	if _, ok := features["t2"]; ok {
		t.Error("t2 present despite null features slot")
	}
}

func TestGetAudioFeaturesServesFromCache(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte(`{"audio_features":[{"id":"t1","energy":0.5}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	if _, err := client.GetAudioFeatures(ctx, []string{"t1"}); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := client.GetAudioFeatures(ctx, []string{"t1"}); err != nil {
		t.Fatalf("second call: %v", err)
	}

	if requests != 1 {
		t.Errorf("requests = %d, want 1 (second call served from cache)", requests)
	}
}

func TestGetAudioFeaturesFallsBackToIndividual(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/audio-features":
			// Whole batch rejected.
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"status":400,"message":"invalid id in batch"}}`))
		case strings.HasPrefix(r.URL.Path, "/v1/audio-features/t1"):
			_, _ = w.Write([]byte(`{"id":"t1","energy":0.6}`))
		case strings.HasPrefix(r.URL.Path, "/v1/audio-features/bad"):
			w.WriteHeader(http.StatusNotFound)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	features, err := client.GetAudioFeatures(context.Background(), []string{"t1", "bad"})
	if err != nil {
		t.Fatalf("GetAudioFeatures: %v", err)
	}

	if len(features) != 1 {
		t.Fatalf("features = %v, want only t1", features)
	}
	if features["t1"].Energy != 0.6 {
		t.Errorf("t1 = %+v", features["t1"])
	}
}

func TestGetAudioFeaturesRejectsOversizedBatch(t *testing.T) {
	client := newTestClient(t, "http://unused.invalid")

	ids := make([]string, featureBatchLimit+1)
	for i := range ids {
		ids[i] = "t"
	}
	if _, err := client.GetAudioFeatures(context.Background(), ids); err == nil {
		t.Error("oversized batch accepted")
	}
}

func TestGetArtistGenres(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/artists/a1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":"a1","name":"Band","genres":["indie rock","shoegaze"]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	genres, err := client.GetArtistGenres(context.Background(), "a1")
	if err != nil {
		t.Fatalf("GetArtistGenres: %v", err)
	}

	if len(genres) != 2 || genres[0] != "indie rock" {
		t.Errorf("genres = %v", genres)
	}
}

func TestGetRecommendationsQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("seed_tracks") != "t1" {
			t.Errorf("seed_tracks = %q", q.Get("seed_tracks"))
		}
		if q.Get("limit") != "20" {
			t.Errorf("limit = %q", q.Get("limit"))
		}
		if q.Get("target_energy") == "" {
			t.Error("target_energy missing")
		}
		_, _ = w.Write([]byte(`{"tracks":[{"id":"r1","name":"Rec","artists":[{"id":"a1","name":"Band"}]}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	tracks, err := client.GetRecommendations(context.Background(), "t1", "", similarity.FeatureVector{Energy: 0.8}, 20)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}

	if len(tracks) != 1 || tracks[0].ID != "r1" {
		t.Errorf("tracks = %+v", tracks)
	}
	if len(tracks[0].Artists) != 1 || tracks[0].Artists[0].ID != "a1" {
		t.Errorf("artists = %+v", tracks[0].Artists)
	}
}

func TestGetArtistTracksWalksAlbums(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/artists/a1/albums":
			_, _ = w.Write([]byte(`{"items":[{"id":"al1","name":"One"},{"id":"al2","name":"Two"}],"total":2}`))
		case "/v1/albums/al1/tracks":
			_, _ = w.Write([]byte(`{"items":[{"id":"t1","name":"A"}],"total":1}`))
		case "/v1/albums/al2/tracks":
			_, _ = w.Write([]byte(`{"items":[{"id":"t2","name":"B"}],"total":1}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	tracks, err := client.GetArtistTracks(context.Background(), "a1")
	if err != nil {
		t.Fatalf("GetArtistTracks: %v", err)
	}

	if len(tracks) != 2 || tracks[0].ID != "t1" || tracks[1].ID != "t2" {
		t.Errorf("tracks = %+v", tracks)
	}
}
