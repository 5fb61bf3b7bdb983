// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchTracks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/search" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "neon nights" || q.Get("type") != "track" {
			t.Errorf("query = %v", q)
		}
		if q.Get("limit") != "2" || q.Get("offset") != "4" {
			t.Errorf("limit/offset = %s/%s", q.Get("limit"), q.Get("offset"))
		}

		_, _ = w.Write([]byte(`{"tracks":{"items":[
			{"id":"t1","name":"Neon","artists":[{"id":"a1","name":"Glow"}]},
			{"id":"t2","name":"Nights"}
		],"total":37,"limit":2,"offset":4}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	tracks, total, err := client.SearchTracks(context.Background(), "neon nights", 2, 4)
	if err != nil {
		t.Fatalf("SearchTracks: %v", err)
	}

	if total != 37 {
		t.Errorf("total = %d, want 37", total)
	}
	if len(tracks) != 2 || tracks[0].ID != "t1" || tracks[1].ID != "t2" {
		t.Errorf("tracks = %+v", tracks)
	}
	if tracks[0].Artists[0].Name != "Glow" {
		t.Errorf("artist = %+v", tracks[0].Artists)
	}
}

func TestSearchTracksUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, _, err := client.SearchTracks(context.Background(), "anything", 20, 0)
	if err == nil {
		t.Fatal("err = nil, want collaborator failure")
	}
}
