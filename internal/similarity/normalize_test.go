// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package similarity

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNormalizeRescalesTempoAndLoudness(t *testing.T) {
	tests := []struct {
		name         string
		input        FeatureVector
		wantTempo    float64
		wantLoudness float64
	}{
		{
			name:         "midrange",
			input:        FeatureVector{Tempo: 125, Loudness: -30},
			wantTempo:    0.5,
			wantLoudness: 0.5,
		},
		{
			name:         "floor values",
			input:        FeatureVector{Tempo: 50, Loudness: -60},
			wantTempo:    0,
			wantLoudness: 0,
		},
		{
			name:         "ceiling values",
			input:        FeatureVector{Tempo: 200, Loudness: 0},
			wantTempo:    1,
			wantLoudness: 1,
		},
		{
			name:         "below floor clamps to zero",
			input:        FeatureVector{Tempo: 30, Loudness: -80},
			wantTempo:    0,
			wantLoudness: 0,
		},
		{
			name:         "above ceiling clamps to one",
			input:        FeatureVector{Tempo: 240, Loudness: 3},
			wantTempo:    1,
			wantLoudness: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if !almostEqual(got.Tempo, tt.wantTempo) {
				t.Errorf("Tempo = %g, want %g", got.Tempo, tt.wantTempo)
			}
			if !almostEqual(got.Loudness, tt.wantLoudness) {
				t.Errorf("Loudness = %g, want %g", got.Loudness, tt.wantLoudness)
			}
		})
	}
}

func TestNormalizePassesPerceptualDimensionsThrough(t *testing.T) {
	in := FeatureVector{
		Acousticness:     0.25,
		Danceability:     0.5,
		Energy:           0.75,
		Instrumentalness: 0.1,
		Liveness:         0.2,
		Speechiness:      0.3,
		Valence:          0.9,
	}

	got := Normalize(in)

	if got.Acousticness != 0.25 || got.Danceability != 0.5 || got.Energy != 0.75 {
		t.Errorf("perceptual dimensions changed: %+v", got)
	}
	if got.Instrumentalness != 0.1 || got.Liveness != 0.2 || got.Speechiness != 0.3 || got.Valence != 0.9 {
		t.Errorf("perceptual dimensions changed: %+v", got)
	}
}

func TestNormalizeClampsOutOfRangePerceptual(t *testing.T) {
	got := Normalize(FeatureVector{Energy: 1.3, Valence: -0.2})
	if got.Energy != 1 {
		t.Errorf("Energy = %g, want 1", got.Energy)
	}
	if got.Valence != 0 {
		t.Errorf("Valence = %g, want 0", got.Valence)
	}
}

func TestMeanVector(t *testing.T) {
	vectors := []FeatureVector{
		{Energy: 0.2, Tempo: 100, Loudness: -10},
		{Energy: 0.8, Tempo: 140, Loudness: -30},
	}

	got := MeanVector(vectors)

	if !almostEqual(got.Energy, 0.5) {
		t.Errorf("Energy = %g, want 0.5", got.Energy)
	}
	if !almostEqual(got.Tempo, 120) {
		t.Errorf("Tempo = %g, want 120", got.Tempo)
	}
	if !almostEqual(got.Loudness, -20) {
		t.Errorf("Loudness = %g, want -20", got.Loudness)
	}
}

func TestMeanVectorEmpty(t *testing.T) {
	got := MeanVector(nil)
	if got != (FeatureVector{}) {
		t.Errorf("MeanVector(nil) = %+v, want zero vector", got)
	}
}
