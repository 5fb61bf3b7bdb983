// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package similarity

// Fixed normalization constants. These are documented conventions of the
// catalog's native ranges, not learned values, so identical inputs always
// produce identical scores.
const (
	// LoudnessFloorDB and LoudnessCeilDB bound the native loudness range.
	// Catalog loudness is track-average dB, typically -60..0.
	LoudnessFloorDB = -60.0
	LoudnessCeilDB  = 0.0

	// TempoFloorBPM and TempoCeilBPM bound the native tempo range. Values
	// outside clamp to the edges rather than extrapolating.
	TempoFloorBPM = 50.0
	TempoCeilBPM  = 200.0
)

// clamp01 clamps v to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Normalize maps a raw feature vector onto [0,1] in every dimension.
//
// The seven perceptual dimensions are natively [0,1] and pass through
// (clamped against out-of-range catalog data). Tempo and loudness are
// rescaled against the fixed constants above and clamped, so neither can
// dominate a distance purely from native range size.
func Normalize(v FeatureVector) FeatureVector {
	return FeatureVector{
		Acousticness:     clamp01(v.Acousticness),
		Danceability:     clamp01(v.Danceability),
		Energy:           clamp01(v.Energy),
		Instrumentalness: clamp01(v.Instrumentalness),
		Liveness:         clamp01(v.Liveness),
		Loudness:         clamp01((v.Loudness - LoudnessFloorDB) / (LoudnessCeilDB - LoudnessFloorDB)),
		Speechiness:      clamp01(v.Speechiness),
		Valence:          clamp01(v.Valence),
		Tempo:            clamp01((v.Tempo - TempoFloorBPM) / (TempoCeilBPM - TempoFloorBPM)),
	}
}

// MeanVector averages raw feature vectors. Used to derive a seed vector for
// artist and playlist seeds. The slice must be non-empty; callers exclude
// tracks without features upstream.
func MeanVector(vectors []FeatureVector) FeatureVector {
	if len(vectors) == 0 {
		return FeatureVector{}
	}

	var sum FeatureVector
	for _, v := range vectors {
		sum.Acousticness += v.Acousticness
		sum.Danceability += v.Danceability
		sum.Energy += v.Energy
		sum.Instrumentalness += v.Instrumentalness
		sum.Liveness += v.Liveness
		sum.Loudness += v.Loudness
		sum.Speechiness += v.Speechiness
		sum.Valence += v.Valence
		sum.Tempo += v.Tempo
	}

	n := float64(len(vectors))
	return FeatureVector{
		Acousticness:     sum.Acousticness / n,
		Danceability:     sum.Danceability / n,
		Energy:           sum.Energy / n,
		Instrumentalness: sum.Instrumentalness / n,
		Liveness:         sum.Liveness / n,
		Speechiness:      sum.Speechiness / n,
		Loudness:         sum.Loudness / n,
		Valence:          sum.Valence / n,
		Tempo:            sum.Tempo / n,
	}
}
