// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package similarity

import "math"

// Seed is the resolved similarity reference a request scores against.
type Seed struct {
	// Vector is the normalized feature vector of the seed entity.
	Vector FeatureVector

	// Genres is the normalized genre set of the seed entity. Populated
	// only for genre_match.
	Genres GenreSet
}

// Scorer computes the similarity of a candidate to the seed. Higher is more
// similar; all strategies score into [0,1].
//
// The eight strategies form a closed set, one implementation per variant,
// selected by newScorer. Score reports ok=false when the candidate lacks
// the data the strategy needs; such candidates are silently excluded.
type Scorer interface {
	// Name returns the strategy tag.
	Name() Strategy

	// Score returns the similarity and an optional per-dimension
	// contribution breakdown.
	Score(seed Seed, c Candidate) (score float64, contributions map[string]float64, ok bool)
}

// newScorer selects the implementation for a strategy. The weights argument
// is consumed only by the weighted strategy; a nil or empty weights map
// makes weighted behave exactly as euclidean.
func newScorer(strategy Strategy, weights *FeatureWeights) Scorer {
	switch strategy {
	case StrategyEuclidean:
		return euclideanScorer{}
	case StrategyManhattan:
		return manhattanScorer{}
	case StrategyCosine:
		return cosineScorer{}
	case StrategyWeighted:
		w := FeatureWeights{}
		if weights != nil {
			w = *weights
		}
		return weightedScorer{weights: w.ToMap()}
	case StrategyEnergyMatch:
		return restrictedScorer{name: StrategyEnergyMatch, dims: []string{DimEnergy, DimDanceability}}
	case StrategyMoodMatch:
		return restrictedScorer{name: StrategyMoodMatch, dims: []string{DimValence, DimAcousticness}}
	case StrategyRhythmMatch:
		return restrictedScorer{name: StrategyRhythmMatch, dims: []string{DimTempo}}
	case StrategyGenreMatch:
		return genreScorer{}
	default:
		return nil
	}
}

// euclideanScorer scores 1/(1+d) with d the Euclidean distance over the
// full normalized vector. Identical vectors score exactly 1.0.
type euclideanScorer struct{}

func (euclideanScorer) Name() Strategy { return StrategyEuclidean }

func (euclideanScorer) Score(seed Seed, c Candidate) (float64, map[string]float64, bool) {
	if !c.HasFeatures {
		return 0, nil, false
	}
	d := euclideanDistance(seed.Vector.ToMap(), Normalize(c.Features).ToMap(), nil)
	return 1.0 / (1.0 + d), nil, true
}

// manhattanScorer scores 1/(1+d) with d the sum of absolute differences.
type manhattanScorer struct{}

func (manhattanScorer) Name() Strategy { return StrategyManhattan }

func (manhattanScorer) Score(seed Seed, c Candidate) (float64, map[string]float64, bool) {
	if !c.HasFeatures {
		return 0, nil, false
	}
	s := seed.Vector.ToMap()
	t := Normalize(c.Features).ToMap()

	d := 0.0
	for _, dim := range FeatureDimensions {
		d += math.Abs(s[dim] - t[dim])
	}
	return 1.0 / (1.0 + d), nil, true
}

// cosineScorer scores the cosine of the angle between the vectors. Either
// vector being zero scores 0.
type cosineScorer struct{}

func (cosineScorer) Name() Strategy { return StrategyCosine }

func (cosineScorer) Score(seed Seed, c Candidate) (float64, map[string]float64, bool) {
	if !c.HasFeatures {
		return 0, nil, false
	}
	s := seed.Vector.ToMap()
	t := Normalize(c.Features).ToMap()

	var dot, normS, normT float64
	for _, dim := range FeatureDimensions {
		dot += s[dim] * t[dim]
		normS += s[dim] * s[dim]
		normT += t[dim] * t[dim]
	}
	if normS == 0 || normT == 0 {
		return 0, nil, true
	}
	return dot / (math.Sqrt(normS) * math.Sqrt(normT)), nil, true
}

// weightedScorer scores 1/(1+d) with d the weighted Euclidean distance:
// each squared difference is scaled by its dimension weight before
// summation. Unspecified dimensions carry weight 1.0.
type weightedScorer struct {
	weights map[string]float64
}

func (weightedScorer) Name() Strategy { return StrategyWeighted }

func (w weightedScorer) Score(seed Seed, c Candidate) (float64, map[string]float64, bool) {
	if !c.HasFeatures {
		return 0, nil, false
	}
	s := seed.Vector.ToMap()
	t := Normalize(c.Features).ToMap()

	contributions := make(map[string]float64, len(FeatureDimensions))
	for _, dim := range FeatureDimensions {
		diff := s[dim] - t[dim]
		contributions[dim] = w.weights[dim] * diff * diff
	}

	d := euclideanDistance(s, t, w.weights)
	return 1.0 / (1.0 + d), contributions, true
}

// restrictedScorer scores 1/(1+d) with d the Euclidean distance restricted
// to a fixed subset of normalized dimensions. Backs energy_match
// (energy, danceability), mood_match (valence, acousticness), and
// rhythm_match (tempo).
type restrictedScorer struct {
	name Strategy
	dims []string
}

func (r restrictedScorer) Name() Strategy { return r.name }

func (r restrictedScorer) Score(seed Seed, c Candidate) (float64, map[string]float64, bool) {
	if !c.HasFeatures {
		return 0, nil, false
	}
	s := seed.Vector.ToMap()
	t := Normalize(c.Features).ToMap()

	contributions := make(map[string]float64, len(r.dims))
	sum := 0.0
	for _, dim := range r.dims {
		diff := s[dim] - t[dim]
		contributions[dim] = math.Abs(diff)
		sum += diff * diff
	}
	return 1.0 / (1.0 + math.Sqrt(sum)), contributions, true
}

// euclideanDistance computes the (optionally weighted) Euclidean distance
// over the full dimension set. A nil weights map means unweighted.
func euclideanDistance(a, b, weights map[string]float64) float64 {
	sum := 0.0
	for _, dim := range FeatureDimensions {
		weight := 1.0
		if weights != nil {
			weight = weights[dim]
		}
		diff := a[dim] - b[dim]
		sum += weight * diff * diff
	}
	return math.Sqrt(sum)
}
