// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package similarity

import "strings"

// genreScorer scores by genre overlap instead of audio features. An exact
// genre match earns 1.0, a partial (substring either direction) match 0.5,
// counted once per seed genre; the total is divided by the seed genre count
// and clamped into [0,1].
//
// Candidates with an empty genre set report ok=false and are excluded
// downstream rather than scored 0.
type genreScorer struct{}

func (genreScorer) Name() Strategy { return StrategyGenreMatch }

func (genreScorer) Score(seed Seed, c Candidate) (float64, map[string]float64, bool) {
	if len(c.Genres) == 0 {
		return 0, nil, false
	}
	return GenreSimilarity(seed.Genres, c.Genres), nil, true
}

// GenreSimilarity computes the overlap score of two genre sets. Both sets
// are expected pre-normalized (lowercase, deduplicated); the comparison is
// defensive about case regardless.
func GenreSimilarity(seedGenres, candidateGenres GenreSet) float64 {
	if len(seedGenres) == 0 || len(candidateGenres) == 0 {
		return 0
	}

	candidateSet := make(map[string]struct{}, len(candidateGenres))
	for _, g := range candidateGenres {
		candidateSet[strings.ToLower(g)] = struct{}{}
	}

	total := 0.0
	for _, seedGenre := range seedGenres {
		seedGenre = strings.ToLower(seedGenre)
		if _, ok := candidateSet[seedGenre]; ok {
			total += 1.0
			continue
		}
		// First partial match only; a seed genre never earns more than
		// one partial credit.
		for cand := range candidateSet {
			if strings.Contains(cand, seedGenre) || strings.Contains(seedGenre, cand) {
				total += 0.5
				break
			}
		}
	}

	denom := float64(len(seedGenres))
	if denom < 1 {
		denom = 1
	}
	score := total / denom
	if score > 1 {
		score = 1
	}
	return score
}
