// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package similarity

import "sort"

// rank filters, orders, and truncates scored candidates.
//
// Candidates below minSimilarity are discarded first, then the survivors
// are sorted descending by score with ties broken by original retrieval
// order, then truncated to limit. Filtering precedes truncation so limit
// always means "number of qualifying results".
func rank(candidates []Candidate, minSimilarity *float64, limit int) []Candidate {
	qualified := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if minSimilarity != nil && c.Score < *minSimilarity {
			continue
		}
		qualified = append(qualified, c)
	}

	// Stable: equal scores keep retrieval order.
	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].Score > qualified[j].Score
	})

	if len(qualified) > limit {
		qualified = qualified[:limit]
	}
	return qualified
}
