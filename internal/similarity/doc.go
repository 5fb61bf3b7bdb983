// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

// Package similarity implements the track-similarity and playlist-curation
// engine.
//
// Given a seed track, artist, or playlist, the engine resolves a candidate
// pool from one of five scopes, scores every candidate against the seed
// using one of eight strategies, ranks the results, and executes a result
// action (return, create playlist, append to playlist).
//
// # Architecture
//
// Four stages, consumed in order:
//
//   - Normalizer: maps raw audio feature vectors onto [0,1] using fixed,
//     documented constants so scores are reproducible.
//   - Scope resolver: five CandidateSource implementations produce the
//     unscored candidate pool (catalog, playlist, artist, album,
//     saved_tracks).
//   - Scorer: eight strategy implementations behind a common interface.
//   - Ranker and action executor: threshold, stable sort, truncate, act.
//
// The engine talks to the remote catalog exclusively through the
// CatalogProvider interface. This package never performs HTTP itself and
// holds no state across requests; a request's pool, vectors, and scores are
// discarded on completion.
//
// # Thread Safety
//
// Engine is safe for concurrent use. All per-request state lives on the
// stack of Run.
package similarity
