// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package similarity

import (
	"errors"
	"fmt"
)

// ValidationError reports a malformed request. It is surfaced before any
// collaborator call is made.
type ValidationError struct {
	// Field is the offending request field.
	Field string

	// Message describes the violation.
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid request: %s", e.Message)
	}
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Message)
}

// newValidationError constructs a ValidationError for a field.
func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports that the seed or scope target does not exist in
// collaborator data.
type NotFoundError struct {
	// Resource names the missing entity kind (track, artist, playlist,
	// album, audio_features).
	Resource string

	// ID is the failing identifier.
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// CollaboratorError wraps a transient failure of the remote catalog
// (rate limit, network, auth expiry). Idempotent reads behind it have
// already been retried by the client.
type CollaboratorError struct {
	// Op is the collaborator operation that failed.
	Op string

	// Err is the underlying failure.
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// ErrNoSeedGenres indicates a genre_match request whose seed has no genre
// labels, so no candidate could ever score above zero.
var ErrNoSeedGenres = errors.New("no genres found for the seed")

// AsValidationError unwraps err into a ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsNotFoundError unwraps err into a NotFoundError if it is one.
func AsNotFoundError(err error) (*NotFoundError, bool) {
	var nfe *NotFoundError
	if errors.As(err, &nfe) {
		return nfe, true
	}
	return nil, false
}
