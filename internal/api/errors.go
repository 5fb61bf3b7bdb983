// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"

	"github.com/melodex-dev/melodex/internal/logging"
	"github.com/melodex-dev/melodex/internal/similarity"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error     errorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// writeError maps an engine or transport error onto the HTTP surface.
//
// The mapping mirrors the error taxonomy: malformed requests are 400,
// missing seed or scope entities 404, a genre seed without genres 422,
// an open circuit 503, any other upstream failure 502.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classifyError(err)
	body.RequestID = RequestIDFromContext(r.Context())

	if status >= http.StatusInternalServerError {
		logging.Error().
			Str("request_id", body.RequestID).
			Int("status", status).
			Err(err).
			Msg("request failed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// classifyError resolves an error to its status code and envelope.
func classifyError(err error) (int, errorBody) {
	if ve, ok := similarity.AsValidationError(err); ok {
		return http.StatusBadRequest, errorBody{Error: errorDetail{
			Code:    "validation_error",
			Message: ve.Message,
			Field:   ve.Field,
		}}
	}

	if nfe, ok := similarity.AsNotFoundError(err); ok {
		return http.StatusNotFound, errorBody{Error: errorDetail{
			Code:    "not_found",
			Message: nfe.Error(),
		}}
	}

	if errors.Is(err, similarity.ErrNoSeedGenres) {
		return http.StatusUnprocessableEntity, errorBody{Error: errorDetail{
			Code:    "insufficient_data",
			Message: err.Error(),
		}}
	}

	var ce *similarity.CollaboratorError
	if errors.As(err, &ce) {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return http.StatusServiceUnavailable, errorBody{Error: errorDetail{
				Code:    "catalog_unavailable",
				Message: "catalog temporarily unavailable",
			}}
		}
		return http.StatusBadGateway, errorBody{Error: errorDetail{
			Code:    "catalog_error",
			Message: ce.Error(),
		}}
	}

	return http.StatusInternalServerError, errorBody{Error: errorDetail{
		Code:    "internal_error",
		Message: "internal server error",
	}}
}

// writeBadRequest reports a malformed request body or parameter.
func writeBadRequest(w http.ResponseWriter, r *http.Request, field, message string) {
	body := errorBody{
		Error:     errorDetail{Code: "validation_error", Message: message, Field: field},
		RequestID: RequestIDFromContext(r.Context()),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(body)
}
