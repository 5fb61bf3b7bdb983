// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/melodex-dev/melodex/internal/logging"
)

// requestIDKey is the context key for the request identifier.
type requestIDKey struct{}

// requestIDHeader is the header carrying the request identifier both ways.
const requestIDHeader = "X-Request-ID"

// requestID attaches a request identifier to the context and echoes it in
// the response header. A caller-supplied identifier is kept so traces can
// span services.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the request identifier, or empty.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogging emits one structured log line per request.
func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logging.Info().
			Str("request_id", RequestIDFromContext(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}
