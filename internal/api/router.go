// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

// Package api provides the HTTP surface of Melodex: the similarity
// endpoint, health probes, and the Prometheus scrape endpoint, routed
// with chi and fronted by request ID, logging, CORS, and rate limiting
// middleware.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/melodex-dev/melodex/internal/config"
	"github.com/melodex-dev/melodex/internal/metrics"
)

// Router assembles the HTTP handler tree.
type Router struct {
	handler *Handler
	server  config.ServerConfig
}

// NewRouter creates a router serving the given handler.
func NewRouter(handler *Handler, server config.ServerConfig) *Router {
	return &Router{handler: handler, server: server}
}

// Setup builds the complete handler tree.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogging)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	}))

	// Health and metrics stay outside the rate limiter so monitoring
	// cannot be starved by API traffic.
	r.Get("/healthz", rt.handler.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.Limit(
			rt.server.RateLimitRequests,
			rt.server.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
		))
		r.Use(httpMetrics)

		r.Post("/similar", rt.handler.Similar)
		r.Get("/search", rt.handler.Search)
		r.Get("/tracks/{id}", rt.handler.Track)
		r.Post("/audio-features", rt.handler.AudioFeatures)
		r.Get("/me/playlists", rt.handler.UserPlaylists)
		r.Get("/playlists/{id}/tracks", rt.handler.PlaylistTracks)
	})

	return r
}

// httpMetrics records request counts and latency per route.
func httpMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		metrics.ObserveHTTPRequest(r.Method, route, ww.Status(), time.Since(start))
	})
}
