// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MELODEX_CATALOG_BASE_URL", "https://api.catalog.example")
	t.Setenv("MELODEX_CATALOG_TOKEN", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want default 8080", cfg.Server.Port)
	}
	if cfg.Catalog.PageSize != 50 {
		t.Errorf("PageSize = %d, want default 50", cfg.Catalog.PageSize)
	}
	if !cfg.Catalog.BreakerEnabled {
		t.Error("BreakerEnabled = false, want default true")
	}
	if cfg.Engine.SeedTopTracks != 10 {
		t.Errorf("SeedTopTracks = %d, want default 10", cfg.Engine.SeedTopTracks)
	}
}

func TestLoadRequiresCatalogCredentials(t *testing.T) {
	if _, err := Load(); err == nil {
		t.Error("Load without catalog credentials succeeded")
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "melodex.yaml")
	yaml := `
server:
  port: 9000
catalog:
  base_url: https://file.catalog.example
  token: file-token
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("MELODEX_SERVER_PORT", "9100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("Port = %d, want env override 9100", cfg.Server.Port)
	}
	if cfg.Catalog.BaseURL != "https://file.catalog.example" {
		t.Errorf("BaseURL = %q, want file value", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.Token != "file-token" {
		t.Errorf("Token = %q, want file value", cfg.Catalog.Token)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("MELODEX_CATALOG_BASE_URL", "https://api.catalog.example")
	t.Setenv("MELODEX_CATALOG_TOKEN", "secret")
	t.Setenv("MELODEX_CATALOG_PAGE_SIZE", "500")

	if _, err := Load(); err == nil {
		t.Error("page size 500 accepted, want validation failure")
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"MELODEX_CATALOG_BASE_URL", "catalog.base_url"},
		{"MELODEX_SERVER_PORT", "server.port"},
		{"MELODEX_ENGINE_SEED_TOP_TRACKS", "engine.seed_top_tracks"},
		{"MELODEX_LOGGING_LEVEL", "logging.level"},
		{"MELODEX_CONFIG", ""},
	}

	for _, tt := range tests {
		if got := envTransform(tt.in); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestServerAddr(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", Port: 8080}
	if cfg.Addr() != "127.0.0.1:8080" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
}

func TestDefaultDurations(t *testing.T) {
	cfg := defaultConfig()
	if cfg.Catalog.CacheTTL != 15*time.Minute {
		t.Errorf("CacheTTL = %v", cfg.Catalog.CacheTTL)
	}
	if cfg.Server.ShutdownTimeout != 15*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.Server.ShutdownTimeout)
	}
}
