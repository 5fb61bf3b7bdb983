// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/melodex-dev/melodex/internal/validation"
)

// DefaultConfigPaths lists where config files are searched, in order. The
// first file found wins.
var DefaultConfigPaths = []string{
	"melodex.yaml",
	"melodex.yml",
	"/etc/melodex/melodex.yaml",
	"/etc/melodex/melodex.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "MELODEX_CONFIG"

// envPrefix is the prefix for all Melodex environment variables.
const envPrefix = "MELODEX_"

// configSections are the top-level config keys an environment variable
// can address.
var configSections = []string{"server", "catalog", "engine", "logging"}

// Load builds the configuration: defaults, then the optional YAML file,
// then MELODEX_ environment variables, highest precedence last. The
// result is validated before being returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks field constraints and cross-field consistency.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	if c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("server rate limit window must be positive")
	}
	return nil
}

// envTransform maps MELODEX_CATALOG_BASE_URL to catalog.base_url. The
// section is the first underscore-delimited token; the rest of the name
// keeps its underscores.
func envTransform(name string) string {
	name = strings.ToLower(strings.TrimPrefix(name, envPrefix))
	for _, section := range configSections {
		if strings.HasPrefix(name, section+"_") {
			return section + "." + strings.TrimPrefix(name, section+"_")
		}
	}
	// Not a recognized section; ignore (e.g. MELODEX_CONFIG).
	return ""
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
