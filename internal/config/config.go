// Package config provides configuration management for feedstore. Defaults
// are defined in code, optionally overridden by a YAML file (path in
// FEEDSTORE_CONFIG), and finally by FEEDSTORE_* environment variables.
// Environment variables win.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration settings for the feedstore process.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Feed    FeedConfig    `yaml:"feed"`
	Cache   CacheConfig   `yaml:"cache"`
}

// StorageConfig contains database configuration.
type StorageConfig struct {
	// Engine selects the backend: "sqlite" or "postgres" (default: sqlite).
	Engine string `yaml:"engine"`

	// DSN is the database location: a file path for sqlite, a connection
	// string for postgres (default: ./data/feedstore.db).
	DSN string `yaml:"dsn"`
}

// FeedConfig contains feed-level settings.
type FeedConfig struct {
	// Namespace prefixes every minted identifier (default: "kiwi").
	Namespace string `yaml:"namespace"`
}

// CacheConfig controls the caller-facing memoization cache.
type CacheConfig struct {
	// MaxEntries caps the cache; 0 means unbounded (default: 0).
	MaxEntries int `yaml:"max_entries"`

	// TTLSeconds expires entries after this many seconds; 0 means entries
	// never expire (default: 0).
	TTLSeconds int `yaml:"ttl_seconds"`
}

// Load builds the configuration from defaults, the optional YAML file named
// by FEEDSTORE_CONFIG, and FEEDSTORE_* environment variables, in that order
// of precedence (later wins).
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("FEEDSTORE_CONFIG"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Storage: StorageConfig{
			Engine: "sqlite",
			DSN:    "./data/feedstore.db",
		},
		Feed: FeedConfig{
			Namespace: "kiwi",
		},
	}
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("FEEDSTORE_STORAGE_ENGINE"); v != "" {
		cfg.Storage.Engine = v
	}

	if v := os.Getenv("FEEDSTORE_STORAGE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}

	if v := os.Getenv("FEEDSTORE_NAMESPACE"); v != "" {
		cfg.Feed.Namespace = v
	}

	if v := os.Getenv("FEEDSTORE_CACHE_MAX_ENTRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid FEEDSTORE_CACHE_MAX_ENTRIES %q: %w", v, err)
		}
		cfg.Cache.MaxEntries = n
	}

	if v := os.Getenv("FEEDSTORE_CACHE_TTL_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid FEEDSTORE_CACHE_TTL_SECONDS %q: %w", v, err)
		}
		cfg.Cache.TTLSeconds = n
	}

	return nil
}

// Validate checks that the configuration names a usable backend.
func (c *Config) Validate() error {
	switch c.Storage.Engine {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unknown storage engine %q", c.Storage.Engine)
	}

	if c.Storage.DSN == "" {
		return fmt.Errorf("config: storage dsn is required")
	}

	if c.Feed.Namespace == "" {
		return fmt.Errorf("config: feed namespace is required")
	}

	return nil
}
