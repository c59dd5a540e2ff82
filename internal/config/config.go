// Package config loads the Corpora CLI configuration.
// Configuration lives in a TOML file within the corpora data directory;
// a missing file yields the defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Ollama configures the embedding service client.
type Ollama struct {
	BaseURL            string `toml:"base_url"`
	Model              string `toml:"model"`
	RequestTimeoutSecs int    `toml:"request_timeout_secs"`
	ConnectTimeoutSecs int    `toml:"connect_timeout_secs"`
}

// Indexing configures the chunking and embedding pipeline.
type Indexing struct {
	ChunkSize       int `toml:"chunk_size"`
	ChunkOverlap    int `toml:"chunk_overlap"`
	EmbedIntervalMS int `toml:"embed_interval_ms"`
}

// Search configures query-time defaults.
type Search struct {
	TopK      int     `toml:"top_k"`
	Threshold float64 `toml:"threshold"`
}

// Storage configures the persistence layer.
type Storage struct {
	DataDir string `toml:"data_dir"`
}

// Config is the full corpora configuration.
type Config struct {
	Ollama   Ollama   `toml:"ollama"`
	Indexing Indexing `toml:"indexing"`
	Search   Search   `toml:"search"`
	Storage  Storage  `toml:"storage"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Ollama: Ollama{
			BaseURL:            "http://localhost:11434",
			Model:              "nomic-embed-text",
			RequestTimeoutSecs: 60,
			ConnectTimeoutSecs: 10,
		},
		Indexing: Indexing{
			ChunkSize:       1000,
			ChunkOverlap:    50,
			EmbedIntervalMS: 100,
		},
		Search: Search{
			TopK:      5,
			Threshold: 0.7,
		},
		Storage: Storage{},
	}
}

// DefaultDir returns the corpora configuration directory, ~/.corpora.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".corpora"), nil
}

// Load reads config.toml from configDir, falling back to defaults for
// any key the file omits. An empty configDir means ~/.corpora. A
// missing file is not an error.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	cfg := Default()

	data, err := os.ReadFile(filepath.Join(configDir, "config.toml"))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// RequestTimeout returns the embedding request timeout as a duration.
func (o Ollama) RequestTimeout() time.Duration {
	return time.Duration(o.RequestTimeoutSecs) * time.Second
}

// ConnectTimeout returns the embedding connect timeout as a duration.
func (o Ollama) ConnectTimeout() time.Duration {
	return time.Duration(o.ConnectTimeoutSecs) * time.Second
}

// EmbedInterval returns the pause between embedding calls as a duration.
func (i Indexing) EmbedInterval() time.Duration {
	return time.Duration(i.EmbedIntervalMS) * time.Millisecond
}
