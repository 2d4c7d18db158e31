// Package config provides configuration loading and management for Semsync.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// StoreKind selects the knowledge-store backend.
type StoreKind string

const (
	// StoreMemory keeps all triples in process memory.
	StoreMemory StoreKind = "memory"
	// StoreBadger persists triples to a local Badger database.
	StoreBadger StoreKind = "badger"
	// StoreNATS talks to a remote store over NATS request/reply.
	StoreNATS StoreKind = "nats"
)

// Config represents the complete Semsync configuration
type Config struct {
	Store    StoreConfig    `yaml:"store"`
	Ontology OntologyConfig `yaml:"ontology"`
	Sync     SyncConfig     `yaml:"sync"`
}

// StoreConfig configures the triple store backend
type StoreConfig struct {
	// Kind selects the backend: memory, badger, or nats
	Kind StoreKind `yaml:"kind"`
	// Path is the Badger data directory (kind: badger)
	Path string `yaml:"path"`
	// URL is the NATS server URL (kind: nats)
	URL string `yaml:"url"`
	// Timeout is the maximum time to wait for store responses
	Timeout time.Duration `yaml:"timeout"`
}

// OntologyConfig configures namespace derivation
type OntologyConfig struct {
	// Namespace is the base IRI for class and predicate names
	Namespace string `yaml:"namespace"`
	// EntityNamespace is the base IRI for minted instance identifiers
	EntityNamespace string `yaml:"entity_namespace"`
}

// SyncConfig configures traversal depth and delta publication
type SyncConfig struct {
	// Depth is the reference-following depth for export and sync
	// traversals (-1 = unbounded, 0 = requested nodes only)
	Depth int `yaml:"depth"`
	// PublishIngest republishes deltas applied by the serve bridge to
	// the graph ingest stream
	PublishIngest bool `yaml:"publish_ingest"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Kind:    StoreMemory,
			Path:    "",
			URL:     "",
			Timeout: 30 * time.Second,
		},
		Ontology: OntologyConfig{
			Namespace:       "https://semsync.dev/ontology/",
			EntityNamespace: "https://semsync.dev/entity/",
		},
		Sync: SyncConfig{
			Depth:         -1,
			PublishIngest: false,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.Store.Kind {
	case StoreMemory:
	case StoreBadger:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for badger store")
		}
	case StoreNATS:
		if c.Store.URL == "" {
			return fmt.Errorf("store.url is required for nats store")
		}
	default:
		return fmt.Errorf("unknown store.kind: %s", c.Store.Kind)
	}
	if c.Store.Timeout <= 0 {
		return fmt.Errorf("store.timeout must be positive")
	}
	if c.Ontology.Namespace == "" {
		return fmt.Errorf("ontology.namespace is required")
	}
	if c.Ontology.EntityNamespace == "" {
		return fmt.Errorf("ontology.entity_namespace is required")
	}
	if c.Sync.Depth < -1 {
		return fmt.Errorf("sync.depth must be -1, 0, or positive")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Store
	if other.Store.Kind != "" {
		c.Store.Kind = other.Store.Kind
	}
	if other.Store.Path != "" {
		c.Store.Path = other.Store.Path
	}
	if other.Store.URL != "" {
		c.Store.URL = other.Store.URL
	}
	if other.Store.Timeout != 0 {
		c.Store.Timeout = other.Store.Timeout
	}

	// Ontology
	if other.Ontology.Namespace != "" {
		c.Ontology.Namespace = other.Ontology.Namespace
	}
	if other.Ontology.EntityNamespace != "" {
		c.Ontology.EntityNamespace = other.Ontology.EntityNamespace
	}

	// Sync
	if other.Sync.Depth != 0 {
		c.Sync.Depth = other.Sync.Depth
	}
	if other.Sync.PublishIngest {
		c.Sync.PublishIngest = true
	}
}
