package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent inkstone configuration stored as
// config.toml in the .inkstone/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Corpus      CorpusConfig      `toml:"corpus"`
	Library     LibraryConfig     `toml:"library"`
	VectorStore VectorStoreConfig `toml:"vector_store"`
	Embedding   EmbeddingConfig   `toml:"embedding"`
	Chunking    ChunkingConfig    `toml:"chunking"`
}

// CorpusConfig holds settings for the corpus root directory, which contains
// the catalog.json sidecar and any on-disk vector store state. An empty Root
// means the resolved .inkstone/ directory is used.
type CorpusConfig struct {
	Root string `toml:"root,omitempty"`
}

// LibraryConfig holds settings for the shared, author-partitioned reference
// library (a directory with one subfolder per author containing source
// files). Resolved once at startup; INKSTONE_LIBRARY_ROOT overrides it.
type LibraryConfig struct {
	Root string `toml:"root,omitempty"`
}

// VectorStoreConfig holds similarity index settings.
type VectorStoreConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Collection string `toml:"collection,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Model      string `toml:"model,omitempty"`
	Dimensions uint   `toml:"dimensions,omitempty"`
}

// ChunkingConfig holds segmentation settings applied when references are added.
type ChunkingConfig struct {
	TargetSize int `toml:"target_size,omitempty"`
	MaxChunks  int `toml:"max_chunks,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"corpus.root": {
		get: func(c *Config) string { return c.Corpus.Root },
		set: func(c *Config, v string) error { c.Corpus.Root = v; return nil },
	},
	"library.root": {
		get: func(c *Config) string { return c.Library.Root },
		set: func(c *Config, v string) error { c.Library.Root = v; return nil },
	},
	"vector_store.provider": {
		get: func(c *Config) string { return c.VectorStore.Provider },
		set: func(c *Config, v string) error { c.VectorStore.Provider = v; return nil },
	},
	"vector_store.target": {
		get: func(c *Config) string { return c.VectorStore.Target },
		set: func(c *Config, v string) error { c.VectorStore.Target = v; return nil },
	},
	"vector_store.collection": {
		get: func(c *Config) string { return c.VectorStore.Collection },
		set: func(c *Config, v string) error { c.VectorStore.Collection = v; return nil },
	},
	"embedding.provider": {
		get: func(c *Config) string { return c.Embedding.Provider },
		set: func(c *Config, v string) error { c.Embedding.Provider = v; return nil },
	},
	"embedding.target": {
		get: func(c *Config) string { return c.Embedding.Target },
		set: func(c *Config, v string) error { c.Embedding.Target = v; return nil },
	},
	"embedding.model": {
		get: func(c *Config) string { return c.Embedding.Model },
		set: func(c *Config, v string) error { c.Embedding.Model = v; return nil },
	},
	"embedding.dimensions": {
		get: func(c *Config) string { return strconv.FormatUint(uint64(c.Embedding.Dimensions), 10) },
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return fmt.Errorf("embedding.dimensions must be a positive integer: %w", err)
			}
			c.Embedding.Dimensions = uint(n)
			return nil
		},
	},
	"chunking.target_size": {
		get: func(c *Config) string { return strconv.Itoa(c.Chunking.TargetSize) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return fmt.Errorf("chunking.target_size must be a positive integer, got %q", v)
			}
			c.Chunking.TargetSize = n
			return nil
		},
	},
	"chunking.max_chunks": {
		get: func(c *Config) string { return strconv.Itoa(c.Chunking.MaxChunks) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return fmt.Errorf("chunking.max_chunks must be a positive integer, got %q", v)
			}
			c.Chunking.MaxChunks = n
			return nil
		},
	},
}
