// Package corpus coordinates the two stores a reference lives in: the
// similarity index that answers ranked queries and the JSON catalog that
// records what was indexed. Every mutation keeps the two consistent from
// the caller's perspective.
package corpus

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	"github.com/inkstoneco/inkstone/pkg/catalog"
	"github.com/inkstoneco/inkstone/pkg/embeddings"
	"github.com/inkstoneco/inkstone/pkg/vector"
)

const (
	// DefaultChunkSize is the target chunk size in runes.
	DefaultChunkSize = 500

	// DefaultMaxChunks bounds how many chunks a single reference may
	// contribute; longer references are truncated.
	DefaultMaxChunks = 100

	// DefaultAuthor is used when no author is supplied.
	DefaultAuthor = "Unknown"
)

// Corpus owns the catalog, the similarity index driver, and the embedder.
// Operations are synchronous and single-writer; callers serialize access.
type Corpus struct {
	catalog  *catalog.Catalog
	driver   vector.Driver
	embedder embeddings.Embedder
	logger   *zap.Logger

	chunkSize int
	maxChunks int
}

// Options configures a Corpus.
type Options struct {
	// ChunkSize is the target chunk size in runes. Defaults to DefaultChunkSize.
	ChunkSize int

	// MaxChunks bounds chunks per reference. Defaults to DefaultMaxChunks.
	MaxChunks int
}

// New assembles a Corpus from its dependencies.
func New(cat *catalog.Catalog, driver vector.Driver, embedder embeddings.Embedder, logger *zap.Logger, opts Options) (*Corpus, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if driver == nil {
		return nil, fmt.Errorf("similarity index driver is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	maxChunks := opts.MaxChunks
	if maxChunks <= 0 {
		maxChunks = DefaultMaxChunks
	}

	return &Corpus{
		catalog:   cat,
		driver:    driver,
		embedder:  embedder,
		logger:    logger,
		chunkSize: chunkSize,
		maxChunks: maxChunks,
	}, nil
}

// RefID derives the stable reference identifier for a title: the first
// 8 hex characters of its SHA-256 digest.
func RefID(title string) string {
	sum := sha256.Sum256([]byte(title))
	return hex.EncodeToString(sum[:])[:8]
}

// Stats summarizes the corpus: catalog counters plus the live index count.
type Stats struct {
	References int
	Chunks     int
	Chars      int

	// Indexed is the number of documents the similarity index reports.
	// It should equal Chunks when the stores are consistent.
	Indexed int
}

// Stats returns catalog counters and the live index document count.
func (c *Corpus) Stats(ctx context.Context) (*Stats, error) {
	indexed, err := c.driver.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting indexed documents: %w", err)
	}

	return &Stats{
		References: c.catalog.Len(),
		Chunks:     c.catalog.TotalChunks(),
		Chars:      c.catalog.TotalChars(),
		Indexed:    indexed,
	}, nil
}

// Catalog exposes the read side of the catalog for listing and provenance.
func (c *Corpus) Catalog() *catalog.Catalog {
	return c.catalog
}

// Close releases the driver and embedder.
func (c *Corpus) Close() error {
	embErr := c.embedder.Close()
	if err := c.driver.Close(); err != nil {
		return err
	}
	return embErr
}
