package corpus

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/inkstoneco/inkstone/pkg/catalog"
	"github.com/inkstoneco/inkstone/pkg/classify"
	"github.com/inkstoneco/inkstone/pkg/segment"
	"github.com/inkstoneco/inkstone/pkg/vector"
)

// AddOptions configures a single reference addition.
type AddOptions struct {
	// Author attributed to the reference. Defaults to DefaultAuthor.
	Author string

	// ChunkSize overrides the corpus default target chunk size.
	ChunkSize int

	// MaxChunks overrides the corpus default chunk cap.
	MaxChunks int

	// SourcePath and SourceFormat record provenance for file imports.
	SourcePath   string
	SourceFormat string
}

// AddResult reports what a successful addition wrote.
type AddResult struct {
	RefID       string
	Title       string
	Author      string
	ChunksAdded int
	TotalChars  int
}

// AddReference segments, classifies, embeds, and indexes content under
// title, then records it in the catalog. The catalog is only written after
// the index upsert succeeds, so a failed upsert leaves both stores
// untouched. If the catalog write fails after the upsert, the upserted
// chunks are deleted again; if that rollback also fails, ErrInconsistent
// is returned and manual repair is required.
func (c *Corpus) AddReference(ctx context.Context, title, content string, opts AddOptions) (*AddResult, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("reference title is required")
	}

	refID := RefID(title)
	if c.catalog.Has(refID) {
		return nil, fmt.Errorf("%w: %q (ref_id %s)", ErrDuplicateReference, title, refID)
	}

	author := opts.Author
	if author == "" {
		author = DefaultAuthor
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = c.chunkSize
	}
	maxChunks := opts.MaxChunks
	if maxChunks <= 0 {
		maxChunks = c.maxChunks
	}

	chunks := segment.Split(content, chunkSize)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no usable text in %q", title)
	}
	if len(chunks) > maxChunks {
		c.logger.Warn("truncating reference to chunk cap",
			zap.String("ref_id", refID),
			zap.Int("chunks", len(chunks)),
			zap.Int("max_chunks", maxChunks),
		)
		chunks = chunks[:maxChunks]
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := c.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding %d chunks of %q: %w", len(chunks), title, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks of %q", len(vectors), len(chunks), title)
	}

	docs := make([]vector.Document, len(chunks))
	ids := make([]string, len(chunks))
	totalChars := 0
	for i, chunk := range chunks {
		id := fmt.Sprintf("%s_chunk_%d", refID, i)
		ids[i] = id
		totalChars += chunk.CharCount
		docs[i] = vector.Document{
			ID:        id,
			Text:      chunk.Text,
			Embedding: vectors[i],
			Meta: vector.ChunkMeta{
				RefID:      refID,
				Title:      title,
				Author:     author,
				ChunkIndex: i,
				Category:   string(classify.Classify(chunk.Text)),
				CharCount:  chunk.CharCount,
			},
		}
	}

	if err := c.driver.Upsert(ctx, docs); err != nil {
		return nil, fmt.Errorf("indexing %q: %w", title, err)
	}

	summary := catalog.Summary{
		Title:        title,
		Author:       author,
		ChunkCount:   len(chunks),
		TotalChars:   totalChars,
		SourcePath:   opts.SourcePath,
		SourceFormat: opts.SourceFormat,
		AddedAt:      time.Now().UTC(),
	}
	if err := c.catalog.Add(refID, summary); err != nil {
		// The index now holds chunks the catalog will never describe.
		// Delete them again so the stores stay consistent.
		if rbErr := c.driver.Delete(ctx, ids); rbErr != nil {
			c.logger.Error("catalog write and index rollback both failed",
				zap.String("ref_id", refID),
				zap.Error(err),
				zap.NamedError("rollback_error", rbErr),
			)
			return nil, fmt.Errorf("%w: cataloging %q failed (%v) and index rollback failed: %v", ErrInconsistent, title, err, rbErr)
		}
		return nil, fmt.Errorf("cataloging %q: %w", title, err)
	}

	c.logger.Info("added reference",
		zap.String("ref_id", refID),
		zap.String("title", title),
		zap.String("author", author),
		zap.Int("chunks", len(chunks)),
		zap.Int("chars", totalChars),
	)

	return &AddResult{
		RefID:       refID,
		Title:       title,
		Author:      author,
		ChunksAdded: len(chunks),
		TotalChars:  totalChars,
	}, nil
}
