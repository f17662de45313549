package corpus

import (
	"context"
	"fmt"

	"github.com/inkstoneco/inkstone/pkg/catalog"
	"github.com/inkstoneco/inkstone/pkg/vector"
)

// Filters restricts a query to matching chunks. Empty fields are ignored;
// an all-empty Filters queries the whole index.
type Filters struct {
	Category string
	RefID    string
	Author   string
}

// Sample is one ranked retrieval result.
type Sample struct {
	Text     string
	Meta     vector.ChunkMeta
	Distance float32
}

// StyleContext bundles ranked samples with the full catalog listing so
// callers can present provenance next to the retrieved passages.
type StyleContext struct {
	Samples    []Sample
	References []catalog.Entry
}

// Query embeds text and returns at most k samples ordered by ascending
// distance, restricted by filters.
func (c *Corpus) Query(ctx context.Context, text string, k int, filters Filters) ([]Sample, error) {
	if k <= 0 {
		k = 5
	}

	vectors, err := c.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for the query", len(vectors))
	}

	matches, err := c.driver.Query(ctx, vectors[0], k, whereFromFilters(filters))
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}

	samples := make([]Sample, len(matches))
	for i, m := range matches {
		samples[i] = Sample{
			Text:     m.Text,
			Meta:     m.Meta,
			Distance: m.Distance,
		}
	}
	return samples, nil
}

// QueryByAuthor restricts a query to one author's chunks. An author with
// no cataloged chunks yields an empty slice, not an error.
func (c *Corpus) QueryByAuthor(ctx context.Context, text string, k int, author string) ([]Sample, error) {
	if author == "" {
		return nil, fmt.Errorf("author is required")
	}
	return c.Query(ctx, text, k, Filters{Author: author})
}

// sceneCategories maps caller-facing scene-type tokens onto the
// classifier's category vocabulary. Unknown tokens mean no filter.
var sceneCategories = map[string]string{
	"dialogue":    "dialogue",
	"action":      "action",
	"description": "description",
	"narrative":   "description",
}

// StyleContextFor retrieves up to n samples matching a scene description
// and coarse scene type, along with the full catalog listing.
func (c *Corpus) StyleContextFor(ctx context.Context, sceneDescription, sceneType string, n int) (*StyleContext, error) {
	filters := Filters{}
	if category, ok := sceneCategories[sceneType]; ok {
		filters.Category = category
	}

	samples, err := c.Query(ctx, sceneDescription, n, filters)
	if err != nil {
		return nil, err
	}

	return &StyleContext{
		Samples:    samples,
		References: c.catalog.List(),
	}, nil
}

func whereFromFilters(f Filters) vector.Where {
	where := vector.Where{}
	if f.Category != "" {
		where[vector.FieldCategory] = f.Category
	}
	if f.RefID != "" {
		where[vector.FieldRefID] = f.RefID
	}
	if f.Author != "" {
		where[vector.FieldAuthor] = f.Author
	}
	if len(where) == 0 {
		return nil
	}
	return where
}
