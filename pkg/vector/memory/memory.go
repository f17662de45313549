// Package memory provides an in-process similarity index used in tests and
// for small corpora that do not warrant an external vector store.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/inkstoneco/inkstone/pkg/vector"
)

// Driver is a map-backed vector.Driver ordered by cosine distance.
type Driver struct {
	mu   sync.RWMutex
	docs map[string]vector.Document
}

// NewDriver creates an empty in-memory similarity index.
func NewDriver() *Driver {
	return &Driver{docs: make(map[string]vector.Document)}
}

func (d *Driver) Upsert(_ context.Context, docs []vector.Document) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, doc := range docs {
		d.docs[doc.ID] = doc
	}
	return nil
}

func (d *Driver) Query(_ context.Context, embedding []float32, topK int, where vector.Where) ([]vector.Match, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	matches := make([]vector.Match, 0, len(d.docs))
	for _, doc := range d.docs {
		if !where.Matches(doc.Meta) {
			continue
		}
		matches = append(matches, vector.Match{
			Document: doc,
			Distance: cosineDistance(embedding, doc.Embedding),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].ID < matches[j].ID
	})

	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func (d *Driver) IDs(_ context.Context, where vector.Where) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := make([]string, 0, len(d.docs))
	for id, doc := range d.docs {
		if where.Matches(doc.Meta) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (d *Driver) Delete(_ context.Context, ids []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, id := range ids {
		delete(d.docs, id)
	}
	return nil
}

func (d *Driver) Count(_ context.Context) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.docs), nil
}

func (d *Driver) Reset(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.docs = make(map[string]vector.Document)
	return nil
}

func (d *Driver) Close() error {
	return nil
}

// cosineDistance returns 1 - cosine similarity. Mismatched or zero-magnitude
// vectors get the maximum distance.
func cosineDistance(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return float32(1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)))
}
