// Package vector provides interfaces and implementations for the similarity
// index that stores chunk embeddings, text, and descriptive metadata.
package vector

import "context"

// ChunkMeta is the descriptive metadata attached to every indexed chunk.
// It is duplicated from the catalog so that query results can be presented
// without a second lookup.
type ChunkMeta struct {
	RefID      string
	Title      string
	Author     string
	ChunkIndex int
	Category   string
	CharCount  int
}

// Document represents a stored chunk with its embedding and metadata.
type Document struct {
	// ID is the stable chunk identifier ({ref_id}_chunk_{index}).
	ID string

	// Text is the chunk body.
	Text string

	// Embedding is the vector representation of Text.
	Embedding []float32

	// Meta is the descriptive metadata duplicated into the index.
	Meta ChunkMeta
}

// Match is a query result. Distance is ascending-better: 0 means identical.
type Match struct {
	Document

	Distance float32
}

// Where is a conjunction of equality filters over metadata fields.
// Supported keys: "ref_id", "author", "category". An empty or nil Where
// matches every document.
type Where map[string]string

// Driver handles storage and retrieval of chunk embeddings.
type Driver interface {
	// Upsert stores documents with their embeddings. A document with an
	// existing ID is replaced.
	Upsert(ctx context.Context, docs []Document) error

	// Query finds the topK most similar documents to the given embedding,
	// restricted to documents matching where. Results are ordered by
	// ascending distance.
	Query(ctx context.Context, embedding []float32, topK int, where Where) ([]Match, error)

	// IDs returns the identifiers of all documents matching where.
	IDs(ctx context.Context, where Where) ([]string, error)

	// Delete removes documents by their IDs.
	Delete(ctx context.Context, ids []string) error

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Reset drops and recreates the backing collection, removing every
	// document. Idempotent.
	Reset(ctx context.Context) error

	// Close releases any resources held by the driver.
	Close() error
}

// Metadata field names shared by driver implementations.
const (
	FieldRefID      = "ref_id"
	FieldTitle      = "title"
	FieldAuthor     = "author"
	FieldChunkIndex = "chunk_index"
	FieldCategory   = "category"
	FieldCharCount  = "char_count"
)

// MetaToMap flattens ChunkMeta into the generic metadata map stored by
// remote indexes.
func MetaToMap(m ChunkMeta) map[string]any {
	return map[string]any{
		FieldRefID:      m.RefID,
		FieldTitle:      m.Title,
		FieldAuthor:     m.Author,
		FieldChunkIndex: m.ChunkIndex,
		FieldCategory:   m.Category,
		FieldCharCount:  m.CharCount,
	}
}

// MetaFromMap rebuilds ChunkMeta from a generic metadata map. Numeric fields
// tolerate the float64 representation JSON decoding produces.
func MetaFromMap(raw map[string]any) ChunkMeta {
	m := ChunkMeta{}
	if v, ok := raw[FieldRefID].(string); ok {
		m.RefID = v
	}
	if v, ok := raw[FieldTitle].(string); ok {
		m.Title = v
	}
	if v, ok := raw[FieldAuthor].(string); ok {
		m.Author = v
	}
	if v, ok := raw[FieldCategory].(string); ok {
		m.Category = v
	}
	m.ChunkIndex = intFromAny(raw[FieldChunkIndex])
	m.CharCount = intFromAny(raw[FieldCharCount])
	return m
}

// Matches reports whether meta satisfies every equality clause in where.
// Unknown filter keys match nothing.
func (w Where) Matches(m ChunkMeta) bool {
	for key, want := range w {
		var got string
		switch key {
		case FieldRefID:
			got = m.RefID
		case FieldAuthor:
			got = m.Author
		case FieldCategory:
			got = m.Category
		case FieldTitle:
			got = m.Title
		default:
			return false
		}
		if got != want {
			return false
		}
	}
	return true
}

func intFromAny(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
