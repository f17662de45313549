package vector

import "errors"

var (
	// ErrNotFound is returned when a document is not found in the similarity index.
	ErrNotFound = errors.New("document not found")

	// ErrEmbedding is returned when embedding generation fails.
	ErrEmbedding = errors.New("embedding failed")

	// ErrConnection is returned when the similarity index cannot be reached.
	ErrConnection = errors.New("similarity index connection failed")
)
