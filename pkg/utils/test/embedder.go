package testutils

import (
	"context"
	"fmt"
	"hash/fnv"
)

// MockEmbedder is a test embedder that returns predictable embeddings
type MockEmbedder struct {
	Embeddings map[string][]float32

	// FailOn causes Embed to return an error when any input text matches
	FailOn string

	// Calls records every batch passed to Embed
	Calls [][]string
}

func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{
		Embeddings: make(map[string][]float32),
	}
}

func (m *MockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	m.Calls = append(m.Calls, texts)

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if m.FailOn != "" && text == m.FailOn {
			return nil, fmt.Errorf("mock embedding failure for: %s", text)
		}

		if emb, ok := m.Embeddings[text]; ok {
			vectors[i] = emb
			continue
		}

		// Derive a deterministic embedding from the text so distinct
		// chunks do not collide.
		h := fnv.New32a()
		h.Write([]byte(text))
		sum := h.Sum32()
		vectors[i] = []float32{
			float32(sum%997) / 997,
			float32(sum%991) / 991,
			float32(sum%983) / 983,
		}
	}

	return vectors, nil
}

func (m *MockEmbedder) Close() error {
	return nil
}
