// Package openai implements pkg/embeddings' Embedder client for
// OpenAI-compatible embedding APIs.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/inkstoneco/inkstone/pkg/embeddings"
	"github.com/inkstoneco/inkstone/pkg/vector"
)

const (
	// DefaultEmbeddingModel is the default model used for embeddings.
	DefaultEmbeddingModel = "text-embedding-3-small"

	// DefaultBaseURL is the default OpenAI API URL.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultAPIKeyEnv is the environment variable read for the API key.
	DefaultAPIKeyEnv = "OPENAI_API_KEY"

	maxRetries = 5
)

// Embedder wraps an OpenAI-compatible embedding API.
type Embedder struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// EmbedderConfig holds configuration for the OpenAI embedder.
type EmbedderConfig struct {
	// BaseURL is the API URL (e.g., "https://api.openai.com/v1").
	// Defaults to DefaultBaseURL if empty.
	BaseURL string

	// Model is the embedding model to use.
	// Defaults to DefaultEmbeddingModel if empty.
	Model string

	// APIKeyEnv names the environment variable holding the API key.
	// Defaults to DefaultAPIKeyEnv if empty.
	APIKeyEnv string
}

// embedRequest is the request body for the embeddings endpoint.
type embedRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

// embedResponse is the response from the embeddings endpoint.
type embedResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// NewEmbedder creates a new embedder using an OpenAI-compatible API.
// The API key is read from the configured environment variable.
func NewEmbedder(cfg EmbedderConfig) (*Embedder, error) {
	keyEnv := cfg.APIKeyEnv
	if keyEnv == "" {
		keyEnv = DefaultAPIKeyEnv
	}

	apiKey := os.Getenv(keyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("missing API key in env %s", keyEnv)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultEmbeddingModel
	}

	return &Embedder{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// Embed converts a batch of texts into vector embeddings. Rate-limit and
// server errors are retried with exponential backoff, honoring Retry-After
// when the server provides one.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	jsonBody, err := json.Marshal(embedRequest{Input: texts, Model: e.model})
	if err != nil {
		return nil, fmt.Errorf("%w: marshaling request: %v", vector.ErrEmbedding, err)
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay(attempt - 1)):
			}
		}

		vectors, retry, err := e.embedOnce(ctx, jsonBody, len(texts))
		if err == nil {
			return vectors, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// embedOnce performs a single request. The second return value reports
// whether the failure is retryable.
func (e *Embedder) embedOnce(ctx context.Context, jsonBody []byte, want int) ([][]float32, bool, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL+"/embeddings", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, false, fmt.Errorf("%w: creating request: %v", vector.ErrEmbedding, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: sending request: %v", vector.ErrEmbedding, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil {
				select {
				case <-ctx.Done():
					return nil, false, ctx.Err()
				case <-time.After(time.Duration(secs) * time.Second):
				}
			}
		}
		return nil, true, fmt.Errorf("%w: embeddings API returned status %d", vector.ErrEmbedding, resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, false, fmt.Errorf("%w: embeddings API returned status %d: %s", vector.ErrEmbedding, resp.StatusCode, string(body))
	}

	var embedResp embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, false, fmt.Errorf("%w: decoding response: %v", vector.ErrEmbedding, err)
	}

	if len(embedResp.Data) != want {
		return nil, false, fmt.Errorf("%w: expected %d embeddings, got %d", vector.ErrEmbedding, want, len(embedResp.Data))
	}

	// Order by the index field; the API does not guarantee input order.
	vectors := make([][]float32, want)
	for _, d := range embedResp.Data {
		if d.Index < 0 || d.Index >= want {
			return nil, false, fmt.Errorf("%w: embedding index %d out of range", vector.ErrEmbedding, d.Index)
		}
		vectors[d.Index] = d.Embedding
	}

	return vectors, false, nil
}

// Close releases resources held by the embedder.
func (e *Embedder) Close() error {
	return nil
}

// retryDelay is an exponential backoff capped at 5 seconds.
func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := 200 * time.Millisecond << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}

// Ensure Embedder implements embeddings.Embedder
var _ embeddings.Embedder = (*Embedder)(nil)
