package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/inkstoneco/inkstone/pkg/embeddings/ollama"
	"github.com/inkstoneco/inkstone/pkg/vector"
)

func TestOllama(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Ollama Embedder Suite")
}

var _ = Describe("Embedder", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("sends the batch and returns one vector per text", func() {
		var body map[string]any

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/api/embed"))
			Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"embeddings": [][]float32{{0.1, 0.2}, {0.3, 0.4}},
			})
		}))
		defer server.Close()

		embedder, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: server.URL, Model: "nomic-embed-text"})
		Expect(err).ToNot(HaveOccurred())

		vectors, err := embedder.Embed(ctx, []string{"first", "second"})
		Expect(err).ToNot(HaveOccurred())
		Expect(vectors).To(HaveLen(2))
		Expect(vectors[0]).To(Equal([]float32{0.1, 0.2}))
		Expect(vectors[1]).To(Equal([]float32{0.3, 0.4}))

		Expect(body["model"]).To(Equal("nomic-embed-text"))
		Expect(body["input"]).To(Equal([]any{"first", "second"}))
	})

	It("returns nil for an empty batch without calling the API", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Fail("API should not be called for an empty batch")
		}))
		defer server.Close()

		embedder, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: server.URL})
		Expect(err).ToNot(HaveOccurred())

		vectors, err := embedder.Embed(ctx, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(vectors).To(BeNil())
	})

	It("fails when the embedding count does not match the input count", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"embeddings": [][]float32{{0.1, 0.2}},
			})
		}))
		defer server.Close()

		embedder, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: server.URL})
		Expect(err).ToNot(HaveOccurred())

		_, err = embedder.Embed(ctx, []string{"first", "second"})
		Expect(err).To(MatchError(vector.ErrEmbedding))
	})

	It("wraps non-200 responses in an embedding error", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}))
		defer server.Close()

		embedder, err := ollama.NewEmbedder(ollama.EmbedderConfig{BaseURL: server.URL})
		Expect(err).ToNot(HaveOccurred())

		_, err = embedder.Embed(ctx, []string{"text"})
		Expect(err).To(MatchError(vector.ErrEmbedding))
		Expect(err.Error()).To(ContainSubstring("404"))
	})

	It("applies defaults when config is empty", func() {
		embedder, err := ollama.NewEmbedder(ollama.EmbedderConfig{})
		Expect(err).ToNot(HaveOccurred())
		Expect(embedder).ToNot(BeNil())
	})
})
