package corpus

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inkstoneco/inkstone/pkg/catalog"
	embeddingutils "github.com/inkstoneco/inkstone/pkg/embeddings/utils"
	vectorutils "github.com/inkstoneco/inkstone/pkg/vector/utils"
)

// OpenOpts describes where the corpus lives and which providers serve it.
type OpenOpts struct {
	// Root is the corpus directory holding catalog.json.
	Root string

	// VectorProvider, VectorTarget, and Collection select the similarity
	// index backend.
	VectorProvider string
	VectorTarget   string
	Collection     string

	// EmbeddingProvider, EmbeddingTarget, and Model select the embedder.
	// Dimensions is required by backends that create collections.
	EmbeddingProvider string
	EmbeddingTarget   string
	Model             string
	Dimensions        uint

	// ChunkSize and MaxChunks set segmentation defaults.
	ChunkSize int
	MaxChunks int
}

// Open assembles a ready-to-use Corpus: the catalog under Root, a
// similarity index driver, and an embedder. Unreachable backends fail fast
// with ErrDependencyUnavailable so collaborators can surface a remediation
// hint instead of failing mid-operation.
func Open(opts OpenOpts, logger *zap.Logger) (*Corpus, error) {
	cat, err := catalog.Open(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("opening catalog under %s: %w", opts.Root, err)
	}

	driver, err := vectorutils.NewDriver(&vectorutils.NewDriverOpts{
		ProviderType: opts.VectorProvider,
		TargetURL:    opts.VectorTarget,
		Collection:   opts.Collection,
		Dimensions:   opts.Dimensions,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s at %s is unreachable (is it running?): %v",
			ErrDependencyUnavailable, opts.VectorProvider, opts.VectorTarget, err)
	}

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: opts.EmbeddingProvider,
		TargetURL:    opts.EmbeddingTarget,
		Model:        opts.Model,
	})
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("%w: embedding provider %s: %v",
			ErrDependencyUnavailable, opts.EmbeddingProvider, err)
	}

	return New(cat, driver, embedder, logger, Options{
		ChunkSize: opts.ChunkSize,
		MaxChunks: opts.MaxChunks,
	})
}
