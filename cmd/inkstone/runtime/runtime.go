// Package runtime resolves effective settings for inkstone commands and
// assembles the corpus handle they operate on. Each command constructs its
// own handle explicitly; there is no process-wide singleton.
package runtime

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inkstoneco/inkstone/pkg/config"
	"github.com/inkstoneco/inkstone/pkg/corpus"
	"github.com/inkstoneco/inkstone/pkg/dotdir"
)

// Settings is the fully resolved configuration a command runs with, after
// applying the precedence chain flag > INKSTONE_ env > config.toml > default.
type Settings struct {
	CorpusRoot  string
	LibraryRoot string

	VectorProvider string
	VectorTarget   string
	Collection     string

	EmbeddingProvider string
	EmbeddingTarget   string
	EmbeddingModel    string
	Dimensions        uint

	ChunkSize int
	MaxChunks int
}

// Resolve reads the layered configuration for cmd. flagKeys names the
// registry flags the command registered; they are bound into viper so a
// passed flag overrides env and file values.
func Resolve(cmd *cobra.Command, flagKeys []string) (*Settings, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, err
	}
	config.BindRegisteredFlags(v, cmd, config.Flags, flagKeys)

	s := &Settings{
		CorpusRoot:        v.GetString("corpus.root"),
		LibraryRoot:       v.GetString("library.root"),
		VectorProvider:    v.GetString("vector_store.provider"),
		VectorTarget:      v.GetString("vector_store.target"),
		Collection:        v.GetString("vector_store.collection"),
		EmbeddingProvider: v.GetString("embedding.provider"),
		EmbeddingTarget:   v.GetString("embedding.target"),
		EmbeddingModel:    v.GetString("embedding.model"),
		Dimensions:        v.GetUint("embedding.dimensions"),
		ChunkSize:         v.GetInt("chunking.target_size"),
		MaxChunks:         v.GetInt("chunking.max_chunks"),
	}

	// An unset corpus root falls back to the resolved .inkstone directory,
	// so the catalog lives next to the config by default.
	if s.CorpusRoot == "" {
		ddm := dotdir.NewManager()
		root, err := ddm.Target(configDir)
		if err != nil {
			return nil, fmt.Errorf("resolving corpus root: %w", err)
		}
		s.CorpusRoot = root
	}

	return s, nil
}

// OpenCorpus builds the corpus handle for the resolved settings. The caller
// owns the handle and must Close it.
func OpenCorpus(s *Settings, logger *zap.Logger) (*corpus.Corpus, error) {
	return corpus.Open(corpus.OpenOpts{
		Root:              s.CorpusRoot,
		VectorProvider:    s.VectorProvider,
		VectorTarget:      s.VectorTarget,
		Collection:        s.Collection,
		EmbeddingProvider: s.EmbeddingProvider,
		EmbeddingTarget:   s.EmbeddingTarget,
		Model:             s.EmbeddingModel,
		Dimensions:        s.Dimensions,
		ChunkSize:         s.ChunkSize,
		MaxChunks:         s.MaxChunks,
	}, logger)
}
