package config_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/inkstoneco/inkstone/pkg/config"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

var _ = Describe("Configer config", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("LoadConfig", func() {
		It("returns default config when no config file exists", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).NotTo(BeNil())

			defaults := config.NewDefaultConfig()
			Expect(cfg.Version).To(Equal(defaults.Version))
			Expect(cfg.VectorStore.Provider).To(Equal(defaults.VectorStore.Provider))
			Expect(cfg.VectorStore.Target).To(Equal(defaults.VectorStore.Target))
			Expect(cfg.VectorStore.Collection).To(Equal(defaults.VectorStore.Collection))
			Expect(cfg.Embedding.Provider).To(Equal(defaults.Embedding.Provider))
			Expect(cfg.Embedding.Target).To(Equal(defaults.Embedding.Target))
			Expect(cfg.Embedding.Model).To(Equal(defaults.Embedding.Model))
			Expect(cfg.Embedding.Dimensions).To(Equal(defaults.Embedding.Dimensions))
			Expect(cfg.Chunking.TargetSize).To(Equal(defaults.Chunking.TargetSize))
			Expect(cfg.Chunking.MaxChunks).To(Equal(defaults.Chunking.MaxChunks))
		})

		It("loads a valid config file", func() {
			data := `version = 0

[vector_store]
provider = "qdrant"
target = "localhost:6334"

[chunking]
target_size = 300
`
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).NotTo(BeNil())
			Expect(cfg.Version).To(Equal(0))
			Expect(cfg.VectorStore.Provider).To(Equal("qdrant"))
			Expect(cfg.VectorStore.Target).To(Equal("localhost:6334"))
			Expect(cfg.Chunking.TargetSize).To(Equal(300))
		})

		It("fills unset fields from defaults", func() {
			data := `[embedding]
model = "all-minilm"
`
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())

			defaults := config.NewDefaultConfig()
			Expect(cfg.Embedding.Model).To(Equal("all-minilm"))
			Expect(cfg.Embedding.Provider).To(Equal(defaults.Embedding.Provider))
			Expect(cfg.VectorStore.Provider).To(Equal(defaults.VectorStore.Provider))
			Expect(cfg.Chunking.MaxChunks).To(Equal(defaults.Chunking.MaxChunks))
		})

		It("loads all config fields", func() {
			data := `version = 0

[corpus]
root = "/tmp/inkstone-corpus"

[library]
root = "/srv/reference-library"

[vector_store]
provider = "chroma"
target = "http://localhost:8000"
collection = "style_references"

[embedding]
provider = "ollama"
target = "http://localhost:11434"
model = "nomic-embed-text"
dimensions = 1024

[chunking]
target_size = 400
max_chunks = 50
`
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Version).To(Equal(0))
			Expect(cfg.Corpus.Root).To(Equal("/tmp/inkstone-corpus"))
			Expect(cfg.Library.Root).To(Equal("/srv/reference-library"))
			Expect(cfg.VectorStore.Provider).To(Equal("chroma"))
			Expect(cfg.VectorStore.Target).To(Equal("http://localhost:8000"))
			Expect(cfg.VectorStore.Collection).To(Equal("style_references"))
			Expect(cfg.Embedding.Provider).To(Equal("ollama"))
			Expect(cfg.Embedding.Target).To(Equal("http://localhost:11434"))
			Expect(cfg.Embedding.Model).To(Equal("nomic-embed-text"))
			Expect(cfg.Embedding.Dimensions).To(Equal(uint(1024)))
			Expect(cfg.Chunking.TargetSize).To(Equal(400))
			Expect(cfg.Chunking.MaxChunks).To(Equal(50))
		})

		It("returns error for malformed TOML", func() {
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not valid toml [[["), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).To(HaveOccurred())
			Expect(cfg).To(BeNil())
		})

		It("returns error for unsupported config version", func() {
			data := `version = 99
`
			err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)
			Expect(err).NotTo(HaveOccurred())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unsupported config version"))
			Expect(cfg).To(BeNil())
		})
	})

	Describe("SaveConfig", func() {
		It("persists config to disk", func() {
			cfg := &config.Config{
				Version: config.CurrentV,
				VectorStore: config.VectorStoreConfig{
					Provider: "qdrant",
					Target:   "localhost:6334",
				},
				Embedding: config.EmbeddingConfig{
					Dimensions: 768,
				},
			}

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			err = c.SaveConfig(cfg)
			Expect(err).NotTo(HaveOccurred())

			_, err = os.Stat(filepath.Join(tmpDir, "config.toml"))
			Expect(err).NotTo(HaveOccurred())

			loaded, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.VectorStore.Provider).To(Equal("qdrant"))
			Expect(loaded.VectorStore.Target).To(Equal("localhost:6334"))
			Expect(loaded.Embedding.Dimensions).To(Equal(uint(768)))
		})

		It("returns error for nil config", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			err = c.SaveConfig(nil)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SetConfigValue / GetConfigValue", func() {
		It("round-trips a string key", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SetConfigValue("library.root", "/srv/library")).To(Succeed())

			got, err := c.GetConfigValue("library.root")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal("/srv/library"))
		})

		It("rejects unknown keys", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SetConfigValue("nope.nothing", "x")).NotTo(Succeed())

			_, err = c.GetConfigValue("nope.nothing")
			Expect(err).To(HaveOccurred())
		})

		It("rejects a non-numeric chunking.target_size", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.SetConfigValue("chunking.target_size", "many")).NotTo(Succeed())
		})
	})

	Describe("ValidConfigKeys", func() {
		It("lists every supported key exactly once", func() {
			keys := config.ValidConfigKeys()
			Expect(keys).To(ContainElements(
				"corpus.root",
				"library.root",
				"vector_store.provider",
				"vector_store.target",
				"vector_store.collection",
				"embedding.provider",
				"embedding.target",
				"embedding.model",
				"embedding.dimensions",
				"chunking.target_size",
				"chunking.max_chunks",
			))

			seen := map[string]bool{}
			for _, k := range keys {
				Expect(seen[k]).To(BeFalse(), "duplicate key %s", k)
				seen[k] = true
				Expect(config.IsValidConfigKey(k)).To(BeTrue())
			}
		})
	})
})
