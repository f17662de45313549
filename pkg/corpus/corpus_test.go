package corpus_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/inkstoneco/inkstone/pkg/catalog"
	"github.com/inkstoneco/inkstone/pkg/corpus"
	testutils "github.com/inkstoneco/inkstone/pkg/utils/test"
	"github.com/inkstoneco/inkstone/pkg/vector"
	"github.com/inkstoneco/inkstone/pkg/vector/memory"
)

func TestCorpus(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Corpus Suite")
}

const (
	dialogueText = `"Hello," she said. "Go away," he replied.`

	descriptionText = `The harbor lay flat and gray beneath a sky the color of old pewter, and the long stone quay stretched out into water that barely moved. Gulls wheeled in slow circles above the moored boats, their cries thin and distant. A smell of salt and tar and wet rope hung over everything, settling into the cloth of anyone who lingered near the seawall for more than a moment or two.`
)

// failDeleteDriver wraps the in-memory driver and fails every Delete,
// simulating an index that cannot be cleaned up after a partial write.
type failDeleteDriver struct {
	*memory.Driver
}

func (d *failDeleteDriver) Delete(_ context.Context, _ []string) error {
	return fmt.Errorf("index unavailable")
}

var _ = Describe("RefID", func() {
	It("is deterministic and 8 hex characters", func() {
		id := corpus.RefID("Jane Eyre")
		Expect(id).To(HaveLen(8))
		Expect(id).To(MatchRegexp("^[0-9a-f]{8}$"))
		Expect(corpus.RefID("Jane Eyre")).To(Equal(id))
		Expect(corpus.RefID("jane eyre")).ToNot(Equal(id))
	})
})

var _ = Describe("Corpus", func() {
	var (
		ctx      context.Context
		dir      string
		cat      *catalog.Catalog
		driver   *memory.Driver
		embedder *testutils.MockEmbedder
		c        *corpus.Corpus
	)

	BeforeEach(func() {
		ctx = context.Background()
		dir = GinkgoT().TempDir()

		var err error
		cat, err = catalog.Open(dir)
		Expect(err).ToNot(HaveOccurred())

		driver = memory.NewDriver()
		embedder = testutils.NewMockEmbedder()

		c, err = corpus.New(cat, driver, embedder, zap.NewNop(), corpus.Options{})
		Expect(err).ToNot(HaveOccurred())
	})

	Describe("AddReference", func() {
		It("writes both stores and reports what it wrote", func() {
			result, err := c.AddReference(ctx, "Dialogue Sample", dialogueText, corpus.AddOptions{Author: "bronte"})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.RefID).To(Equal(corpus.RefID("Dialogue Sample")))
			Expect(result.ChunksAdded).To(Equal(1))
			Expect(result.TotalChars).To(BeNumerically(">", 0))

			summary, ok := cat.Get(result.RefID)
			Expect(ok).To(BeTrue())
			Expect(summary.Author).To(Equal("bronte"))
			Expect(summary.ChunkCount).To(Equal(1))

			ids, err := driver.IDs(ctx, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(ids).To(Equal([]string{result.RefID + "_chunk_0"}))
		})

		It("classifies chunks into index metadata", func() {
			result, err := c.AddReference(ctx, "Dialogue Sample", dialogueText, corpus.AddOptions{})
			Expect(err).ToNot(HaveOccurred())

			matches, err := driver.Query(ctx, []float32{0.1, 0.2, 0.3}, 1, vector.Where{vector.FieldRefID: result.RefID})
			Expect(err).ToNot(HaveOccurred())
			Expect(matches).To(HaveLen(1))
			Expect(matches[0].Meta.Category).To(Equal("dialogue"))
			Expect(matches[0].Meta.Author).To(Equal(corpus.DefaultAuthor))
		})

		It("rejects duplicate titles and leaves the first intact", func() {
			_, err := c.AddReference(ctx, "Dialogue Sample", dialogueText, corpus.AddOptions{})
			Expect(err).ToNot(HaveOccurred())

			_, err = c.AddReference(ctx, "Dialogue Sample", "different content entirely", corpus.AddOptions{})
			Expect(err).To(MatchError(corpus.ErrDuplicateReference))

			count, err := driver.Count(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(count).To(Equal(1))
			Expect(cat.Len()).To(Equal(1))
		})

		It("rejects an empty title", func() {
			_, err := c.AddReference(ctx, "   ", dialogueText, corpus.AddOptions{})
			Expect(err).To(HaveOccurred())
		})

		It("rejects content with no usable text", func() {
			_, err := c.AddReference(ctx, "Empty", "   \n\n  ", corpus.AddOptions{})
			Expect(err).To(HaveOccurred())
			Expect(cat.Len()).To(Equal(0))
		})

		It("truncates to the chunk cap", func() {
			long := ""
			for i := 0; i < 20; i++ {
				long += fmt.Sprintf("Paragraph number %d carries enough words to stand on its own as a unit of text for segmentation purposes.\n\n", i)
			}

			result, err := c.AddReference(ctx, "Long Work", long, corpus.AddOptions{MaxChunks: 2})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.ChunksAdded).To(Equal(2))

			count, err := driver.Count(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(count).To(Equal(2))
		})

		It("leaves both stores untouched when embedding fails", func() {
			embedder.FailOn = dialogueText

			_, err := c.AddReference(ctx, "Dialogue Sample", dialogueText, corpus.AddOptions{})
			Expect(err).To(HaveOccurred())

			count, err := driver.Count(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(count).To(Equal(0))
			Expect(cat.Len()).To(Equal(0))
		})

		It("rolls the index back when the catalog write fails", func() {
			// Removing the catalog directory makes the temp-file persist fail
			// after the index upsert has already happened.
			Expect(os.RemoveAll(dir)).To(Succeed())

			_, err := c.AddReference(ctx, "Dialogue Sample", dialogueText, corpus.AddOptions{})
			Expect(err).To(HaveOccurred())
			Expect(err).ToNot(MatchError(corpus.ErrInconsistent))

			count, err := driver.Count(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(count).To(Equal(0))
		})

		It("reports inconsistency when the rollback also fails", func() {
			failing := &failDeleteDriver{Driver: driver}
			var err error
			c, err = corpus.New(cat, failing, embedder, zap.NewNop(), corpus.Options{})
			Expect(err).ToNot(HaveOccurred())

			Expect(os.RemoveAll(dir)).To(Succeed())

			_, err = c.AddReference(ctx, "Dialogue Sample", dialogueText, corpus.AddOptions{})
			Expect(err).To(MatchError(corpus.ErrInconsistent))
		})
	})

	Describe("RemoveReference", func() {
		It("removes the chunks and the catalog entry", func() {
			result, err := c.AddReference(ctx, "Dialogue Sample", dialogueText, corpus.AddOptions{})
			Expect(err).ToNot(HaveOccurred())

			removed, err := c.RemoveReference(ctx, result.RefID)
			Expect(err).ToNot(HaveOccurred())
			Expect(removed).To(BeTrue())

			count, err := driver.Count(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(count).To(Equal(0))
			Expect(cat.Has(result.RefID)).To(BeFalse())
		})

		It("returns false for an unknown reference", func() {
			removed, err := c.RemoveReference(ctx, "deadbeef")
			Expect(err).ToNot(HaveOccurred())
			Expect(removed).To(BeFalse())
		})

		It("only removes the named reference", func() {
			first, err := c.AddReference(ctx, "First", dialogueText, corpus.AddOptions{})
			Expect(err).ToNot(HaveOccurred())
			_, err = c.AddReference(ctx, "Second", descriptionText, corpus.AddOptions{})
			Expect(err).ToNot(HaveOccurred())

			removed, err := c.RemoveReference(ctx, first.RefID)
			Expect(err).ToNot(HaveOccurred())
			Expect(removed).To(BeTrue())

			count, err := driver.Count(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(count).To(Equal(1))
			Expect(cat.Len()).To(Equal(1))
		})
	})

	Describe("Clear", func() {
		It("empties both stores and is idempotent", func() {
			_, err := c.AddReference(ctx, "Dialogue Sample", dialogueText, corpus.AddOptions{})
			Expect(err).ToNot(HaveOccurred())

			Expect(c.Clear(ctx)).To(Succeed())
			Expect(c.Clear(ctx)).To(Succeed())

			count, err := driver.Count(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(count).To(Equal(0))
			Expect(cat.Len()).To(Equal(0))
		})
	})

	Describe("Query", func() {
		BeforeEach(func() {
			embedder.Embeddings["near"] = []float32{1, 0}
			embedder.Embeddings[dialogueText] = []float32{0.95, 0.05}
			embedder.Embeddings[descriptionText] = []float32{0, 1}

			_, err := c.AddReference(ctx, "Dialogue Sample", dialogueText, corpus.AddOptions{Author: "bronte"})
			Expect(err).ToNot(HaveOccurred())
			_, err = c.AddReference(ctx, "Description Sample", descriptionText, corpus.AddOptions{Author: "dumas"})
			Expect(err).ToNot(HaveOccurred())
		})

		It("returns at most k samples in ascending distance order", func() {
			samples, err := c.Query(ctx, "near", 5, corpus.Filters{})
			Expect(err).ToNot(HaveOccurred())
			Expect(samples).To(HaveLen(2))
			Expect(samples[0].Text).To(Equal(dialogueText))
			Expect(samples[0].Distance).To(BeNumerically("<=", samples[1].Distance))

			samples, err = c.Query(ctx, "near", 1, corpus.Filters{})
			Expect(err).ToNot(HaveOccurred())
			Expect(samples).To(HaveLen(1))
		})

		It("filters by category", func() {
			samples, err := c.Query(ctx, "near", 5, corpus.Filters{Category: "description"})
			Expect(err).ToNot(HaveOccurred())
			Expect(samples).To(HaveLen(1))
			Expect(samples[0].Text).To(Equal(descriptionText))
		})

		It("filters by ref_id", func() {
			refID := corpus.RefID("Dialogue Sample")
			samples, err := c.Query(ctx, "near", 5, corpus.Filters{RefID: refID})
			Expect(err).ToNot(HaveOccurred())
			Expect(samples).To(HaveLen(1))
			Expect(samples[0].Meta.RefID).To(Equal(refID))
		})

		It("fails when the query cannot be embedded", func() {
			embedder.FailOn = "near"
			_, err := c.Query(ctx, "near", 5, corpus.Filters{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("QueryByAuthor", func() {
		BeforeEach(func() {
			_, err := c.AddReference(ctx, "Dialogue Sample", dialogueText, corpus.AddOptions{Author: "bronte"})
			Expect(err).ToNot(HaveOccurred())
		})

		It("requires an author", func() {
			_, err := c.QueryByAuthor(ctx, "query", 5, "")
			Expect(err).To(HaveOccurred())
		})

		It("returns only that author's chunks", func() {
			samples, err := c.QueryByAuthor(ctx, "query", 5, "bronte")
			Expect(err).ToNot(HaveOccurred())
			Expect(samples).To(HaveLen(1))
			Expect(samples[0].Meta.Author).To(Equal("bronte"))
		})

		It("returns an empty slice for an author with no chunks", func() {
			samples, err := c.QueryByAuthor(ctx, "query", 5, "nobody")
			Expect(err).ToNot(HaveOccurred())
			Expect(samples).To(BeEmpty())
		})
	})

	Describe("StyleContextFor", func() {
		BeforeEach(func() {
			_, err := c.AddReference(ctx, "Dialogue Sample", dialogueText, corpus.AddOptions{Author: "bronte"})
			Expect(err).ToNot(HaveOccurred())
			_, err = c.AddReference(ctx, "Description Sample", descriptionText, corpus.AddOptions{Author: "dumas"})
			Expect(err).ToNot(HaveOccurred())
		})

		It("maps narrative onto the description category", func() {
			sc, err := c.StyleContextFor(ctx, "a quiet harbor at dusk", "narrative", 5)
			Expect(err).ToNot(HaveOccurred())
			Expect(sc.Samples).To(HaveLen(1))
			Expect(sc.Samples[0].Meta.Category).To(Equal("description"))
		})

		It("applies no filter for unknown scene types", func() {
			sc, err := c.StyleContextFor(ctx, "anything", "flashback", 5)
			Expect(err).ToNot(HaveOccurred())
			Expect(sc.Samples).To(HaveLen(2))
		})

		It("returns the full catalog listing for provenance", func() {
			sc, err := c.StyleContextFor(ctx, "anything", "dialogue", 5)
			Expect(err).ToNot(HaveOccurred())
			Expect(sc.References).To(HaveLen(2))
		})
	})

	Describe("Stats", func() {
		It("combines catalog counters with the live index count", func() {
			_, err := c.AddReference(ctx, "Dialogue Sample", dialogueText, corpus.AddOptions{})
			Expect(err).ToNot(HaveOccurred())
			_, err = c.AddReference(ctx, "Description Sample", descriptionText, corpus.AddOptions{})
			Expect(err).ToNot(HaveOccurred())

			stats, err := c.Stats(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(stats.References).To(Equal(2))
			Expect(stats.Chunks).To(Equal(2))
			Expect(stats.Indexed).To(Equal(2))
			Expect(stats.Chars).To(BeNumerically(">", 0))
		})
	})

	Describe("ImportFile", func() {
		It("titles the reference after the file stem and records provenance", func() {
			path := filepath.Join(dir, "Jane Eyre.txt")
			Expect(os.WriteFile(path, []byte(descriptionText), 0o644)).To(Succeed())

			result, skipped, err := c.ImportFile(ctx, path, corpus.ImportOptions{Author: "bronte"})
			Expect(err).ToNot(HaveOccurred())
			Expect(skipped).To(BeFalse())
			Expect(result.Title).To(Equal("Jane Eyre"))

			summary, ok := cat.Get(result.RefID)
			Expect(ok).To(BeTrue())
			Expect(summary.SourcePath).To(Equal(path))
			Expect(summary.SourceFormat).To(Equal("txt"))
		})

		It("skips files whose title is already cataloged", func() {
			path := filepath.Join(dir, "Jane Eyre.txt")
			Expect(os.WriteFile(path, []byte(descriptionText), 0o644)).To(Succeed())

			_, skipped, err := c.ImportFile(ctx, path, corpus.ImportOptions{})
			Expect(err).ToNot(HaveOccurred())
			Expect(skipped).To(BeFalse())

			result, skipped, err := c.ImportFile(ctx, path, corpus.ImportOptions{})
			Expect(err).ToNot(HaveOccurred())
			Expect(skipped).To(BeTrue())
			Expect(result).To(BeNil())
		})
	})

	Describe("ImportDir", func() {
		var importDir string

		BeforeEach(func() {
			importDir = filepath.Join(dir, "sources")
			Expect(os.MkdirAll(importDir, 0o755)).To(Succeed())

			Expect(os.WriteFile(filepath.Join(importDir, "alpha.txt"), []byte(descriptionText), 0o644)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(importDir, "beta.md"), []byte(dialogueText), 0o644)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(importDir, "gamma.html"), []byte("<p>"+descriptionText+"</p>"), 0o644)).To(Succeed())
			// Unsupported extension, filtered out before processing.
			Expect(os.WriteFile(filepath.Join(importDir, "notes.pdf"), []byte("%PDF"), 0o644)).To(Succeed())
			// Supported extension but nothing to extract.
			Expect(os.WriteFile(filepath.Join(importDir, "zz-empty.txt"), []byte("   "), 0o644)).To(Succeed())
		})

		It("imports supported files and records failures", func() {
			report, err := c.ImportDir(ctx, importDir, corpus.ImportOptions{})
			Expect(err).ToNot(HaveOccurred())
			Expect(report.Succeeded).To(HaveLen(3))
			Expect(report.Failed).To(HaveLen(1))
			Expect(report.Failed[0].Path).To(HaveSuffix("zz-empty.txt"))
			Expect(report.Skipped).To(BeEmpty())
			Expect(cat.Len()).To(Equal(3))
		})

		It("skips already cataloged files on re-import", func() {
			_, err := c.ImportDir(ctx, importDir, corpus.ImportOptions{})
			Expect(err).ToNot(HaveOccurred())

			report, err := c.ImportDir(ctx, importDir, corpus.ImportOptions{})
			Expect(err).ToNot(HaveOccurred())
			Expect(report.Skipped).To(HaveLen(3))
			Expect(report.Succeeded).To(BeEmpty())
			Expect(cat.Len()).To(Equal(3))
		})

		It("aborts on the first failure when FailFast is set", func() {
			// "aa-bad.txt" sorts before every valid file.
			Expect(os.WriteFile(filepath.Join(importDir, "aa-bad.txt"), []byte(" "), 0o644)).To(Succeed())

			_, err := c.ImportDir(ctx, importDir, corpus.ImportOptions{FailFast: true})
			Expect(err).To(HaveOccurred())
			Expect(cat.Len()).To(Equal(0))
		})

		It("invokes the progress callback per processed file", func() {
			var seen []string
			_, err := c.ImportDir(ctx, importDir, corpus.ImportOptions{
				Progress: func(path string, err error) {
					seen = append(seen, filepath.Base(path))
				},
			})
			Expect(err).ToNot(HaveOccurred())
			// The .pdf never reaches the callback.
			Expect(seen).To(Equal([]string{"alpha.txt", "beta.md", "gamma.html", "zz-empty.txt"}))
		})
	})

	Describe("ImportLibrary", func() {
		var root string

		BeforeEach(func() {
			root = filepath.Join(dir, "library")
			Expect(os.MkdirAll(filepath.Join(root, "bronte"), 0o755)).To(Succeed())
			Expect(os.MkdirAll(filepath.Join(root, "dumas"), 0o755)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(root, "bronte", "Jane Eyre.txt"), []byte(descriptionText), 0o644)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(root, "dumas", "Monte Cristo.txt"), []byte(dialogueText), 0o644)).To(Succeed())
			// Loose file at the root is not part of any author folder.
			Expect(os.WriteFile(filepath.Join(root, "stray.txt"), []byte(descriptionText), 0o644)).To(Succeed())
		})

		It("applies each folder name as the author", func() {
			report, err := c.ImportLibrary(ctx, root, "", corpus.ImportOptions{})
			Expect(err).ToNot(HaveOccurred())
			Expect(report.Succeeded).To(HaveLen(2))

			summary, ok := cat.Get(corpus.RefID("Jane Eyre"))
			Expect(ok).To(BeTrue())
			Expect(summary.Author).To(Equal("bronte"))

			summary, ok = cat.Get(corpus.RefID("Monte Cristo"))
			Expect(ok).To(BeTrue())
			Expect(summary.Author).To(Equal("dumas"))

			Expect(cat.Has(corpus.RefID("stray"))).To(BeFalse())
		})

		It("imports a single author folder when named", func() {
			report, err := c.ImportLibrary(ctx, root, "bronte", corpus.ImportOptions{})
			Expect(err).ToNot(HaveOccurred())
			Expect(report.Succeeded).To(HaveLen(1))
			Expect(cat.Len()).To(Equal(1))
		})

		It("fails with ErrAuthorNotFound for a missing author folder", func() {
			_, err := c.ImportLibrary(ctx, root, "tolstoy", corpus.ImportOptions{})
			Expect(err).To(MatchError(corpus.ErrAuthorNotFound))
		})
	})
})
