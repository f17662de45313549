package qdrant_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/inkstoneco/inkstone/pkg/vector"
	"github.com/inkstoneco/inkstone/pkg/vector/qdrant"
)

func TestQdrant(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Qdrant Driver Suite")
}

var _ = Describe("Driver", func() {
	Describe("NewDriver", func() {
		It("returns an error when target is empty", func() {
			_, err := qdrant.NewDriver(qdrant.Config{Dimensions: 768}, zap.NewNop())
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("qdrant target is required"))
		})

		It("returns an error when dimensions are missing", func() {
			_, err := qdrant.NewDriver(qdrant.Config{Target: "localhost:6334"}, zap.NewNop())
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("dimensions are required"))
		})
	})

	Describe("PointID", func() {
		It("is deterministic for the same chunk id", func() {
			Expect(qdrant.PointID("3f2a8c1d_chunk_0")).To(Equal(qdrant.PointID("3f2a8c1d_chunk_0")))
		})

		It("produces a valid UUID", func() {
			Expect(qdrant.PointID("3f2a8c1d_chunk_0")).To(MatchRegexp(`^[0-9a-f]{8}-[0-9a-f]{4}-5[0-9a-f]{3}-[0-9a-f]{4}-[0-9a-f]{12}$`))
		})

		It("differs across chunk ids", func() {
			Expect(qdrant.PointID("3f2a8c1d_chunk_0")).NotTo(Equal(qdrant.PointID("3f2a8c1d_chunk_1")))
		})
	})

	Describe("Interface compliance", func() {
		It("implements vector.Driver", func() {
			var _ vector.Driver = (*qdrant.Driver)(nil)
		})
	})
})
