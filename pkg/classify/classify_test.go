package classify_test

import (
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/inkstoneco/inkstone/pkg/classify"
)

func TestClassify(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Classify Suite")
}

var _ = Describe("Classify", func() {
	It("pins the heuristic thresholds", func() {
		Expect(classify.QuoteRatioThreshold).To(Equal(0.09))
		Expect(classify.ActionCountThreshold).To(Equal(3))
		Expect(classify.DescriptionLengthThreshold).To(Equal(300))
	})

	It("classifies quote-heavy text as dialogue", func() {
		Expect(classify.Classify(`"Hello," she said. "Go away," he replied.`)).To(Equal(classify.Dialogue))
	})

	It("classifies CJK quote marks as dialogue", func() {
		Expect(classify.Classify("「おはよう」「もう行くの？」「ええ」")).To(Equal(classify.Dialogue))
	})

	It("classifies verb-dense text as action", func() {
		text := "He ran across the yard, jumped the fence, grabbed the rail and threw himself over."
		Expect(classify.Classify(text)).To(Equal(classify.Action))
	})

	It("counts CJK action verbs per rune", func() {
		Expect(classify.Classify("他跑了出去，跳过矮墙，一把抓住绳索，用力推开了门。")).To(Equal(classify.Action))
	})

	It("does not count lexicon verbs inside longer words", func() {
		text := "The grandmother brandished nothing; the shrunken runes remained unrun."
		Expect(classify.Classify(text)).To(Equal(classify.Mixed))
	})

	It("classifies long quiet prose as description", func() {
		text := strings.Repeat("The valley lay silent under a pale and patient sky. ", 8)
		Expect(classify.Classify(text)).To(Equal(classify.Description))
	})

	It("falls through to mixed for short neutral text", func() {
		Expect(classify.Classify("It was almost noon.")).To(Equal(classify.Mixed))
	})

	It("prefers dialogue over action when both trip", func() {
		text := `"Run!" he said. "Run, run, run!" they said. "Go!" she said.`
		Expect(classify.Classify(text)).To(Equal(classify.Dialogue))
	})

	It("returns mixed for empty text", func() {
		Expect(classify.Classify("")).To(Equal(classify.Mixed))
	})
})
