package qdrant

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	qdrantgo "github.com/qdrant/go-client/qdrant"
)

var _ = Describe("payloadValue", func() {
	It("keeps an empty string a string", func() {
		v, ok := payloadValue(&qdrantgo.Value{Kind: &qdrantgo.Value_StringValue{StringValue: ""}})
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(""))
	})

	It("decodes integers", func() {
		v, ok := payloadValue(&qdrantgo.Value{Kind: &qdrantgo.Value_IntegerValue{IntegerValue: 7}})
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(7))
	})

	It("decodes doubles", func() {
		v, ok := payloadValue(&qdrantgo.Value{Kind: &qdrantgo.Value_DoubleValue{DoubleValue: 2.5}})
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(2.5))
	})

	It("drops kinds outside the metadata schema", func() {
		_, ok := payloadValue(&qdrantgo.Value{Kind: &qdrantgo.Value_NullValue{}})
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("documentFromPayload", func() {
	It("rebuilds a document and tolerates empty string fields", func() {
		doc := documentFromPayload(qdrantgo.NewValueMap(map[string]any{
			payloadChunkID: "abc12345_chunk_0",
			payloadText:    "She walked along the shore.",
			"ref_id":       "abc12345",
			"title":        "",
			"author":       "woolf",
			"chunk_index":  0,
			"category":     "description",
			"char_count":   28,
		}))

		Expect(doc.ID).To(Equal("abc12345_chunk_0"))
		Expect(doc.Text).To(Equal("She walked along the shore."))
		Expect(doc.Meta.RefID).To(Equal("abc12345"))
		Expect(doc.Meta.Title).To(Equal(""))
		Expect(doc.Meta.Author).To(Equal("woolf"))
		Expect(doc.Meta.CharCount).To(Equal(28))
	})
})
