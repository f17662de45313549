// Package segment splits raw long-form text into bounded, coherent chunks
// suitable for embedding and retrieval. Splitting prefers paragraph
// boundaries, falls back to single line breaks for texts that do not use
// blank lines between paragraphs, and force-splits oversized paragraphs on
// sentence boundaries. All sizes are rune counts.
package segment

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Chunk is one bounded excerpt of the input text.
type Chunk struct {
	Text      string
	CharCount int
}

const (
	// DefaultTargetSize is the chunk size used when callers pass a
	// non-positive target.
	DefaultTargetSize = 500

	// flushTolerance lets a chunk grow slightly past the target before the
	// running buffer is flushed.
	flushTolerance = 1.2

	// forceSplitFactor marks a lone paragraph as oversized: anything past
	// forceSplitFactor*target is re-split on sentence boundaries before
	// accumulation. It is the bound on emitted chunk sizes, modulo
	// paragraphs with no sentence terminators, which are kept whole.
	forceSplitFactor = 1.5

	// resplitFactor triggers the single-newline fallback when any blank-line
	// paragraph exceeds resplitFactor*target.
	resplitFactor = 3

	// minParagraphs is the minimum blank-line paragraph count below which the
	// text is re-split on single newlines.
	minParagraphs = 5

	// minTailRunes is the absolute floor below which a trailing buffer is
	// considered a fragment with no retrieval value.
	minTailRunes = 60
)

var blankLineRe = regexp.MustCompile(`\n\s*\n`)

// sentence-ending punctuation, CJK and Latin.
var terminalMarks = map[rune]bool{
	'。': true, '！': true, '？': true, '．': true,
	'!': true, '?': true, '.': true,
}

// closing quotation marks that stay attached to the sentence they end.
var closingQuotes = map[rune]bool{
	'"': true, '\'': true,
	'”': true, // ”
	'’': true, // ’
	'」': true, '』': true,
}

// Split segments text into ordered chunks of roughly targetSize runes.
// Empty or whitespace-only input yields an empty slice. No emitted chunk is
// empty, and force-splitting never loses text.
func Split(text string, targetSize int) []Chunk {
	if targetSize <= 0 {
		targetSize = DefaultTargetSize
	}

	normalized := normalizeNewlines(text)
	paragraphs := splitParagraphs(normalized, targetSize)
	if len(paragraphs) == 0 {
		return nil
	}

	var (
		chunks []Chunk
		buf    strings.Builder
		bufLen int
	)

	flush := func() {
		if bufLen == 0 {
			return
		}
		chunks = append(chunks, Chunk{Text: buf.String(), CharCount: bufLen})
		buf.Reset()
		bufLen = 0
	}

	limit := int(float64(targetSize) * flushTolerance)

	for _, para := range paragraphs {
		paraLen := utf8.RuneCountInString(para)

		// An oversized paragraph is re-split on sentence boundaries and each
		// piece emitted on its own; it never shares a chunk.
		if paraLen > int(forceSplitFactor*float64(targetSize)) {
			flush()
			for _, piece := range ForceSplit(para, targetSize) {
				chunks = append(chunks, Chunk{Text: piece, CharCount: utf8.RuneCountInString(piece)})
			}
			continue
		}

		if bufLen > 0 && bufLen+paraLen > limit {
			flush()
		}

		if bufLen > 0 {
			buf.WriteByte('\n')
			bufLen++
		}
		buf.WriteString(para)
		bufLen += paraLen
	}

	// Drop a trailing fragment too small to carry any retrieval value, but
	// never drop the only chunk the text produced.
	if bufLen > 0 {
		minViable := targetSize / 4
		if minViable > minTailRunes {
			minViable = minTailRunes
		}
		if len(chunks) == 0 || bufLen >= minViable {
			flush()
		}
	}

	return chunks
}

// ForceSplit cuts an oversized paragraph on sentence boundaries, then greedily
// re-packs sentences up to targetSize runes per piece. Terminal punctuation
// (and any closing quotes after it) stays attached to the preceding sentence.
// A paragraph containing no sentence terminator is returned whole.
func ForceSplit(paragraph string, targetSize int) []string {
	sentences := splitSentences(paragraph)
	if len(sentences) <= 1 {
		return []string{paragraph}
	}

	var (
		pieces []string
		buf    strings.Builder
		bufLen int
	)

	for _, s := range sentences {
		sLen := utf8.RuneCountInString(s)
		if bufLen > 0 && bufLen+sLen > targetSize {
			pieces = append(pieces, buf.String())
			buf.Reset()
			bufLen = 0
		}
		buf.WriteString(s)
		bufLen += sLen
	}
	if bufLen > 0 {
		pieces = append(pieces, buf.String())
	}

	return pieces
}

// splitSentences scans for terminal punctuation, keeping the punctuation and
// any trailing closing quotes with the sentence they end.
func splitSentences(text string) []string {
	var (
		sentences []string
		start     int
		inTail    bool // consuming closing quotes after a terminal mark
	)

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if inTail {
			if closingQuotes[r] {
				continue
			}
			sentences = append(sentences, string(runes[start:i]))
			start = i
			inTail = false
		}

		if terminalMarks[r] {
			inTail = true
		}
	}

	if start < len(runes) {
		tail := string(runes[start:])
		if strings.TrimSpace(tail) != "" || len(sentences) == 0 {
			sentences = append(sentences, tail)
		} else if len(sentences) > 0 {
			// Pure-whitespace tail folds into the last sentence so no text
			// is lost.
			sentences[len(sentences)-1] += tail
		}
	}

	return sentences
}

// splitParagraphs breaks the normalized text into trimmed, non-empty
// paragraphs. Blank-line boundaries are preferred; when they yield too few
// paragraphs, or any one paragraph is far past the target, the text is
// re-split on single line breaks instead.
func splitParagraphs(text string, targetSize int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	byBlank := collectNonEmpty(blankLineRe.Split(trimmed, -1))

	needsResplit := len(byBlank) < minParagraphs
	if !needsResplit {
		for _, p := range byBlank {
			if utf8.RuneCountInString(p) > resplitFactor*targetSize {
				needsResplit = true
				break
			}
		}
	}

	if !needsResplit {
		return byBlank
	}

	byLine := collectNonEmpty(strings.Split(trimmed, "\n"))
	if len(byLine) == 0 {
		return byBlank
	}
	return byLine
}

func collectNonEmpty(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
