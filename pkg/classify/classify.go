// Package classify assigns a coarse stylistic category to a text chunk.
// The categories are a cheap lexical heuristic, not a model: retrieval
// filters only need a rough dialogue/action/description split.
package classify

import (
	"strings"
	"unicode/utf8"
)

// Category is the coarse stylistic tag attached to a chunk.
type Category string

const (
	Dialogue    Category = "dialogue"
	Action      Category = "action"
	Description Category = "description"
	Mixed       Category = "mixed"
)

const (
	// QuoteRatioThreshold classifies a chunk as dialogue when the ratio of
	// quotation-mark runes to total runes exceeds it. A short exchange like
	// `"Go," she said.` carries roughly one quote per ten runes.
	QuoteRatioThreshold = 0.09

	// ActionCountThreshold classifies a chunk as action when more than this
	// many action-verb tokens occur.
	ActionCountThreshold = 3

	// DescriptionLengthThreshold classifies a long chunk as description when
	// it is neither dialogue nor action.
	DescriptionLengthThreshold = 300
)

// quoteMarks are the runes counted toward the dialogue ratio.
var quoteMarks = map[rune]bool{
	'"': true,
	'“': true, // “
	'”': true, // ”
	'「': true, '」': true,
	'『': true, '』': true,
}

// actionVerbs is the fixed lexicon of movement/impact verbs, Latin and CJK.
var actionVerbs = map[string]bool{
	"ran": true, "run": true, "walked": true, "struck": true, "hit": true,
	"kicked": true, "jumped": true, "leapt": true, "charged": true,
	"lunged": true, "grabbed": true, "shoved": true, "threw": true,
	"跑": true, "走": true, "打": true, "踢": true, "跳": true,
	"冲": true, "扑": true, "抓": true, "推": true,
}

// Classify tags chunk text with a stylistic category. Pure function.
// Tie-break order: dialogue, action, description, mixed.
func Classify(text string) Category {
	runeCount := utf8.RuneCountInString(text)
	if runeCount == 0 {
		return Mixed
	}

	quotes := 0
	cjkVerbs := 0
	for _, r := range text {
		if quoteMarks[r] {
			quotes++
		}
		if actionVerbs[string(r)] {
			cjkVerbs++
		}
	}

	if float64(quotes)/float64(runeCount) > QuoteRatioThreshold {
		return Dialogue
	}

	if cjkVerbs+latinVerbCount(text) > ActionCountThreshold {
		return Action
	}

	if runeCount > DescriptionLengthThreshold {
		return Description
	}

	return Mixed
}

// latinVerbCount counts whole-word lexicon hits. Substring matching would
// misfire on words like "grandmother", so tokens are compared whole after
// stripping surrounding punctuation.
func latinVerbCount(text string) int {
	count := 0
	for _, field := range strings.Fields(text) {
		word := strings.ToLower(strings.Trim(field, `.,;:!?"'()[]“”‘’`))
		if actionVerbs[word] {
			count++
		}
	}
	return count
}
