// Package tokenizer estimates token counts for file contents. Counting is
// pluggable behind the Counter interface; the default implementation is a
// character heuristic, not a model-exact tokenizer.
package tokenizer

import (
	"strings"
	"unicode/utf8"
)

// Counter returns an approximate token count for a piece of text.
type Counter interface {
	Count(text string) int
}

// charsPerToken is the rough ratio used by the heuristic counter.
const charsPerToken = 4

// HeuristicCounter estimates tokens from character and word counts.
// The estimate leans on the common 1-token-per-4-characters rule with a
// word-count floor so whitespace-heavy text is not undercounted.
type HeuristicCounter struct{}

// NewHeuristicCounter returns the default counter.
func NewHeuristicCounter() *HeuristicCounter {
	return &HeuristicCounter{}
}

// Count implements Counter.
func (c *HeuristicCounter) Count(text string) int {
	if text == "" {
		return 0
	}

	chars := utf8.RuneCountInString(text)
	estimate := chars / charsPerToken

	words := len(strings.Fields(text))
	if words > estimate {
		estimate = words
	}
	if estimate == 0 {
		estimate = 1
	}
	return estimate
}

// CounterFunc adapts a plain function to the Counter interface.
type CounterFunc func(text string) int

// Count implements Counter.
func (f CounterFunc) Count(text string) int {
	return f(text)
}
