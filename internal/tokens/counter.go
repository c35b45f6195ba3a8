// Package tokens approximates token counts for prompt contexts.
//
// The default counter splits on whitespace and counts the pieces. That is
// not how model tokenizers work, but it is cheap, dependency-free, and
// stable across runs, which is what a relative comparison needs. Counter is
// an interface so a real tokenizer can be swapped in without touching any
// caller.
package tokens

import (
	"fmt"
	"strings"
)

// Counter names accepted by New.
const (
	CounterWords    = "words"
	CounterChars    = "chars"
	CounterTiktoken = "tiktoken"
)

// DefaultCounter is used when no counter is configured.
const DefaultCounter = CounterWords

// Counter approximates the number of tokens in a piece of text. Count is
// total over any input: it never fails and returns 0 for the empty string.
type Counter interface {
	Count(text string) int
	Name() string
}

// New returns the counter registered under name. An empty name selects the
// default words counter.
func New(name string) (Counter, error) {
	switch name {
	case CounterWords, "":
		return WordCounter{}, nil
	case CounterChars:
		return CharCounter{}, nil
	case CounterTiktoken:
		return NewTiktokenCounter()
	default:
		return nil, fmt.Errorf("unknown counter %q (valid: %s)", name, strings.Join(ValidCounters(), ", "))
	}
}

// ValidCounters lists the accepted counter names.
func ValidCounters() []string {
	return []string{CounterWords, CounterChars, CounterTiktoken}
}

// WordCounter counts maximal runs of non-whitespace characters. It
// undercounts punctuation-heavy code relative to a real tokenizer, evenly
// enough for comparing two contexts built from the same codebase.
type WordCounter struct{}

// Count returns the number of whitespace-separated words in text.
func (WordCounter) Count(text string) int { return len(strings.Fields(text)) }

// Name returns "words".
func (WordCounter) Name() string { return CounterWords }

// charsPerToken is the usual rough ratio for English text and code.
const charsPerToken = 4

// CharCounter estimates one token per four characters, rounding up.
type CharCounter struct{}

// Count returns len(text)/4 rounded up.
func (CharCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + charsPerToken - 1) / charsPerToken
}

// Name returns "chars".
func (CharCounter) Name() string { return CounterChars }
