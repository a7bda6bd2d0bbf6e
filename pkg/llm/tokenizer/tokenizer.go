// Package tokenizer provides client-side token counting for prompt-size
// accounting. Counts are approximate — screenshots are priced by the
// provider separately — but close enough to watch a conversation's
// growth between rounds.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/entrhq/surf/pkg/types"
)

// DefaultEncoding matches the current OpenAI model family.
const DefaultEncoding = "o200k_base"

// Tokenizer counts tokens with a tiktoken encoding.
type Tokenizer struct {
	encoding *tiktoken.Tiktoken
}

// New creates a tokenizer with the default encoding. Construction can
// fail when the encoding data is unavailable; callers treat a nil
// tokenizer as "no counting".
func New() (*Tokenizer, error) {
	encoding, err := tiktoken.GetEncoding(DefaultEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load encoding %s: %w", DefaultEncoding, err)
	}
	return &Tokenizer{encoding: encoding}, nil
}

// CountTokens returns the token count of a text.
func (t *Tokenizer) CountTokens(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}

// CountItemsTokens approximates the token footprint of a transcript by
// summing its textual fields. Screenshot payloads are excluded.
func (t *Tokenizer) CountItemsTokens(items []types.Item) int {
	total := 0
	for _, item := range items {
		total += t.CountTokens(item.Content)
		total += t.CountTokens(item.Arguments)
		total += t.CountTokens(item.Output)
		total += t.CountTokens(item.Error)
		if item.Action != nil {
			total += t.CountTokens(item.Action.String())
		}
	}
	return total
}
