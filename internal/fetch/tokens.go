package fetch

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// TokenEncoding is the BPE used to count page tokens; it matches the GPT-4o family closely enough for budgeting.
const TokenEncoding = "cl100k_base"

// charsPerToken is the fallback estimate when the encoding cannot be loaded.
const charsPerToken = 4

// Truncator caps page text to a token budget before it is sent to the LLM.
type Truncator struct {
	maxTokens int
	encoding  *tiktoken.Tiktoken
}

// NewTruncator creates a truncator for maxTokens. If the BPE ranks cannot be loaded
// (they are downloaded on first use) the truncator falls back to a character estimate
// and the load error is returned alongside it.
func NewTruncator(maxTokens int) (*Truncator, error) {
	t := &Truncator{maxTokens: maxTokens}
	enc, err := tiktoken.GetEncoding(TokenEncoding)
	if err != nil {
		return t, fmt.Errorf("failed to load tiktoken encoding: %w", err)
	}
	t.encoding = enc
	return t, nil
}

// Count returns the number of tokens in text.
func (t *Truncator) Count(text string) int {
	if t.encoding == nil {
		return (len(text) + charsPerToken - 1) / charsPerToken
	}
	return len(t.encoding.Encode(text, nil, nil))
}

// Truncate returns text cut to the token budget and whether it was cut.
// A non-positive budget disables truncation.
func (t *Truncator) Truncate(text string) (string, bool) {
	if t.maxTokens <= 0 {
		return text, false
	}

	if t.encoding == nil {
		limit := t.maxTokens * charsPerToken
		if len(text) <= limit {
			return text, false
		}
		// Back up to a rune boundary
		for limit > 0 && !isRuneStart(text[limit]) {
			limit--
		}
		return text[:limit], true
	}

	tokens := t.encoding.Encode(text, nil, nil)
	if len(tokens) <= t.maxTokens {
		return text, false
	}
	return t.encoding.Decode(tokens[:t.maxTokens]), true
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
