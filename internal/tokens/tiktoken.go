package tokens

import (
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// TiktokenCounter counts tokens with the cl100k_base BPE encoding (used by
// GPT-4 and a good approximation for Claude). Construction loads the
// encoding dictionary and can fail; callers are expected to fall back to
// WordCounter when it does.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenCounter loads the cl100k_base encoding.
func NewTiktokenCounter() (*TiktokenCounter, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("tiktoken: get encoding: %w", err)
	}
	return &TiktokenCounter{enc: enc}, nil
}

// Count returns the number of BPE tokens in s.
func (c *TiktokenCounter) Count(s string) int {
	return len(c.enc.Encode(s, nil, nil))
}

// Name returns "tiktoken".
func (c *TiktokenCounter) Name() string { return CounterTiktoken }
