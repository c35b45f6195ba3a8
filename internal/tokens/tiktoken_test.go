package tokens

import "testing"

func TestTiktokenCounter_Count(t *testing.T) {
	c, err := NewTiktokenCounter()
	if err != nil {
		t.Fatalf("NewTiktokenCounter: %v", err)
	}

	if got := c.Count("Hello, world!"); got <= 0 {
		t.Errorf("expected positive token count, got %d", got)
	}
	if got := c.Count(""); got != 0 {
		t.Errorf("expected 0 tokens for empty string, got %d", got)
	}
}

func TestTiktokenCounter_CountsPunctuation(t *testing.T) {
	c, err := NewTiktokenCounter()
	if err != nil {
		t.Fatalf("NewTiktokenCounter: %v", err)
	}

	// BPE splits code punctuation that whitespace counting glosses over.
	code := "fn main() { println!(\"hi\"); }"
	if bpe, words := c.Count(code), (WordCounter{}).Count(code); bpe <= words {
		t.Errorf("expected BPE count (%d) > word count (%d) for code", bpe, words)
	}
}
