package search

import "testing"

const wellFormed = `🔍 Searching for: "how does chunking work?"
📊 Searching 412 stored chunks...

🎯 Found 5 similar code chunks:

1. [Score: 0.891] Function 'chunk_file' in src/index/chunker.rs
   Lines 12-58: pub fn chunk_file(path: &Path) -> Vec<Chunk> {...

2. [Score: 0.812] Struct 'Chunker' in src/index/chunker.rs
   Lines 1-10: pub struct Chunker { max_len: usize }...

3. [Score: 0.644] Function 'embed_chunks' in src/index/embedder.rs
   Lines 30-71: pub async fn embed_chunks(chunks: &[Chunk])...

4. [Score: 0.601] Method 'store' in src/index/vector_store.rs
   Lines 88-120: pub fn store(&mut self, e: Embedding)...

5. [Score: 0.542] Function 'main' in src/bin/indexer.rs
   Lines 1-25: fn main() -> Result<()> {...
`

func TestParseResults_WellFormed(t *testing.T) {
	frags := ParseResults(wellFormed)
	if len(frags) != 5 {
		t.Fatalf("got %d fragments, want 5", len(frags))
	}

	want := []Fragment{
		{Name: "chunk_file", File: "src/index/chunker.rs", Text: "pub fn chunk_file(path: &Path) -> Vec<Chunk> {..."},
		{Name: "Chunker", File: "src/index/chunker.rs", Text: "pub struct Chunker { max_len: usize }..."},
		{Name: "embed_chunks", File: "src/index/embedder.rs", Text: "pub async fn embed_chunks(chunks: &[Chunk])..."},
		{Name: "store", File: "src/index/vector_store.rs", Text: "pub fn store(&mut self, e: Embedding)..."},
		{Name: "main", File: "src/bin/indexer.rs", Text: "fn main() -> Result<()> {..."},
	}
	for i, w := range want {
		if frags[i] != w {
			t.Errorf("fragment %d = %+v, want %+v", i, frags[i], w)
		}
	}
}

func TestParseResults_Truncated(t *testing.T) {
	// Output cut off mid-stream: last header has no body line.
	truncated := `1. [Score: 0.900] Function 'alpha' in src/a.rs
   Lines 1-4: fn alpha() {}

2. [Score: 0.800] Function 'beta' in src/b.rs
`
	frags := ParseResults(truncated)
	if len(frags) != 2 {
		t.Fatalf("got %d fragments, want 2", len(frags))
	}
	if frags[0].Text != "fn alpha() {}" {
		t.Errorf("fragment 0 text = %q", frags[0].Text)
	}
	if frags[1].Name != "beta" || frags[1].Text != "" {
		t.Errorf("fragment 1 = %+v, want beta with empty text", frags[1])
	}
}

func TestParseResults_IgnoresUnrecognizedLines(t *testing.T) {
	noisy := `some banner
Lines 1-2: orphan body with no header
1. [Score: 0.500] Function 'gamma' in src/g.rs
   random interleaved noise
   Lines 3-9: fn gamma() {}
trailing noise`
	frags := ParseResults(noisy)
	if len(frags) != 1 {
		t.Fatalf("got %d fragments, want 1", len(frags))
	}
	if frags[0].Name != "gamma" || frags[0].Text != "fn gamma() {}" {
		t.Errorf("fragment = %+v", frags[0])
	}
}

func TestParseResults_MissingFileAndName(t *testing.T) {
	out := `1. [Score: 0.700] Function 'delta'
   Lines 1-1: x
2. [Score: 0.600] unnamed thing in src/d.rs
   Lines 2-2: y`
	frags := ParseResults(out)
	if len(frags) != 2 {
		t.Fatalf("got %d fragments, want 2", len(frags))
	}
	if frags[0].File != "unknown" {
		t.Errorf("fragment 0 file = %q, want unknown", frags[0].File)
	}
	if frags[1].Name != "unknown" || frags[1].File != "src/d.rs" {
		t.Errorf("fragment 1 = %+v", frags[1])
	}
}

func TestParseResults_QuotedNameContainingIn(t *testing.T) {
	out := `1. [Score: 0.700] Function 'check in range' in src/r.rs
   Lines 5-9: fn check() {}`
	frags := ParseResults(out)
	if len(frags) != 1 {
		t.Fatalf("got %d fragments, want 1", len(frags))
	}
	if frags[0].Name != "check in range" || frags[0].File != "src/r.rs" {
		t.Errorf("fragment = %+v", frags[0])
	}
}

func TestParseResults_Empty(t *testing.T) {
	if frags := ParseResults(""); len(frags) != 0 {
		t.Errorf("got %d fragments from empty output, want 0", len(frags))
	}
	noHits := "❌ No similar code chunks found."
	if frags := ParseResults(noHits); len(frags) != 0 {
		t.Errorf("got %d fragments from no-hit output, want 0", len(frags))
	}
}
