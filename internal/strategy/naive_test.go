package strategy

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ctxbench/ctxbench/internal/tokens"
)

func testGroups() []KeywordGroup {
	return []KeywordGroup{
		{Keywords: []string{"cli", "command", "argument"}, Files: []string{"src/main.rs", "src/bin/indexer.rs"}},
		{Keywords: []string{"llm", "api"}, Files: []string{"src/llm/client.rs"}},
		{Keywords: []string{"index", "search", "chunk"}, Files: []string{"src/index/chunker.rs", "src/main.rs"}},
	}
}

func TestNaive_SelectFiles_Union(t *testing.T) {
	n := &Naive{Groups: testGroups()}

	// Matches both the cli group and the index group; src/main.rs appears
	// in both and must not repeat.
	files := n.SelectFiles("how does the CLI search the index?")
	want := []string{"src/main.rs", "src/bin/indexer.rs", "src/index/chunker.rs"}
	if len(files) != len(want) {
		t.Fatalf("got %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestNaive_SelectFiles_OrderIndependentOfQuery(t *testing.T) {
	n := &Naive{Groups: testGroups()}

	a := n.SelectFiles("cli before index")
	b := n.SelectFiles("index before cli")
	if len(a) != len(b) {
		t.Fatalf("different lengths: %v vs %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("candidate order depends on keyword order in query: %v vs %v", a, b)
		}
	}
}

func TestNaive_SelectFiles_Default(t *testing.T) {
	n := &Naive{
		Groups:  testGroups(),
		Default: []string{"src/main.rs", "Cargo.toml", "README.md"},
	}

	files := n.SelectFiles("what is the meaning of life?")
	if len(files) != 3 {
		t.Fatalf("got %v, want the default list", files)
	}
	for i, want := range n.Default {
		if files[i] != want {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want)
		}
	}
}

func TestNaive_BuildContext(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, root, "a.txt", "alpha beta gamma")
	mustWrite(t, root, "c.txt", "delta")

	n := &Naive{
		Root:    root,
		Default: []string{"a.txt", "missing.txt", "c.txt"},
		Counter: tokens.WordCounter{},
	}

	res := n.BuildContext(context.Background(), "unmatched query")
	if res.Tokens <= 0 {
		t.Fatalf("expected positive cost, got %d", res.Tokens)
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected 1 gathering error, got %v", res.Errors)
	}
	if !strings.Contains(res.Errors[0].Error(), "missing.txt") {
		t.Errorf("error should name the missing file: %v", res.Errors[0])
	}

	// Included files keep candidate order.
	if len(res.Sources) != 2 || !strings.Contains(res.Sources[0], "a.txt") || !strings.Contains(res.Sources[1], "c.txt") {
		t.Errorf("sources = %v", res.Sources)
	}
	if !strings.Contains(res.Text, "--- File: a.txt ---") || !strings.Contains(res.Text, "--- File: c.txt ---") {
		t.Errorf("context missing file headers:\n%s", res.Text)
	}
	if strings.Contains(res.Text, "missing.txt") {
		t.Error("context should not mention skipped files")
	}
	if want := len("alpha beta gamma") + len("delta"); res.Bytes != want {
		t.Errorf("Bytes = %d, want %d", res.Bytes, want)
	}
}

func TestNaive_BuildContext_SkipsNonUTF8(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, root, "good.txt", "readable words here")
	if err := os.WriteFile(filepath.Join(root, "bad.bin"), []byte{0xff, 0xfe, 0x00, 0x80}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	n := &Naive{
		Root:    root,
		Default: []string{"bad.bin", "good.txt"},
		Counter: tokens.WordCounter{},
	}

	res := n.BuildContext(context.Background(), "anything")
	if len(res.Errors) != 1 {
		t.Fatalf("expected 1 error for the binary file, got %v", res.Errors)
	}
	if len(res.Sources) != 1 || !strings.Contains(res.Sources[0], "good.txt") {
		t.Errorf("sources = %v", res.Sources)
	}
}

func TestNaive_BuildContext_NothingReadable(t *testing.T) {
	n := &Naive{
		Root:    t.TempDir(),
		Default: []string{"gone.txt", "also-gone.txt"},
		Counter: tokens.WordCounter{},
	}

	res := n.BuildContext(context.Background(), "anything")
	if res.Tokens != 0 || res.Text != "" {
		t.Errorf("expected zero-cost empty result, got %d tokens", res.Tokens)
	}
	found := false
	for _, err := range res.Errors {
		if errors.Is(err, ErrNoFiles) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected ErrNoFiles in %v", res.Errors)
	}
}

func mustWrite(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}
