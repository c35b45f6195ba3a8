package bench

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ctxbench/ctxbench/internal/tokens"
)

func TestRendererFor(t *testing.T) {
	for _, name := range []string{"text", "markdown", "json"} {
		if _, ok := RendererFor(name); !ok {
			t.Errorf("RendererFor(%q) not found", name)
		}
	}
	if _, ok := RendererFor("yaml"); ok {
		t.Error("RendererFor(\"yaml\") should not exist")
	}
}

func TestValidFormats(t *testing.T) {
	formats := ValidFormats()
	if len(formats) != 3 {
		t.Fatalf("ValidFormats() = %v, want 3 entries", formats)
	}
	// Sorted, so usage strings are stable.
	for i := 1; i < len(formats); i++ {
		if formats[i-1] >= formats[i] {
			t.Errorf("formats not sorted: %v", formats)
		}
	}
}

func TestTextRenderer_Win(t *testing.T) {
	r := stubReport(100, 400)

	out, err := (&TextRenderer{}).Render(r)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, want := range []string{
		"Benchmark: q",
		"Counter:   words",
		"100 tokens",
		"400 tokens",
		"retrieval saves 300 tokens (75.0%)",
		"4.0x less context",
		"whitespace",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q:\n%s", want, out)
		}
	}
}

func TestTextRenderer_Regression(t *testing.T) {
	r := stubReport(500, 400)

	out, err := (&TextRenderer{}).Render(r)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "retrieval costs 100 tokens more than full files (25.0% worse)") {
		t.Errorf("regression framing missing:\n%s", out)
	}
	if strings.Contains(out, "less context") {
		t.Error("regression report should not print an efficiency multiplier")
	}
}

func TestTextRenderer_Incomplete(t *testing.T) {
	r := stubReport(0, 400)

	out, err := (&TextRenderer{}).Render(r)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "comparison incomplete") {
		t.Errorf("incomplete framing missing:\n%s", out)
	}
	if !strings.Contains(out, "retrieval produced no measurable context") {
		t.Errorf("empty side not named:\n%s", out)
	}
	if strings.Contains(out, "saves") {
		t.Error("incomplete report should not claim savings")
	}
}

func TestMarkdownRenderer(t *testing.T) {
	r := stubReport(100, 400)

	out, err := (&MarkdownRenderer{}).Render(r)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, want := range []string{
		"# Context benchmark",
		"**Query:** q",
		"| rag | 100 |",
		"| naive | 400 |",
		"4.0x less context",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown report missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdownRenderer_Regression(t *testing.T) {
	r := stubReport(500, 400)

	out, err := (&MarkdownRenderer{}).Render(r)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "retrieval costs 100 tokens more than full-file inclusion (25.0% worse)") {
		t.Errorf("regression framing missing:\n%s", out)
	}
	if strings.Contains(out, "saves") {
		t.Error("regression report should not claim savings")
	}
}

func TestJSONRenderer(t *testing.T) {
	r := stubReport(100, 400)
	r.RAG.Errors = []error{errors.New("one chunk was odd")}

	out, err := (&JSONRenderer{}).Render(r)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	var got jsonReport
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if got.Savings != 300 || got.SavingsPercent != 75.0 {
		t.Errorf("savings = %d (%v%%), want 300 (75%%)", got.Savings, got.SavingsPercent)
	}
	if got.EfficiencyRatio == nil || *got.EfficiencyRatio != 4.0 {
		t.Errorf("efficiency_ratio = %v, want 4.0", got.EfficiencyRatio)
	}
	if !got.Complete {
		t.Error("complete should be true")
	}
	if len(got.RAG.Errors) != 1 || got.RAG.Errors[0] != "one chunk was odd" {
		t.Errorf("rag errors = %v", got.RAG.Errors)
	}
}

func TestJSONRenderer_UnboundedRatioOmitted(t *testing.T) {
	r := stubReport(0, 400)

	out, err := (&JSONRenderer{}).Render(r)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(out, "efficiency_ratio") {
		t.Errorf("unbounded ratio must be omitted, got:\n%s", out)
	}
	var got jsonReport
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Complete {
		t.Error("complete should be false when retrieval cost is zero")
	}
}

func TestCounterCaveat_PerCounter(t *testing.T) {
	r := stubReport(100, 400)

	r.CounterName = tokens.CounterTiktoken
	out, _ := (&TextRenderer{}).Render(r)
	if !strings.Contains(out, "cl100k_base") {
		t.Errorf("tiktoken caveat missing:\n%s", out)
	}

	r.CounterName = tokens.CounterChars
	out, _ = (&TextRenderer{}).Render(r)
	if !strings.Contains(out, "4 characters") {
		t.Errorf("chars caveat missing:\n%s", out)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
