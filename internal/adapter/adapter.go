// Package adapter answers a query over a streaming LLM interface once a
// context has been assembled. The comparison pipeline never calls an LLM;
// these adapters exist for `ctxbench ask`, where the cheaper context gets
// put to work.
package adapter

import (
	"context"
	"fmt"
)

// Provider name constants.
const (
	ProviderClaude = "claude"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// defaultMaxTokens caps the response when the caller does not.
const defaultMaxTokens = 4096

// chunkBuffer sizes the stream channel so slow printers don't stall the
// network read.
const chunkBuffer = 64

// StreamChunk is a single piece of text or an error delivered during
// streaming. After an error chunk the channel closes.
type StreamChunk struct {
	Text  string
	Error error
}

// CompletionRequest holds the parameters for a completion call. Context is
// the strategy-assembled context string; how it is folded into the prompt
// is each provider's business.
type CompletionRequest struct {
	SystemPrompt string
	Context      string
	UserMessage  string
	Model        string
	MaxTokens    int
	Temperature  float64
	Stream       bool
}

// ModelInfo describes the adapter's default model.
type ModelInfo struct {
	Model         string
	Provider      string
	ContextWindow int
	Streams       bool
}

// LLMAdapter is the common interface all provider adapters implement.
// Complete always returns a channel; request construction errors come back
// directly, transport errors arrive as error chunks.
type LLMAdapter interface {
	Complete(ctx context.Context, req CompletionRequest) (<-chan StreamChunk, error)
	Info() ModelInfo
}

// New constructs the LLMAdapter for the named provider. An empty apiKey
// defers to the provider's usual environment variable; ollamaHost and
// ollamaModel only matter when provider is "ollama".
func New(provider, apiKey, ollamaHost, ollamaModel string) (LLMAdapter, error) {
	switch provider {
	case ProviderClaude:
		return NewClaude(apiKey), nil
	case ProviderOpenAI:
		return NewOpenAI(apiKey), nil
	case ProviderGemini:
		return NewGemini(apiKey), nil
	case ProviderOllama:
		host := ollamaHost
		if host == "" {
			host = "http://localhost:11434"
		}
		model := ollamaModel
		if model == "" {
			model = "llama3.2"
		}
		return NewOllama(host, model), nil
	default:
		return nil, fmt.Errorf("adapter: unknown provider %q; valid providers: claude, openai, gemini, ollama", provider)
	}
}

// wrapContext tags the assembled context so the model can tell it apart
// from the question.
func wrapContext(text string) string {
	return "<context>\n" + text + "\n</context>"
}

// capTokens applies the default response cap.
func capTokens(n int) int {
	if n <= 0 {
		return defaultMaxTokens
	}
	return n
}
