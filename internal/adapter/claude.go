package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

const claudeDefaultModel = "claude-sonnet-4-6"

// claudeAdapter implements LLMAdapter on the Anthropic Messages API.
type claudeAdapter struct {
	client *anthropic.Client
}

// NewClaude creates a Claude adapter. An empty apiKey falls back to
// ANTHROPIC_API_KEY.
func NewClaude(apiKey string) LLMAdapter {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	return &claudeAdapter{client: anthropic.NewClient(apiKey)}
}

func (c *claudeAdapter) Info() ModelInfo {
	return ModelInfo{
		Model:         claudeDefaultModel,
		Provider:      ProviderClaude,
		ContextWindow: 200000,
		Streams:       true,
	}
}

func (c *claudeAdapter) Complete(ctx context.Context, req CompletionRequest) (<-chan StreamChunk, error) {
	ch := make(chan StreamChunk, chunkBuffer)
	base := c.messagesRequest(req)

	if req.Stream {
		go c.streamDeltas(ctx, base, ch)
	} else {
		go c.completeOnce(ctx, base, ch)
	}
	return ch, nil
}

// messagesRequest maps a CompletionRequest onto the Anthropic shape. The
// API has a single system slot, so the context rides in the user turn
// ahead of the question.
func (c *claudeAdapter) messagesRequest(req CompletionRequest) anthropic.MessagesRequest {
	model := req.Model
	if model == "" {
		model = claudeDefaultModel
	}

	user := req.UserMessage
	if req.Context != "" {
		user = wrapContext(req.Context) + "\n\n" + req.UserMessage
	}

	return anthropic.MessagesRequest{
		Model:     anthropic.Model(model),
		System:    req.SystemPrompt,
		MaxTokens: capTokens(req.MaxTokens),
		Messages: []anthropic.Message{
			{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(user)},
			},
		},
	}
}

func (c *claudeAdapter) completeOnce(ctx context.Context, base anthropic.MessagesRequest, ch chan<- StreamChunk) {
	defer close(ch)

	resp, err := c.client.CreateMessages(ctx, base)
	if err != nil {
		ch <- StreamChunk{Error: fmt.Errorf("claude complete: %w", err)}
		return
	}
	if len(resp.Content) > 0 {
		ch <- StreamChunk{Text: resp.Content[0].GetText()}
	}
}

// streamDeltas drives the library's callback-based streaming and forwards
// text deltas onto ch.
func (c *claudeAdapter) streamDeltas(ctx context.Context, base anthropic.MessagesRequest, ch chan<- StreamChunk) {
	defer close(ch)

	_, err := c.client.CreateMessagesStream(ctx, anthropic.MessagesStreamRequest{
		MessagesRequest: base,
		OnContentBlockDelta: func(delta anthropic.MessagesEventContentBlockDeltaData) {
			if delta.Delta.Type == anthropic.MessagesContentTypeTextDelta {
				ch <- StreamChunk{Text: delta.Delta.GetText()}
			}
		},
	})
	if err != nil && !errors.Is(err, io.EOF) {
		ch <- StreamChunk{Error: fmt.Errorf("claude stream: %w", err)}
	}
}
