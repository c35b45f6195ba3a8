package adapter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ollamaAdapter implements LLMAdapter against a local Ollama server's chat
// API. No SDK: the API is newline-delimited JSON over one POST.
type ollamaAdapter struct {
	host   string
	model  string
	client *http.Client
}

// NewOllama creates an Ollama adapter talking to host, with model as the
// default completion model.
func NewOllama(host, model string) LLMAdapter {
	return &ollamaAdapter{
		host:   strings.TrimRight(host, "/"),
		model:  model,
		client: &http.Client{},
	}
}

func (o *ollamaAdapter) Info() ModelInfo {
	return ModelInfo{
		Model:         o.model,
		Provider:      ProviderOllama,
		ContextWindow: 32768,
		Streams:       true,
	}
}

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
	Options  map[string]any      `json:"options,omitempty"`
}

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatChunk struct {
	Message ollamaChatMessage `json:"message"`
	Done    bool              `json:"done"`
}

// chatBody maps a CompletionRequest onto the chat API shape. Like OpenAI,
// multiple system messages are allowed; the context gets its own.
func (o *ollamaAdapter) chatBody(req CompletionRequest) ollamaChatRequest {
	model := req.Model
	if model == "" {
		model = o.model
	}

	var messages []ollamaChatMessage
	if req.SystemPrompt != "" {
		messages = append(messages, ollamaChatMessage{Role: "system", Content: req.SystemPrompt})
	}
	if req.Context != "" {
		messages = append(messages, ollamaChatMessage{Role: "system", Content: wrapContext(req.Context)})
	}
	messages = append(messages, ollamaChatMessage{Role: "user", Content: req.UserMessage})

	return ollamaChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   req.Stream,
		Options: map[string]any{
			"temperature": req.Temperature,
			"num_predict": capTokens(req.MaxTokens),
		},
	}
}

func (o *ollamaAdapter) Complete(ctx context.Context, req CompletionRequest) (<-chan StreamChunk, error) {
	body, err := json.Marshal(o.chatBody(req))
	if err != nil {
		return nil, fmt.Errorf("ollama marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		o.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	ch := make(chan StreamChunk, chunkBuffer)
	go o.readChunks(httpReq, ch)
	return ch, nil
}

// readChunks consumes the NDJSON response. Both modes answer in the same
// framing; a non-streaming call is a single line with done=true.
func (o *ollamaAdapter) readChunks(httpReq *http.Request, ch chan<- StreamChunk) {
	defer close(ch)

	resp, err := o.client.Do(httpReq)
	if err != nil {
		ch <- StreamChunk{Error: fmt.Errorf("ollama chat: %w", err)}
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		ch <- StreamChunk{Error: fmt.Errorf("ollama chat: status %d", resp.StatusCode)}
		return
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var chunk ollamaChatChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			ch <- StreamChunk{Error: fmt.Errorf("ollama decode: %w", err)}
			return
		}
		if chunk.Message.Content != "" {
			ch <- StreamChunk{Text: chunk.Message.Content}
		}
		if chunk.Done {
			return
		}
	}
	if err := scanner.Err(); err != nil {
		ch <- StreamChunk{Error: fmt.Errorf("ollama read: %w", err)}
	}
}
