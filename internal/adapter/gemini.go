package adapter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

const (
	geminiDefaultModel  = "gemini-2.0-flash"
	geminiDefaultAPIURL = "https://generativelanguage.googleapis.com/v1beta"
)

// geminiAdapter implements LLMAdapter on the Gemini REST API. There is no
// Go SDK worth the dependency; the two endpoints it needs are plain JSON
// over HTTP. baseURL is a field so tests can point it at a local server.
type geminiAdapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGemini creates a Gemini adapter. An empty apiKey falls back to
// GEMINI_API_KEY.
func NewGemini(apiKey string) LLMAdapter {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	return &geminiAdapter{
		apiKey:  apiKey,
		baseURL: geminiDefaultAPIURL,
		client:  &http.Client{},
	}
}

func (g *geminiAdapter) Info() ModelInfo {
	return ModelInfo{
		Model:         geminiDefaultModel,
		Provider:      ProviderGemini,
		ContextWindow: 1000000,
		Streams:       true,
	}
}

// Request and response bodies for generateContent / streamGenerateContent.

type geminiGenerateRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type geminiGenerateResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
	Error      *geminiError      `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// text concatenates every candidate part in the response.
func (r *geminiGenerateResponse) text() string {
	var parts []string
	for _, cand := range r.Candidates {
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				parts = append(parts, part.Text)
			}
		}
	}
	return strings.Join(parts, "")
}

// endpoint builds the URL for one API verb, with the key as a query
// parameter the way the REST API wants it.
func (g *geminiAdapter) endpoint(model, verb, extra string) string {
	return fmt.Sprintf("%s/models/%s:%s?%skey=%s", g.baseURL, model, verb, extra, g.apiKey)
}

func (g *geminiAdapter) Complete(ctx context.Context, req CompletionRequest) (<-chan StreamChunk, error) {
	model := req.Model
	if model == "" {
		model = geminiDefaultModel
	}

	// Gemini has a dedicated system-instruction slot; the context goes
	// there with the prompt, keeping the user turn to the bare question.
	systemText := req.SystemPrompt
	if req.Context != "" {
		systemText += "\n\n" + wrapContext(req.Context)
	}
	var sys *geminiContent
	if systemText != "" {
		sys = &geminiContent{Parts: []geminiPart{{Text: systemText}}}
	}

	body, err := json.Marshal(geminiGenerateRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: req.UserMessage}}},
		},
		SystemInstruction: sys,
		GenerationConfig: &geminiGenerationConfig{
			MaxOutputTokens: capTokens(req.MaxTokens),
			Temperature:     req.Temperature,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini marshal: %w", err)
	}

	ch := make(chan StreamChunk, chunkBuffer)
	if req.Stream {
		go g.streamSSE(ctx, g.endpoint(model, "streamGenerateContent", "alt=sse&"), body, ch)
	} else {
		go g.generate(ctx, g.endpoint(model, "generateContent", ""), body, ch)
	}
	return ch, nil
}

// post sends one JSON request and hands back the open response body.
func (g *geminiAdapter) post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("gemini: status %d: %s", resp.StatusCode, detail)
	}
	return resp, nil
}

func (g *geminiAdapter) generate(ctx context.Context, url string, body []byte, ch chan<- StreamChunk) {
	defer close(ch)

	resp, err := g.post(ctx, url, body)
	if err != nil {
		ch <- StreamChunk{Error: err}
		return
	}
	defer resp.Body.Close()

	var genResp geminiGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		ch <- StreamChunk{Error: fmt.Errorf("gemini decode: %w", err)}
		return
	}
	if genResp.Error != nil {
		ch <- StreamChunk{Error: fmt.Errorf("gemini api error %d: %s", genResp.Error.Code, genResp.Error.Message)}
		return
	}
	ch <- StreamChunk{Text: genResp.text()}
}

// streamSSE reads the streaming endpoint's "data: {json}" events and
// forwards each candidate part as its own chunk.
func (g *geminiAdapter) streamSSE(ctx context.Context, url string, body []byte, ch chan<- StreamChunk) {
	defer close(ch)

	resp, err := g.post(ctx, url, body)
	if err != nil {
		ch <- StreamChunk{Error: err}
		return
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		data, ok := strings.CutPrefix(scanner.Text(), "data: ")
		if !ok {
			continue
		}

		var event geminiGenerateResponse
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			ch <- StreamChunk{Error: fmt.Errorf("gemini stream decode: %w", err)}
			return
		}
		if event.Error != nil {
			ch <- StreamChunk{Error: fmt.Errorf("gemini api error %d: %s", event.Error.Code, event.Error.Message)}
			return
		}
		if text := event.text(); text != "" {
			ch <- StreamChunk{Text: text}
		}
	}
	if err := scanner.Err(); err != nil {
		ch <- StreamChunk{Error: fmt.Errorf("gemini stream scan: %w", err)}
	}
}
