package openaicompat

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ai-editor-be/pkg/completion"
)

// Provider talks to any OpenAI-compatible /chat/completions endpoint
// (hosted routers, vLLM, llama.cpp server). The API key is treated as an
// opaque bearer credential.
type Provider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

var _ completion.Provider = &Provider{}

func NewProvider(apiKey, baseURL, model string) *Provider {
	if baseURL == "" {
		baseURL = "https://router.huggingface.co/v1" // Default Router URL
	}
	return &Provider{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Request Payload Structure (OpenAI Compatible)
type chatRequest struct {
	Model       string               `json:"model"`
	Messages    []completion.Message `json:"messages"`
	Stream      bool                 `json:"stream"`
	Temperature float64              `json:"temperature,omitempty"`
	MaxTokens   int                  `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type chatStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}

func (p *Provider) resolveOptions(options []completion.Option) *completion.Options {
	opts := &completion.Options{
		Model:     p.model,
		MaxTokens: 500, // Default sane limit
	}
	for _, o := range options {
		o(opts)
	}
	return opts
}

func (p *Provider) newRequest(ctx context.Context, body chatRequest) (*http.Request, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", p.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.apiKey))
	}
	return req, nil
}

func (p *Provider) Chat(ctx context.Context, history []completion.Message, options ...completion.Option) (string, error) {
	if len(history) == 0 {
		return "", completion.ErrNoMessages
	}
	opts := p.resolveOptions(options)

	req, err := p.newRequest(ctx, chatRequest{
		Model:       opts.Model,
		Messages:    history,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(bodyBytes, &chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("completion api returned error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty choices from completion api")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// ChatStream opens one server-sent-events request. Frames arrive as
// "data: {json}" lines, text deltas under choices[0].delta.content, and the
// literal "[DONE]" sentinel closes the stream. Malformed frames are skipped
// rather than failing mid-response.
func (p *Provider) ChatStream(ctx context.Context, history []completion.Message, options ...completion.Option) (*completion.Stream, error) {
	if len(history) == 0 {
		return nil, completion.ErrNoMessages
	}
	opts := p.resolveOptions(options)

	req, err := p.newRequest(ctx, chatRequest{
		Model:       opts.Model,
		Messages:    history,
		Stream:      true,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("completion api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	reader := bufio.NewReader(resp.Body)

	next := func() (completion.Fragment, error) {
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					// Endpoint closed without [DONE]; treat as normal end.
					return completion.Fragment{}, io.EOF
				}
				return completion.Fragment{}, fmt.Errorf("read stream: %w", err)
			}

			line = strings.TrimSpace(line)
			if line == "" || !strings.HasPrefix(line, "data: ") {
				continue
			}

			payload := strings.TrimPrefix(line, "data: ")
			if payload == "[DONE]" {
				return completion.Fragment{}, io.EOF
			}

			var chunk chatStreamChunk
			if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
				continue
			}
			if len(chunk.Choices) == 0 {
				continue
			}
			if text := chunk.Choices[0].Delta.Content; text != "" {
				return completion.Fragment{Text: text}, nil
			}
			// Empty delta (role frame or finish marker); keep reading until [DONE].
		}
	}

	return completion.NewStream(ctx, next, resp.Body), nil
}
