package assist

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient talks to an OpenAI-compatible chat-completions endpoint. A
// fresh API client is built per call because the key arrives per call; the
// HTTP client underneath is shared.
type OpenAIClient struct {
	BaseURL    string // empty means the provider default
	Model      string
	HTTPClient *http.Client
}

func NewOpenAIClient(baseURL, model string) *OpenAIClient {
	return &OpenAIClient{BaseURL: baseURL, Model: model, HTTPClient: &http.Client{}}
}

func (c *OpenAIClient) Complete(ctx context.Context, key string, msgs []Message, temperature float32) (string, error) {
	cfg := openai.DefaultConfig(key)
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	if c.HTTPClient != nil {
		cfg.HTTPClient = c.HTTPClient
	}
	client := openai.NewClientWithConfig(cfg)

	req := openai.ChatCompletionRequest{
		Model:       c.Model,
		Temperature: temperature,
	}
	for _, m := range msgs {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrService, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrService)
	}
	return resp.Choices[0].Message.Content, nil
}
