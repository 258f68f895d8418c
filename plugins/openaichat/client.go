// Package openaichat adapts any OpenAI-compatible chat completions endpoint to a
// plain prompt/response client.
package openaichat

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/va6996/ainews/log"
	"github.com/va6996/ainews/plugins"
)

// Client sends single-turn chat completions
type Client struct {
	Model  string
	client openai.Client
}

var _ plugins.LLMClient = (*Client)(nil)

// NewClient creates a client for model at baseURL. Extra options are
// appended after the key and base URL.
func NewClient(apiKey, baseURL, model string, opts ...option.RequestOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	reqOpts = append(reqOpts, opts...)

	return &Client{
		Model:  model,
		client: openai.NewClient(reqOpts...),
	}, nil
}

// GenerateContent sends prompt as the only user message
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	log.Debugf(ctx, "%s completion finished: %s (%d tokens)", c.Model, completion.Choices[0].FinishReason, completion.Usage.TotalTokens)
	return completion.Choices[0].Message.Content, nil
}
