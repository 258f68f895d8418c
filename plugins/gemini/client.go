package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/va6996/ainews/log"
	"github.com/va6996/ainews/plugins"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-2.5-flash"

// Client wraps the Gemini SDK for plain prompt/response use
type Client struct {
	APIKey string
	Model  string

	mu     sync.Mutex
	client *genai.Client
}

var _ plugins.LLMClient = (*Client)(nil)

// NewClient creates a Gemini client for the given model
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{
		APIKey: apiKey,
		Model:  model,
		client: client,
	}, nil
}

// GenerateContent sends a single-turn prompt and joins the text parts of
// the first candidate
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()
	if client == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	resp, err := client.GenerativeModel(c.Model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini returned no text")
	}
	log.Debugf(ctx, "gemini %s generated %d chars", c.Model, len(text))
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

// Close releases the underlying connection. It is safe to call twice.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}
