package plugins

import "context"

// LLMClient defines the interface for plain text LLM interaction
type LLMClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
