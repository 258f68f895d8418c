// Package openaicompat is a Genkit plugin for any OpenAI-compatible chat
// completions API (OpenAI itself, OpenRouter, vLLM, LM Studio and similar).
package openaicompat

import (
	"context"
	"os"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai"
	"github.com/openai/openai-go/option"
)

const (
	defaultProvider = "openai"
	defaultBaseURL  = "https://api.openai.com/v1/"
)

// OpenAICompat exposes the configured models of one OpenAI-compatible endpoint
type OpenAICompat struct {
	// Provider names the model namespace, e.g. "openai" gives "openai/gpt-4o-mini".
	Provider string
	// APIKey falls back to the OPENAI_API_KEY environment variable.
	APIKey string
	// BaseURL defaults to https://api.openai.com/v1/
	BaseURL string
	// Models are defined at Init with tool calling enabled.
	Models []string

	openAICompatible *compat_oai.OpenAICompatible
}

// Name implements genkit.Plugin.
func (o *OpenAICompat) Name() string {
	if o.Provider == "" {
		return defaultProvider
	}
	return o.Provider
}

// Init implements genkit.Plugin.
func (o *OpenAICompat) Init(ctx context.Context) []api.Action {
	apiKey := o.APIKey
	baseURL := o.BaseURL

	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		panic("openaicompat plugin initialization failed: apiKey is required (set OPENAI_API_KEY or pass APIKey)")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	if o.openAICompatible == nil {
		o.openAICompatible = &compat_oai.OpenAICompatible{}
	}
	o.openAICompatible.Opts = []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	}
	o.openAICompatible.Provider = o.Name()

	actions := o.openAICompatible.Init(ctx)
	for _, model := range o.Models {
		actions = append(actions, o.DefineModelWithDefaults(model).(api.Action))
	}
	return actions
}

// Model returns a model by name.
func (o *OpenAICompat) Model(g *genkit.Genkit, name string) ai.Model {
	return o.openAICompatible.Model(g, api.NewName(o.Name(), name))
}

// DefineModel defines a model with the given ID and options.
func (o *OpenAICompat) DefineModel(id string, opts ai.ModelOptions) ai.Model {
	return o.openAICompatible.DefineModel(o.Name(), id, opts)
}

// ListActions returns a list of actions provided by this plugin.
func (o *OpenAICompat) ListActions(ctx context.Context) []api.ActionDesc {
	return o.openAICompatible.ListActions(ctx)
}

// ResolveAction resolves an action by type and name.
func (o *OpenAICompat) ResolveAction(atype api.ActionType, name string) api.Action {
	return o.openAICompatible.ResolveAction(atype, name)
}

// DefineModelWithDefaults defines a multimodal, tool-calling model
func (o *OpenAICompat) DefineModelWithDefaults(id string) ai.Model {
	return o.DefineModel(id, ai.ModelOptions{
		Label:    o.Name() + " " + id,
		Supports: &compat_oai.Multimodal,
		Versions: []string{id},
	})
}
