package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	ollamaplugin "github.com/firebase/genkit/go/plugins/ollama"
	"github.com/va6996/ainews/agents"
	"github.com/va6996/ainews/bootstrap/openaicompat"
	"github.com/va6996/ainews/config"
	"github.com/va6996/ainews/log"
	"github.com/va6996/ainews/plugins"
	"github.com/va6996/ainews/plugins/arxiv"
	"github.com/va6996/ainews/plugins/datetime"
	"github.com/va6996/ainews/plugins/gemini"
	"github.com/va6996/ainews/plugins/hackernews"
	"github.com/va6996/ainews/plugins/huggingface"
	"github.com/va6996/ainews/plugins/ollama"
	"github.com/va6996/ainews/plugins/openaichat"
	"github.com/va6996/ainews/tools"
)

// App holds the initialized components of the application
type App struct {
	Agent    *agents.NewsAgent
	Answerer agents.Answerer
	Genkit   *genkit.Genkit
	Registry *tools.Registry
	Model    ai.Model

	closers []io.Closer
}

// Close releases clients that hold connections
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// Setup initializes the application components based on the configuration
func Setup(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{}

	// 1. Setup Genkit with AI Plugin
	if err := setupModel(ctx, cfg, app); err != nil {
		return nil, err
	}

	// 2. Init Tools Registry
	app.Registry = tools.NewRegistry()
	if err := RegisterSources(cfg.Sources, app.Genkit, app.Registry); err != nil {
		return nil, err
	}
	datetime.NewDateTool(app.Genkit, app.Registry)
	log.Infof(ctx, "Registered tools: %v", app.Registry.Names())

	// 3. Pick the reasoning runtime
	switch cfg.AI.Runtime {
	case "react":
		llm, err := newLLMClient(ctx, cfg, app)
		if err != nil {
			return nil, err
		}
		log.Infof(ctx, "Using ReAct runtime over %s", cfg.AI.Plugin)
		app.Answerer = agents.NewReActDesk(tools.NewReActAgent(app.Genkit, app.Registry, llm, cfg.AI.MaxTurns))
	default:
		log.Infof(ctx, "Using Genkit tool-calling runtime over %s", cfg.AI.Plugin)
		app.Answerer = agents.NewNewsDesk(app.Genkit, app.Registry, app.Model, cfg.AI.MaxTurns)
	}

	app.Agent = agents.NewNewsAgent(app.Answerer, agents.NewSessionStore(cfg.Chat.HistoryTurns, cfg.Chat.MaxSessions, cfg.Chat.SessionIdle()))
	return app, nil
}

// RegisterSources creates every source client, which registers its tools
func RegisterSources(cfg config.SourcesConfig, gk *genkit.Genkit, registry *tools.Registry) error {
	timeout := cfg.Timeout()

	if _, err := huggingface.NewClient(cfg.HuggingFace, timeout, cfg.UserAgent, gk, registry); err != nil {
		return fmt.Errorf("failed to initialize Hugging Face client: %w", err)
	}
	if _, err := hackernews.NewClient(cfg.HackerNews, timeout, cfg.UserAgent, gk, registry); err != nil {
		return fmt.Errorf("failed to initialize Hacker News client: %w", err)
	}
	if _, err := arxiv.NewClient(cfg.Arxiv, timeout, cfg.UserAgent, gk, registry); err != nil {
		return fmt.Errorf("failed to initialize arXiv client: %w", err)
	}
	return nil
}

func setupModel(ctx context.Context, cfg *config.Config, app *App) error {
	switch cfg.AI.Plugin {
	case "ollama":
		log.Infof(ctx, "Using Ollama Plugin (Model: %s)...", cfg.AI.Ollama.Model)
		ollamaPlugin := &ollamaplugin.Ollama{
			ServerAddress: cfg.AI.Ollama.BaseURL,
		}
		app.Genkit = genkit.Init(ctx, genkit.WithPlugins(ollamaPlugin))

		// Tool support has to be declared explicitly for Ollama models
		app.Model = ollamaPlugin.DefineModel(app.Genkit, ollamaplugin.ModelDefinition{
			Name: cfg.AI.Ollama.Model,
			Type: "chat",
		}, &ai.ModelOptions{
			Supports: &ai.ModelSupports{
				Multiturn:  true,
				SystemRole: true,
				Tools:      true,
				Media:      false,
			},
		})

	case "openai":
		log.Infof(ctx, "Using OpenAI-compatible Plugin (%s, Model: %s)...", cfg.AI.OpenAI.Provider, cfg.AI.OpenAI.Model)
		if cfg.AI.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY must be set (or set AI_PLUGIN=ollama)")
		}
		plugin := &openaicompat.OpenAICompat{
			Provider: cfg.AI.OpenAI.Provider,
			APIKey:   cfg.AI.OpenAI.APIKey,
			BaseURL:  cfg.AI.OpenAI.BaseURL,
			Models:   []string{cfg.AI.OpenAI.Model},
		}
		app.Genkit = genkit.Init(ctx, genkit.WithPlugins(plugin))
		app.Model = plugin.Model(app.Genkit, cfg.AI.OpenAI.Model)

	default:
		log.Infof(ctx, "Using Gemini Plugin (Model: %s)...", cfg.AI.Gemini.Model)
		if cfg.AI.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY must be set (or set AI_PLUGIN=ollama)")
		}
		app.Genkit = genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{
			APIKey: cfg.AI.Gemini.APIKey,
		}))
		app.Model = googlegenai.GoogleAIModel(app.Genkit, cfg.AI.Gemini.Model)
	}
	return nil
}

// newLLMClient builds the plain prompt client the ReAct runtime drives
func newLLMClient(ctx context.Context, cfg *config.Config, app *App) (plugins.LLMClient, error) {
	switch cfg.AI.Plugin {
	case "ollama":
		return ollama.NewClient(cfg.AI.Ollama.BaseURL, cfg.AI.Ollama.Model), nil
	case "openai":
		return openaichat.NewClient(cfg.AI.OpenAI.APIKey, cfg.AI.OpenAI.BaseURL, cfg.AI.OpenAI.Model)
	default:
		client, err := gemini.NewClient(ctx, cfg.AI.Gemini.APIKey, cfg.AI.Gemini.Model)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, client)
		return client, nil
	}
}
