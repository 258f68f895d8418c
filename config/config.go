package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultPath is the config file read when CONFIG_PATH is unset
const DefaultPath = "config.yaml"

// Config aggregates all application configuration
type Config struct {
	AI      AIConfig      `yaml:"ai"`
	Sources SourcesConfig `yaml:"sources"`
	Server  ServerConfig  `yaml:"server"`
	Chat    ChatConfig    `yaml:"chat"`
	Log     LogConfig     `yaml:"log"`
}

type AIConfig struct {
	Plugin   string       `yaml:"plugin" env:"AI_PLUGIN" env-default:"gemini" env-description:"Model backend: gemini, ollama or openai"`
	Runtime  string       `yaml:"runtime" env:"AI_RUNTIME" env-default:"genkit" env-description:"Reasoning loop: genkit (native tool calling) or react"`
	MaxTurns int          `yaml:"max_turns" env:"AI_MAX_TURNS" env-default:"10"`
	Gemini   GeminiConfig `yaml:"gemini"`
	Ollama   OllamaConfig `yaml:"ollama"`
	OpenAI   OpenAIConfig `yaml:"openai"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model  string `yaml:"model" env:"GEMINI_MODEL" env-default:"gemini-2.5-flash"`
}

type OllamaConfig struct {
	Model   string `yaml:"model" env:"OLLAMA_MODEL" env-default:"qwen3:4b"`
	BaseURL string `yaml:"base_url" env:"OLLAMA_BASE_URL" env-default:"http://localhost:11434"`
}

// OpenAIConfig covers OpenAI and any OpenAI-compatible endpoint
type OpenAIConfig struct {
	APIKey   string `yaml:"api_key" env:"OPENAI_API_KEY"`
	BaseURL  string `yaml:"base_url" env:"OPENAI_BASE_URL" env-default:"https://api.openai.com/v1/"`
	Model    string `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
	Provider string `yaml:"provider" env:"OPENAI_PROVIDER" env-default:"openai"`
}

type SourcesConfig struct {
	TimeoutSeconds int               `yaml:"timeout_seconds" env:"SOURCES_TIMEOUT_SECONDS" env-default:"30"`
	UserAgent      string            `yaml:"user_agent" env:"SOURCES_USER_AGENT" env-default:"ainews-agent/1.0"`
	HuggingFace    HuggingFaceConfig `yaml:"huggingface"`
	HackerNews     HackerNewsConfig  `yaml:"hackernews"`
	Arxiv          ArxivConfig       `yaml:"arxiv"`
}

// Timeout returns the per-request timeout shared by all source clients
func (s SourcesConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

type HuggingFaceConfig struct {
	BaseURL     string `yaml:"base_url" env:"HF_BASE_URL" env-default:"https://huggingface.co"`
	PapersProxy string `yaml:"papers_proxy" env:"BEEAI_HF_PAPERS_TOOL_PROXY"`
	SpacesProxy string `yaml:"spaces_proxy" env:"BEEAI_HF_SPACES_TOOL_PROXY"`
}

type HackerNewsConfig struct {
	BaseURL    string   `yaml:"base_url" env:"HN_BASE_URL" env-default:"https://hacker-news.firebaseio.com/v0"`
	Proxy      string   `yaml:"proxy" env:"BEEAI_HN_TOOL_PROXY"`
	MaxChecked int      `yaml:"max_checked" env:"HN_MAX_CHECKED" env-default:"200"`
	Workers    int      `yaml:"workers" env:"HN_WORKERS" env-default:"8"`
	Keywords   []string `yaml:"keywords" env:"HN_KEYWORDS" env-separator:","`
}

type ArxivConfig struct {
	BaseURL  string `yaml:"base_url" env:"ARXIV_BASE_URL" env-default:"https://export.arxiv.org"`
	Proxy    string `yaml:"proxy" env:"BEEAI_ARXIV_TOOL_PROXY"`
	Category string `yaml:"category" env:"ARXIV_CATEGORY" env-default:"cs.AI"`
}

type ServerConfig struct {
	Port string `yaml:"port" env:"PORT" env-default:"8000"`
}

type ChatConfig struct {
	HistoryTurns       int `yaml:"history_turns" env:"CHAT_HISTORY_TURNS" env-default:"20"`
	MaxSessions        int `yaml:"max_sessions" env:"CHAT_MAX_SESSIONS" env-default:"1000"`
	SessionIdleMinutes int `yaml:"session_idle_minutes" env:"CHAT_SESSION_IDLE_MINUTES" env-default:"60"`
}

// SessionIdle returns how long an untouched session is kept
func (c ChatConfig) SessionIdle() time.Duration {
	return time.Duration(c.SessionIdleMinutes) * time.Minute
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// Load reads configuration from the config file (CONFIG_PATH or config.yaml)
// and environment variables.
// Priority: Env Vars > Config File > Defaults
func Load() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultPath
	}
	return LoadFrom(path)
}

// LoadFrom reads the given config file if it exists, falling back to
// environment variables and defaults only.
func LoadFrom(path string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read env config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the enumerated settings
func (c *Config) Validate() error {
	var errs []error
	switch c.AI.Plugin {
	case "gemini", "ollama", "openai":
	default:
		errs = append(errs, fmt.Errorf("unknown ai.plugin %q (want gemini, ollama or openai)", c.AI.Plugin))
	}
	switch c.AI.Runtime {
	case "genkit", "react":
	default:
		errs = append(errs, fmt.Errorf("unknown ai.runtime %q (want genkit or react)", c.AI.Runtime))
	}
	if c.AI.MaxTurns <= 0 {
		errs = append(errs, fmt.Errorf("ai.max_turns must be positive, got %d", c.AI.MaxTurns))
	}
	if c.Sources.HackerNews.MaxChecked <= 0 {
		errs = append(errs, fmt.Errorf("sources.hackernews.max_checked must be positive, got %d", c.Sources.HackerNews.MaxChecked))
	}
	return errors.Join(errs...)
}
