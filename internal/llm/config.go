package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all generation service configuration.
type Config struct {
	// Provider selects which backend to use.
	// Values: "ollama", "openai", "mock"
	Provider string

	Ollama OllamaConfig
	OpenAI OpenAIConfig
}

// OllamaConfig holds Ollama-specific configuration.
type OllamaConfig struct {
	BaseURL      string        // Default: "http://localhost:11434"
	Model        string        // Default: "llama3"
	EmbedModel   string        // Default: "nomic-embed-text"
	ProbeTimeout time.Duration // Liveness probe budget. Default: 3s.
}

// OpenAIConfig holds configuration for OpenAI-compatible endpoints
// (including local servers that speak the OpenAI chat API).
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional override for compatible APIs.
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "ollama",
		Ollama: OllamaConfig{
			BaseURL:      "http://localhost:11434",
			Model:        "llama3",
			EmbedModel:   "nomic-embed-text",
			ProbeTimeout: 3 * time.Second,
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("CODEDRILL_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}

	if u := os.Getenv("CODEDRILL_OLLAMA_URL"); u != "" {
		cfg.Ollama.BaseURL = u
	}
	if m := os.Getenv("CODEDRILL_OLLAMA_MODEL"); m != "" {
		cfg.Ollama.Model = m
	}
	if m := os.Getenv("CODEDRILL_EMBED_MODEL"); m != "" {
		cfg.Ollama.EmbedModel = m
	}

	if k := os.Getenv("CODEDRILL_OPENAI_API_KEY"); k != "" {
		cfg.OpenAI.APIKey = k
	}
	if m := os.Getenv("CODEDRILL_OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	if u := os.Getenv("CODEDRILL_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	return cfg
}

// Validate checks that the selected provider has its required settings.
func (c Config) Validate() error {
	switch c.Provider {
	case "ollama":
		if c.Ollama.BaseURL == "" {
			return fmt.Errorf("CODEDRILL_OLLAMA_URL is required for the ollama provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" && c.OpenAI.BaseURL == "" {
			return fmt.Errorf("CODEDRILL_OPENAI_API_KEY or CODEDRILL_OPENAI_BASE_URL is required for the openai provider")
		}
	case "mock":
		// No settings needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
