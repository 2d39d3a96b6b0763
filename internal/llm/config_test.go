package llm

import "testing"

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("CODEDRILL_LLM_PROVIDER", "openai")
	t.Setenv("CODEDRILL_OLLAMA_MODEL", "qwen2")
	t.Setenv("CODEDRILL_OPENAI_API_KEY", "sk-test")

	cfg := ConfigFromEnv()

	if cfg.Provider != "openai" {
		t.Errorf("unexpected provider: %q", cfg.Provider)
	}
	if cfg.Ollama.Model != "qwen2" {
		t.Errorf("unexpected ollama model: %q", cfg.Ollama.Model)
	}
	if cfg.OpenAI.APIKey != "sk-test" {
		t.Errorf("unexpected api key: %q", cfg.OpenAI.APIKey)
	}
	// Untouched defaults survive.
	if cfg.Ollama.BaseURL != "http://localhost:11434" {
		t.Errorf("default base url lost: %q", cfg.Ollama.BaseURL)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}

	cfg.Provider = "openai"
	if err := cfg.Validate(); err == nil {
		t.Error("openai without key or base url must fail")
	}
	cfg.OpenAI.APIKey = "sk-test"
	if err := cfg.Validate(); err != nil {
		t.Errorf("openai with key must validate: %v", err)
	}

	cfg.Provider = "something-else"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown provider must fail")
	}
}

func TestNewProvider(t *testing.T) {
	for provider, wantName := range map[string]string{
		"ollama": "ollama",
		"mock":   "mock",
	} {
		cfg := DefaultConfig()
		cfg.Provider = provider
		p, err := NewProvider(cfg)
		if err != nil {
			t.Errorf("%s: %v", provider, err)
			continue
		}
		if p.Name() != wantName {
			t.Errorf("%s: unexpected name %q", provider, p.Name())
		}
	}

	cfg := DefaultConfig()
	cfg.Provider = "nope"
	if _, err := NewProvider(cfg); err == nil {
		t.Error("unknown provider must fail")
	}
}
