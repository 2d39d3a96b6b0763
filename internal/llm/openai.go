package llm

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider using the OpenAI SDK.
// With BaseURL set it also covers local servers and gateways that expose an
// OpenAI-compatible chat API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAI-compatible provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

// Heartbeat lists models with a short budget as a liveness probe.
func (p *OpenAIProvider) Heartbeat(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if _, err := p.client.ListModels(ctx); err != nil {
		return &ErrServiceUnavailable{Err: err}
	}
	return nil
}

// Generate sends the prompt as a single user message and returns the raw
// completion text. TopK and RepeatPenalty have no chat-API equivalent and
// are dropped; Temperature is honored.
func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (string, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = defaultGenerateTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: float32(req.Sampling.Temperature),
	})
	if err != nil {
		return "", &ErrServiceUnavailable{Err: err}
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &ErrEmptyResponse{}
	}
	return resp.Choices[0].Message.Content, nil
}
