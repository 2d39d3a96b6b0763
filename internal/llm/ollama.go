package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// defaultGenerateTimeout bounds a generation request when the caller does
// not set one explicitly.
const defaultGenerateTimeout = 5 * time.Minute

// OllamaProvider talks to a local Ollama server over its native HTTP API.
// It implements both Provider (text generation) and Embedder.
type OllamaProvider struct {
	baseURL      string
	model        string
	embedModel   string
	probeTimeout time.Duration
	httpClient   *http.Client
}

// NewOllamaProvider creates a provider from config, filling in defaults for
// unset fields.
func NewOllamaProvider(cfg OllamaConfig) *OllamaProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3"
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = "nomic-embed-text"
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 3 * time.Second
	}

	return &OllamaProvider{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		model:        cfg.Model,
		embedModel:   cfg.EmbedModel,
		probeTimeout: cfg.ProbeTimeout,
		httpClient:   &http.Client{},
	}
}

func (p *OllamaProvider) Name() string { return "ollama" }

// Heartbeat probes the tags endpoint with a short timeout. Any failure means
// the server is treated as down for this attempt.
func (p *OllamaProvider) Heartbeat(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return &ErrServiceUnavailable{Err: err}
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return &ErrServiceUnavailable{Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &ErrServiceUnavailable{Err: fmt.Errorf("probe status %d", resp.StatusCode)}
	}
	return nil
}

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options *ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature   float64 `json:"temperature,omitempty"`
	TopK          int     `json:"top_k,omitempty"`
	RepeatPenalty float64 `json:"repeat_penalty,omitempty"`
}

type ollamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate sends the prompt and returns the raw response text.
func (p *OllamaProvider) Generate(ctx context.Context, req Request) (string, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = defaultGenerateTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body := ollamaGenerateRequest{
		Model:  p.model,
		Prompt: req.Prompt,
		Stream: false,
		Options: &ollamaOptions{
			Temperature:   req.Sampling.Temperature,
			TopK:          req.Sampling.TopK,
			RepeatPenalty: req.Sampling.RepeatPenalty,
		},
	}

	var out ollamaGenerateResponse
	if err := p.post(ctx, "/api/generate", body, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Response) == "" {
		return "", &ErrEmptyResponse{}
	}
	return out.Response, nil
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed returns the embedding vector for the given text.
func (p *OllamaProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	var out ollamaEmbedResponse
	err := p.post(ctx, "/api/embeddings", ollamaEmbedRequest{
		Model:  p.embedModel,
		Prompt: text,
	}, &out)
	if err != nil {
		return nil, err
	}
	if len(out.Embedding) == 0 {
		return nil, &ErrEmptyResponse{}
	}
	return out.Embedding, nil
}

func (p *OllamaProvider) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return &ErrServiceUnavailable{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return &ErrServiceUnavailable{
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ErrServiceUnavailable{Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
