package llm

import (
	"context"
	"time"
)

// Provider is the core abstraction for text generation.
// Consumers call Generate with a Request and receive the model's raw text
// output. Parsing and validation are the caller's job.
type Provider interface {
	// Heartbeat issues a lightweight liveness probe. A non-nil error means
	// the service should be considered unavailable for this attempt; the
	// probe itself is never retried.
	Heartbeat(ctx context.Context) error

	// Generate sends the prompt with the given sampling parameters and
	// returns the raw response text.
	Generate(ctx context.Context, req Request) (string, error)

	// Name returns a short provider identifier for logging.
	Name() string
}

// Embedder produces a fixed-length vector embedding for a piece of text.
// The vector length is fixed by the embedding model for the process lifetime.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// SamplingParams are the model sampling knobs carried by every request.
type SamplingParams struct {
	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64

	// TopK limits sampling to the K most likely tokens. Positive.
	TopK int

	// RepeatPenalty discourages repetition. >= 1.0.
	RepeatPenalty float64
}

// Request describes a single generation call.
type Request struct {
	// Prompt is the full natural-language prompt.
	Prompt string

	// Sampling holds the sampling parameters for this attempt.
	Sampling SamplingParams

	// Timeout bounds the request. Harder problems get a longer budget
	// because the model output is larger. Zero means the provider default.
	Timeout time.Duration
}

// DefaultSampling returns the baseline sampling parameters for a first
// generation attempt.
func DefaultSampling() SamplingParams {
	return SamplingParams{
		Temperature:   0.7,
		TopK:          40,
		RepeatPenalty: 1.1,
	}
}
