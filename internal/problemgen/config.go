package problemgen

import (
	"os"
	"strconv"
	"time"

	"github.com/abhisek/codedrill/internal/llm"
	"github.com/abhisek/codedrill/internal/store"
)

// Config controls the behavior of the Generator.
type Config struct {
	// MaxAttempts bounds the generation retry loop.
	MaxAttempts int

	// Backoff is the pause between failed attempts.
	Backoff time.Duration

	// AvoidTitles is how many recently stored titles to include in the
	// "avoid these" prompt clause on retry attempts.
	AvoidTitles int

	// SimilarityThreshold is the cosine score at or above which a candidate
	// counts as a duplicate. 1.0 = identical; the default rejects only
	// near-identical problems, not merely topically related ones.
	SimilarityThreshold float64

	// SearchLimit is how many nearest neighbors to inspect.
	SearchLimit int

	// EmbedTextLimit truncates the text sent for embedding; the embedding
	// model has finite context.
	EmbedTextLimit int

	// Sampling is the baseline for the first attempt. Retries raise
	// Temperature by TemperatureStep (capped at 1.0) and TopK by TopKStep
	// to escape repeated failure modes.
	Sampling        llm.SamplingParams
	TemperatureStep float64
	TopKStep        int

	// Timeouts holds the per-difficulty generation budget. Harder problems
	// produce larger model output and get more time.
	Timeouts map[store.Difficulty]time.Duration
}

// DefaultConfig returns a Config with the documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:         3,
		Backoff:             2 * time.Second,
		AvoidTitles:         10,
		SimilarityThreshold: 0.90,
		SearchLimit:         3,
		EmbedTextLimit:      2000,
		Sampling:            llm.DefaultSampling(),
		TemperatureStep:     0.15,
		TopKStep:            20,
		Timeouts: map[store.Difficulty]time.Duration{
			store.Easy:   3 * time.Minute,
			store.Medium: 6 * time.Minute,
			store.Hard:   10 * time.Minute,
		},
	}
}

// ConfigFromEnv returns DefaultConfig with environment overrides applied.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("CODEDRILL_SIMILARITY_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f <= 1 {
			cfg.SimilarityThreshold = f
		}
	}
	if v := os.Getenv("CODEDRILL_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxAttempts = n
		}
	}

	return cfg
}

// timeoutFor returns the generation budget for a difficulty tier.
func (c Config) timeoutFor(d store.Difficulty) time.Duration {
	if t, ok := c.Timeouts[d]; ok {
		return t
	}
	return 5 * time.Minute
}
