package vectorindex

import (
	"os"
	"strconv"
)

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if u := os.Getenv("CODEDRILL_QDRANT_URL"); u != "" {
		cfg.BaseURL = u
	}
	if c := os.Getenv("CODEDRILL_COLLECTION"); c != "" {
		cfg.Collection = c
	}
	if v := os.Getenv("CODEDRILL_VECTOR_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.VectorSize = n
		}
	}

	return cfg
}
