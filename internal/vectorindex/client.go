// Package vectorindex is a thin HTTP client for a Qdrant-style vector
// database: idempotent collection bootstrap, point upsert keyed by a numeric
// id, and nearest-neighbor search by cosine similarity.
package vectorindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable indicates the vector index is unreachable or rejected the
// request. The duplicate check is a quality heuristic, so callers skip it
// rather than failing the operation.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vector index unavailable: %v", e.Err)
	}
	return "vector index unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// Config holds vector index connection settings.
type Config struct {
	BaseURL    string        // Default: "http://localhost:6333"
	Collection string        // Default: "codedrill_problems"
	VectorSize int           // Dimensionality, fixed per embedding model. Default: 768.
	Timeout    time.Duration // Per-request budget. Default: 10s.
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "http://localhost:6333",
		Collection: "codedrill_problems",
		VectorSize: 768,
		Timeout:    10 * time.Second,
	}
}

// Payload is the denormalized copy stored with each point so search results
// can be displayed without a join back to the problem store.
type Payload struct {
	ProblemID   string `json:"problem_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Result is a single ranked search hit.
type Result struct {
	Score   float64 `json:"score"`
	Payload Payload `json:"payload"`
}

// Client talks to the vector index over HTTP.
type Client struct {
	baseURL    string
	collection string
	vectorSize int
	httpClient *http.Client
}

// NewClient creates a Client from config, filling in defaults for unset
// fields.
func NewClient(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Collection == "" {
		cfg.Collection = def.Collection
	}
	if cfg.VectorSize <= 0 {
		cfg.VectorSize = def.VectorSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		collection: cfg.Collection,
		vectorSize: cfg.VectorSize,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// PointID derives the numeric point key for a problem identifier.
// FNV-1a keeps the mapping stable across runs without storing a reverse map.
func PointID(problemID string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(problemID))
	return h.Sum64()
}

// EnsureCollection creates the collection if it does not exist. Safe to call
// on every startup: an already-existing collection is not an error.
func (c *Client) EnsureCollection(ctx context.Context) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     c.vectorSize,
			"distance": "Cosine",
		},
	}

	status, respBody, err := c.do(ctx, http.MethodPut, "/collections/"+c.collection, body)
	if err != nil {
		return err
	}
	if status == http.StatusOK || status == http.StatusConflict {
		return nil
	}
	// Some server versions report an existing collection as a 400.
	if status == http.StatusBadRequest && bytes.Contains(respBody, []byte("already exists")) {
		return nil
	}
	return &ErrUnavailable{Err: fmt.Errorf("create collection: status %d: %s", status, respBody)}
}

// UpsertPoint stores or overwrites the vector for the given problem.
// Writing twice under the same problem id replaces the previous vector
// (last-write-wins per key).
func (c *Client) UpsertPoint(ctx context.Context, problemID string, vector []float32, payload Payload) error {
	body := map[string]any{
		"points": []map[string]any{
			{
				"id":      PointID(problemID),
				"vector":  vector,
				"payload": payload,
			},
		},
	}

	status, respBody, err := c.do(ctx, http.MethodPut, "/collections/"+c.collection+"/points", body)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return &ErrUnavailable{Err: fmt.Errorf("upsert point: status %d: %s", status, respBody)}
	}
	return nil
}

// Search returns up to limit nearest neighbors with similarity at or above
// threshold, best first.
func (c *Client) Search(ctx context.Context, vector []float32, limit int, threshold float64) ([]Result, error) {
	body := map[string]any{
		"vector":          vector,
		"limit":           limit,
		"score_threshold": threshold,
		"with_payload":    true,
	}

	status, respBody, err := c.do(ctx, http.MethodPost, "/collections/"+c.collection+"/points/search", body)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &ErrUnavailable{Err: fmt.Errorf("search: status %d: %s", status, respBody)}
	}

	var parsed struct {
		Result []Result `json:"result"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &ErrUnavailable{Err: fmt.Errorf("decode search response: %w", err)}
	}
	return parsed.Result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, &ErrUnavailable{Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, &ErrUnavailable{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, &ErrUnavailable{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &ErrUnavailable{Err: err}
	}
	return resp.StatusCode, respBody, nil
}
