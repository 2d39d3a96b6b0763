package vectorindex

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:    srv.URL,
		Collection: "test_problems",
		VectorSize: 4,
	})
}

func TestPointID_Stable(t *testing.T) {
	a := PointID("cd-abc12345")
	b := PointID("cd-abc12345")
	if a != b {
		t.Errorf("PointID not stable: %d vs %d", a, b)
	}
	if a == PointID("cd-other") {
		t.Error("distinct ids should hash differently")
	}
}

func TestEnsureCollection_Creates(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/collections/test_problems" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"result": true}`))
	}))

	if err := c.EnsureCollection(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vectors, _ := gotBody["vectors"].(map[string]any)
	if vectors["size"] != float64(4) {
		t.Errorf("unexpected vector size: %v", vectors["size"])
	}
	if vectors["distance"] != "Cosine" {
		t.Errorf("unexpected distance: %v", vectors["distance"])
	}
}

func TestEnsureCollection_AlreadyExists(t *testing.T) {
	for name, handler := range map[string]http.HandlerFunc{
		"conflict": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		},
		"bad request": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"status": {"error": "collection test_problems already exists"}}`))
		},
	} {
		c := newTestClient(t, handler)
		if err := c.EnsureCollection(context.Background()); err != nil {
			t.Errorf("%s: existing collection must not error: %v", name, err)
		}
	}
}

func TestEnsureCollection_ServerError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	err := c.EnsureCollection(context.Background())
	var unavailable *ErrUnavailable
	if !errors.As(err, &unavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestUpsertPoint(t *testing.T) {
	var gotBody struct {
		Points []struct {
			ID      uint64    `json:"id"`
			Vector  []float32 `json:"vector"`
			Payload Payload   `json:"payload"`
		} `json:"points"`
	}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/collections/test_problems/points" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"result": {"status": "acknowledged"}}`))
	}))

	err := c.UpsertPoint(context.Background(), "cd-abc12345", []float32{1, 2, 3, 4},
		Payload{ProblemID: "cd-abc12345", Title: "T", Description: "D"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(gotBody.Points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(gotBody.Points))
	}
	point := gotBody.Points[0]
	if point.ID != PointID("cd-abc12345") {
		t.Errorf("point id mismatch: %d", point.ID)
	}
	if len(point.Vector) != 4 {
		t.Errorf("unexpected vector: %v", point.Vector)
	}
	if point.Payload.ProblemID != "cd-abc12345" {
		t.Errorf("unexpected payload: %+v", point.Payload)
	}
}

func TestSearch(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/collections/test_problems/points/search" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"result": [
			{"score": 0.97, "payload": {"problem_id": "cd-a", "title": "First"}},
			{"score": 0.92, "payload": {"problem_id": "cd-b", "title": "Second"}}
		]}`))
	}))

	results, err := c.Search(context.Background(), []float32{1, 0, 0, 0}, 3, 0.90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotBody["limit"] != float64(3) {
		t.Errorf("unexpected limit: %v", gotBody["limit"])
	}
	if gotBody["score_threshold"] != 0.90 {
		t.Errorf("unexpected threshold: %v", gotBody["score_threshold"])
	}
	if gotBody["with_payload"] != true {
		t.Error("with_payload not requested")
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Score != 0.97 || results[0].Payload.Title != "First" {
		t.Errorf("unexpected best hit: %+v", results[0])
	}
}

func TestSearch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Search(context.Background(), []float32{1}, 3, 0.9)
	var unavailable *ErrUnavailable
	if !errors.As(err, &unavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
