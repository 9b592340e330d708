package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeOllamaServer creates an httptest server that mimics the Ollama
// /api/embed endpoint. The handler receives the decoded request and returns
// the status and response body to send.
func fakeOllamaServer(t *testing.T, handler func(req embedRequest) (int, any)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		status, resp := handler(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestOllamaEmbedSuccess(t *testing.T) {
	srv := fakeOllamaServer(t, func(req embedRequest) (int, any) {
		if req.Model != "test-model" {
			t.Errorf("expected model test-model, got %s", req.Model)
		}
		return http.StatusOK, embedResponse{
			Model:      req.Model,
			Embeddings: [][]float32{{0.1, 0.2, 0.3}},
		}
	})
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "test-model")
	emb, err := e.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(emb) != 3 {
		t.Fatalf("expected 3 dimensions, got %d", len(emb))
	}
	if emb[0] != 0.1 || emb[1] != 0.2 || emb[2] != 0.3 {
		t.Errorf("unexpected embedding values: %v", emb)
	}
	if d := e.Dimensions(); d != 3 {
		t.Errorf("expected Dimensions() == 3 after embed, got %d", d)
	}
}

func TestOllamaEmbedBatchEmpty(t *testing.T) {
	e := NewOllamaEmbedder("http://localhost:11434", "test-model")
	results, err := e.EmbedBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results != nil {
		t.Errorf("expected nil results for empty input, got %v", results)
	}
}

func TestOllamaEmbedBatchSuccess(t *testing.T) {
	srv := fakeOllamaServer(t, func(req embedRequest) (int, any) {
		return http.StatusOK, embedResponse{
			Model: req.Model,
			Embeddings: [][]float32{
				{1.0, 2.0},
				{3.0, 4.0},
				{5.0, 6.0},
			},
		}
	})
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "test-model")
	results, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0][0] != 1.0 || results[1][0] != 3.0 || results[2][0] != 5.0 {
		t.Errorf("unexpected embedding values: %v", results)
	}
	if d := e.Dimensions(); d != 2 {
		t.Errorf("expected Dimensions() == 2, got %d", d)
	}
}

func TestOllamaEmbedBatchError(t *testing.T) {
	srv := fakeOllamaServer(t, func(req embedRequest) (int, any) {
		return http.StatusBadRequest, embedResponse{
			Error: "model 'nonexistent' not found",
		}
	})
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "nonexistent")
	_, err := e.EmbedBatch(context.Background(), []string{"hello"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	expected := "ollama error: model 'nonexistent' not found"
	if err.Error() != expected {
		t.Errorf("expected error %q, got %q", expected, err.Error())
	}
}

func TestOllamaEmbedBatchCountMismatch(t *testing.T) {
	srv := fakeOllamaServer(t, func(req embedRequest) (int, any) {
		// Return 1 embedding when 3 were requested.
		return http.StatusOK, embedResponse{
			Model:      req.Model,
			Embeddings: [][]float32{{1.0, 2.0}},
		}
	})
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "test-model")
	_, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	expected := "expected 3 embeddings, got 1"
	if err.Error() != expected {
		t.Errorf("expected error %q, got %q", expected, err.Error())
	}
}

func TestOllamaEmbedBatchConnectionRefused(t *testing.T) {
	e := NewOllamaEmbedder("http://127.0.0.1:1", "test-model")
	_, err := e.EmbedBatch(context.Background(), []string{"hello"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "ollama request failed") {
		t.Errorf("expected connection error message, got: %q", err.Error())
	}
}

func TestOllamaEmbedBatchInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("not valid json{{{"))
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "test-model")
	_, err := e.EmbedBatch(context.Background(), []string{"hello"})
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
	if !strings.Contains(err.Error(), "parsing response") {
		t.Errorf("expected parsing error, got: %q", err.Error())
	}
}

func TestOllamaDimensionsCaching(t *testing.T) {
	callCount := 0
	srv := fakeOllamaServer(t, func(req embedRequest) (int, any) {
		callCount++
		dim := 4
		if callCount == 2 {
			dim = 8 // Different dimension on second call.
		}
		return http.StatusOK, embedResponse{
			Model:      req.Model,
			Embeddings: [][]float32{make([]float32, dim)},
		}
	})
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "test-model")

	if d := e.Dimensions(); d != 0 {
		t.Errorf("expected 0 before first call, got %d", d)
	}

	if _, err := e.Embed(context.Background(), "hello"); err != nil {
		t.Fatal(err)
	}
	if d := e.Dimensions(); d != 4 {
		t.Errorf("expected 4 after first call, got %d", d)
	}

	// Second call returns dim 8, but the cached value stays 4.
	if _, err := e.Embed(context.Background(), "world"); err != nil {
		t.Fatal(err)
	}
	if d := e.Dimensions(); d != 4 {
		t.Errorf("expected dimensions to remain 4 (cached), got %d", d)
	}
}

// Compile-time check that OllamaEmbedder implements Embedder.
var _ Embedder = (*OllamaEmbedder)(nil)
