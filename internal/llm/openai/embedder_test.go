package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"docbrief-backend/internal/llm"
)

// embeddingResponse mirrors the OpenAI-compatible embedding response body.
type embeddingResponse struct {
	Object string `json:"object"`
	Data   []struct {
		Object    string    `json:"object"`
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
}

func TestEmbedder_Embed(t *testing.T) {
	expected := []float32{0.1, 0.2, 0.3, 0.4}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		resp := embeddingResponse{Object: "list", Model: "test-model"}
		resp.Data = append(resp.Data, struct {
			Object    string    `json:"object"`
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		}{Object: "embedding", Embedding: expected})
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	e, err := NewEmbedder(EmbedderConfig{APIKey: "test-key", BaseURL: server.URL, Model: "test-model"})
	if err != nil {
		t.Fatalf("new embedder: %v", err)
	}

	vec, err := e.Embed(context.Background(), "some summary")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(vec) != len(expected) {
		t.Fatalf("expected %d dims, got %d", len(expected), len(vec))
	}
	for i := range expected {
		if vec[i] != expected[i] {
			t.Fatalf("dim %d: expected %f, got %f", i, expected[i], vec[i])
		}
	}
}

func TestEmbedder_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"object":"list","data":[],"model":"test-model"}`))
	}))
	defer server.Close()

	e, err := NewEmbedder(EmbedderConfig{APIKey: "test-key", BaseURL: server.URL, Model: "test-model"})
	if err != nil {
		t.Fatalf("new embedder: %v", err)
	}

	_, err = e.Embed(context.Background(), "text")
	if !errors.Is(err, llm.ErrEmbeddingFailed) {
		t.Fatalf("expected ErrEmbeddingFailed, got %v", err)
	}
}

func TestEmbedder_TransportTimeout(t *testing.T) {
	t.Setenv("OPENAI_TIMEOUT_SECONDS", "1")

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	e, err := NewEmbedder(EmbedderConfig{APIKey: "test-key", BaseURL: server.URL, Model: "test-model"})
	if err != nil {
		t.Fatalf("new embedder: %v", err)
	}

	start := time.Now()
	_, err = e.Embed(context.Background(), "text")
	if !errors.Is(err, llm.ErrEmbeddingFailed) {
		t.Fatalf("expected ErrEmbeddingFailed, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("embed did not time out, took %v", elapsed)
	}
}

func TestEmbedder_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer server.Close()

	e, err := NewEmbedder(EmbedderConfig{APIKey: "test-key", BaseURL: server.URL, Model: "test-model"})
	if err != nil {
		t.Fatalf("new embedder: %v", err)
	}

	_, err = e.Embed(context.Background(), "text")
	if !errors.Is(err, llm.ErrEmbeddingFailed) {
		t.Fatalf("expected ErrEmbeddingFailed, got %v", err)
	}
}
