package llm

import (
	"context"
	"errors"
)

// Summarizer produces a natural-language summary of a document's text via a
// single upstream call. No retries, no streaming, no chunking: very large
// inputs may be rejected upstream and surface as ErrSummarizationFailed.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Embedder turns text into a fixed-length vector. Dimensionality is
// determined by the model and treated as opaque but stable per deployment.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

var (
	// ErrSummarizationFailed wraps any transport or upstream summarization error.
	ErrSummarizationFailed = errors.New("summarization failed")
	// ErrEmbeddingFailed wraps any transport or upstream embedding error.
	ErrEmbeddingFailed = errors.New("embedding failed")
	// ErrNotConfigured is returned by the placeholder clients.
	ErrNotConfigured = errors.New("llm provider not configured")
)

// PlaceholderSummarizer is a stub implementation until provider wiring is added.
type PlaceholderSummarizer struct{}

// Summarize returns ErrNotConfigured.
func (PlaceholderSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	_ = ctx
	_ = text
	return "", ErrNotConfigured
}

// PlaceholderEmbedder is a stub implementation until provider wiring is added.
type PlaceholderEmbedder struct{}

// Embed returns ErrNotConfigured.
func (PlaceholderEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	_ = ctx
	_ = text
	return nil, ErrNotConfigured
}
