package embcache

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"docbrief-backend/internal/llm"
	"docbrief-backend/internal/shared/metrics"
	"docbrief-backend/internal/shared/telemetry"
	"docbrief-backend/internal/shared/util"
)

const keyPrefix = "docbrief:emb_cache:"

// Store is the key-value contract the cache needs.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// CachedEmbedder caches embeddings keyed by the hash of the input text.
// Identical summaries never hit the provider twice, which is what keeps
// recompute-on-summarize cheap.
type CachedEmbedder struct {
	inner llm.Embedder
	store Store
}

// New creates a caching decorator around inner.
func New(inner llm.Embedder, store Store) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, store: store}
}

// Embed returns a cached vector or calls the inner embedder. Cache failures
// degrade to a direct provider call, never an error.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(text)

	if vec, ok := c.getFromCache(ctx, key); ok {
		metrics.EmbeddingCacheTotal.WithLabelValues("hit").Inc()
		return vec, nil
	}
	metrics.EmbeddingCacheTotal.WithLabelValues("miss").Inc()

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.putToCache(ctx, key, vec)
	return vec, nil
}

func cacheKey(text string) string {
	return keyPrefix + util.SHA256Hex(text)
}

func (c *CachedEmbedder) getFromCache(ctx context.Context, key string) ([]float32, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil || len(data) == 0 {
		return nil, false
	}
	vec, err := bytesToVector(data)
	if err != nil {
		telemetry.Error("embcache.decode_failed", map[string]any{"key": key, "error": err.Error()})
		return nil, false
	}
	return vec, true
}

func (c *CachedEmbedder) putToCache(ctx context.Context, key string, vec []float32) {
	if err := c.store.Set(ctx, key, vectorToBytes(vec)); err != nil {
		telemetry.Error("embcache.store_failed", map[string]any{"key": key, "error": err.Error()})
	}
}

// Vectors are stored as little-endian float32 words.
func vectorToBytes(vec []float32) []byte {
	out := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func bytesToVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid vector payload length %d", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}

var _ llm.Embedder = (*CachedEmbedder)(nil)
