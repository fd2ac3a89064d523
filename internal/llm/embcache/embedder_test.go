package embcache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	calls int
	vec   []float32
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.calls++
	return c.vec, nil
}

func newTestStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, 0)
}

func TestCachedEmbedder_SecondCallHitsCache(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{0.5, -0.25, 1}}
	cached := New(inner, newTestStore(t))
	ctx := context.Background()

	first, err := cached.Embed(ctx, "same summary text")
	require.NoError(t, err)
	require.Equal(t, inner.vec, first)
	require.Equal(t, 1, inner.calls)

	second, err := cached.Embed(ctx, "same summary text")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, inner.calls, "second call must not reach the provider")
}

func TestCachedEmbedder_DifferentTextMisses(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{1, 2}}
	cached := New(inner, newTestStore(t))
	ctx := context.Background()

	_, err := cached.Embed(ctx, "summary A")
	require.NoError(t, err)
	_, err = cached.Embed(ctx, "summary B")
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)
}

func TestVectorCodecRoundTrip(t *testing.T) {
	vec := []float32{0, 1.5, -2.25, 3.14159}
	got, err := bytesToVector(vectorToBytes(vec))
	require.NoError(t, err)
	require.Equal(t, vec, got)

	_, err = bytesToVector([]byte{1, 2, 3})
	require.Error(t, err)
}
