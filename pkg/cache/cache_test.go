package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quote struct {
	Ticker string  `json:"ticker"`
	Price  float64 `json:"price"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()

	require.NoError(t, mc.Set(ctx, "quote:AAPL", quote{Ticker: "AAPL", Price: 190.5}, time.Minute))

	var got quote
	require.NoError(t, mc.Get(ctx, "quote:AAPL", &got))
	assert.Equal(t, quote{Ticker: "AAPL", Price: 190.5}, got)

	require.NoError(t, mc.Delete(ctx, "quote:AAPL"))
	assert.ErrorIs(t, mc.Get(ctx, "quote:AAPL", &got), ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()

	require.NoError(t, mc.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	var s string
	assert.ErrorIs(t, mc.Get(ctx, "k", &s), ErrCacheMiss)
}

func TestMemoryCacheMaxSize(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryMaxSize(2))

	require.NoError(t, mc.Set(ctx, "a", 1, time.Minute))
	require.NoError(t, mc.Set(ctx, "b", 2, time.Minute))
	require.NoError(t, mc.Set(ctx, "c", 3, time.Minute))
	assert.Equal(t, 2, mc.Len())

	// overwriting an existing key is always allowed
	require.NoError(t, mc.Set(ctx, "a", 10, time.Minute))
	var n int
	require.NoError(t, mc.Get(ctx, "a", &n))
	assert.Equal(t, 10, n)
}

type countingService struct {
	*MemoryCache
	gets int
}

func (c *countingService) Get(ctx context.Context, key string, dest interface{}) error {
	c.gets++
	return c.MemoryCache.Get(ctx, key, dest)
}

type failingService struct{}

func (failingService) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("down")
}
func (failingService) Get(context.Context, string, interface{}) error { return errors.New("down") }
func (failingService) Delete(context.Context, ...string) error       { return errors.New("down") }

func TestLayeredCachePromotesRemoteHits(t *testing.T) {
	ctx := context.Background()
	remote := &countingService{MemoryCache: NewMemoryCache()}
	require.NoError(t, remote.Set(ctx, "quote:MSFT", quote{Ticker: "MSFT", Price: 410}, time.Minute))

	lc := NewLayeredCache(remote)

	var got quote
	require.NoError(t, lc.Get(ctx, "quote:MSFT", &got))
	require.NoError(t, lc.Get(ctx, "quote:MSFT", &got))
	assert.Equal(t, "MSFT", got.Ticker)
	assert.Equal(t, 1, remote.gets)

	require.NoError(t, lc.Delete(ctx, "quote:MSFT"))
	assert.ErrorIs(t, lc.Get(ctx, "quote:MSFT", &got), ErrCacheMiss)
}

func TestLayeredCacheCloseFlushesMemoryOnly(t *testing.T) {
	ctx := context.Background()
	remote := &countingService{MemoryCache: NewMemoryCache()}
	lc := NewLayeredCache(remote)

	require.NoError(t, lc.Set(ctx, "quote:AAPL", quote{Ticker: "AAPL", Price: 190}, time.Minute))
	assert.Equal(t, 1, lc.memCache.Len())

	require.NoError(t, lc.Close())
	assert.Zero(t, lc.memCache.Len())
	assert.Equal(t, 1, remote.Len())
}

func TestLayeredCacheRemoteFailure(t *testing.T) {
	ctx := context.Background()
	lc := NewLayeredCache(failingService{})

	require.Error(t, lc.Set(ctx, "k", "v", time.Minute))
	var s string
	require.Error(t, lc.Get(ctx, "k", &s))
}

func TestGenerateKey(t *testing.T) {
	assert.Equal(t, "quote:AAPL", GenerateKey("quote", "AAPL"))
}
