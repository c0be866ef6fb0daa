package cache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache implements Service on top of go-cache. When the item count
// reaches MaxSize, expired entries are purged first and the write is dropped
// if the cache is still full.
type MemoryCache struct {
	store   *gocache.Cache
	maxSize int
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{
		MaxSize:           1000,
		DefaultExpiration: 5 * time.Minute,
		CleanupInterval:   time.Minute,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &MemoryCache{
		store:   gocache.New(cfg.DefaultExpiration, cfg.CleanupInterval),
		maxSize: cfg.MaxSize,
	}
}

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if mc.maxSize > 0 && mc.store.ItemCount() >= mc.maxSize {
		if _, exists := mc.store.Get(key); !exists {
			mc.store.DeleteExpired()
			if mc.store.ItemCount() >= mc.maxSize {
				return nil
			}
		}
	}

	if expiration <= 0 {
		expiration = gocache.DefaultExpiration
	}
	mc.store.Set(key, data, expiration)
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := mc.store.Get(key)
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(raw.([]byte), dest)
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		mc.store.Delete(key)
	}
	return nil
}

// Len reports the number of items, expired ones included until cleanup runs.
func (mc *MemoryCache) Len() int {
	return mc.store.ItemCount()
}

// Close drops all items.
func (mc *MemoryCache) Close() error {
	mc.store.Flush()
	return nil
}
