package cache

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-pageresolver/pkg/interfaces"
	"github.com/viccon/sturdyc"
)

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"

	defaultCapacity           = 10000
	defaultShards             = 10
	defaultEvictionPercentage = 10
	defaultTTL                = time.Hour
)

// MemoryOptions configures the in-process driver.
type MemoryOptions struct {
	Capacity int
	TTL      time.Duration
}

// MemoryCache is an in-process CacheProvider backed by sturdyc. Entries share
// the TTL given at construction; per-call TTLs are ignored.
type MemoryCache struct {
	mu     sync.RWMutex
	opts   MemoryOptions
	client *sturdyc.Client[any]
}

func NewMemoryCache(opts MemoryOptions) *MemoryCache {
	if opts.Capacity <= 0 {
		opts.Capacity = defaultCapacity
	}
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	return &MemoryCache{opts: opts, client: newSturdyClient(opts)}
}

func newSturdyClient(opts MemoryOptions) *sturdyc.Client[any] {
	return sturdyc.New[any](opts.Capacity, defaultShards, opts.TTL, defaultEvictionPercentage)
}

var _ interfaces.CacheProvider = (*MemoryCache)(nil)

func (c *MemoryCache) Get(_ context.Context, key string) (any, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.client.Get(key)
	if !ok {
		return nil, interfaces.ErrCacheMiss
	}
	return value, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.client.Set(key, value)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.client.Delete(key)
	return nil
}

// Clear drops every entry by swapping in a fresh client.
func (c *MemoryCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.client = newSturdyClient(c.opts)
	return nil
}

// Size reports the number of stored entries.
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client.Size()
}

func (c *MemoryCache) Driver() string {
	return DriverMemory
}

func (c *MemoryCache) TTL() time.Duration {
	return c.opts.TTL
}
