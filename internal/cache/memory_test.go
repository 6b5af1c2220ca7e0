package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-pageresolver/internal/cache"
	"github.com/goliatone/go-pageresolver/pkg/interfaces"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache(cache.MemoryOptions{TTL: time.Minute})

	if _, err := c.Get(ctx, "k"); !errors.Is(err, interfaces.ErrCacheMiss) {
		t.Fatalf("expected miss, got %v", err)
	}
	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil || got != "v" {
		t.Fatalf("expected hit, got %v %v", got, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, interfaces.ErrCacheMiss) {
		t.Fatalf("expected miss after delete, got %v", err)
	}
}

func TestMemoryCacheClear(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache(cache.MemoryOptions{})
	_ = c.Set(ctx, "a", 1, 0)
	_ = c.Set(ctx, "b", 2, 0)

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	for _, key := range []string{"a", "b"} {
		if _, err := c.Get(ctx, key); !errors.Is(err, interfaces.ErrCacheMiss) {
			t.Fatalf("expected %s to be cleared, got %v", key, err)
		}
	}
	if c.Driver() != cache.DriverMemory || c.TTL() != time.Hour {
		t.Fatalf("unexpected driver metadata %s %s", c.Driver(), c.TTL())
	}
}

func TestMemoryCacheIsNotPrefixInvalidator(t *testing.T) {
	var provider interfaces.CacheProvider = cache.NewMemoryCache(cache.MemoryOptions{})
	if _, ok := provider.(interfaces.PrefixInvalidator); ok {
		t.Fatalf("memory driver must not advertise prefix invalidation")
	}
}
