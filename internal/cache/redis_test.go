package cache_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/goliatone/go-pageresolver/internal/cache"
	"github.com/goliatone/go-pageresolver/pkg/interfaces"
)

func newRedisCache(t *testing.T, opts ...cache.RedisOption) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	client, err := cache.NewRedisClient(ctx, cache.RedisOptions{Addr: server.Addr()})
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})
	return cache.NewRedisCache(client, opts...), server
}

func TestNewRedisClientRequiresAddress(t *testing.T) {
	if _, err := cache.NewRedisClient(context.Background(), cache.RedisOptions{}); err == nil {
		t.Fatalf("expected address error")
	}
}

func TestRedisCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, server := newRedisCache(t)
	key := "pages:about"

	if _, err := c.Get(ctx, key); !errors.Is(err, interfaces.ErrCacheMiss) {
		t.Fatalf("expected miss, got %v", err)
	}
	if err := c.Set(ctx, key, map[string]any{"slug": "/about"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	decoded, ok := got.(map[string]any)
	if !ok || decoded["slug"] != "/about" {
		t.Fatalf("unexpected value %#v", got)
	}

	server.FastForward(2 * time.Minute)
	if _, err := c.Get(ctx, key); !errors.Is(err, interfaces.ErrCacheMiss) {
		t.Fatalf("expected entry to expire, got %v", err)
	}
}

func TestRedisCacheDecodeFailure(t *testing.T) {
	ctx := context.Background()
	c, server := newRedisCache(t)
	if err := server.Set("pages:broken", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := c.Get(ctx, "pages:broken"); err == nil || errors.Is(err, interfaces.ErrCacheMiss) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestRedisCacheDeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	prefix := "pages:"
	c, server := newRedisCache(t, cache.WithKeyPrefix(prefix))

	// More keys than a single SCAN batch.
	const total = 250
	for i := 0; i < total; i++ {
		if err := c.Set(ctx, fmt.Sprintf("%s%03d", prefix, i), i, time.Minute); err != nil {
			t.Fatalf("set %d: %v", i, err)
		}
	}
	if err := c.Set(ctx, "other:keep", "keep", time.Minute); err != nil {
		t.Fatalf("set other: %v", err)
	}

	deleted, err := c.DeleteByPrefix(ctx, prefix)
	if err != nil {
		t.Fatalf("delete by prefix: %v", err)
	}
	if deleted != total {
		t.Fatalf("expected %d deletions, got %d", total, deleted)
	}
	if !server.Exists("other:keep") {
		t.Fatalf("expected unrelated key to survive")
	}
	if keys := server.Keys(); len(keys) != 1 {
		t.Fatalf("expected only the unrelated key left, got %v", keys)
	}
}

func TestRedisCacheClearUsesPrefix(t *testing.T) {
	ctx := context.Background()
	c, server := newRedisCache(t, cache.WithKeyPrefix("pages:"))
	_ = c.Set(ctx, "pages:a", "a", time.Minute)
	_ = c.Set(ctx, "sessions:a", "s", time.Minute)

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if server.Exists("pages:a") || !server.Exists("sessions:a") {
		t.Fatalf("expected only prefixed keys cleared, got %v", server.Keys())
	}
}
