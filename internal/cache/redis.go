package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-pageresolver/pkg/interfaces"
	"github.com/redis/go-redis/v9"
)

const scanBatch = 100

// RedisOptions holds connection settings for the shared driver.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings the server.
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	if strings.TrimSpace(opts.Addr) == "" {
		return nil, errors.New("cache: redis address is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: connect redis %s: %w", opts.Addr, err)
	}
	return client, nil
}

// RedisCache is a shared CacheProvider. Values go through a Codec.
type RedisCache struct {
	client *redis.Client
	codec  Codec
	prefix string
}

// RedisOption customises a RedisCache.
type RedisOption func(*RedisCache)

// WithCodec sets the value codec; JSONCodec is used otherwise.
func WithCodec(codec Codec) RedisOption {
	return func(c *RedisCache) {
		if codec != nil {
			c.codec = codec
		}
	}
}

// WithKeyPrefix scopes Clear to keys sharing prefix. Without it Clear flushes
// the selected database.
func WithKeyPrefix(prefix string) RedisOption {
	return func(c *RedisCache) {
		c.prefix = prefix
	}
}

func NewRedisCache(client *redis.Client, opts ...RedisOption) *RedisCache {
	c := &RedisCache{client: client, codec: JSONCodec{}}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

var (
	_ interfaces.CacheProvider     = (*RedisCache)(nil)
	_ interfaces.PrefixInvalidator = (*RedisCache)(nil)
)

func (c *RedisCache) Get(ctx context.Context, key string) (any, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, interfaces.ErrCacheMiss
		}
		return nil, err
	}
	value, err := c.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return value, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := c.codec.Encode(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *RedisCache) Clear(ctx context.Context) error {
	if c.prefix == "" {
		return c.client.FlushDB(ctx).Err()
	}
	_, err := c.DeleteByPrefix(ctx, c.prefix)
	return err
}

// DeleteByPrefix removes every key starting with prefix using SCAN.
func (c *RedisCache) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	pattern := escapePattern(prefix) + "*"
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += int(n)
		}
		if next == 0 {
			return deleted, nil
		}
		cursor = next
	}
}

func (c *RedisCache) Driver() string {
	return DriverRedis
}

func escapePattern(prefix string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
	return replacer.Replace(prefix)
}
