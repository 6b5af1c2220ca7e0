package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by CacheProvider.Get when no entry exists for the key.
var ErrCacheMiss = errors.New("cache: miss")

// CacheProvider is the key/value store used to memoise resolution results.
type CacheProvider interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// PrefixInvalidator is implemented by cache providers able to evict every
// entry sharing a key prefix.
type PrefixInvalidator interface {
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)
}
