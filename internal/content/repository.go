package content

import (
	"context"
	"time"
)

// ArticleRepository exposes the article lookups used by resolution and
// fixtures. FindBySlug is the lookup method resolution probes for.
type ArticleRepository interface {
	Create(ctx context.Context, record *Article) (*Article, error)
	GetBySlug(ctx context.Context, slug string) (*Article, error)
	FindBySlug(ctx context.Context, slug string, now time.Time) (Record, error)
}

// ProductRepository exposes product lookups. It intentionally offers both
// GetBySlug (any status) and FindActiveBySlug (live only) so resolution
// exercises the probe order.
type ProductRepository interface {
	Create(ctx context.Context, record *Product) (*Product, error)
	BySlug(ctx context.Context, slug string) (*Product, error)
	GetBySlug(ctx context.Context, slug string, now time.Time) (Record, error)
	FindActiveBySlug(ctx context.Context, slug string, now time.Time) (Record, error)
}
