package pages

import (
	"context"
	"time"

	"github.com/goliatone/go-pageresolver/internal/content"
	"github.com/google/uuid"
)

// PageRepository is the read side consumed by resolution plus the writes
// needed by fixtures.
type PageRepository interface {
	Create(ctx context.Context, page *Page) (*Page, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Page, error)
	GetBySlug(ctx context.Context, slug string) (*Page, error)
	FindPublishedBySlug(ctx context.Context, slug string, now time.Time) (*Page, error)
	FindBySlug(ctx context.Context, slug string, now time.Time) (content.Record, error)
	List(ctx context.Context) ([]*Page, error)
}
