package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewArticleRepository(db *bun.DB) repository.Repository[*Article] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Article]{
		NewRecord: func() *Article { return &Article{} },
		GetID: func(a *Article) uuid.UUID {
			return a.ID
		},
		SetID: func(a *Article, id uuid.UUID) {
			a.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(a *Article) string {
			return a.Slug
		},
	})
}

func NewProductRepository(db *bun.DB) repository.Repository[*Product] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Product]{
		NewRecord: func() *Product { return &Product{} },
		GetID: func(p *Product) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Product, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *Product) string {
			return p.Slug
		},
	})
}

// BunArticleRepository implements ArticleRepository on bun.
type BunArticleRepository struct {
	repo repository.Repository[*Article]
}

func NewBunArticleRepository(db *bun.DB) *BunArticleRepository {
	return NewBunArticleRepositoryWithCache(db, nil, nil)
}

// NewBunArticleRepositoryWithCache wraps the bun repository with go-repository-cache when configured.
func NewBunArticleRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunArticleRepository {
	return &BunArticleRepository{repo: wrapWithCache(NewArticleRepository(db), cacheService, keySerializer)}
}

var _ ArticleRepository = (*BunArticleRepository)(nil)

func (r *BunArticleRepository) Create(ctx context.Context, record *Article) (*Article, error) {
	if record == nil || strings.TrimSpace(record.Slug) == "" {
		return nil, ErrSlugRequired
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.repo.Create(ctx, record)
}

func (r *BunArticleRepository) GetBySlug(ctx context.Context, slug string) (*Article, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrSlugRequired
	}
	record, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, TypeArticle, slug)
	}
	return record, nil
}

func (r *BunArticleRepository) FindBySlug(ctx context.Context, slug string, _ time.Time) (Record, error) {
	record, err := r.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// BunProductRepository implements ProductRepository on bun.
type BunProductRepository struct {
	repo repository.Repository[*Product]
}

func NewBunProductRepository(db *bun.DB) *BunProductRepository {
	return NewBunProductRepositoryWithCache(db, nil, nil)
}

// NewBunProductRepositoryWithCache wraps the bun repository with go-repository-cache when configured.
func NewBunProductRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunProductRepository {
	return &BunProductRepository{repo: wrapWithCache(NewProductRepository(db), cacheService, keySerializer)}
}

var _ ProductRepository = (*BunProductRepository)(nil)

func (r *BunProductRepository) Create(ctx context.Context, record *Product) (*Product, error) {
	if record == nil || strings.TrimSpace(record.Slug) == "" {
		return nil, ErrSlugRequired
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.repo.Create(ctx, record)
}

func (r *BunProductRepository) BySlug(ctx context.Context, slug string) (*Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrSlugRequired
	}
	record, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, TypeProduct, slug)
	}
	return record, nil
}

func (r *BunProductRepository) GetBySlug(ctx context.Context, slug string, _ time.Time) (Record, error) {
	record, err := r.BySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunProductRepository) FindActiveBySlug(ctx context.Context, slug string, now time.Time) (Record, error) {
	record, err := r.BySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !IsValid(record, now) {
		return nil, &NotFoundError{Resource: TypeProduct, Key: slug}
	}
	return record, nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
