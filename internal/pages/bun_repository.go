package pages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-pageresolver/internal/content"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewPageRepository(db *bun.DB) repository.Repository[*Page] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Page]{
		NewRecord: func() *Page { return &Page{} },
		GetID: func(p *Page) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Page, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *Page) string {
			return p.Slug
		},
	})
}

type BunPageRepository struct {
	db   *bun.DB
	repo repository.Repository[*Page]
}

func NewBunPageRepository(db *bun.DB) *BunPageRepository {
	return NewBunPageRepositoryWithCache(db, nil, nil)
}

// NewBunPageRepositoryWithCache constructs a PageRepository backed by bun with optional caching.
func NewBunPageRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunPageRepository {
	return &BunPageRepository{
		db:   db,
		repo: wrapWithCache(NewPageRepository(db), cacheService, keySerializer),
	}
}

var _ PageRepository = (*BunPageRepository)(nil)

// Create inserts the page together with its block settings and values.
func (r *BunPageRepository) Create(ctx context.Context, page *Page) (*Page, error) {
	if page == nil || strings.TrimSpace(page.Slug) == "" {
		return nil, ErrSlugRequired
	}
	if r.db == nil {
		return nil, fmt.Errorf("page repository: database not configured")
	}

	record := clonePage(page)
	prepareForInsert(record)
	blocks := record.Blocks

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
			return fmt.Errorf("insert page: %w", err)
		}
		for _, block := range blocks {
			if _, err := tx.NewInsert().Model(block).Exec(ctx); err != nil {
				return fmt.Errorf("insert block setting: %w", err)
			}
			if block.Value == nil {
				continue
			}
			if _, err := tx.NewInsert().Model(block.Value).Exec(ctx); err != nil {
				return fmt.Errorf("insert block value: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return clonePage(record), nil
}

func (r *BunPageRepository) GetByID(ctx context.Context, id uuid.UUID) (*Page, error) {
	key := id.String()
	record, err := r.repo.GetByID(ctx, key, repository.SelectRawProcessor(withBlocks))
	if err != nil {
		return nil, mapRepositoryError(err, key)
	}
	return record, nil
}

// GetBySlug passes the slug as the identifier so cached lookups are keyed per slug.
func (r *BunPageRepository) GetBySlug(ctx context.Context, slug string) (*Page, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrSlugRequired
	}
	record, err := r.repo.GetByIdentifier(ctx, slug, repository.SelectRawProcessor(withBlocks))
	if err != nil {
		return nil, mapRepositoryError(err, slug)
	}
	return record, nil
}

func (r *BunPageRepository) FindPublishedBySlug(ctx context.Context, slug string, now time.Time) (*Page, error) {
	return findPublished(ctx, r, slug, now)
}

func (r *BunPageRepository) FindBySlug(ctx context.Context, slug string, now time.Time) (content.Record, error) {
	return findRecord(ctx, r, slug, now)
}

func (r *BunPageRepository) List(ctx context.Context) ([]*Page, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(withBlocks),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.slug ASC")
		}),
	)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func withBlocks(q *bun.SelectQuery) *bun.SelectQuery {
	return q.
		Relation("Blocks", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.position ASC")
		}).
		Relation("Blocks.Value")
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &PageNotFoundError{Key: key}
	}
	return fmt.Errorf("page repository error: %w", err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
