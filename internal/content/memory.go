package content

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryArticleRepository is an in-memory article store for tests and demos.
type MemoryArticleRepository struct {
	mu     sync.RWMutex
	bySlug map[string]*Article
}

// NewMemoryArticleRepository constructs an empty store.
func NewMemoryArticleRepository() *MemoryArticleRepository {
	return &MemoryArticleRepository{bySlug: make(map[string]*Article)}
}

var _ ArticleRepository = (*MemoryArticleRepository)(nil)

// Create stores a copy of the record, keyed by slug.
func (m *MemoryArticleRepository) Create(_ context.Context, record *Article) (*Article, error) {
	if record == nil || strings.TrimSpace(record.Slug) == "" {
		return nil, ErrSlugRequired
	}
	copied := *record
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	m.mu.Lock()
	m.bySlug[copied.Slug] = &copied
	m.mu.Unlock()
	out := copied
	return &out, nil
}

// GetBySlug returns the article stored under slug regardless of status.
func (m *MemoryArticleRepository) GetBySlug(_ context.Context, slug string) (*Article, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrSlugRequired
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.bySlug[slug]
	if !ok {
		return nil, &NotFoundError{Resource: TypeArticle, Key: slug}
	}
	out := *record
	return &out, nil
}

// FindBySlug adapts GetBySlug to the resolution lookup contract.
func (m *MemoryArticleRepository) FindBySlug(ctx context.Context, slug string, _ time.Time) (Record, error) {
	record, err := m.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// MemoryProductRepository is an in-memory product store.
type MemoryProductRepository struct {
	mu     sync.RWMutex
	bySlug map[string]*Product
}

// NewMemoryProductRepository constructs an empty store.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{bySlug: make(map[string]*Product)}
}

var _ ProductRepository = (*MemoryProductRepository)(nil)

func (m *MemoryProductRepository) Create(_ context.Context, record *Product) (*Product, error) {
	if record == nil || strings.TrimSpace(record.Slug) == "" {
		return nil, ErrSlugRequired
	}
	copied := *record
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	m.mu.Lock()
	m.bySlug[copied.Slug] = &copied
	m.mu.Unlock()
	out := copied
	return &out, nil
}

func (m *MemoryProductRepository) BySlug(_ context.Context, slug string) (*Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrSlugRequired
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.bySlug[slug]
	if !ok {
		return nil, &NotFoundError{Resource: TypeProduct, Key: slug}
	}
	out := *record
	return &out, nil
}

func (m *MemoryProductRepository) GetBySlug(ctx context.Context, slug string, _ time.Time) (Record, error) {
	record, err := m.BySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// FindActiveBySlug only returns products that are live at now.
func (m *MemoryProductRepository) FindActiveBySlug(ctx context.Context, slug string, now time.Time) (Record, error) {
	record, err := m.BySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !IsValid(record, now) {
		return nil, &NotFoundError{Resource: TypeProduct, Key: slug}
	}
	return record, nil
}
