package pages

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-pageresolver/internal/content"
	"github.com/google/uuid"
)

// MemoryPageRepository keeps pages in process memory.
type MemoryPageRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Page
	bySlug map[string]uuid.UUID
}

func NewMemoryPageRepository() *MemoryPageRepository {
	return &MemoryPageRepository{
		byID:   make(map[uuid.UUID]*Page),
		bySlug: make(map[string]uuid.UUID),
	}
}

var _ PageRepository = (*MemoryPageRepository)(nil)

func (m *MemoryPageRepository) Create(_ context.Context, page *Page) (*Page, error) {
	if page == nil || strings.TrimSpace(page.Slug) == "" {
		return nil, ErrSlugRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.bySlug[page.Slug]; exists {
		return nil, ErrSlugExists
	}
	record := clonePage(page)
	prepareForInsert(record)
	m.byID[record.ID] = record
	m.bySlug[record.Slug] = record.ID
	return clonePage(record), nil
}

func (m *MemoryPageRepository) GetByID(_ context.Context, id uuid.UUID) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &PageNotFoundError{Key: id.String()}
	}
	return clonePage(record), nil
}

func (m *MemoryPageRepository) GetBySlug(_ context.Context, slug string) (*Page, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrSlugRequired
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.bySlug[slug]
	if !ok {
		return nil, &PageNotFoundError{Key: slug}
	}
	return clonePage(m.byID[id]), nil
}

func (m *MemoryPageRepository) FindPublishedBySlug(ctx context.Context, slug string, now time.Time) (*Page, error) {
	return findPublished(ctx, m, slug, now)
}

func (m *MemoryPageRepository) FindBySlug(ctx context.Context, slug string, now time.Time) (content.Record, error) {
	return findRecord(ctx, m, slug, now)
}

func (m *MemoryPageRepository) List(_ context.Context) ([]*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Page, 0, len(m.byID))
	for _, record := range m.byID {
		out = append(out, clonePage(record))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func findPublished(ctx context.Context, repo PageRepository, slug string, now time.Time) (*Page, error) {
	page, err := repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !content.IsValid(page, now) {
		return nil, &PageNotFoundError{Key: slug}
	}
	return page, nil
}

func findRecord(ctx context.Context, repo PageRepository, slug string, now time.Time) (content.Record, error) {
	page, err := repo.FindPublishedBySlug(ctx, slug, now)
	if err != nil {
		return nil, err
	}
	return page, nil
}

func prepareForInsert(page *Page) {
	now := time.Now().UTC()
	if page.ID == uuid.Nil {
		page.ID = uuid.New()
	}
	if page.CreatedAt.IsZero() {
		page.CreatedAt = now
	}
	if page.UpdatedAt.IsZero() {
		page.UpdatedAt = now
	}
	for _, block := range page.Blocks {
		if block == nil {
			continue
		}
		if block.ID == uuid.Nil {
			block.ID = uuid.New()
		}
		block.PageID = page.ID
		if block.Value != nil {
			if block.Value.ID == uuid.Nil {
				block.Value.ID = uuid.New()
			}
			block.Value.BlockSettingID = block.ID
		}
	}
	sortBlocks(page.Blocks)
}

func sortBlocks(blocks []*BlockSetting) {
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Position < blocks[j].Position
	})
}

func clonePage(src *Page) *Page {
	if src == nil {
		return nil
	}
	cloned := *src
	if src.ParentID != nil {
		parent := *src.ParentID
		cloned.ParentID = &parent
	}
	cloned.PublishAt = cloneTime(src.PublishAt)
	cloned.UnpublishAt = cloneTime(src.UnpublishAt)
	if src.Blocks != nil {
		cloned.Blocks = make([]*BlockSetting, 0, len(src.Blocks))
		for _, block := range src.Blocks {
			if block == nil {
				continue
			}
			copied := *block
			if block.Value != nil {
				value := *block.Value
				if block.Value.Data != nil {
					value.Data = cloneMap(block.Value.Data)
				}
				copied.Value = &value
			}
			cloned.Blocks = append(cloned.Blocks, &copied)
		}
	}
	return &cloned
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}

func cloneMap(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for key, value := range src {
		if nested, ok := value.(map[string]any); ok {
			out[key] = cloneMap(nested)
			continue
		}
		out[key] = value
	}
	return out
}
