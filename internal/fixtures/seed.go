package fixtures

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-pageresolver/internal/content"
	"github.com/goliatone/go-pageresolver/internal/identity"
	"github.com/goliatone/go-pageresolver/internal/logging"
	"github.com/goliatone/go-pageresolver/internal/pages"
	"github.com/goliatone/go-pageresolver/internal/slugs"
	"github.com/goliatone/go-pageresolver/pkg/interfaces"
	"github.com/goliatone/go-slug"
)

var ErrParentCycle = errors.New("fixtures: page parents form a cycle")

// MappingWriter stores block type mappings.
type MappingWriter interface {
	Set(blockType string, handles []string) error
}

// Seeder writes fixture documents into repositories.
type Seeder struct {
	Pages    pages.PageRepository
	Articles content.ArticleRepository
	Products content.ProductRepository
	Mappings MappingWriter
	Logger   interfaces.Logger
}

// Summary counts what a seed run created.
type Summary struct {
	Pages    int
	Articles int
	Products int
	Mappings int
}

// Seed creates every entry of doc. Pages are created parents first and get
// deterministic ids derived from their slugs.
func (s *Seeder) Seed(ctx context.Context, doc *Document) (Summary, error) {
	var summary Summary
	if doc == nil {
		return summary, nil
	}
	logger := s.Logger
	if logger == nil {
		logger = logging.FixturesLogger(nil)
	}

	if s.Pages != nil {
		ordered, err := orderPages(doc.Pages)
		if err != nil {
			return summary, err
		}
		for _, fixture := range ordered {
			page, err := buildPage(fixture)
			if err != nil {
				return summary, err
			}
			if _, err := s.Pages.Create(ctx, page); err != nil {
				return summary, fmt.Errorf("fixtures: create page %s: %w", page.Slug, err)
			}
			summary.Pages++
		}
	}

	if s.Articles != nil {
		for _, fixture := range doc.Articles {
			article, err := buildArticle(fixture)
			if err != nil {
				return summary, err
			}
			if _, err := s.Articles.Create(ctx, article); err != nil {
				return summary, fmt.Errorf("fixtures: create article %s: %w", article.Slug, err)
			}
			summary.Articles++
		}
	}

	if s.Products != nil {
		for _, fixture := range doc.Products {
			product, err := buildProduct(fixture)
			if err != nil {
				return summary, err
			}
			if _, err := s.Products.Create(ctx, product); err != nil {
				return summary, fmt.Errorf("fixtures: create product %s: %w", product.Slug, err)
			}
			summary.Products++
		}
	}

	if s.Mappings != nil {
		types := make([]string, 0, len(doc.Mappings))
		for blockType := range doc.Mappings {
			types = append(types, blockType)
		}
		sort.Strings(types)
		for _, blockType := range types {
			if err := s.Mappings.Set(blockType, doc.Mappings[blockType]); err != nil {
				return summary, fmt.Errorf("fixtures: mapping %s: %w", blockType, err)
			}
			summary.Mappings++
		}
	}

	logger.Info("fixtures.seed.completed",
		"pages", summary.Pages,
		"articles", summary.Articles,
		"products", summary.Products,
		"mappings", summary.Mappings,
	)
	return summary, nil
}

// orderPages sorts pages so that every declared parent precedes its children.
// Parents not declared in the document are assumed to exist already.
func orderPages(list []PageFixture) ([]PageFixture, error) {
	declared := make(map[string]bool, len(list))
	for _, fixture := range list {
		declared[slugs.Normalize(fixture.Slug)] = true
	}

	placed := make(map[string]bool, len(list))
	out := make([]PageFixture, 0, len(list))
	remaining := list
	for len(remaining) > 0 {
		var deferred []PageFixture
		for _, fixture := range remaining {
			parent := parentSlug(fixture)
			if parent == "" || placed[parent] || !declared[parent] {
				out = append(out, fixture)
				placed[slugs.Normalize(fixture.Slug)] = true
				continue
			}
			deferred = append(deferred, fixture)
		}
		if len(deferred) == len(remaining) {
			return nil, fmt.Errorf("%w: %s", ErrParentCycle, deferred[0].Slug)
		}
		remaining = deferred
	}
	return out, nil
}

func parentSlug(fixture PageFixture) string {
	if strings.TrimSpace(fixture.Parent) == "" {
		return ""
	}
	return slugs.Normalize(fixture.Parent)
}

func buildPage(fixture PageFixture) (*pages.Page, error) {
	slug := slugs.Normalize(fixture.Slug)
	page := &pages.Page{
		ID:          identity.PageUUID(slug),
		Slug:        slug,
		Title:       strings.TrimSpace(fixture.Title),
		Status:      defaultStatus(fixture.Status),
		PublishAt:   fixture.PublishAt,
		UnpublishAt: fixture.UnpublishAt,
	}
	if parent := parentSlug(fixture); parent != "" {
		if parent == slug {
			return nil, fmt.Errorf("%w: %s is its own parent", ErrParentCycle, slug)
		}
		parentID := identity.PageUUID(parent)
		page.ParentID = &parentID
	}

	for i, block := range fixture.Blocks {
		position := i
		if block.Position != nil {
			position = *block.Position
		}
		setting := &pages.BlockSetting{
			ID:        identity.BlockSettingUUID(page.ID, i, block.Type),
			PageID:    page.ID,
			BlockType: strings.TrimSpace(block.Type),
			Position:  position,
		}
		if block.Data != nil {
			setting.Value = &pages.BlockValue{
				ID:             identity.BlockValueUUID(setting.ID),
				BlockSettingID: setting.ID,
				Data:           block.Data,
			}
		}
		page.Blocks = append(page.Blocks, setting)
	}
	return page, nil
}

func buildArticle(fixture ArticleFixture) (*content.Article, error) {
	slugValue, err := contentSlug(fixture.Slug, fixture.Title)
	if err != nil {
		return nil, fmt.Errorf("fixtures: article %q: %w", fixture.Title, err)
	}
	return &content.Article{
		ID:          identity.ContentUUID(content.TypeArticle, slugValue),
		Title:       strings.TrimSpace(fixture.Title),
		Slug:        slugValue,
		Status:      defaultStatus(fixture.Status),
		Summary:     fixture.Summary,
		Body:        fixture.Body,
		PublishedAt: fixture.PublishedAt,
		ExpiredAt:   fixture.ExpiredAt,
	}, nil
}

func buildProduct(fixture ProductFixture) (*content.Product, error) {
	slugValue, err := contentSlug(fixture.Slug, fixture.Name)
	if err != nil {
		return nil, fmt.Errorf("fixtures: product %q: %w", fixture.Name, err)
	}
	return &content.Product{
		ID:          identity.ContentUUID(content.TypeProduct, slugValue),
		Name:        strings.TrimSpace(fixture.Name),
		Slug:        slugValue,
		SKU:         fixture.SKU,
		Status:      defaultStatus(fixture.Status),
		PriceCents:  fixture.PriceCents,
		Currency:    strings.ToUpper(strings.TrimSpace(fixture.Currency)),
		PublishedAt: fixture.PublishedAt,
		ExpiredAt:   fixture.ExpiredAt,
	}, nil
}

// contentSlug keeps an explicit slug and otherwise derives one from title.
func contentSlug(explicit, title string) (string, error) {
	if trimmed := strings.TrimSpace(explicit); trimmed != "" {
		return trimmed, nil
	}
	derived, err := slug.Normalize(title)
	if err != nil {
		return "", err
	}
	if derived == "" {
		return "", content.ErrSlugRequired
	}
	return derived, nil
}

func defaultStatus(status string) string {
	if trimmed := strings.TrimSpace(status); trimmed != "" {
		return strings.ToLower(trimmed)
	}
	return content.StatusPublished
}

