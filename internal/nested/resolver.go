package nested

import (
	"context"
	"time"

	"github.com/goliatone/go-pageresolver/internal/blockmap"
	"github.com/goliatone/go-pageresolver/internal/content"
	"github.com/goliatone/go-pageresolver/internal/logging"
	"github.com/goliatone/go-pageresolver/internal/pages"
	"github.com/goliatone/go-pageresolver/internal/slugs"
	"github.com/goliatone/go-pageresolver/pkg/interfaces"
)

// PageFinder returns pages that are published as of now.
type PageFinder interface {
	FindPublishedBySlug(ctx context.Context, slug string, now time.Time) (*pages.Page, error)
}

// ContentFinder looks content up through a named repository handle.
type ContentFinder interface {
	Find(ctx context.Context, handle, slug string, now time.Time) (content.Record, bool)
}

// MappingSource exposes the block type to repository handles mapping.
type MappingSource interface {
	Mapping() map[string][]string
}

// Match is a nested URL resolved below a static parent page.
type Match struct {
	Content          content.Record
	ParentPage       *pages.Page
	ChildSlug        string
	RepositoryHandle string
}

// Resolver splits a slug into parent page and child content.
type Resolver struct {
	pages    PageFinder
	content  ContentFinder
	mappings MappingSource
	now      func() time.Time
	logger   interfaces.Logger
}

// Option customises the resolver.
type Option func(*Resolver)

// WithClock overrides the time source used for publication checks.
func WithClock(clock func() time.Time) Option {
	return func(r *Resolver) {
		if clock != nil {
			r.now = clock
		}
	}
}

// WithLogger overrides the resolver logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewResolver(pageFinder PageFinder, contentFinder ContentFinder, mappings MappingSource, opts ...Option) *Resolver {
	r := &Resolver{
		pages:    pageFinder,
		content:  contentFinder,
		mappings: mappings,
		now:      time.Now,
		logger:   logging.NestedLogger(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Resolve tries every parent prefix of slug from shortest to longest and
// returns the first one whose blocks yield the remaining segments as content.
// A match always leaves at least one child segment.
func (r *Resolver) Resolve(ctx context.Context, slug string) (*Match, bool) {
	segments := slugs.Segments(slug)
	if len(segments) < 2 {
		return nil, false
	}
	now := r.now()

	for i := 0; i < len(segments)-1; i++ {
		if err := ctx.Err(); err != nil {
			r.logger.Debug("nested.resolve.cancelled", "slug", slug, "error", err)
			return nil, false
		}

		parentSlug := slugs.Path(segments[:i+1])
		childSlug := slugs.Relative(segments[i+1:])

		parent := r.findParent(ctx, parentSlug, now)
		if parent == nil {
			continue
		}

		if record, handle, ok := r.findNestedContent(ctx, parent, childSlug, now); ok {
			return &Match{
				Content:          record,
				ParentPage:       parent,
				ChildSlug:        childSlug,
				RepositoryHandle: handle,
			}, true
		}
	}
	return nil, false
}

func (r *Resolver) findParent(ctx context.Context, slug string, now time.Time) *pages.Page {
	page, err := r.pages.FindPublishedBySlug(ctx, slug, now)
	if err != nil {
		if !pages.IsNotFound(err) {
			r.logger.Warn("nested.parent.lookup_failed", "parent_slug", slug, "error", err)
		}
		return nil
	}
	return page
}

func (r *Resolver) findNestedContent(ctx context.Context, parent *pages.Page, childSlug string, now time.Time) (content.Record, string, bool) {
	mapping := r.mappings.Mapping()
	if len(mapping) == 0 {
		return nil, "", false
	}

	var fallback []string
	for _, block := range parent.Blocks {
		if block == nil || block.Value == nil {
			continue
		}
		blockType := blockmap.NormalizeType(block.BlockType)
		if _, mapped := mapping[blockType]; !mapped {
			continue
		}

		handle, explicit := block.Value.Repository()
		if !explicit {
			fallback = append(fallback, blockType)
			continue
		}
		if record, ok := r.content.Find(ctx, handle, childSlug, now); ok {
			return record, handle, true
		}
	}

	if len(fallback) == 0 {
		return nil, "", false
	}
	for _, handle := range mapping[fallback[0]] {
		if record, ok := r.content.Find(ctx, handle, childSlug, now); ok {
			return record, handle, true
		}
	}
	return nil, "", false
}
