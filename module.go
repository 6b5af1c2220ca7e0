package pageresolver

import (
	"context"
	"net/http"

	"github.com/goliatone/go-pageresolver/internal/content"
	"github.com/goliatone/go-pageresolver/internal/di"
	"github.com/goliatone/go-pageresolver/internal/fixtures"
	resolverhttp "github.com/goliatone/go-pageresolver/internal/http"
	"github.com/goliatone/go-pageresolver/internal/logging"
	"github.com/goliatone/go-pageresolver/internal/pages"
	"github.com/goliatone/go-pageresolver/internal/resolution"
)

// ResolvedPage is the outcome of a successful resolution.
type ResolvedPage = resolution.ResolvedPage

// RootPage wraps a static page matched by its full slug.
type RootPage = resolution.RootPage

// NestedPage wraps content found below a static parent page.
type NestedPage = resolution.NestedPage

// Kind tags a ResolvedPage as root or nested.
type Kind = resolution.Kind

const (
	KindRoot   = resolution.KindRoot
	KindNested = resolution.KindNested
)

// Page exports the static page model.
type Page = pages.Page

// Record is implemented by every resolvable content item.
type Record = content.Record

// CacheStats describes the result cache configuration.
type CacheStats = resolution.CacheStats

// FixtureDocument is a parsed fixture file.
type FixtureDocument = fixtures.Document

// SeedSummary counts what a seed run created.
type SeedSummary = fixtures.Summary

// Option customises the dependency container.
type Option = di.Option

var (
	WithBunDB            = di.WithBunDB
	WithCache            = di.WithCache
	WithCacheProvider    = di.WithCacheProvider
	WithLoggerProvider   = di.WithLoggerProvider
	WithConfigSource     = di.WithConfigSource
	WithClock            = di.WithClock
	WithPageRepository   = di.WithPageRepository
	WithLookupRepository = di.WithLookupRepository
	WithLookupFactory    = di.WithLookupFactory
)

// Module represents the top level page resolution runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a resolver module from cfg. SQL storage is migrated first
// when cfg.Storage.AutoMigrate is set.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if cfg.Storage.AutoMigrate && container.BunDB() != nil {
		if err := Migrate(context.Background(), container.BunDB()); err != nil {
			_ = container.Close()
			return nil, err
		}
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Close releases connections owned by the module.
func (m *Module) Close() error {
	return m.container.Close()
}

// Resolve maps a URL slug to a static page or to content nested below one.
// It returns nil when nothing matches and never surfaces errors.
func (m *Module) Resolve(ctx context.Context, slug string) *ResolvedPage {
	return m.container.ResolutionService().Resolve(ctx, slug)
}

// Hierarchy returns the ancestor chain of resolved, root first.
func (m *Module) Hierarchy(ctx context.Context, resolved *ResolvedPage) []*Page {
	return m.container.ResolutionService().Hierarchy(ctx, resolved)
}

func (m *Module) ClearPageCache(ctx context.Context, slug string) error {
	return m.container.ResolutionService().ClearPageCache(ctx, slug)
}

// ClearAllPageCache evicts every cached result the driver can enumerate.
func (m *Module) ClearAllPageCache(ctx context.Context) (int, error) {
	return m.container.ResolutionService().ClearAllPageCache(ctx)
}

func (m *Module) CacheStats() CacheStats {
	return m.container.ResolutionService().CacheStats()
}

// AddBlockMapping maps a block type to one or more repository handles.
func (m *Module) AddBlockMapping(blockType string, handles ...string) error {
	return m.container.ResolutionService().AddBlockMapping(blockType, handles...)
}

func (m *Module) HasBlockMapping(blockType string) bool {
	return m.container.ResolutionService().HasBlockMapping(blockType)
}

func (m *Module) BlockMappings() map[string][]string {
	return m.container.ResolutionService().BlockMappings()
}

// RepositoryHandles lists the lookup handles available to block mappings.
func (m *Module) RepositoryHandles() []string {
	return m.container.LookupRegistry().Handles()
}

// HTTPHandler serves resolution, mapping and cache routes below base.
func (m *Module) HTTPHandler(base string) http.Handler {
	api := resolverhttp.NewAPI(
		m.container.ResolutionService(),
		resolverhttp.WithLogger(logging.HTTPLogger(m.container.LoggerProvider())),
	)
	return api.Handler(base)
}

// Seed writes a fixture document into the configured repositories.
func (m *Module) Seed(ctx context.Context, doc *FixtureDocument) (SeedSummary, error) {
	return m.container.Seeder().Seed(ctx, doc)
}

// SeedFile loads, validates and seeds the fixture file at path.
func (m *Module) SeedFile(ctx context.Context, path string) (SeedSummary, error) {
	doc, err := fixtures.Load(path)
	if err != nil {
		return SeedSummary{}, err
	}
	return m.Seed(ctx, doc)
}
