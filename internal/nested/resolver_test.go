package nested_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-pageresolver/internal/blockmap"
	"github.com/goliatone/go-pageresolver/internal/content"
	"github.com/goliatone/go-pageresolver/internal/lookup"
	"github.com/goliatone/go-pageresolver/internal/nested"
	"github.com/goliatone/go-pageresolver/internal/pages"
	"github.com/goliatone/go-pageresolver/pkg/testsupport"
)

var fixedNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type vehicle struct {
	slug string
}

func (v *vehicle) RecordID() string   { return "vehicle:" + v.slug }
func (v *vehicle) RecordType() string { return "vehicle" }

// vehicleRepository answers FindBySlug for a fixed set of slugs.
type vehicleRepository struct {
	slugs map[string]bool
	calls []string
	fail  bool
}

func (r *vehicleRepository) FindBySlug(_ context.Context, slug string, _ time.Time) (content.Record, error) {
	r.calls = append(r.calls, slug)
	if r.fail {
		return nil, errors.New("database unavailable")
	}
	if r.slugs[slug] {
		return &vehicle{slug: slug}, nil
	}
	return nil, content.ErrNotFound
}

type harness struct {
	pages    *pages.MemoryPageRepository
	registry *lookup.Registry
	mappings *blockmap.Map
	logger   *testsupport.RecordingLogger
	resolver *nested.Resolver
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		pages:    pages.NewMemoryPageRepository(),
		registry: lookup.NewRegistry(),
		mappings: blockmap.New(blockmap.NewMemorySource()),
		logger:   testsupport.NewRecordingLogger(),
	}
	finder := lookup.NewService(h.registry, lookup.WithLogger(h.logger))
	h.resolver = nested.NewResolver(h.pages, finder, h.mappings,
		nested.WithClock(func() time.Time { return fixedNow }),
		nested.WithLogger(h.logger),
	)
	return h
}

func (h *harness) page(t *testing.T, slug string, blocks ...*pages.BlockSetting) *pages.Page {
	t.Helper()
	page, err := h.pages.Create(context.Background(), &pages.Page{Slug: slug, Status: pages.StatusPublished, Blocks: blocks})
	if err != nil {
		t.Fatalf("create page %s: %v", slug, err)
	}
	return page
}

func block(blockType string, data map[string]any) *pages.BlockSetting {
	return &pages.BlockSetting{BlockType: blockType, Value: &pages.BlockValue{Data: data}}
}

func TestResolveEndToEndFallbackMapping(t *testing.T) {
	h := newHarness(t)
	repo := &vehicleRepository{slugs: map[string]bool{"civic-2024": true}}
	if err := h.registry.Register("VehicleRepository", repo); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := h.mappings.Set("vehicle-list", []string{"VehicleRepository"}); err != nil {
		t.Fatalf("mapping: %v", err)
	}
	cars := h.page(t, "/cars", block("vehicle-list", map[string]any{"title": "Cars"}))

	match, ok := h.resolver.Resolve(context.Background(), "/cars/civic-2024")
	if !ok {
		t.Fatalf("expected nested match")
	}
	if match.ParentPage.ID != cars.ID || match.ChildSlug != "civic-2024" || match.RepositoryHandle != "VehicleRepository" {
		t.Fatalf("unexpected match %+v", match)
	}
	if match.Content.RecordID() != "vehicle:civic-2024" {
		t.Fatalf("unexpected content %v", match.Content)
	}
}

func TestResolveFirstPrefixWins(t *testing.T) {
	h := newHarness(t)
	repo := &vehicleRepository{slugs: map[string]bool{"b/c": true, "c": true}}
	_ = h.registry.Register("VehicleRepository", repo)
	_ = h.mappings.Set("vehicle-list", []string{"VehicleRepository"})

	a := h.page(t, "/a", block("vehicle-list", map[string]any{}))
	h.page(t, "/a/b", block("vehicle-list", map[string]any{}))

	match, ok := h.resolver.Resolve(context.Background(), "/a/b/c")
	if !ok {
		t.Fatalf("expected match")
	}
	if match.ParentPage.ID != a.ID || match.ChildSlug != "b/c" {
		t.Fatalf("expected match rooted at /a, got parent %s child %q", match.ParentPage.Slug, match.ChildSlug)
	}
}

func TestResolveExplicitMissFallsBackToMapping(t *testing.T) {
	h := newHarness(t)
	explicit := &vehicleRepository{slugs: map[string]bool{}}
	fallback := &vehicleRepository{slugs: map[string]bool{"item": true}}
	_ = h.registry.Register("ExplicitRepository", explicit)
	_ = h.registry.Register("FallbackRepository", fallback)
	_ = h.mappings.Set("listing", []string{"FallbackRepository"})

	h.page(t, "/shop",
		block("listing", map[string]any{"repository": "ExplicitRepository"}),
		block("listing", map[string]any{}),
	)

	match, ok := h.resolver.Resolve(context.Background(), "/shop/item")
	if !ok || match.RepositoryHandle != "FallbackRepository" {
		t.Fatalf("expected fallback match, got %+v %v", match, ok)
	}
	if len(explicit.calls) != 1 {
		t.Fatalf("expected explicit repository to be tried first, got %v", explicit.calls)
	}
}

func TestResolveExplicitRepositoryWins(t *testing.T) {
	h := newHarness(t)
	explicit := &vehicleRepository{slugs: map[string]bool{"item": true}}
	fallback := &vehicleRepository{slugs: map[string]bool{"item": true}}
	_ = h.registry.Register("ExplicitRepository", explicit)
	_ = h.registry.Register("FallbackRepository", fallback)
	_ = h.mappings.Set("listing", []string{"FallbackRepository"})

	h.page(t, "/shop",
		block("listing", map[string]any{}),
		block("listing", map[string]any{"data": `{"repository":"ExplicitRepository"}`}),
	)

	match, ok := h.resolver.Resolve(context.Background(), "/shop/item")
	if !ok || match.RepositoryHandle != "ExplicitRepository" {
		t.Fatalf("expected explicit match, got %+v", match)
	}
	if len(fallback.calls) != 0 {
		t.Fatalf("expected fallback to be skipped, got %v", fallback.calls)
	}
}

func TestResolveOnlyFirstFallbackTypeIsTried(t *testing.T) {
	h := newHarness(t)
	first := &vehicleRepository{slugs: map[string]bool{}}
	second := &vehicleRepository{slugs: map[string]bool{"x": true}}
	_ = h.registry.Register("First", first)
	_ = h.registry.Register("Second", second)
	_ = h.mappings.Set("alpha", []string{"First"})
	_ = h.mappings.Set("beta", []string{"Second"})

	h.page(t, "/p", block("alpha", nil), block("beta", nil))

	if _, ok := h.resolver.Resolve(context.Background(), "/p/x"); ok {
		t.Fatalf("expected only the first fallback block type to be used")
	}
	if len(second.calls) != 0 {
		t.Fatalf("expected second fallback type to be ignored, got %v", second.calls)
	}
}

func TestResolveSkipsUnmappedAndValuelessBlocks(t *testing.T) {
	h := newHarness(t)
	repo := &vehicleRepository{slugs: map[string]bool{"x": true}}
	_ = h.registry.Register("Repo", repo)
	_ = h.mappings.Set("mapped", []string{"Repo"})

	h.page(t, "/p",
		block("unmapped", map[string]any{"repository": "Repo"}),
		&pages.BlockSetting{BlockType: "mapped"},
	)

	if _, ok := h.resolver.Resolve(context.Background(), "/p/x"); ok {
		t.Fatalf("expected no match")
	}
	if len(repo.calls) != 0 {
		t.Fatalf("expected no lookups, got %v", repo.calls)
	}
}

func TestResolveRequiresChildSegment(t *testing.T) {
	h := newHarness(t)
	repo := &vehicleRepository{slugs: map[string]bool{"a": true, "": true}}
	_ = h.registry.Register("Repo", repo)
	_ = h.mappings.Set("list", []string{"Repo"})
	h.page(t, "/a", block("list", nil))

	for _, slug := range []string{"/a", "/", ""} {
		if _, ok := h.resolver.Resolve(context.Background(), slug); ok {
			t.Fatalf("expected %q not to produce a nested match", slug)
		}
	}
	if len(repo.calls) != 0 {
		t.Fatalf("expected no lookups, got %v", repo.calls)
	}
}

func TestResolveFailSoftAcrossPrefixes(t *testing.T) {
	h := newHarness(t)
	broken := &vehicleRepository{fail: true}
	healthy := &vehicleRepository{slugs: map[string]bool{"c": true}}
	_ = h.registry.Register("Broken", broken)
	_ = h.registry.Register("Healthy", healthy)
	_ = h.mappings.Set("broken-list", []string{"Broken"})
	_ = h.mappings.Set("healthy-list", []string{"Healthy"})

	h.page(t, "/a", block("broken-list", nil))
	b := h.page(t, "/a/b", block("healthy-list", nil))

	match, ok := h.resolver.Resolve(context.Background(), "/a/b/c")
	if !ok || match.ParentPage.ID != b.ID {
		t.Fatalf("expected match under /a/b, got %+v %v", match, ok)
	}
	if len(broken.calls) != 1 {
		t.Fatalf("expected broken repository to be attempted, got %v", broken.calls)
	}
	if len(h.logger.Find("warn", "lookup.method.failed")) != 1 {
		t.Fatalf("expected a warning for the failing repository, got %+v", h.logger.Entries())
	}
}

func TestResolveIgnoresUnpublishedParents(t *testing.T) {
	h := newHarness(t)
	repo := &vehicleRepository{slugs: map[string]bool{"x": true}}
	_ = h.registry.Register("Repo", repo)
	_ = h.mappings.Set("list", []string{"Repo"})
	if _, err := h.pages.Create(context.Background(), &pages.Page{
		Slug:   "/draft",
		Status: pages.StatusDraft,
		Blocks: []*pages.BlockSetting{block("list", nil)},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, ok := h.resolver.Resolve(context.Background(), "/draft/x"); ok {
		t.Fatalf("expected draft parent to be ignored")
	}
}

type failingPages struct{}

func (failingPages) FindPublishedBySlug(context.Context, string, time.Time) (*pages.Page, error) {
	return nil, errors.New("connection refused")
}

func TestResolvePageLookupErrorsAreMisses(t *testing.T) {
	logger := testsupport.NewRecordingLogger()
	mappings := blockmap.New(blockmap.NewMemorySource())
	_ = mappings.Set("list", []string{"Repo"})
	resolver := nested.NewResolver(failingPages{}, lookup.NewService(lookup.NewRegistry()), mappings, nested.WithLogger(logger))

	if _, ok := resolver.Resolve(context.Background(), "/a/b/c"); ok {
		t.Fatalf("expected miss")
	}
	if got := len(logger.Find("warn", "nested.parent.lookup_failed")); got != 2 {
		t.Fatalf("expected a warning per prefix, got %d", got)
	}
}

func TestResolveEmptyMappingShortCircuits(t *testing.T) {
	h := newHarness(t)
	repo := &vehicleRepository{slugs: map[string]bool{"x": true}}
	_ = h.registry.Register("Repo", repo)
	h.page(t, "/p", block("list", map[string]any{"repository": "Repo"}))

	if _, ok := h.resolver.Resolve(context.Background(), "/p/x"); ok {
		t.Fatalf("expected no match without mappings")
	}
	if len(repo.calls) != 0 {
		t.Fatalf("expected no lookups, got %v", repo.calls)
	}
}

func TestResolvePanickingFactoryFallsBackToMapping(t *testing.T) {
	h := newHarness(t)
	_ = h.registry.RegisterFactory("BrokenRepository", func() (any, error) { panic("boom") })
	_ = h.registry.Register("VehicleRepository", &vehicleRepository{slugs: map[string]bool{"civic-2024": true}})
	_ = h.mappings.Set("vehicle-list", []string{"VehicleRepository"})

	h.page(t, "/cars",
		block("vehicle-list", map[string]any{"repository": "BrokenRepository"}),
		block("vehicle-list", map[string]any{}),
	)

	match, ok := h.resolver.Resolve(context.Background(), "/cars/civic-2024")
	if !ok || match.RepositoryHandle != "VehicleRepository" {
		t.Fatalf("expected fallback match, got %+v %v", match, ok)
	}
	if len(h.logger.Find("warn", "lookup.repository.unavailable")) != 1 {
		t.Fatalf("expected factory failure warning, got %+v", h.logger.Entries())
	}
}

func TestResolveTypeMappedToNoHandlesIsFirstFallback(t *testing.T) {
	source := blockmap.NewMemorySource()
	source.Set(blockmap.DefaultKey, map[string]any{
		"placeholder": []any{},
		"listing":     []string{"Listing"},
	})
	registry := lookup.NewRegistry()
	listing := &vehicleRepository{slugs: map[string]bool{"x": true}}
	_ = registry.Register("Listing", listing)
	repo := pages.NewMemoryPageRepository()
	if _, err := repo.Create(context.Background(), &pages.Page{
		Slug:   "/p",
		Status: pages.StatusPublished,
		Blocks: []*pages.BlockSetting{block("placeholder", nil), block("listing", nil)},
	}); err != nil {
		t.Fatalf("create page: %v", err)
	}
	resolver := nested.NewResolver(repo, lookup.NewService(registry), blockmap.New(source),
		nested.WithClock(func() time.Time { return fixedNow }),
	)

	if _, ok := resolver.Resolve(context.Background(), "/p/x"); ok {
		t.Fatalf("expected the empty placeholder mapping to be the fallback candidate")
	}
	if len(listing.calls) != 0 {
		t.Fatalf("expected later fallback types to be ignored, got %v", listing.calls)
	}
}
