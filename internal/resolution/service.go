package resolution

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/goliatone/go-pageresolver/internal/identity"
	"github.com/goliatone/go-pageresolver/internal/logging"
	"github.com/goliatone/go-pageresolver/internal/nested"
	"github.com/goliatone/go-pageresolver/internal/pages"
	"github.com/goliatone/go-pageresolver/internal/slugs"
	"github.com/goliatone/go-pageresolver/pkg/interfaces"
	"github.com/google/uuid"
)

const (
	DefaultNamespace = "page_resolution:"
	DefaultTTL       = time.Hour
)

// PageRepository is the static page access the facade needs.
type PageRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*pages.Page, error)
	FindPublishedBySlug(ctx context.Context, slug string, now time.Time) (*pages.Page, error)
}

// NestedResolver resolves slugs below static parent pages.
type NestedResolver interface {
	Resolve(ctx context.Context, slug string) (*nested.Match, bool)
}

// BlockMappings is the administrative surface of the block repository map.
type BlockMappings interface {
	Mapping() map[string][]string
	Has(blockType string) bool
	Set(blockType string, handles []string) error
}

// CacheStats describes the facade cache configuration.
type CacheStats struct {
	Namespace string        `json:"namespace"`
	TTL       time.Duration `json:"ttl"`
	Driver    string        `json:"driver"`
	Enabled   bool          `json:"enabled"`
}

// Service resolves URL slugs into static pages or nested content.
type Service struct {
	pages      PageRepository
	nested     NestedResolver
	mappings   BlockMappings
	cache      interfaces.CacheProvider
	dedicated  bool
	production bool
	namespace  string
	ttl        time.Duration
	now        func() time.Time
	logger     interfaces.Logger
}

// ServiceOption configures the resolution facade.
type ServiceOption func(*Service)

// WithCache wires the cache provider used in production.
func WithCache(provider interfaces.CacheProvider) ServiceOption {
	return func(s *Service) {
		s.cache = provider
	}
}

// WithDedicatedCache marks the provider as holding only this service's
// entries, so a full invalidation may clear it outright.
func WithDedicatedCache(dedicated bool) ServiceOption {
	return func(s *Service) {
		s.dedicated = dedicated
	}
}

// WithProduction toggles result caching. Outside production every call
// resolves fresh.
func WithProduction(production bool) ServiceOption {
	return func(s *Service) {
		s.production = production
	}
}

// WithNamespace overrides the cache key prefix.
func WithNamespace(namespace string) ServiceOption {
	return func(s *Service) {
		if trimmed := strings.TrimSpace(namespace); trimmed != "" {
			s.namespace = trimmed
		}
	}
}

// WithTTL overrides how long results stay cached.
func WithTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the internal time source.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithLogger injects the facade logger. Defaults to a no-op logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBlockMappings wires the mapping administration surface.
func WithBlockMappings(mappings BlockMappings) ServiceOption {
	return func(s *Service) {
		s.mappings = mappings
	}
}

func NewService(pageRepo PageRepository, nestedResolver NestedResolver, opts ...ServiceOption) *Service {
	s := &Service{
		pages:     pageRepo,
		nested:    nestedResolver,
		namespace: DefaultNamespace,
		ttl:       DefaultTTL,
		now:       time.Now,
		logger:    logging.PagesLogger(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Resolve normalises raw and returns the matching page, or nil when nothing
// matches. Failures are logged and reported as a miss.
func (s *Service) Resolve(ctx context.Context, raw string) *ResolvedPage {
	slug := slugs.Normalize(raw)
	logger := logging.WithSlug(s.logger, slug)

	if !s.cachingActive() {
		return s.perform(ctx, slug, logger)
	}

	key := s.CacheKey(slug)
	if cached, ok := s.readCache(ctx, key, logger); ok {
		logger.Debug("pages.resolve.cache_hit", "key", key)
		return cached
	}

	resolved := s.perform(ctx, slug, logger)
	if resolved != nil {
		if err := s.cache.Set(ctx, key, resolved, s.ttl); err != nil {
			logger.Warn("pages.cache.set_failed", "key", key, "error", err)
		}
	}
	return resolved
}

func (s *Service) perform(ctx context.Context, slug string, logger interfaces.Logger) (resolved *ResolvedPage) {
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error("pages.resolve.failed",
				"error", fmt.Sprint(recovered),
				"stack", string(debug.Stack()),
			)
			resolved = nil
		}
	}()

	result, err := s.resolve(ctx, slug, logger)
	if err != nil {
		logger.Error("pages.resolve.failed",
			"error", err.Error(),
			"stack", string(debug.Stack()),
		)
		return nil
	}
	if result == nil {
		logger.Info("pages.resolve.not_found")
	}
	return result
}

func (s *Service) resolve(ctx context.Context, slug string, logger interfaces.Logger) (*ResolvedPage, error) {
	if s.pages == nil {
		return nil, errors.New("page repository not configured")
	}
	now := s.now()

	page, err := s.pages.FindPublishedBySlug(ctx, slug, now)
	if err != nil && !pages.IsNotFound(err) {
		return nil, fmt.Errorf("static page lookup: %w", err)
	}
	if err == nil && page != nil {
		logger.Debug("pages.resolve.root",
			"page_id", page.ID.String(),
			"content_type", page.RecordType(),
		)
		return newRootPage(slug, page), nil
	}

	if s.nested == nil {
		return nil, nil
	}
	match, ok := s.nested.Resolve(ctx, slug)
	if !ok || match == nil {
		return nil, nil
	}
	logger.Debug("pages.resolve.nested",
		"parent_id", match.ParentPage.ID.String(),
		"content_type", match.Content.RecordType(),
		"content_id", match.Content.RecordID(),
		"repository", match.RepositoryHandle,
	)
	return newNestedPage(slug, match.ParentPage, match.Content, match.ChildSlug, match.RepositoryHandle), nil
}

func (s *Service) readCache(ctx context.Context, key string, logger interfaces.Logger) (*ResolvedPage, bool) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, interfaces.ErrCacheMiss) {
			logger.Warn("pages.cache.get_failed", "key", key, "error", err)
		}
		return nil, false
	}
	resolved, ok := value.(*ResolvedPage)
	if !ok || resolved == nil {
		logger.Warn("pages.cache.unexpected_value", "key", key, "type", fmt.Sprintf("%T", value))
		return nil, false
	}
	return resolved, true
}

func (s *Service) cachingActive() bool {
	return s.production && s.cache != nil
}

// CacheKey returns the cache key for raw after normalisation.
func (s *Service) CacheKey(raw string) string {
	return s.namespace + identity.Hash(slugs.Normalize(raw))
}

// ClearPageCache evicts the cached result for one slug.
func (s *Service) ClearPageCache(ctx context.Context, raw string) error {
	if s.cache == nil {
		return nil
	}
	slug := slugs.Normalize(raw)
	if err := s.cache.Delete(ctx, s.CacheKey(slug)); err != nil {
		return fmt.Errorf("clear page cache %s: %w", slug, err)
	}
	s.logger.Info("pages.cache.cleared", "slug", slug)
	return nil
}

// ClearAllPageCache evicts every cached result when the driver supports
// prefix invalidation. Otherwise it only reports that a tagging strategy is
// required and returns zero.
func (s *Service) ClearAllPageCache(ctx context.Context) (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	invalidator, ok := s.cache.(interfaces.PrefixInvalidator)
	if !ok && s.dedicated {
		return s.clearDedicated(ctx)
	}
	if !ok {
		s.logger.Warn("pages.cache.clear_all_unsupported",
			"namespace", s.namespace,
			"driver", s.driverName(),
			"reason", "full invalidation requires cache tagging; entries expire after ttl",
		)
		return 0, nil
	}
	removed, err := invalidator.DeleteByPrefix(ctx, s.namespace)
	if err != nil {
		return removed, fmt.Errorf("clear all page cache: %w", err)
	}
	s.logger.Info("pages.cache.cleared_all", "namespace", s.namespace, "removed", removed)
	return removed, nil
}

func (s *Service) clearDedicated(ctx context.Context) (int, error) {
	removed := 0
	if sized, ok := s.cache.(interface{ Size() int }); ok {
		removed = sized.Size()
	}
	if err := s.cache.Clear(ctx); err != nil {
		return 0, fmt.Errorf("clear all page cache: %w", err)
	}
	s.logger.Info("pages.cache.cleared_all", "namespace", s.namespace, "removed", removed)
	return removed, nil
}

// CacheStats reports the cache configuration.
func (s *Service) CacheStats() CacheStats {
	return CacheStats{
		Namespace: s.namespace,
		TTL:       s.ttl,
		Driver:    s.driverName(),
		Enabled:   s.cachingActive(),
	}
}

func (s *Service) driverName() string {
	if s.cache == nil {
		return "none"
	}
	if named, ok := s.cache.(interface{ Driver() string }); ok {
		return named.Driver()
	}
	return fmt.Sprintf("%T", s.cache)
}

// AddBlockMapping maps blockType to repository handles.
func (s *Service) AddBlockMapping(blockType string, handles ...string) error {
	if s.mappings == nil {
		return errors.New("block mappings not configured")
	}
	return s.mappings.Set(blockType, handles)
}

func (s *Service) HasBlockMapping(blockType string) bool {
	return s.mappings != nil && s.mappings.Has(blockType)
}

func (s *Service) BlockMappings() map[string][]string {
	if s.mappings == nil {
		return map[string][]string{}
	}
	return s.mappings.Mapping()
}
