package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-pageresolver/internal/blockmap"
	"github.com/goliatone/go-pageresolver/internal/cache"
	"github.com/goliatone/go-pageresolver/internal/content"
	"github.com/goliatone/go-pageresolver/internal/fixtures"
	"github.com/goliatone/go-pageresolver/internal/logging"
	"github.com/goliatone/go-pageresolver/internal/logging/console"
	"github.com/goliatone/go-pageresolver/internal/logging/gologger"
	"github.com/goliatone/go-pageresolver/internal/lookup"
	"github.com/goliatone/go-pageresolver/internal/nested"
	"github.com/goliatone/go-pageresolver/internal/pages"
	"github.com/goliatone/go-pageresolver/internal/resolution"
	"github.com/goliatone/go-pageresolver/internal/runtimeconfig"
	"github.com/goliatone/go-pageresolver/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Lookup handles registered for the built-in repositories.
const (
	PageRepositoryHandle    = "PageRepository"
	ArticleRepositoryHandle = "ArticleRepository"
	ProductRepositoryHandle = "ProductRepository"
)

const redisConnectTimeout = 5 * time.Second

// Container wires module dependencies.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger
	clock          func() time.Time

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	cacheProvider interfaces.CacheProvider
	ownsCache     bool
	redisClient   *redis.Client
	configSource  blockmap.ConfigSource

	pageRepo    pages.PageRepository
	articleRepo content.ArticleRepository
	productRepo content.ProductRepository

	extraRepos     map[string]any
	extraFactories map[string]lookup.Factory

	registry      *lookup.Registry
	lookupSvc     *lookup.Service
	blockMap      *blockmap.Map
	nestedSvc     *nested.Resolver
	resolutionSvc *resolution.Service
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB swaps the in-memory repositories for bun-backed ones.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache wraps bun repositories with go-repository-cache.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithCacheProvider overrides the resolution result cache.
func WithCacheProvider(provider interfaces.CacheProvider) Option {
	return func(c *Container) {
		c.cacheProvider = provider
	}
}

// WithLoggerProvider overrides the configured logging provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithConfigSource stores block mappings in source, typically a *viper.Viper.
func WithConfigSource(source blockmap.ConfigSource) Option {
	return func(c *Container) {
		c.configSource = source
	}
}

// WithClock overrides the time source used for publication checks.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithPageRepository replaces the page repository.
func WithPageRepository(repo pages.PageRepository) Option {
	return func(c *Container) {
		c.pageRepo = repo
	}
}

// WithLookupRepository registers an additional repository under handle.
func WithLookupRepository(handle string, repo any) Option {
	return func(c *Container) {
		if c.extraRepos == nil {
			c.extraRepos = map[string]any{}
		}
		c.extraRepos[handle] = repo
	}
}

// WithLookupFactory registers a lazily built repository under handle.
func WithLookupFactory(handle string, factory lookup.Factory) Option {
	return func(c *Container) {
		if c.extraFactories == nil {
			c.extraFactories = map[string]lookup.Factory{}
		}
		c.extraFactories[handle] = factory
	}
}

// NewContainer validates cfg and builds the resolution stack.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		clock:  time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	if err := c.configureLookup(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.configureBlockMap(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.configureResultCache(); err != nil {
		c.Close()
		return nil, err
	}

	c.nestedSvc = nested.NewResolver(
		c.pageRepo,
		c.lookupSvc,
		c.blockMap,
		nested.WithClock(c.clock),
		nested.WithLogger(logging.NestedLogger(c.loggerProvider)),
	)

	serviceOpts := []resolution.ServiceOption{
		resolution.WithProduction(c.Config.IsProduction()),
		resolution.WithNamespace(c.Config.Cache.Namespace),
		resolution.WithTTL(c.Config.Cache.TTL),
		resolution.WithClock(c.clock),
		resolution.WithLogger(logging.PagesLogger(c.loggerProvider)),
		resolution.WithBlockMappings(c.blockMap),
	}
	if c.cacheProvider != nil {
		serviceOpts = append(serviceOpts,
			resolution.WithCache(c.cacheProvider),
			resolution.WithDedicatedCache(c.ownsCache),
		)
	}
	c.resolutionSvc = resolution.NewService(c.pageRepo, c.nestedSvc, serviceOpts...)

	c.logger.Info("container.configured",
		"environment", c.Config.Environment,
		"storage", storageName(c.bunDB),
		"cache_driver", c.cacheDriver(),
		"caching", c.Config.CachingActive(),
		"handles", c.registry.Handles(),
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider == nil {
		switch normalize(c.Config.Logging.Provider) {
		case "gologger":
			provider, err := gologger.NewProvider(gologger.Config{
				Level:     c.Config.Logging.Level,
				Format:    c.Config.Logging.Format,
				AddSource: c.Config.Logging.AddSource,
				Focus:     c.Config.Logging.Focus,
			})
			if err != nil {
				return err
			}
			c.loggerProvider = provider
		default:
			level := console.ParseLevel(c.Config.Logging.Level)
			c.loggerProvider = console.NewProvider(console.Options{MinLevel: &level})
		}
	}
	c.logger = logging.ContainerLogger(c.loggerProvider)
	return nil
}

func (c *Container) configureStorage() error {
	if c.bunDB != nil {
		return nil
	}
	var (
		sqlDB *sql.DB
		err   error
	)
	switch normalize(c.Config.Storage.Provider) {
	case runtimeconfig.StorageSQLite:
		sqlDB, err = sql.Open("sqlite3", c.Config.Storage.DSN)
		if err != nil {
			return fmt.Errorf("di: open sqlite: %w", err)
		}
		// A shared in-memory database disappears with its last connection.
		sqlDB.SetMaxOpenConns(1)
		c.bunDB = bun.NewDB(sqlDB, sqlitedialect.New())
	case runtimeconfig.StoragePostgres:
		sqlDB, err = sql.Open("postgres", c.Config.Storage.DSN)
		if err != nil {
			return fmt.Errorf("di: open postgres: %w", err)
		}
		c.bunDB = bun.NewDB(sqlDB, pgdialect.New())
	default:
		return nil
	}
	c.ownsDB = true
	return nil
}

func (c *Container) configureCacheDefaults() {
	if c.bunDB == nil || !c.Config.CachingActive() {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.TTL > 0 {
			cfg.TTL = c.Config.Cache.TTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			c.logger.Warn("container.repository_cache.unavailable", "error", err)
		} else {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB != nil {
		if c.pageRepo == nil {
			c.pageRepo = pages.NewBunPageRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		}
		c.articleRepo = content.NewBunArticleRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.productRepo = content.NewBunProductRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		return
	}
	if c.pageRepo == nil {
		c.pageRepo = pages.NewMemoryPageRepository()
	}
	c.articleRepo = content.NewMemoryArticleRepository()
	c.productRepo = content.NewMemoryProductRepository()
}

func (c *Container) configureLookup() error {
	c.registry = lookup.NewRegistry()
	builtins := []struct {
		handle string
		repo   any
	}{
		{PageRepositoryHandle, c.pageRepo},
		{ArticleRepositoryHandle, c.articleRepo},
		{ProductRepositoryHandle, c.productRepo},
	}
	for _, entry := range builtins {
		if err := c.registry.Register(entry.handle, entry.repo); err != nil {
			return fmt.Errorf("di: register %s: %w", entry.handle, err)
		}
	}
	for _, handle := range sortedKeys(c.extraRepos) {
		if err := c.registry.Register(handle, c.extraRepos[handle]); err != nil {
			return fmt.Errorf("di: register %s: %w", handle, err)
		}
	}
	for _, handle := range sortedKeys(c.extraFactories) {
		if err := c.registry.RegisterFactory(handle, c.extraFactories[handle]); err != nil {
			return fmt.Errorf("di: register factory %s: %w", handle, err)
		}
	}
	c.lookupSvc = lookup.NewService(c.registry, lookup.WithLogger(logging.LookupLogger(c.loggerProvider)))
	return nil
}

func (c *Container) configureBlockMap() error {
	if c.configSource == nil {
		c.configSource = blockmap.NewMemorySource()
	}
	c.blockMap = blockmap.New(
		c.configSource,
		blockmap.WithKey(c.Config.Blocks.MappingKey),
		blockmap.WithLogger(logging.BlockMapLogger(c.loggerProvider)),
	)
	for _, blockType := range sortedKeys(c.Config.Blocks.Mappings) {
		if err := c.blockMap.Set(blockType, c.Config.Blocks.Mappings[blockType]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Container) configureResultCache() error {
	if c.cacheProvider != nil || !c.Config.CachingActive() {
		return nil
	}
	switch normalize(c.Config.Cache.Driver) {
	case runtimeconfig.CacheDriverRedis:
		ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
		defer cancel()
		client, err := cache.NewRedisClient(ctx, cache.RedisOptions{
			Addr:     c.Config.Cache.Redis.Addr,
			Password: c.Config.Cache.Redis.Password,
			DB:       c.Config.Cache.Redis.DB,
		})
		if err != nil {
			return err
		}
		c.redisClient = client
		c.cacheProvider = cache.NewRedisCache(
			client,
			cache.WithCodec(resolution.NewCodec()),
			cache.WithKeyPrefix(c.Config.Cache.Namespace),
		)
	default:
		c.cacheProvider = cache.NewMemoryCache(cache.MemoryOptions{
			Capacity: c.Config.Cache.Capacity,
			TTL:      c.Config.Cache.TTL,
		})
		c.ownsCache = true
	}
	logging.CacheLogger(c.loggerProvider).Info("cache.configured",
		"driver", c.cacheDriver(),
		"namespace", c.Config.Cache.Namespace,
		"ttl", c.Config.Cache.TTL,
	)
	return nil
}

// Close releases connections opened by the container.
func (c *Container) Close() error {
	var errs []error
	if c.redisClient != nil {
		errs = append(errs, c.redisClient.Close())
		c.redisClient = nil
	}
	if c.ownsDB && c.bunDB != nil {
		errs = append(errs, c.bunDB.Close())
		c.bunDB = nil
	}
	return errors.Join(errs...)
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

func (c *Container) PageRepository() pages.PageRepository {
	return c.pageRepo
}

func (c *Container) ArticleRepository() content.ArticleRepository {
	return c.articleRepo
}

func (c *Container) ProductRepository() content.ProductRepository {
	return c.productRepo
}

func (c *Container) LookupRegistry() *lookup.Registry {
	return c.registry
}

func (c *Container) LookupService() *lookup.Service {
	return c.lookupSvc
}

func (c *Container) BlockMap() *blockmap.Map {
	return c.blockMap
}

func (c *Container) NestedResolver() *nested.Resolver {
	return c.nestedSvc
}

func (c *Container) ResolutionService() *resolution.Service {
	return c.resolutionSvc
}

// CacheProvider returns the result cache, nil when caching is inactive.
func (c *Container) CacheProvider() interfaces.CacheProvider {
	return c.cacheProvider
}

// Seeder returns a fixture seeder bound to the container repositories.
func (c *Container) Seeder() *fixtures.Seeder {
	return &fixtures.Seeder{
		Pages:    c.pageRepo,
		Articles: c.articleRepo,
		Products: c.productRepo,
		Mappings: c.blockMap,
		Logger:   logging.FixturesLogger(c.loggerProvider),
	}
}

func (c *Container) cacheDriver() string {
	if c.cacheProvider == nil {
		return "none"
	}
	if named, ok := c.cacheProvider.(interface{ Driver() string }); ok {
		return named.Driver()
	}
	return fmt.Sprintf("%T", c.cacheProvider)
}

func storageName(db *bun.DB) string {
	if db == nil {
		return runtimeconfig.StorageMemory
	}
	return db.Dialect().Name().String()
}

func sortedKeys[V any](values map[string]V) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
