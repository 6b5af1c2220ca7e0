package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrEnvironmentInvalid     = errors.New("resolver config: environment is invalid")
	ErrCacheDriverUnknown     = errors.New("resolver config: cache driver is invalid")
	ErrCacheTTLInvalid        = errors.New("resolver config: cache ttl must be positive when cache is enabled")
	ErrCacheNamespaceRequired = errors.New("resolver config: cache namespace is required when cache is enabled")
	ErrCacheCapacityInvalid   = errors.New("resolver config: cache capacity must be zero or positive")
	ErrRedisAddrRequired      = errors.New("resolver config: redis address is required for the redis cache driver")
	ErrStorageProviderUnknown = errors.New("resolver config: storage provider is invalid")
	ErrStorageDSNRequired     = errors.New("resolver config: storage dsn is required for sql providers")
	ErrLoggingProviderUnknown = errors.New("resolver config: logging provider is invalid")
	ErrLoggingLevelInvalid    = errors.New("resolver config: logging level is invalid")
	ErrLoggingFormatInvalid   = errors.New("resolver config: logging format is invalid")
	ErrBlocksKeyRequired      = errors.New("resolver config: block mapping key is required")
)

const (
	EnvironmentProduction  = "production"
	EnvironmentStaging     = "staging"
	EnvironmentDevelopment = "development"
	EnvironmentTesting     = "testing"

	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"

	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"

	DefaultCacheNamespace = "page_resolution:"
	DefaultCacheTTL       = time.Hour
	DefaultBlocksKey      = "pages.block_repositories"
)

// Config aggregates runtime settings for the resolver module.
type Config struct {
	Environment string        `mapstructure:"environment"`
	Cache       CacheConfig   `mapstructure:"cache"`
	Storage     StorageConfig `mapstructure:"storage"`
	Logging     LoggingConfig `mapstructure:"logging"`
	Blocks      BlocksConfig  `mapstructure:"blocks"`
}

// CacheConfig controls memoisation of resolution results. Caching only
// applies in production.
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Driver    string        `mapstructure:"driver"`
	TTL       time.Duration `mapstructure:"ttl"`
	Namespace string        `mapstructure:"namespace"`
	Capacity  int           `mapstructure:"capacity"`
	Redis     RedisConfig   `mapstructure:"redis"`
}

// RedisConfig holds connection settings for the redis cache driver.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StorageConfig selects the repository backend.
type StorageConfig struct {
	Provider    string `mapstructure:"provider"`
	DSN         string `mapstructure:"dsn"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// BlocksConfig names where block mappings live and optionally seeds them.
type BlocksConfig struct {
	MappingKey string              `mapstructure:"mapping_key"`
	Mappings   map[string][]string `mapstructure:"mappings"`
}

// DefaultConfig returns development defaults with an in-memory stack.
func DefaultConfig() Config {
	return Config{
		Environment: EnvironmentDevelopment,
		Cache: CacheConfig{
			Enabled:   true,
			Driver:    CacheDriverMemory,
			TTL:       DefaultCacheTTL,
			Namespace: DefaultCacheNamespace,
		},
		Storage: StorageConfig{
			Provider: StorageMemory,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Blocks: BlocksConfig{
			MappingKey: DefaultBlocksKey,
		},
	}
}

// IsProduction reports whether result caching is allowed.
func (cfg Config) IsProduction() bool {
	return normalize(cfg.Environment) == EnvironmentProduction
}

// CachingActive reports whether the facade should read and write the cache.
func (cfg Config) CachingActive() bool {
	return cfg.Cache.Enabled && cfg.IsProduction()
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	switch normalize(cfg.Environment) {
	case EnvironmentProduction, EnvironmentStaging, EnvironmentDevelopment, EnvironmentTesting:
	default:
		return fmt.Errorf("%w: %q", ErrEnvironmentInvalid, cfg.Environment)
	}

	if cfg.Cache.Enabled {
		switch normalize(cfg.Cache.Driver) {
		case CacheDriverMemory:
		case CacheDriverRedis:
			if strings.TrimSpace(cfg.Cache.Redis.Addr) == "" {
				return ErrRedisAddrRequired
			}
		default:
			return fmt.Errorf("%w: %s", ErrCacheDriverUnknown, cfg.Cache.Driver)
		}
		if cfg.Cache.TTL <= 0 {
			return ErrCacheTTLInvalid
		}
		if strings.TrimSpace(cfg.Cache.Namespace) == "" {
			return ErrCacheNamespaceRequired
		}
	}
	if cfg.Cache.Capacity < 0 {
		return ErrCacheCapacityInvalid
	}

	switch normalize(cfg.Storage.Provider) {
	case StorageMemory:
	case StorageSQLite, StoragePostgres:
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStorageDSNRequired, cfg.Storage.Provider)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}

	provider := normalize(cfg.Logging.Provider)
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Logging.Provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}

	if strings.TrimSpace(cfg.Blocks.MappingKey) == "" {
		return ErrBlocksKeyRequired
	}
	return nil
}

// FromViper overlays the values held by v on DefaultConfig and validates the
// result. Keys are read under the "resolver" section.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()
	if v == nil {
		return cfg, cfg.Validate()
	}
	if sub := v.Sub("resolver"); sub != nil {
		if err := sub.Unmarshal(&cfg); err != nil {
			return cfg, fmt.Errorf("resolver config: decode: %w", err)
		}
	}
	return cfg, cfg.Validate()
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
