package runtimeconfig_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-pageresolver/internal/runtimeconfig"
	"github.com/spf13/viper"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if cfg.IsProduction() || cfg.CachingActive() {
		t.Fatalf("expected development defaults to bypass caching")
	}
	if cfg.Cache.TTL != time.Hour || cfg.Cache.Namespace != runtimeconfig.DefaultCacheNamespace {
		t.Fatalf("unexpected cache defaults %+v", cfg.Cache)
	}
}

func TestConfigCachingActiveOnlyInProduction(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Environment = " Production "
	if !cfg.CachingActive() {
		t.Fatalf("expected caching in production")
	}
	cfg.Cache.Enabled = false
	if cfg.CachingActive() {
		t.Fatalf("expected disabled cache to stay off")
	}
}

func TestConfigValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{name: "environment", mutate: func(c *runtimeconfig.Config) { c.Environment = "qa" }, want: runtimeconfig.ErrEnvironmentInvalid},
		{name: "cache driver", mutate: func(c *runtimeconfig.Config) { c.Cache.Driver = "memcached" }, want: runtimeconfig.ErrCacheDriverUnknown},
		{name: "redis addr", mutate: func(c *runtimeconfig.Config) { c.Cache.Driver = "redis" }, want: runtimeconfig.ErrRedisAddrRequired},
		{name: "ttl", mutate: func(c *runtimeconfig.Config) { c.Cache.TTL = 0 }, want: runtimeconfig.ErrCacheTTLInvalid},
		{name: "namespace", mutate: func(c *runtimeconfig.Config) { c.Cache.Namespace = " " }, want: runtimeconfig.ErrCacheNamespaceRequired},
		{name: "capacity", mutate: func(c *runtimeconfig.Config) { c.Cache.Capacity = -1 }, want: runtimeconfig.ErrCacheCapacityInvalid},
		{name: "storage provider", mutate: func(c *runtimeconfig.Config) { c.Storage.Provider = "mongo" }, want: runtimeconfig.ErrStorageProviderUnknown},
		{name: "storage dsn", mutate: func(c *runtimeconfig.Config) { c.Storage.Provider = "postgres" }, want: runtimeconfig.ErrStorageDSNRequired},
		{name: "logging provider", mutate: func(c *runtimeconfig.Config) { c.Logging.Provider = "syslog" }, want: runtimeconfig.ErrLoggingProviderUnknown},
		{name: "logging level", mutate: func(c *runtimeconfig.Config) { c.Logging.Level = "loud" }, want: runtimeconfig.ErrLoggingLevelInvalid},
		{name: "logging format", mutate: func(c *runtimeconfig.Config) {
			c.Logging.Provider = "gologger"
			c.Logging.Format = "xml"
		}, want: runtimeconfig.ErrLoggingFormatInvalid},
		{name: "blocks key", mutate: func(c *runtimeconfig.Config) { c.Blocks.MappingKey = "" }, want: runtimeconfig.ErrBlocksKeyRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidateSkipsCacheChecksWhenDisabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Cache.Driver = "unknown"
	cfg.Cache.TTL = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected disabled cache to skip driver validation, got %v", err)
	}
}

func TestFromViperOverlaysDefaults(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	doc := []byte(`
resolver:
  environment: production
  cache:
    driver: redis
    ttl: 30m
    redis:
      addr: localhost:6379
      db: 2
  storage:
    provider: sqlite
    dsn: "file:pages.db"
  blocks:
    mappings:
      vehicle-list: [VehicleRepository]
`)
	if err := v.ReadConfig(bytes.NewReader(doc)); err != nil {
		t.Fatalf("read config: %v", err)
	}

	cfg, err := runtimeconfig.FromViper(v)
	if err != nil {
		t.Fatalf("FromViper: %v", err)
	}
	if !cfg.CachingActive() || cfg.Cache.Driver != "redis" || cfg.Cache.TTL != 30*time.Minute {
		t.Fatalf("unexpected cache config %+v", cfg.Cache)
	}
	if cfg.Cache.Namespace != runtimeconfig.DefaultCacheNamespace {
		t.Fatalf("expected default namespace to survive overlay, got %q", cfg.Cache.Namespace)
	}
	if cfg.Cache.Redis.Addr != "localhost:6379" || cfg.Cache.Redis.DB != 2 {
		t.Fatalf("unexpected redis config %+v", cfg.Cache.Redis)
	}
	if cfg.Storage.Provider != "sqlite" || cfg.Blocks.MappingKey != runtimeconfig.DefaultBlocksKey {
		t.Fatalf("unexpected storage/blocks config %+v %+v", cfg.Storage, cfg.Blocks)
	}
	if got := cfg.Blocks.Mappings["vehicle-list"]; len(got) != 1 || got[0] != "VehicleRepository" {
		t.Fatalf("unexpected mappings %v", cfg.Blocks.Mappings)
	}
}

func TestFromViperRejectsInvalidValues(t *testing.T) {
	v := viper.New()
	v.Set("resolver.storage.provider", "mongo")
	if _, err := runtimeconfig.FromViper(v); !errors.Is(err, runtimeconfig.ErrStorageProviderUnknown) {
		t.Fatalf("expected ErrStorageProviderUnknown, got %v", err)
	}
}
