package pageresolver

import "github.com/goliatone/go-pageresolver/internal/runtimeconfig"

var (
	ErrEnvironmentInvalid     = runtimeconfig.ErrEnvironmentInvalid
	ErrCacheDriverUnknown     = runtimeconfig.ErrCacheDriverUnknown
	ErrCacheTTLInvalid        = runtimeconfig.ErrCacheTTLInvalid
	ErrCacheNamespaceRequired = runtimeconfig.ErrCacheNamespaceRequired
	ErrCacheCapacityInvalid   = runtimeconfig.ErrCacheCapacityInvalid
	ErrRedisAddrRequired      = runtimeconfig.ErrRedisAddrRequired
	ErrStorageProviderUnknown = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDSNRequired     = runtimeconfig.ErrStorageDSNRequired
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
	ErrBlocksKeyRequired      = runtimeconfig.ErrBlocksKeyRequired
)

const (
	EnvironmentProduction  = runtimeconfig.EnvironmentProduction
	EnvironmentStaging     = runtimeconfig.EnvironmentStaging
	EnvironmentDevelopment = runtimeconfig.EnvironmentDevelopment
	EnvironmentTesting     = runtimeconfig.EnvironmentTesting

	CacheDriverMemory = runtimeconfig.CacheDriverMemory
	CacheDriverRedis  = runtimeconfig.CacheDriverRedis

	StorageMemory   = runtimeconfig.StorageMemory
	StorageSQLite   = runtimeconfig.StorageSQLite
	StoragePostgres = runtimeconfig.StoragePostgres
)

type (
	Config        = runtimeconfig.Config
	CacheConfig   = runtimeconfig.CacheConfig
	RedisConfig   = runtimeconfig.RedisConfig
	StorageConfig = runtimeconfig.StorageConfig
	LoggingConfig = runtimeconfig.LoggingConfig
	BlocksConfig  = runtimeconfig.BlocksConfig
)

// DefaultConfig returns development defaults with an in-memory stack.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads the "resolver" section of v on top of DefaultConfig.
var LoadConfig = runtimeconfig.FromViper
