package logging

import (
	"context"

	"github.com/goliatone/go-pageresolver/pkg/interfaces"
)

const (
	rootModule       = "pageresolver"
	pagesModule      = "pageresolver.pages"
	nestedModule     = "pageresolver.nested"
	lookupModule     = "pageresolver.lookup"
	cacheModule      = "pageresolver.cache"
	blockMapModule   = "pageresolver.blockmap"
	fixturesModule   = "pageresolver.fixtures"
	containerModule  = "pageresolver.di"
	httpModule       = "pageresolver.http"
	fieldSlug        = "slug"
	fieldModuleLabel = "module"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module name is attached as
// a structured field so entries can be filtered per subsystem.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{fieldModuleLabel: module})
}

// PagesLogger returns the logger used by the resolution facade.
func PagesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, pagesModule)
}

// NestedLogger returns the logger used by the nested URL resolver.
func NestedLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, nestedModule)
}

// LookupLogger returns the logger used by repository content lookups.
func LookupLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, lookupModule)
}

// CacheLogger returns the logger used by cache drivers.
func CacheLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, cacheModule)
}

// BlockMapLogger returns the logger used by the block repository map.
func BlockMapLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, blockMapModule)
}

// FixturesLogger returns the logger used by fixture seeding.
func FixturesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, fixturesModule)
}

// ContainerLogger returns the logger used while wiring dependencies.
func ContainerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, containerModule)
}

// HTTPLogger returns the logger used by the HTTP adapter.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
