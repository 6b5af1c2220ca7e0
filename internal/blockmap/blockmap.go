package blockmap

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-pageresolver/internal/logging"
	"github.com/goliatone/go-pageresolver/pkg/interfaces"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultKey is where block mappings live in the configuration source.
const DefaultKey = "pages.block_repositories"

const invalidMappingCode = "BLOCK_MAPPING_INVALID"

// Map answers which repository handles can serve a given block type.
type Map struct {
	mu     sync.RWMutex
	source ConfigSource
	key    string
	logger interfaces.Logger
}

// Option customises a Map.
type Option func(*Map)

// WithKey overrides the configuration key holding the mappings.
func WithKey(key string) Option {
	return func(m *Map) {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			m.key = trimmed
		}
	}
}

// WithLogger sets the logger used to report malformed configuration.
func WithLogger(logger interfaces.Logger) Option {
	return func(m *Map) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New returns a Map over source. A nil source falls back to an empty MemorySource.
func New(source ConfigSource, opts ...Option) *Map {
	if source == nil {
		source = NewMemorySource()
	}
	m := &Map{
		source: source,
		key:    DefaultKey,
		logger: logging.BlockMapLogger(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Key returns the configuration key backing the map.
func (m *Map) Key() string {
	return m.key
}

// Mapping returns a copy of every block type to handles entry.
func (m *Map) Mapping() map[string][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.load()
}

// Has reports whether blockType is a key of the mapping, even with no handles.
func (m *Map) Has(blockType string) bool {
	key := NormalizeType(blockType)
	if key == "" {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.load()[key]
	return ok
}

// RepositoriesFor returns the handles configured for blockType, in order.
func (m *Map) RepositoriesFor(blockType string) []string {
	key := NormalizeType(blockType)
	if key == "" {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.load()[key]
}

// Set replaces the handles for blockType and writes the whole mapping back
// to the source.
func (m *Map) Set(blockType string, handles []string) error {
	if err := validateEntry(blockType, handles); err != nil {
		return err
	}

	key := NormalizeType(blockType)
	cleaned := cleanHandles(handles)

	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.load()
	current[key] = cleaned
	m.source.Set(m.key, current)
	m.logger.Info("blockmap.mapping.set", "block_type", key, "handles", cleaned)
	return nil
}

// Types lists the mapped block types in sorted order.
func (m *Map) Types() []string {
	mapping := m.Mapping()
	out := make([]string, 0, len(mapping))
	for blockType := range mapping {
		out = append(out, blockType)
	}
	sort.Strings(out)
	return out
}

// NormalizeType folds a block type id for comparison.
func NormalizeType(blockType string) string {
	return strings.ToLower(strings.TrimSpace(blockType))
}

func (m *Map) load() map[string][]string {
	mapping, err := Decode(m.source.Get(m.key))
	if err != nil {
		m.logger.Warn("blockmap.mapping.malformed", "key", m.key, "error", err)
	}
	return mapping
}

// Decode converts the loosely typed shapes produced by config loaders into a
// mapping. Entries that cannot be read are skipped and reported in the error.
func Decode(raw any) (map[string][]string, error) {
	out := make(map[string][]string)
	var skipped []string

	add := func(blockType string, value any) {
		key := NormalizeType(blockType)
		handles, ok := decodeHandles(value)
		if key == "" || !ok {
			skipped = append(skipped, blockType)
			return
		}
		out[key] = handles
	}

	switch typed := raw.(type) {
	case nil:
		return out, nil
	case map[string][]string:
		for blockType, handles := range typed {
			add(blockType, handles)
		}
	case map[string]any:
		for blockType, value := range typed {
			add(blockType, value)
		}
	case map[any]any:
		for blockType, value := range typed {
			add(fmt.Sprint(blockType), value)
		}
	default:
		return out, fmt.Errorf("blockmap: unsupported mapping type %T", raw)
	}

	if len(skipped) > 0 {
		sort.Strings(skipped)
		return out, fmt.Errorf("blockmap: skipped malformed entries %v", skipped)
	}
	return out, nil
}

func decodeHandles(value any) ([]string, bool) {
	switch typed := value.(type) {
	case string:
		return cleanHandles([]string{typed}), true
	case []string:
		return cleanHandles(typed), true
	case []any:
		handles := make([]string, 0, len(typed))
		for _, item := range typed {
			handle, ok := item.(string)
			if !ok {
				return nil, false
			}
			handles = append(handles, handle)
		}
		return cleanHandles(handles), true
	}
	return nil, false
}

func cleanHandles(handles []string) []string {
	out := make([]string, 0, len(handles))
	for _, handle := range handles {
		if trimmed := strings.TrimSpace(handle); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func validateEntry(blockType string, handles []string) error {
	errs := validation.Errors{}
	if NormalizeType(blockType) == "" {
		errs["block_type"] = validation.NewError("pageresolver.blockmap.block_type_required", "block type is required")
	}
	if len(cleanHandles(handles)) == 0 {
		errs["handles"] = validation.NewError("pageresolver.blockmap.handles_required", "at least one repository handle is required")
	}
	if len(errs) == 0 {
		return nil
	}
	return goerrors.Wrap(errs, goerrors.CategoryValidation, "invalid block mapping").
		WithTextCode(invalidMappingCode)
}
