package blockmap

import "sync"

// ConfigSource is the key/value surface the map reads and writes. It is
// satisfied by *viper.Viper.
type ConfigSource interface {
	Get(key string) any
	Set(key string, value any)
}

// MemorySource is a flat in-memory ConfigSource.
type MemorySource struct {
	mu     sync.RWMutex
	values map[string]any
}

func NewMemorySource() *MemorySource {
	return &MemorySource{values: make(map[string]any)}
}

func (m *MemorySource) Get(key string) any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key]
}

func (m *MemorySource) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}
