package lookup

import (
	"sort"
	"strings"
	"sync"
)

// Factory builds a repository instance on first use.
type Factory func() (any, error)

// Registry maps repository handles to their adapted lookup capabilities.
type Registry struct {
	mu        sync.RWMutex
	adapters  map[string]*Adapter
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{
		adapters:  make(map[string]*Adapter),
		factories: make(map[string]Factory),
	}
}

// Register adapts repo immediately and stores it under handle, replacing any
// previous registration.
func (r *Registry) Register(handle string, repo any) error {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return wrapRegistrationError(ErrHandleRequired)
	}
	adapter, err := Adapt(handle, repo)
	if err != nil {
		return wrapRegistrationError(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[handle] = adapter
	delete(r.factories, handle)
	return nil
}

// RegisterFactory defers instantiation until the handle is first resolved.
func (r *Registry) RegisterFactory(handle string, factory Factory) error {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return wrapRegistrationError(ErrHandleRequired)
	}
	if factory == nil {
		return wrapRegistrationError(ErrNoLookupMethods)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[handle] = factory
	delete(r.adapters, handle)
	return nil
}

// Resolve returns the adapter registered under handle. A failed factory is
// retried on the next call.
func (r *Registry) Resolve(handle string) (*Adapter, error) {
	handle = strings.TrimSpace(handle)

	r.mu.RLock()
	adapter, ok := r.adapters[handle]
	factory, pending := r.factories[handle]
	r.mu.RUnlock()

	if ok {
		return adapter, nil
	}
	if !pending {
		return nil, &UnknownHandleError{Handle: handle}
	}

	repo, err := instantiate(handle, factory)
	if err != nil {
		return nil, wrapInstantiationError(err)
	}
	adapter, err = Adapt(handle, repo)
	if err != nil {
		return nil, wrapInstantiationError(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.adapters[handle]; ok {
		return existing, nil
	}
	r.adapters[handle] = adapter
	delete(r.factories, handle)
	return adapter, nil
}

// Handles returns every registered handle in sorted order.
func (r *Registry) Handles() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.adapters)+len(r.factories))
	for handle := range r.adapters {
		out = append(out, handle)
	}
	for handle := range r.factories {
		out = append(out, handle)
	}
	sort.Strings(out)
	return out
}

// Has reports whether handle is registered.
func (r *Registry) Has(handle string) bool {
	handle = strings.TrimSpace(handle)
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.adapters[handle]
	if !ok {
		_, ok = r.factories[handle]
	}
	return ok
}

func instantiate(handle string, factory Factory) (repo any, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			repo = nil
			err = &PanicError{Method: "factory " + handle, Value: recovered}
		}
	}()
	return factory()
}
