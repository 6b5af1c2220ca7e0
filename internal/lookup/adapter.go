package lookup

import (
	"context"
	"time"

	"github.com/goliatone/go-pageresolver/internal/content"
)

// Lookup method names, in probe order.
const (
	MethodFindBySlug       = "FindBySlug"
	MethodGetBySlug        = "GetBySlug"
	MethodFindActiveBySlug = "FindActiveBySlug"
	MethodLookupBySlug     = "LookupBySlug"
)

// SlugFinder is implemented by repositories exposing FindBySlug.
type SlugFinder interface {
	FindBySlug(ctx context.Context, slug string, now time.Time) (content.Record, error)
}

// SlugGetter is implemented by repositories exposing GetBySlug.
type SlugGetter interface {
	GetBySlug(ctx context.Context, slug string, now time.Time) (content.Record, error)
}

// ActiveSlugFinder is implemented by repositories exposing FindActiveBySlug.
type ActiveSlugFinder interface {
	FindActiveBySlug(ctx context.Context, slug string, now time.Time) (content.Record, error)
}

// SlugLookupCapable is the explicit lookup contract. A false found flag with a
// nil error is a plain miss.
type SlugLookupCapable interface {
	LookupBySlug(ctx context.Context, slug string, now time.Time) (content.Record, bool, error)
}

// Probe is one lookup method bound to a repository instance.
type Probe struct {
	Method string
	Call   func(ctx context.Context, slug string, now time.Time) (content.Record, error)
}

// Adapter is the capability set derived from a repository at registration.
type Adapter struct {
	handle string
	probes []Probe
}

// Adapt inspects repo and returns the probes it supports. Repositories
// implementing SlugLookupCapable are used through that contract only.
func Adapt(handle string, repo any) (*Adapter, error) {
	if repo == nil {
		return nil, ErrNoLookupMethods
	}

	adapter := &Adapter{handle: handle}

	if capable, ok := repo.(SlugLookupCapable); ok {
		adapter.probes = append(adapter.probes, Probe{
			Method: MethodLookupBySlug,
			Call: func(ctx context.Context, slug string, now time.Time) (content.Record, error) {
				record, found, err := capable.LookupBySlug(ctx, slug, now)
				if err != nil {
					return nil, err
				}
				if !found {
					return nil, nil
				}
				return record, nil
			},
		})
		return adapter, nil
	}

	if finder, ok := repo.(SlugFinder); ok {
		adapter.probes = append(adapter.probes, Probe{Method: MethodFindBySlug, Call: finder.FindBySlug})
	}
	if getter, ok := repo.(SlugGetter); ok {
		adapter.probes = append(adapter.probes, Probe{Method: MethodGetBySlug, Call: getter.GetBySlug})
	}
	if active, ok := repo.(ActiveSlugFinder); ok {
		adapter.probes = append(adapter.probes, Probe{Method: MethodFindActiveBySlug, Call: active.FindActiveBySlug})
	}

	if len(adapter.probes) == 0 {
		return nil, ErrNoLookupMethods
	}
	return adapter, nil
}

func (a *Adapter) Handle() string {
	return a.handle
}

// Methods lists the probe names in the order they run.
func (a *Adapter) Methods() []string {
	out := make([]string, len(a.probes))
	for i, probe := range a.probes {
		out[i] = probe.Method
	}
	return out
}

func (a *Adapter) Probes() []Probe {
	return append([]Probe(nil), a.probes...)
}
