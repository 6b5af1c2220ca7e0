package lookup

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-pageresolver/internal/content"
	"github.com/goliatone/go-pageresolver/internal/logging"
	"github.com/goliatone/go-pageresolver/pkg/interfaces"
)

// Service finds content records through registered repositories.
type Service struct {
	registry *Registry
	logger   interfaces.Logger
	validate content.Validator
}

// Option customises the lookup service.
type Option func(*Service)

// WithLogger overrides the logger used for lookup diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithValidator replaces the validity check applied to candidate records.
func WithValidator(validate content.Validator) Option {
	return func(s *Service) {
		if validate != nil {
			s.validate = validate
		}
	}
}

func NewService(registry *Registry, opts ...Option) *Service {
	if registry == nil {
		registry = NewRegistry()
	}
	s := &Service{
		registry: registry,
		logger:   logging.LookupLogger(nil),
		validate: content.IsValid,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) Registry() *Registry {
	return s.registry
}

// Find runs the probes of the repository registered under handle and returns
// the first valid record. Every failure degrades to a miss.
func (s *Service) Find(ctx context.Context, handle, slug string, now time.Time) (content.Record, bool) {
	adapter, err := s.registry.Resolve(handle)
	if err != nil {
		s.logger.Warn("lookup.repository.unavailable",
			"handle", handle,
			"slug", slug,
			"error", err,
		)
		return nil, false
	}

	for _, probe := range adapter.probes {
		record, err := callProbe(ctx, probe, slug, now)
		if err != nil {
			if !IsExpected(err) {
				s.logger.Warn("lookup.method.failed",
					"handle", handle,
					"slug", slug,
					"method", probe.Method,
					"error", err,
				)
			}
			continue
		}
		if content.IsNil(record) || !s.validate(record, now) {
			continue
		}
		return record, true
	}
	return nil, false
}

func callProbe(ctx context.Context, probe Probe, slug string, now time.Time) (record content.Record, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			record = nil
			err = &PanicError{Method: probe.Method, Value: recovered}
		}
	}()
	record, err = probe.Call(ctx, slug, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", probe.Method, err)
	}
	return record, nil
}
