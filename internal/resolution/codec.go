package resolution

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-pageresolver/internal/content"
	"github.com/goliatone/go-pageresolver/internal/pages"
)

var (
	ErrUnsupportedValue  = errors.New("resolution codec: value is not a resolved page")
	ErrUnknownRecordType = errors.New("resolution codec: record type is not registered")
	ErrMalformedEnvelope = errors.New("resolution codec: malformed envelope")
)

// RecordFactory returns an empty record to decode cached content into.
type RecordFactory func() content.Record

// Codec serialises resolved pages for shared caches. Nested content is stored
// with its record type and decoded through the registered factory.
type Codec struct {
	mu        sync.RWMutex
	factories map[string]RecordFactory
}

type envelope struct {
	Kind             Kind            `json:"kind"`
	Slug             string          `json:"slug"`
	Page             *pages.Page     `json:"page,omitempty"`
	ChildSlug        string          `json:"child_slug,omitempty"`
	RepositoryHandle string          `json:"repository_handle,omitempty"`
	ContentType      string          `json:"content_type,omitempty"`
	Content          json.RawMessage `json:"content,omitempty"`
}

// NewCodec returns a codec that knows pages, articles and products.
func NewCodec() *Codec {
	c := &Codec{factories: make(map[string]RecordFactory)}
	c.Register(pages.TypePage, func() content.Record { return &pages.Page{} })
	c.Register(content.TypeArticle, func() content.Record { return &content.Article{} })
	c.Register(content.TypeProduct, func() content.Record { return &content.Product{} })
	return c
}

// Register binds recordType to factory, replacing any earlier binding.
func (c *Codec) Register(recordType string, factory RecordFactory) {
	recordType = strings.TrimSpace(recordType)
	if recordType == "" || factory == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[recordType] = factory
}

// RecordTypes lists registered record types.
func (c *Codec) RecordTypes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.factories))
	for recordType := range c.factories {
		out = append(out, recordType)
	}
	sort.Strings(out)
	return out
}

func (c *Codec) Encode(value any) ([]byte, error) {
	resolved, ok := value.(*ResolvedPage)
	if !ok || resolved == nil {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, value)
	}

	env := envelope{Kind: resolved.Kind, Slug: resolved.Slug}
	switch {
	case resolved.IsRoot():
		env.Page = resolved.Root.Page
	case resolved.IsNested():
		env.Page = resolved.Nested.ParentPage
		env.ChildSlug = resolved.Nested.ChildSlug
		env.RepositoryHandle = resolved.Nested.RepositoryHandle
		if record := resolved.Nested.Content; !content.IsNil(record) {
			data, err := json.Marshal(record)
			if err != nil {
				return nil, fmt.Errorf("resolution codec: encode content: %w", err)
			}
			env.ContentType = record.RecordType()
			env.Content = data
		}
	default:
		return nil, fmt.Errorf("%w: kind %q", ErrMalformedEnvelope, resolved.Kind)
	}
	return json.Marshal(env)
}

func (c *Codec) Decode(data []byte) (any, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	switch env.Kind {
	case KindRoot:
		if env.Page == nil {
			return nil, fmt.Errorf("%w: root without page", ErrMalformedEnvelope)
		}
		return newRootPage(env.Slug, env.Page), nil
	case KindNested:
		record, err := c.decodeRecord(env.ContentType, env.Content)
		if err != nil {
			return nil, err
		}
		return newNestedPage(env.Slug, env.Page, record, env.ChildSlug, env.RepositoryHandle), nil
	}
	return nil, fmt.Errorf("%w: kind %q", ErrMalformedEnvelope, env.Kind)
}

func (c *Codec) decodeRecord(recordType string, data json.RawMessage) (content.Record, error) {
	if recordType == "" || len(data) == 0 {
		return nil, fmt.Errorf("%w: nested without content", ErrMalformedEnvelope)
	}
	c.mu.RLock()
	factory, ok := c.factories[recordType]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRecordType, recordType)
	}
	record := factory()
	if err := json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("resolution codec: decode %s: %w", recordType, err)
	}
	return record, nil
}
