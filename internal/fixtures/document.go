package fixtures

import (
	_ "embed"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/goliatone/go-pageresolver/internal/validation"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *validation.Schema
	schemaErr      error
)

// Document is a seed file describing pages, content and block mappings.
type Document struct {
	Pages    []PageFixture       `yaml:"pages"`
	Articles []ArticleFixture    `yaml:"articles"`
	Products []ProductFixture    `yaml:"products"`
	Mappings map[string][]string `yaml:"mappings"`
}

type PageFixture struct {
	Slug        string         `yaml:"slug"`
	Title       string         `yaml:"title"`
	Parent      string         `yaml:"parent"`
	Status      string         `yaml:"status"`
	PublishAt   *time.Time     `yaml:"publish_at"`
	UnpublishAt *time.Time     `yaml:"unpublish_at"`
	Blocks      []BlockFixture `yaml:"blocks"`
}

type BlockFixture struct {
	Type     string         `yaml:"type"`
	Position *int           `yaml:"position"`
	Data     map[string]any `yaml:"data"`
}

type ArticleFixture struct {
	Title       string     `yaml:"title"`
	Slug        string     `yaml:"slug"`
	Status      string     `yaml:"status"`
	Summary     string     `yaml:"summary"`
	Body        string     `yaml:"body"`
	PublishedAt *time.Time `yaml:"published_at"`
	ExpiredAt   *time.Time `yaml:"expired_at"`
}

type ProductFixture struct {
	Name        string     `yaml:"name"`
	Slug        string     `yaml:"slug"`
	SKU         string     `yaml:"sku"`
	Status      string     `yaml:"status"`
	PriceCents  int64      `yaml:"price_cents"`
	Currency    string     `yaml:"currency"`
	PublishedAt *time.Time `yaml:"published_at"`
	ExpiredAt   *time.Time `yaml:"expired_at"`
}

func documentSchema() (*validation.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = validation.Compile("fixtures.schema.json", schemaJSON)
	})
	return compiledSchema, schemaErr
}

// Parse validates data against the fixture schema and decodes it.
func Parse(data []byte) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("fixtures: parse yaml: %w", err)
	}
	if raw == nil {
		return &Document{}, nil
	}

	schema, err := documentSchema()
	if err != nil {
		return nil, fmt.Errorf("fixtures: load schema: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("fixtures: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("fixtures: decode: %w", err)
	}
	return &doc, nil
}

// Load reads and parses the fixture file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: read %s: %w", path, err)
	}
	return Parse(data)
}
