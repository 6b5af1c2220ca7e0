package content

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	TypeArticle = "article"
	TypeProduct = "product"
)

// Article is an editorial entry resolvable below listing pages.
type Article struct {
	bun.BaseModel `bun:"table:articles,alias:a"`

	ID          uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Title       string     `bun:"title,notnull" json:"title"`
	Slug        string     `bun:"slug,notnull,unique" json:"slug"`
	Status      string     `bun:"status" json:"status,omitempty"`
	Summary     string     `bun:"summary" json:"summary,omitempty"`
	Body        string     `bun:"body" json:"body,omitempty"`
	PublishedAt *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	ExpiredAt   *time.Time `bun:"expired_at,nullzero" json:"expired_at,omitempty"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

var (
	_ Record        = (*Article)(nil)
	_ StatusCarrier = (*Article)(nil)
	_ PublishWindow = (*Article)(nil)
)

func (a *Article) RecordID() string   { return a.ID.String() }
func (a *Article) RecordType() string { return TypeArticle }

func (a *Article) RecordStatus() (string, bool) {
	status := strings.TrimSpace(a.Status)
	return status, status != ""
}

func (a *Article) PublishWindow() (*time.Time, *time.Time) {
	return a.PublishedAt, a.ExpiredAt
}

// Product is a catalogue item resolvable below shop pages.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:pr"`

	ID          uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Name        string     `bun:"name,notnull" json:"name"`
	Slug        string     `bun:"slug,notnull,unique" json:"slug"`
	SKU         string     `bun:"sku" json:"sku,omitempty"`
	Status      string     `bun:"status" json:"status,omitempty"`
	PriceCents  int64      `bun:"price_cents,notnull,default:0" json:"price_cents"`
	Currency    string     `bun:"currency" json:"currency,omitempty"`
	PublishedAt *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	ExpiredAt   *time.Time `bun:"expired_at,nullzero" json:"expired_at,omitempty"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

var (
	_ Record        = (*Product)(nil)
	_ StatusCarrier = (*Product)(nil)
	_ PublishWindow = (*Product)(nil)
)

func (p *Product) RecordID() string   { return p.ID.String() }
func (p *Product) RecordType() string { return TypeProduct }

func (p *Product) RecordStatus() (string, bool) {
	status := strings.TrimSpace(p.Status)
	return status, status != ""
}

func (p *Product) PublishWindow() (*time.Time, *time.Time) {
	return p.PublishedAt, p.ExpiredAt
}
