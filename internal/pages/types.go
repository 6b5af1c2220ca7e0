package pages

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/goliatone/go-pageresolver/internal/content"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	StatusDraft     = content.StatusDraft
	StatusPublished = content.StatusPublished
	StatusArchived  = content.StatusArchived

	// TypePage is the record type reported by static pages.
	TypePage = "page"

	repositoryField = "repository"
)

// Page is a static node in the site tree. Pages form a forest through ParentID.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:p"`

	ID          uuid.UUID       `bun:",pk,type:uuid" json:"id"`
	ParentID    *uuid.UUID      `bun:"parent_id,type:uuid" json:"parent_id,omitempty"`
	Slug        string          `bun:"slug,notnull,unique" json:"slug"`
	Title       string          `bun:"title" json:"title,omitempty"`
	Status      string          `bun:"status" json:"status,omitempty"`
	PublishAt   *time.Time      `bun:"publish_at,nullzero" json:"publish_at,omitempty"`
	UnpublishAt *time.Time      `bun:"unpublish_at,nullzero" json:"unpublish_at,omitempty"`
	CreatedAt   time.Time       `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time       `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	Blocks      []*BlockSetting `bun:"rel:has-many,join:id=page_id" json:"blocks,omitempty"`
}

var (
	_ content.Record        = (*Page)(nil)
	_ content.StatusCarrier = (*Page)(nil)
	_ content.PublishWindow = (*Page)(nil)
)

func (p *Page) RecordID() string   { return p.ID.String() }
func (p *Page) RecordType() string { return TypePage }

func (p *Page) RecordStatus() (string, bool) {
	status := strings.TrimSpace(p.Status)
	return status, status != ""
}

func (p *Page) PublishWindow() (*time.Time, *time.Time) {
	return p.PublishAt, p.UnpublishAt
}

// BlockSetting attaches a block of a given type to a page.
type BlockSetting struct {
	bun.BaseModel `bun:"table:page_block_settings,alias:pbs"`

	ID        uuid.UUID   `bun:",pk,type:uuid" json:"id"`
	PageID    uuid.UUID   `bun:"page_id,notnull,type:uuid" json:"page_id"`
	BlockType string      `bun:"block_type,notnull" json:"block_type"`
	Position  int         `bun:"position,notnull,default:0" json:"position"`
	Value     *BlockValue `bun:"rel:has-one,join:id=block_setting_id" json:"value,omitempty"`
}

// BlockValue carries the opaque configuration payload of a block setting.
type BlockValue struct {
	bun.BaseModel `bun:"table:page_block_values,alias:pbv"`

	ID             uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	BlockSettingID uuid.UUID      `bun:"block_setting_id,notnull,type:uuid" json:"block_setting_id"`
	Data           map[string]any `bun:"data,type:jsonb" json:"data,omitempty"`
}

// Repository returns the explicit repository handle configured on the
// payload. The key is read from the top level first, then from an embedded
// "data" object or JSON-encoded "data" string.
func (v *BlockValue) Repository() (string, bool) {
	if v == nil || len(v.Data) == 0 {
		return "", false
	}
	if handle, ok := stringField(v.Data, repositoryField); ok {
		return handle, true
	}
	switch nested := v.Data["data"].(type) {
	case map[string]any:
		return stringField(nested, repositoryField)
	case string:
		var decoded map[string]any
		if err := json.Unmarshal([]byte(nested), &decoded); err != nil {
			return "", false
		}
		return stringField(decoded, repositoryField)
	}
	return "", false
}

func stringField(data map[string]any, key string) (string, bool) {
	raw, ok := data[key].(string)
	if !ok {
		return "", false
	}
	trimmed := strings.TrimSpace(raw)
	return trimmed, trimmed != ""
}
