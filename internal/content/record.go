package content

import (
	"strings"
	"time"
)

const (
	StatusDraft     = "draft"
	StatusActive    = "active"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Record is any entity addressable by slug that resolution can surface.
type Record interface {
	RecordID() string
	RecordType() string
}

// StatusCarrier is implemented by records that carry a lifecycle status.
// ok is false when the record has no status set.
type StatusCarrier interface {
	RecordStatus() (status string, ok bool)
}

// PublishWindow is implemented by records with optional publish and expiry
// timestamps. A nil timestamp places no constraint.
type PublishWindow interface {
	PublishWindow() (publishedAt, expiredAt *time.Time)
}

// IsActiveStatus reports whether status is one of the canonical live values.
func IsActiveStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case StatusActive, StatusPublished:
		return true
	default:
		return false
	}
}
