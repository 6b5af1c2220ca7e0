package content_test

import (
	"testing"
	"time"

	"github.com/goliatone/go-pageresolver/internal/content"
)

type bareRecord struct{}

func (bareRecord) RecordID() string   { return "bare" }
func (bareRecord) RecordType() string { return "bare" }

func timePtr(t time.Time) *time.Time { return &t }

func TestIsValid(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		record content.Record
		want   bool
	}{
		{"nil record", nil, false},
		{"typed nil record", (*content.Article)(nil), false},
		{"record without fields", bareRecord{}, true},
		{"article without status or window", &content.Article{}, true},
		{"published status", &content.Article{Status: "published"}, true},
		{"active status any case", &content.Article{Status: "Active"}, true},
		{"draft status", &content.Article{Status: "draft"}, false},
		{"future publish active status", &content.Article{Status: "active", PublishedAt: timePtr(now.Add(time.Minute))}, false},
		{"future publish without status", &content.Article{PublishedAt: timePtr(now.Add(time.Second))}, false},
		{"publish at now", &content.Article{PublishedAt: timePtr(now)}, true},
		{"expiry equal to now", &content.Article{ExpiredAt: timePtr(now)}, false},
		{"expiry in the past", &content.Article{ExpiredAt: timePtr(now.Add(-time.Hour))}, false},
		{"expiry in the future", &content.Product{Status: "published", ExpiredAt: timePtr(now.Add(time.Nanosecond))}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := content.IsValid(tc.record, now); got != tc.want {
				t.Fatalf("IsValid = %v, want %v", got, tc.want)
			}
		})
	}
}
