package pages_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-pageresolver/internal/pages"
	"github.com/google/uuid"
)

func TestMemoryPageRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := pages.NewMemoryPageRepository()

	parent, err := repo.Create(ctx, &pages.Page{Slug: "/cars", Status: pages.StatusPublished})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	child, err := repo.Create(ctx, &pages.Page{
		Slug:     "/cars/product",
		ParentID: &parent.ID,
		Status:   pages.StatusPublished,
		Blocks: []*pages.BlockSetting{
			{BlockType: "footer", Position: 2},
			{BlockType: "product_detail", Position: 1, Value: &pages.BlockValue{Data: map[string]any{"repository": "ProductRepository"}}},
		},
	})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	if child.ID == uuid.Nil {
		t.Fatalf("expected generated id")
	}

	got, err := repo.GetBySlug(ctx, "/cars/product")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if len(got.Blocks) != 2 || got.Blocks[0].BlockType != "product_detail" {
		t.Fatalf("expected blocks ordered by position, got %+v", got.Blocks)
	}
	if got.Blocks[0].PageID != child.ID || got.Blocks[0].Value.BlockSettingID != got.Blocks[0].ID {
		t.Fatalf("expected block relations to be linked")
	}

	got.Blocks[0].Value.Data["repository"] = "mutated"
	again, _ := repo.GetByID(ctx, child.ID)
	if handle, _ := again.Blocks[0].Value.Repository(); handle != "ProductRepository" {
		t.Fatalf("expected stored copy to be isolated, got %q", handle)
	}

	if _, err := repo.Create(ctx, &pages.Page{Slug: "/cars"}); !errors.Is(err, pages.ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}
	if _, err := repo.GetBySlug(ctx, "/missing"); !pages.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	all, err := repo.List(ctx)
	if err != nil || len(all) != 2 || all[0].Slug != "/cars" {
		t.Fatalf("unexpected list %v %v", all, err)
	}
}

func TestMemoryPageRepositoryPublishedFilter(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	repo := pages.NewMemoryPageRepository()

	if _, err := repo.Create(ctx, &pages.Page{Slug: "/draft", Status: pages.StatusDraft}); err != nil {
		t.Fatalf("create draft: %v", err)
	}
	if _, err := repo.Create(ctx, &pages.Page{Slug: "/scheduled", Status: pages.StatusPublished, PublishAt: &future}); err != nil {
		t.Fatalf("create scheduled: %v", err)
	}
	if _, err := repo.Create(ctx, &pages.Page{Slug: "/live", Status: pages.StatusPublished}); err != nil {
		t.Fatalf("create live: %v", err)
	}

	for _, slug := range []string{"/draft", "/scheduled"} {
		if _, err := repo.FindPublishedBySlug(ctx, slug, now); !pages.IsNotFound(err) {
			t.Fatalf("expected %s to be hidden, got %v", slug, err)
		}
	}

	record, err := repo.FindBySlug(ctx, "/live", now)
	if err != nil {
		t.Fatalf("find live: %v", err)
	}
	if record.RecordType() != pages.TypePage {
		t.Fatalf("unexpected record type %s", record.RecordType())
	}
}
