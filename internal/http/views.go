package http

import (
	"github.com/goliatone/go-pageresolver/internal/pages"
	"github.com/goliatone/go-pageresolver/internal/resolution"
)

// PageView is the wire shape of a static page.
type PageView struct {
	ID       string `json:"id"`
	Slug     string `json:"slug"`
	Title    string `json:"title,omitempty"`
	ParentID string `json:"parent_id,omitempty"`
}

// ResolveView is the wire shape of a resolution result.
type ResolveView struct {
	Kind       string    `json:"kind"`
	Slug       string    `json:"slug"`
	Page       *PageView `json:"page"`
	ChildSlug  string    `json:"child_slug,omitempty"`
	Repository string    `json:"repository,omitempty"`
	RecordType string    `json:"record_type,omitempty"`
	Content    any       `json:"content,omitempty"`
}

func NewPageView(page *pages.Page) *PageView {
	if page == nil {
		return nil
	}
	view := &PageView{ID: page.ID.String(), Slug: page.Slug, Title: page.Title}
	if page.ParentID != nil {
		view.ParentID = page.ParentID.String()
	}
	return view
}

// NewPageViews maps a hierarchy chain, keeping its order.
func NewPageViews(chain []*pages.Page) []*PageView {
	views := make([]*PageView, 0, len(chain))
	for _, page := range chain {
		views = append(views, NewPageView(page))
	}
	return views
}

func NewResolveView(resolved *resolution.ResolvedPage) *ResolveView {
	if resolved == nil {
		return nil
	}
	view := &ResolveView{
		Kind: string(resolved.Kind),
		Slug: resolved.Slug,
		Page: NewPageView(resolved.Page()),
	}
	if resolved.IsNested() {
		view.ChildSlug = resolved.Nested.ChildSlug
		view.Repository = resolved.Nested.RepositoryHandle
		view.Content = resolved.Nested.Content
		if resolved.Nested.Content != nil {
			view.RecordType = resolved.Nested.Content.RecordType()
		}
	}
	return view
}
