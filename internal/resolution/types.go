package resolution

import (
	"github.com/goliatone/go-pageresolver/internal/content"
	"github.com/goliatone/go-pageresolver/internal/pages"
)

// Kind discriminates the two shapes of a resolved page.
type Kind string

const (
	KindRoot   Kind = "root"
	KindNested Kind = "nested"
)

// ResolvedPage is the outcome of a successful resolution. Exactly one of Root
// and Nested is set, matching Kind.
type ResolvedPage struct {
	Kind   Kind
	Slug   string
	Root   *RootPage
	Nested *NestedPage
}

// RootPage wraps a static page matched by its full slug.
type RootPage struct {
	Page *pages.Page
}

// NestedPage wraps content resolved below a static parent page.
type NestedPage struct {
	ParentPage       *pages.Page
	Content          content.Record
	ChildSlug        string
	RepositoryHandle string
}

func newRootPage(slug string, page *pages.Page) *ResolvedPage {
	return &ResolvedPage{Kind: KindRoot, Slug: slug, Root: &RootPage{Page: page}}
}

func newNestedPage(slug string, parent *pages.Page, record content.Record, childSlug, handle string) *ResolvedPage {
	return &ResolvedPage{
		Kind: KindNested,
		Slug: slug,
		Nested: &NestedPage{
			ParentPage:       parent,
			Content:          record,
			ChildSlug:        childSlug,
			RepositoryHandle: handle,
		},
	}
}

func (r *ResolvedPage) IsRoot() bool {
	return r != nil && r.Kind == KindRoot && r.Root != nil
}

func (r *ResolvedPage) IsNested() bool {
	return r != nil && r.Kind == KindNested && r.Nested != nil
}

// Page returns the static page backing the result: the matched page for root
// results and the parent page for nested ones.
func (r *ResolvedPage) Page() *pages.Page {
	switch {
	case r.IsRoot():
		return r.Root.Page
	case r.IsNested():
		return r.Nested.ParentPage
	}
	return nil
}

// Content returns the primary record: the page itself for root results and
// the nested content otherwise.
func (r *ResolvedPage) Content() content.Record {
	switch {
	case r.IsRoot():
		if r.Root.Page == nil {
			return nil
		}
		return r.Root.Page
	case r.IsNested():
		return r.Nested.Content
	}
	return nil
}
