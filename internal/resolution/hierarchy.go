package resolution

import (
	"context"

	"github.com/goliatone/go-pageresolver/internal/pages"
	"github.com/google/uuid"
)

// Hierarchy returns the static page chain for resolved, root first. For
// nested results the chain ends at the parent page. A missing ancestor or a
// parent cycle truncates the chain.
func (s *Service) Hierarchy(ctx context.Context, resolved *ResolvedPage) []*pages.Page {
	start := resolved.Page()
	if start == nil {
		return nil
	}
	return s.ancestors(ctx, start)
}

func (s *Service) ancestors(ctx context.Context, leaf *pages.Page) []*pages.Page {
	chain := []*pages.Page{leaf}
	if s.pages == nil {
		return chain
	}
	visited := map[uuid.UUID]struct{}{leaf.ID: {}}

	current := leaf
	for current.ParentID != nil && *current.ParentID != uuid.Nil {
		parentID := *current.ParentID
		if _, seen := visited[parentID]; seen {
			s.logger.Warn("pages.hierarchy.cycle", "page_id", current.ID.String(), "parent_id", parentID.String())
			break
		}
		parent, err := s.pages.GetByID(ctx, parentID)
		if err != nil || parent == nil {
			if err != nil && !pages.IsNotFound(err) {
				s.logger.Warn("pages.hierarchy.lookup_failed", "parent_id", parentID.String(), "error", err)
			}
			break
		}
		visited[parentID] = struct{}{}
		chain = append(chain, parent)
		current = parent
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
