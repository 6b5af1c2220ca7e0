package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/goliatone/go-pageresolver/internal/logging"
	"github.com/goliatone/go-pageresolver/internal/pages"
	"github.com/goliatone/go-pageresolver/internal/resolution"
	"github.com/goliatone/go-pageresolver/pkg/interfaces"
)

// Resolver is the facade surface served over HTTP.
type Resolver interface {
	Resolve(ctx context.Context, slug string) *resolution.ResolvedPage
	Hierarchy(ctx context.Context, resolved *resolution.ResolvedPage) []*pages.Page
	ClearPageCache(ctx context.Context, slug string) error
	ClearAllPageCache(ctx context.Context) (int, error)
	CacheStats() resolution.CacheStats
	AddBlockMapping(blockType string, handles ...string) error
	BlockMappings() map[string][]string
}

type mappingPayload struct {
	Repositories []string `json:"repositories"`
}

type mappingResponse struct {
	BlockType    string   `json:"block_type"`
	Repositories []string `json:"repositories"`
}

type clearResponse struct {
	Slug    string `json:"slug,omitempty"`
	Removed int    `json:"removed"`
}

// API exposes resolution routes.
type API struct {
	resolver Resolver
	logger   interfaces.Logger
}

// APIOption customises the API.
type APIOption func(*API)

func WithLogger(logger interfaces.Logger) APIOption {
	return func(api *API) {
		if logger != nil {
			api.logger = logger
		}
	}
}

func NewAPI(resolver Resolver, opts ...APIOption) *API {
	api := &API{resolver: resolver, logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// Register mounts every route below base.
func (api *API) Register(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	mux.HandleFunc("GET "+joinPath(base, "resolve"), api.handleResolve)
	mux.HandleFunc("GET "+joinPath(base, "hierarchy"), api.handleHierarchy)
	mux.HandleFunc("GET "+joinPath(base, "mappings"), api.handleMappingList)
	mux.HandleFunc("PUT "+joinPath(base, "mappings")+"/{type}", api.handleMappingPut)
	mux.HandleFunc("GET "+joinPath(base, "cache"), api.handleCacheStats)
	mux.HandleFunc("DELETE "+joinPath(base, "cache"), api.handleCacheClear)
}

// Handler returns a mux with every route mounted below base.
func (api *API) Handler(base string) http.Handler {
	mux := http.NewServeMux()
	api.Register(mux, base)
	return mux
}

func (api *API) available(w http.ResponseWriter) bool {
	if api == nil || api.resolver == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return false
	}
	return true
}

func (api *API) resolveQuery(w http.ResponseWriter, r *http.Request) (*resolution.ResolvedPage, bool) {
	slug := r.URL.Query().Get("slug")
	resolved := api.resolver.Resolve(r.Context(), slug)
	if resolved == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: "no page matches " + slug})
		return nil, false
	}
	return resolved, true
}

func (api *API) handleResolve(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	resolved, ok := api.resolveQuery(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, NewResolveView(resolved))
}

func (api *API) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	resolved, ok := api.resolveQuery(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, NewPageViews(api.resolver.Hierarchy(r.Context(), resolved)))
}

func (api *API) handleMappingList(w http.ResponseWriter, _ *http.Request) {
	if !api.available(w) {
		return
	}
	writeJSON(w, http.StatusOK, api.resolver.BlockMappings())
}

func (api *API) handleMappingPut(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	var payload mappingPayload
	if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	blockType := r.PathValue("type")
	if err := api.resolver.AddBlockMapping(blockType, payload.Repositories...); err != nil {
		writeError(w, err)
		return
	}
	key := strings.ToLower(strings.TrimSpace(blockType))
	writeJSON(w, http.StatusOK, mappingResponse{
		BlockType:    key,
		Repositories: api.resolver.BlockMappings()[key],
	})
}

func (api *API) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	if !api.available(w) {
		return
	}
	writeJSON(w, http.StatusOK, api.resolver.CacheStats())
}

func (api *API) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	if slug := r.URL.Query().Get("slug"); slug != "" {
		if err := api.resolver.ClearPageCache(r.Context(), slug); err != nil {
			api.logger.Error("http.cache.clear_failed", "slug", slug, "error", err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, clearResponse{Slug: slug})
		return
	}
	removed, err := api.resolver.ClearAllPageCache(r.Context())
	if err != nil {
		api.logger.Error("http.cache.clear_all_failed", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clearResponse{Removed: removed})
}
