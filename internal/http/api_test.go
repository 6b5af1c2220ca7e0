package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/goliatone/go-pageresolver/internal/di"
	"github.com/goliatone/go-pageresolver/internal/fixtures"
	resolverhttp "github.com/goliatone/go-pageresolver/internal/http"
	"github.com/goliatone/go-pageresolver/internal/runtimeconfig"
	"github.com/goliatone/go-pageresolver/pkg/testsupport"
)

func setupAPI(t *testing.T, cfg runtimeconfig.Config) http.Handler {
	t.Helper()
	container, err := di.NewContainer(cfg, di.WithLoggerProvider(testsupport.NewRecordingLogger()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	doc, err := fixtures.Load("../fixtures/testdata/site.yaml")
	if err != nil {
		t.Fatalf("load fixtures: %v", err)
	}
	if _, err := container.Seeder().Seed(context.Background(), doc); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return resolverhttp.NewAPI(container.ResolutionService()).Handler("/api")
}

func doJSONRequest(t *testing.T, handler http.Handler, method, path string, body any, wantStatus int) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != wantStatus {
		t.Fatalf("%s %s: status %d, want %d, body %s", method, path, rec.Code, wantStatus, rec.Body.String())
	}
	return rec
}

func decodeJSONBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestAPIResolveRoutes(t *testing.T) {
	handler := setupAPI(t, runtimeconfig.DefaultConfig())

	var root resolverhttp.ResolveView
	decodeJSONBody(t, doJSONRequest(t, handler, http.MethodGet, "/api/resolve?slug=/cars", nil, http.StatusOK), &root)
	if root.Kind != "root" || root.Page == nil || root.Page.Slug != "/cars" {
		t.Fatalf("unexpected root view %#v", root)
	}

	var nested resolverhttp.ResolveView
	decodeJSONBody(t, doJSONRequest(t, handler, http.MethodGet, "/api/resolve?slug=/blog/road-trip", nil, http.StatusOK), &nested)
	if nested.Kind != "nested" || nested.RecordType != "article" || nested.Repository != "ArticleRepository" {
		t.Fatalf("unexpected nested view %#v", nested)
	}
	if fields, ok := nested.Content.(map[string]any); !ok || fields["slug"] != "road-trip" {
		t.Fatalf("unexpected nested content %#v", nested.Content)
	}

	doJSONRequest(t, handler, http.MethodGet, "/api/resolve?slug=/blog/upcoming", nil, http.StatusNotFound)

	var chain []resolverhttp.PageView
	decodeJSONBody(t, doJSONRequest(t, handler, http.MethodGet, "/api/hierarchy?slug=/cars/electric/civic-2024", nil, http.StatusOK), &chain)
	var slugs []string
	for _, page := range chain {
		slugs = append(slugs, page.Slug)
	}
	if want := []string{"/", "/cars", "/cars/electric"}; !reflect.DeepEqual(slugs, want) {
		t.Fatalf("hierarchy = %v, want %v", slugs, want)
	}
}

func TestAPIMappingRoutes(t *testing.T) {
	handler := setupAPI(t, runtimeconfig.DefaultConfig())

	body := map[string]any{"repositories": []string{"ArticleRepository", "ProductRepository"}}
	var updated map[string]any
	decodeJSONBody(t, doJSONRequest(t, handler, http.MethodPut, "/api/mappings/Gallery", body, http.StatusOK), &updated)
	if updated["block_type"] != "gallery" {
		t.Fatalf("unexpected mapping response %#v", updated)
	}

	var mappings map[string][]string
	decodeJSONBody(t, doJSONRequest(t, handler, http.MethodGet, "/api/mappings", nil, http.StatusOK), &mappings)
	if got := mappings["gallery"]; !reflect.DeepEqual(got, []string{"ArticleRepository", "ProductRepository"}) {
		t.Fatalf("gallery mapping = %v", got)
	}

	rec := doJSONRequest(t, handler, http.MethodPut, "/api/mappings/empty", map[string]any{"repositories": []string{}}, http.StatusBadRequest)
	var failure map[string]any
	decodeJSONBody(t, rec, &failure)
	if failure["error"] != "validation_failed" {
		t.Fatalf("unexpected error body %#v", failure)
	}

	doJSONRequest(t, handler, http.MethodPut, "/api/mappings/hero", map[string]any{"unknown": true}, http.StatusBadRequest)
}

func TestAPICacheRoutes(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Environment = runtimeconfig.EnvironmentProduction
	handler := setupAPI(t, cfg)

	var stats map[string]any
	decodeJSONBody(t, doJSONRequest(t, handler, http.MethodGet, "/api/cache", nil, http.StatusOK), &stats)
	if stats["enabled"] != true || stats["driver"] != "memory" {
		t.Fatalf("unexpected stats %#v", stats)
	}

	doJSONRequest(t, handler, http.MethodGet, "/api/resolve?slug=/cars", nil, http.StatusOK)
	doJSONRequest(t, handler, http.MethodDelete, "/api/cache?slug=/cars", nil, http.StatusOK)

	var cleared map[string]any
	decodeJSONBody(t, doJSONRequest(t, handler, http.MethodDelete, "/api/cache", nil, http.StatusOK), &cleared)
	if cleared["removed"] != float64(0) {
		t.Fatalf("expected the slug delete to leave nothing to clear, got %#v", cleared)
	}
}

func TestAPIWithoutResolver(t *testing.T) {
	handler := resolverhttp.NewAPI(nil).Handler("/api")
	doJSONRequest(t, handler, http.MethodGet, "/api/resolve?slug=/", nil, http.StatusServiceUnavailable)
}
