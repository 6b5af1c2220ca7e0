// Package http provides an optional HTTP adapter for page resolution.
//
// Routes mount under a caller supplied base such as /api:
//   - Resolution: GET /resolve?slug=, GET /hierarchy?slug=
//   - Block mappings: GET /mappings, PUT /mappings/{type}
//   - Result cache: GET /cache, DELETE /cache, DELETE /cache?slug=
//
// Host applications can register handlers on their own mux/router as needed.
package http
