// Package slugs canonicalises URL paths into lookup keys.
package slugs

import (
	"strings"
	"unicode"
)

// Root is the canonical slug of the site root.
const Root = "/"

// Normalize returns the canonical form of a raw path: a leading slash, no
// repeated slashes and no trailing slash except for the root itself. Blank
// input maps to Root.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Root
	}

	var b strings.Builder
	b.Grow(len(trimmed) + 1)
	b.WriteByte('/')
	prevSlash := true
	for i := 0; i < len(trimmed); i++ {
		c := trimmed[i]
		if c == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteByte(c)
	}

	out := strings.TrimRightFunc(b.String(), func(r rune) bool {
		return r == '/' || unicode.IsSpace(r)
	})
	if out == "" {
		return Root
	}
	return out
}

// Segments splits a slug on "/" and drops empty parts.
func Segments(slug string) []string {
	parts := strings.Split(slug, "/")
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Path joins segments into a normalized slug with a leading slash.
func Path(segments []string) string {
	return Normalize(strings.Join(segments, "/"))
}

// Relative joins segments without a leading slash.
func Relative(segments []string) string {
	return strings.Join(segments, "/")
}

// IsRoot reports whether the raw value normalizes to the root slug.
func IsRoot(raw string) bool {
	return Normalize(raw) == Root
}
