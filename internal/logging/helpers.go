package logging

import (
	"maps"
	"strings"

	"github.com/goliatone/go-pageresolver/pkg/interfaces"
)

// WithFields attaches structured fields to a logger when the implementation
// supports the optional FieldsLogger extension.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(maps.Clone(fields))
	}
	return logger
}

// WithSlug scopes a logger to a single resolution request.
func WithSlug(logger interfaces.Logger, slug string) interfaces.Logger {
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		return WithFields(logger, map[string]any{fieldSlug: trimmed})
	}
	return logger
}
