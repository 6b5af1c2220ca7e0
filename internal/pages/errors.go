package pages

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-pageresolver/internal/content"
)

var (
	ErrPageNotFound = errors.New("pages: page not found")
	ErrSlugRequired = content.ErrSlugRequired
	ErrSlugExists   = errors.New("pages: slug already exists")
)

// PageNotFoundError identifies the key that failed to resolve. It matches
// both ErrPageNotFound and content.ErrNotFound.
type PageNotFoundError struct {
	Key string
}

func (e *PageNotFoundError) Error() string {
	if e == nil || e.Key == "" {
		return ErrPageNotFound.Error()
	}
	return fmt.Sprintf("%s: %s", ErrPageNotFound.Error(), e.Key)
}

func (e *PageNotFoundError) Unwrap() error {
	return ErrPageNotFound
}

func (e *PageNotFoundError) Is(target error) bool {
	return target == content.ErrNotFound
}

// IsNotFound reports whether err marks a missing page.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPageNotFound)
}
