package content

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("content: record not found")
	ErrInvalidArgument = errors.New("content: invalid argument")
	ErrSlugRequired    = fmt.Errorf("%w: slug is required", ErrInvalidArgument)
)

// NotFoundError reports a missing record for a resource/key pair.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ErrNotFound.Error()
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
