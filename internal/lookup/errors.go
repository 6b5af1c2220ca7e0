package lookup

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-pageresolver/internal/content"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
)

const (
	registrationCode    = "LOOKUP_REGISTRATION_INVALID"
	instantiateFailCode = "LOOKUP_INSTANTIATION_FAILED"
)

var (
	ErrNoLookupMethods = errors.New("lookup: repository exposes no slug lookup methods")
	ErrHandleRequired  = errors.New("lookup: handle is required")
)

// UnknownHandleError is returned when no repository is registered for a handle.
type UnknownHandleError struct {
	Handle string
}

func (e *UnknownHandleError) Error() string {
	return fmt.Sprintf("lookup: unknown repository handle %q", e.Handle)
}

// PanicError carries a value recovered from a lookup probe.
type PanicError struct {
	Method string
	Value  any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("lookup: %s panicked: %v", e.Method, e.Value)
}

func wrapRegistrationError(err error) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "repository registration rejected").
		WithTextCode(registrationCode)
}

func wrapInstantiationError(err error) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "repository instantiation failed").
		WithTextCode(instantiateFailCode)
}

// IsExpected reports whether err is an ordinary miss rather than a fault.
func IsExpected(err error) bool {
	if err == nil {
		return true
	}
	switch {
	case errors.Is(err, content.ErrNotFound),
		errors.Is(err, content.ErrInvalidArgument),
		goerrors.IsCategory(err, goerrors.CategoryValidation),
		goerrors.IsCategory(err, repository.CategoryDatabaseNotFound):
		return true
	}
	return false
}
