package content

import (
	"reflect"
	"time"
)

// IsValid reports whether a record is currently live. Status must be active
// when present, publishedAt must not be in the future and expiredAt must be
// strictly after now. Missing fields are permissive.
func IsValid(record Record, now time.Time) bool {
	if IsNil(record) {
		return false
	}

	if carrier, ok := record.(StatusCarrier); ok {
		if status, set := carrier.RecordStatus(); set && !IsActiveStatus(status) {
			return false
		}
	}

	if window, ok := record.(PublishWindow); ok {
		publishedAt, expiredAt := window.PublishWindow()
		if publishedAt != nil && publishedAt.After(now) {
			return false
		}
		if expiredAt != nil && !expiredAt.After(now) {
			return false
		}
	}

	return true
}

// Validator is the function signature used by lookups to filter records.
type Validator func(record Record, now time.Time) bool

// IsNil reports whether record is nil or wraps a nil pointer.
func IsNil(record Record) bool {
	if record == nil {
		return true
	}
	value := reflect.ValueOf(record)
	switch value.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return value.IsNil()
	default:
		return false
	}
}
