// Package patch models partial-update payloads where "not supplied" and
// "explicitly cleared" are different things.
package patch

import (
	"bytes"
	"encoding/json"
)

// Field is an optional JSON field. Set is true whenever the key appeared in the
// payload; Null is true when it appeared as JSON null.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a Field that is set to v.
func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Clear returns a Field that is set to null.
func Clear[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		var zero T
		f.Null = true
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(b, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Apply writes the supplied value (the zero value when cleared) into dst.
// It reports whether dst was touched.
func (f Field[T]) Apply(dst *T) bool {
	if !f.Set || dst == nil {
		return false
	}
	*dst = f.Value
	return true
}

// ApplyPtr writes into a nullable destination: null clears it, a value replaces it.
func (f Field[T]) ApplyPtr(dst **T) bool {
	if !f.Set || dst == nil {
		return false
	}
	if f.Null {
		*dst = nil
		return true
	}
	v := f.Value
	*dst = &v
	return true
}
