package model

import (
	"bytes"
	"encoding/json"
)

// Optional is a JSON field that remembers whether it appeared in the payload
// and whether it was an explicit null. An absent field means "leave
// unchanged"; a null field means "clear the value" — the two must never
// collapse into one.
type Optional[T any] struct {
	set   bool
	valid bool
	value T
}

// Some returns a present, non-null Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{set: true, valid: true, value: v}
}

// Null returns a present Optional holding an explicit null.
func Null[T any]() Optional[T] {
	return Optional[T]{set: true}
}

// IsSet reports whether the field appeared in the payload at all.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// Get returns the value and whether one is present (set and non-null).
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.valid
}

// Ptr returns a pointer to the value, or nil for an absent or null field.
func (o Optional[T]) Ptr() *T {
	if !o.valid {
		return nil
	}
	v := o.value
	return &v
}

// UnmarshalJSON is only invoked for fields present in the payload, so a zero
// Optional stays "absent" and a decoded one is always marked set.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	if bytes.Equal(data, []byte("null")) {
		o.valid = false
		return nil
	}
	if err := json.Unmarshal(data, &o.value); err != nil {
		return err
	}
	o.valid = true
	return nil
}
