package bag

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMissingField is the kind of a read of a required key that is absent.
	ErrMissingField = errors.New("missing required field")
	// ErrNullField is the kind of a read of a non-nullable key holding null.
	ErrNullField = errors.New("null not permitted for field")
	// ErrTypeMismatch is the kind of a read whose value does not decode into
	// the requested type.
	ErrTypeMismatch = errors.New("unexpected type for field")
)

// FieldError reports a failed typed read or write of a single bag key.
type FieldError struct {
	Key  string
	Kind error
	Err  error
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v %s: %v", e.Kind, e.Key, e.Err)
	}
	return fmt.Sprintf("%v %s", e.Kind, e.Key)
}

func (e *FieldError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Opt is the result of reading an optional or nullable key. Valid is false
// when the key is absent or null.
type Opt[T any] struct {
	Value T
	Valid bool
}

// Some wraps a present value.
func Some[T any](v T) Opt[T] {
	return Opt[T]{Value: v, Valid: true}
}

// Get returns the value and whether it is present.
func (o Opt[T]) Get() (T, bool) {
	return o.Value, o.Valid
}

// Or returns the value, or def when it is absent.
func (o Opt[T]) Or(def T) T {
	if !o.Valid {
		return def
	}
	return o.Value
}

// Validate validates the wrapped value when present.
func (o Opt[T]) Validate() error {
	if !o.Valid {
		return nil
	}
	return validate(o.Value)
}

// Get decodes the required, non-nullable key into T.
func Get[T any](b *Bag, key string) (T, error) {
	var v T
	raw, ok := b.Raw(key)
	if !ok {
		return v, &FieldError{Key: key, Kind: ErrMissingField}
	}
	if isNull(raw) {
		return v, &FieldError{Key: key, Kind: ErrNullField}
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, &FieldError{Key: key, Kind: ErrTypeMismatch, Err: err}
	}
	return v, nil
}

// GetNullable decodes a key that must be present but may be null.
func GetNullable[T any](b *Bag, key string) (Opt[T], error) {
	raw, ok := b.Raw(key)
	if !ok {
		return Opt[T]{}, &FieldError{Key: key, Kind: ErrMissingField}
	}
	return decodeOpt[T](key, raw)
}

// GetOptional decodes a key that may be absent or null. Neither case is an
// error; only a value of the wrong shape is.
func GetOptional[T any](b *Bag, key string) (Opt[T], error) {
	raw, ok := b.Raw(key)
	if !ok {
		return Opt[T]{}, nil
	}
	return decodeOpt[T](key, raw)
}

func decodeOpt[T any](key string, raw json.RawMessage) (Opt[T], error) {
	if isNull(raw) {
		return Opt[T]{}, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return Opt[T]{}, &FieldError{Key: key, Kind: ErrTypeMismatch, Err: err}
	}
	return Some(v), nil
}
