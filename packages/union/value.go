package union

import (
	"encoding/json"
	"fmt"
)

// Value holds the resolved variant of a union. Types representing a union
// embed a Value and implement UnmarshalJSON with Resolver.UnmarshalInto.
type Value[U any] struct {
	variant U
	union   string
	tag     string
	raw     json.RawMessage
	unknown bool
	set     bool
}

// New wraps a concrete variant, typically to send it in a request.
func New[U any](variant U) Value[U] {
	return Value[U]{variant: variant, set: true}
}

// Variant returns the held shape. Use a type switch to inspect it.
func (v Value[U]) Variant() U {
	return v.variant
}

// Tag returns the discriminant the value was resolved from. For trial unions
// it is the name of the variant that matched.
func (v Value[U]) Tag() string {
	return v.tag
}

// IsUnknown reports whether the payload was absorbed by the fallback variant.
func (v Value[U]) IsUnknown() bool {
	return v.unknown
}

// IsSet reports whether the value holds a variant.
func (v Value[U]) IsSet() bool {
	return v.set
}

// RawJSON returns the payload the value was resolved from, or nil for values
// built with New.
func (v Value[U]) RawJSON() json.RawMessage {
	return v.raw
}

// Validate fails for fallback values and otherwise validates the variant.
func (v Value[U]) Validate() error {
	if v.unknown {
		if v.tag != "" {
			return fmt.Errorf("%w: %s resolved %q to its fallback", ErrUnknownVariant, v.union, v.tag)
		}
		return fmt.Errorf("%w: %s resolved to its fallback", ErrUnknownVariant, v.union)
	}
	if val, ok := any(v.variant).(validator); ok {
		return val.Validate()
	}
	return nil
}

// MarshalJSON writes the held variant as is. The discriminator is part of the
// variant's own fields and is not added or checked here.
func (v Value[U]) MarshalJSON() ([]byte, error) {
	if !v.set {
		return []byte("null"), nil
	}
	if v.unknown {
		return v.raw, nil
	}
	return json.Marshal(v.variant)
}
