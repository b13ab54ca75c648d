// Package union resolves polymorphic JSON payloads into one of a fixed set of
// Go types.
//
// A union is modelled as a sealed interface U implemented by each concrete
// shape, plus a Resolver describing how a payload selects its shape. Most
// unions are discriminated: a string field such as "type" names the shape.
// Unions without such a field are resolved by trying each shape in declared
// order.
package union

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/tidwall/gjson"
)

type validator interface {
	Validate() error
}

// Variant describes one concrete shape of a union.
type Variant[U any] struct {
	// Name identifies the shape in diagnostics.
	Name string
	// Tag is the discriminant value selecting this shape. It is empty for
	// variants of trial unions.
	Tag string
	// Decode parses the full payload as this shape.
	Decode func(data []byte) (U, error)
}

// Case returns the variant that decodes payloads into V. V must implement U.
func Case[U, V any](tag string) Variant[U] {
	var zero V
	name := fmt.Sprintf("%T", zero)
	return Variant[U]{
		Name: name,
		Tag:  tag,
		Decode: func(data []byte) (U, error) {
			var v V
			var u U
			if err := json.Unmarshal(data, &v); err != nil {
				return u, err
			}
			u, ok := any(v).(U)
			if !ok {
				return u, fmt.Errorf("%s does not implement %s", name, typeName[U]())
			}
			return u, nil
		},
	}
}

// Resolver holds the resolution rules of a union. It is immutable once built
// and safe for concurrent use.
type Resolver[U any] struct {
	name     string
	field    string
	variants []Variant[U]
	tags     map[string]int
	unknown  func(raw json.RawMessage) U
}

// Discriminated returns a resolver that selects the variant whose Tag equals
// the string value of field. It panics on duplicate or empty tags.
func Discriminated[U any](name, field string, variants ...Variant[U]) *Resolver[U] {
	r := &Resolver[U]{
		name:     name,
		field:    field,
		variants: variants,
		tags:     make(map[string]int, len(variants)),
	}
	for i, v := range variants {
		if v.Tag == "" {
			panic(fmt.Sprintf("union %s: variant %s has no tag", name, v.Name))
		}
		if _, dup := r.tags[v.Tag]; dup {
			panic(fmt.Sprintf("union %s: duplicate tag %q", name, v.Tag))
		}
		r.tags[v.Tag] = i
	}
	return r
}

// Trial returns a resolver that tries each variant in order and keeps the
// first that decodes and validates.
func Trial[U any](name string, variants ...Variant[U]) *Resolver[U] {
	return &Resolver[U]{name: name, variants: variants}
}

// WithUnknown installs a fallback for payloads no variant claims. Values
// produced by the fallback read normally but fail Validate.
func (r *Resolver[U]) WithUnknown(fallback func(raw json.RawMessage) U) *Resolver[U] {
	r.unknown = fallback
	return r
}

// Name returns the union's name.
func (r *Resolver[U]) Name() string { return r.name }

// Discriminator returns the discriminator field, or "" for trial unions.
func (r *Resolver[U]) Discriminator() string { return r.field }

// Variants returns the registered variants in declared order.
func (r *Resolver[U]) Variants() []Variant[U] {
	return append([]Variant[U](nil), r.variants...)
}

// HasUnknown reports whether a fallback variant is installed.
func (r *Resolver[U]) HasUnknown() bool { return r.unknown != nil }

// Resolve parses data into one of the union's variants.
func (r *Resolver[U]) Resolve(data []byte) (Value[U], error) {
	if !gjson.ValidBytes(data) {
		return Value[U]{}, &Error{
			Union:         r.name,
			Discriminator: r.field,
			Attempts:      []Attempt{{Err: errInvalidJSON}},
		}
	}
	raw := append(json.RawMessage(nil), data...)
	if r.field == "" {
		return r.resolveTrial(raw)
	}

	tag, ok := r.discriminant(raw)
	if ok {
		if i, found := r.tags[tag]; found {
			v := r.variants[i]
			u, err := v.Decode(raw)
			if err != nil {
				return Value[U]{}, &Error{
					Union:         r.name,
					Discriminator: r.field,
					Discriminant:  tag,
					Eligible:      []string{v.Name},
					Attempts:      []Attempt{{Variant: v.Name, Err: err}},
				}
			}
			return Value[U]{variant: u, union: r.name, tag: tag, raw: raw, set: true}, nil
		}
	}

	if r.unknown != nil {
		return r.fallback(raw, tag), nil
	}
	return Value[U]{}, &Error{
		Union:         r.name,
		Discriminator: r.field,
		Discriminant:  tag,
		Eligible:      r.names(),
	}
}

// UnmarshalInto resolves data and stores the result in dst. It is the body of
// the UnmarshalJSON method of types embedding a Value.
func (r *Resolver[U]) UnmarshalInto(data []byte, dst *Value[U]) error {
	v, err := r.Resolve(data)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func (r *Resolver[U]) resolveTrial(raw json.RawMessage) (Value[U], error) {
	var attempts []Attempt
	for _, v := range r.variants {
		u, err := v.Decode(raw)
		if err == nil {
			if val, ok := any(u).(validator); ok {
				err = val.Validate()
			}
		}
		if err == nil {
			return Value[U]{variant: u, union: r.name, tag: v.Name, raw: raw, set: true}, nil
		}
		attempts = append(attempts, Attempt{Variant: v.Name, Err: err})
	}
	if r.unknown != nil {
		return r.fallback(raw, ""), nil
	}
	return Value[U]{}, &Error{Union: r.name, Eligible: r.names(), Attempts: attempts}
}

func (r *Resolver[U]) fallback(raw json.RawMessage, tag string) Value[U] {
	return Value[U]{
		variant: r.unknown(raw),
		union:   r.name,
		tag:     tag,
		raw:     raw,
		unknown: true,
		set:     true,
	}
}

func (r *Resolver[U]) discriminant(data []byte) (string, bool) {
	res := gjson.GetBytes(data, r.field)
	if res.Type != gjson.String {
		return "", false
	}
	return res.Str, true
}

func (r *Resolver[U]) names() []string {
	names := make([]string, len(r.variants))
	for i, v := range r.variants {
		names[i] = v.Name
	}
	return names
}

func typeName[U any]() string {
	return reflect.TypeOf((*U)(nil)).Elem().String()
}
