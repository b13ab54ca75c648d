// Package bag provides the property bag that backs every resource and params
// type in the SDK.
//
// A Bag is an ordered mapping from JSON field name to the raw JSON value
// received from (or destined for) the API. Models never store typed fields:
// their accessors decode from the bag on every read and encode into it on
// every write, so fields added to the API after the client was generated
// survive a decode/encode round trip untouched.
package bag

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var null = json.RawMessage("null")

// Bag is an insertion-ordered store of raw JSON values keyed by field name.
//
// The zero value is an empty bag ready to use. A stored map is never mutated:
// writes install a modified copy, so assigning a Bag, or a model embedding
// one, yields two independent values.
type Bag struct {
	props *orderedmap.OrderedMap[string, json.RawMessage]
	err   error
}

// writable replaces props with a private copy and returns it.
func (b *Bag) writable() *orderedmap.OrderedMap[string, json.RawMessage] {
	props := orderedmap.New[string, json.RawMessage]()
	b.Range(func(key string, raw json.RawMessage) bool {
		props.Set(key, raw)
		return true
	})
	b.props = props
	return props
}

// Raw returns the raw JSON stored under key.
func (b Bag) Raw(key string) (json.RawMessage, bool) {
	if b.props == nil {
		return nil, false
	}
	return b.props.Get(key)
}

// Has reports whether key is present, including keys explicitly set to null.
func (b Bag) Has(key string) bool {
	_, ok := b.Raw(key)
	return ok
}

// IsNull reports whether key is present and holds an explicit null.
func (b Bag) IsNull(key string) bool {
	raw, ok := b.Raw(key)
	return ok && isNull(raw)
}

// Len returns the number of keys in the bag.
func (b Bag) Len() int {
	if b.props == nil {
		return 0
	}
	return b.props.Len()
}

// Keys returns the keys in insertion order.
func (b Bag) Keys() []string {
	keys := make([]string, 0, b.Len())
	b.Range(func(key string, _ json.RawMessage) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Range calls fn for each key in insertion order until fn returns false.
func (b Bag) Range(fn func(key string, raw json.RawMessage) bool) {
	if b.props == nil {
		return
	}
	for pair := b.props.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Set encodes v and stores it under key, replacing any previous value. A nil
// v stores an explicit null. Encoding failures are kept and reported by
// MarshalJSON and Err.
func (b *Bag) Set(key string, v any) {
	if v == nil {
		b.writable().Set(key, null)
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		b.err = errors.Join(b.err, &FieldError{Key: key, Kind: ErrTypeMismatch, Err: err})
		return
	}
	b.writable().Set(key, json.RawMessage(data))
}

// SetRaw stores already encoded JSON under key. The value is compacted but
// not otherwise interpreted.
func (b *Bag) SetRaw(key string, raw json.RawMessage) error {
	if !json.Valid(raw) {
		return &FieldError{Key: key, Kind: ErrTypeMismatch, Err: errors.New("invalid JSON")}
	}
	b.writable().Set(key, compact(raw))
	return nil
}

// SetNull stores an explicit null under key.
func (b *Bag) SetNull(key string) {
	b.Set(key, nil)
}

// Delete removes key. Deleting an absent key is a no-op.
func (b *Bag) Delete(key string) {
	if !b.Has(key) {
		return
	}
	b.writable().Delete(key)
}

// Err returns the encoding failures collected by Set.
func (b Bag) Err() error {
	return b.err
}

// Clone returns a deep copy of the bag.
func (b Bag) Clone() Bag {
	var out Bag
	out.err = b.err
	if b.props == nil {
		return out
	}
	props := out.writable()
	b.Range(func(key string, raw json.RawMessage) bool {
		props.Set(key, append(json.RawMessage(nil), raw...))
		return true
	})
	return out
}

// Equal reports whether both bags hold the same keys with semantically equal
// JSON values. Key order is not significant.
func (b Bag) Equal(other Bag) bool {
	if b.Len() != other.Len() {
		return false
	}
	equal := true
	b.Range(func(key string, raw json.RawMessage) bool {
		o, ok := other.Raw(key)
		if !ok || !rawEqual(raw, o) {
			equal = false
		}
		return equal
	})
	return equal
}

// String returns the bag as compact JSON in insertion order.
func (b Bag) String() string {
	data, err := b.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<invalid: %v>", err)
	}
	return string(data)
}

// MarshalJSON writes the bag's keys in insertion order.
func (b Bag) MarshalJSON() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	var err error
	b.Range(func(key string, raw json.RawMessage) bool {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		var k []byte
		if k, err = json.Marshal(key); err != nil {
			return false
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(raw)
		return true
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces the bag's contents with the members of a JSON
// object, keeping their order.
func (b *Bag) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errors.New("bag: invalid JSON")
	}
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return fmt.Errorf("bag: expected a JSON object, got %s", describe(res))
	}
	props := orderedmap.New[string, json.RawMessage]()
	res.ForEach(func(key, value gjson.Result) bool {
		props.Set(key.String(), compact(json.RawMessage(value.Raw)))
		return true
	})
	b.props = props
	b.err = nil
	return nil
}

func compact(raw json.RawMessage) json.RawMessage {
	return json.RawMessage(pretty.Ugly(raw))
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), null)
}

func rawEqual(a, b json.RawMessage) bool {
	if bytes.Equal(a, b) {
		return true
	}
	var av, bv any
	if json.Unmarshal(a, &av) != nil || json.Unmarshal(b, &bv) != nil {
		return false
	}
	return cmp.Equal(av, bv)
}

func describe(res gjson.Result) string {
	switch {
	case res.IsArray():
		return "array"
	case res.Type == gjson.String:
		return "string"
	case res.Type == gjson.Number:
		return "number"
	case res.Type == gjson.True, res.Type == gjson.False:
		return "boolean"
	case res.Type == gjson.Null:
		return "null"
	}
	return res.Type.String()
}
