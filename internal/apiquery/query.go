// Package apiquery encodes params bags as URL query parameters.
package apiquery

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

type ArrayQueryFormat int

const (
	// ArrayQueryFormatComma joins scalar arrays: key=a,b
	ArrayQueryFormatComma ArrayQueryFormat = iota
	// ArrayQueryFormatRepeat repeats the key: key=a&key=b
	ArrayQueryFormatRepeat
	// ArrayQueryFormatBrackets repeats the key with brackets: key[]=a&key[]=b
	ArrayQueryFormatBrackets
)

type NestedQueryFormat int

const (
	// NestedQueryFormatBrackets encodes objects as key[inner]=v
	NestedQueryFormatBrackets NestedQueryFormat = iota
	// NestedQueryFormatDots encodes objects as key.inner=v
	NestedQueryFormatDots
)

type QuerySettings struct {
	ArrayFormat  ArrayQueryFormat
	NestedFormat NestedQueryFormat
}

// Marshal encodes v with the default settings.
func Marshal(v any) (url.Values, error) {
	return MarshalWithSettings(v, QuerySettings{})
}

// MarshalWithSettings encodes the JSON form of v, which must be an object, as
// query parameters. Null members are omitted.
func MarshalWithSettings(v any, settings QuerySettings) (url.Values, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.New("apiquery: invalid JSON")
	}
	res := gjson.ParseBytes(data)
	if res.Type == gjson.Null {
		return url.Values{}, nil
	}
	if !res.IsObject() {
		return nil, fmt.Errorf("apiquery: cannot encode %s as query parameters", res.Type)
	}
	values := url.Values{}
	res.ForEach(func(key, value gjson.Result) bool {
		settings.encode(values, key.String(), value)
		return true
	})
	return values, nil
}

func (s QuerySettings) nest(key, inner string) string {
	if s.NestedFormat == NestedQueryFormatDots {
		return key + "." + inner
	}
	return key + "[" + inner + "]"
}

func (s QuerySettings) encode(values url.Values, key string, value gjson.Result) {
	switch {
	case value.Type == gjson.Null:
	case value.IsObject():
		value.ForEach(func(k, v gjson.Result) bool {
			s.encode(values, s.nest(key, k.String()), v)
			return true
		})
	case value.IsArray():
		items := value.Array()
		scalars := make([]string, 0, len(items))
		for i, item := range items {
			if item.IsObject() || item.IsArray() {
				s.encode(values, s.nest(key, fmt.Sprint(i)), item)
				continue
			}
			if item.Type != gjson.Null {
				scalars = append(scalars, scalar(item))
			}
		}
		if len(scalars) == 0 {
			return
		}
		switch s.ArrayFormat {
		case ArrayQueryFormatComma:
			values.Add(key, strings.Join(scalars, ","))
		case ArrayQueryFormatRepeat:
			for _, v := range scalars {
				values.Add(key, v)
			}
		case ArrayQueryFormatBrackets:
			for _, v := range scalars {
				values.Add(key+"[]", v)
			}
		}
	default:
		values.Add(key, scalar(value))
	}
}

func scalar(value gjson.Result) string {
	if value.Type == gjson.String {
		return value.Str
	}
	return value.Raw
}
