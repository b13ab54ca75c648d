package bag

import "reflect"

// Validator is implemented by models, enum values and unions.
type Validator interface {
	Validate() error
}

// Check is the per-field step of a model's Validate method. It takes the
// results of an accessor directly:
//
//	bag.Check(r.Customer())
//
// A read error is returned as is; otherwise nested models, enum values and
// unions held by the value (also inside Opt, slices and maps) are validated.
func Check(v any, err error) error {
	if err != nil {
		return err
	}
	return validate(v)
}

// First returns the first non-nil error.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func validate(v any) error {
	if v == nil {
		return nil
	}
	if val, ok := v.(Validator); ok {
		return val.Validate()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := validate(rv.Index(i).Interface()); err != nil {
				return err
			}
		}
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			if err := validate(iter.Value().Interface()); err != nil {
				return err
			}
		}
	case reflect.Pointer:
		if !rv.IsNil() {
			return validate(rv.Elem().Interface())
		}
	}
	return nil
}
