// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/z5labs/mdo/config/key"

	"github.com/go-viper/mapstructure/v2"
)

// Unmarshal decodes the live values into v, which must be a pointer to
// a struct or map. Struct fields are matched against section names, then
// names within a section, using the "config" struct tag or, when absent,
// a case insensitive match on the field name.
func (s *Store) Unmarshal(v any) error {
	return decode(map[string]map[string]any(s.data), v)
}

// UnknownSectionError occurs when decoding a section which holds no values.
type UnknownSectionError struct {
	Section string
}

// Error implements the error interface.
func (e UnknownSectionError) Error() string {
	return fmt.Sprintf("unknown config section: %s", e.Section)
}

// UnmarshalSection decodes the live values of a single section into v.
func (s *Store) UnmarshalSection(section string, v any) error {
	names, ok := s.data[key.Section(section).Key()]
	if !ok {
		return UnknownSectionError{Section: section}
	}
	return decode(names, v)
}

func decode(input, v any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "config",
		Result:  v,
		DecodeHook: composeDecodeHooks(
			timeDurationHookFunc(),
			textUnmarshalerHookFunc(),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

var errInvalidDecodeCondition = errors.New("invalid decode condition")

// TypeCoercionError occurs when attempting to unmarshal a config
// value to a struct field whose type does not match the config
// value type, up to, coercion.
type TypeCoercionError struct {
	from  reflect.Value
	to    reflect.Value
	Cause error
}

// Error implements the error interface.
func (e TypeCoercionError) Error() string {
	return fmt.Sprintf("failed to coerce value from %s to %s: %s", e.from.Type(), e.to.Type(), e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e TypeCoercionError) Unwrap() error {
	return e.Cause
}

func composeDecodeHooks(hs ...mapstructure.DecodeHookFunc) mapstructure.DecodeHookFuncValue {
	return func(f, t reflect.Value) (any, error) {
		for _, h := range hs {
			v, err := mapstructure.DecodeHookExec(h, f, t)
			if err == nil {
				return v, nil
			}
			if errors.Is(err, errInvalidDecodeCondition) {
				continue
			}
			return nil, TypeCoercionError{
				from:  f,
				to:    t,
				Cause: err,
			}
		}
		return f.Interface(), nil
	}
}

func textUnmarshalerHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return nil, errInvalidDecodeCondition
		}
		result := reflect.New(t)
		u, ok := result.Interface().(encoding.TextUnmarshaler)
		if !ok {
			return nil, errInvalidDecodeCondition
		}
		err := u.UnmarshalText([]byte(reflect.ValueOf(data).String()))
		if err != nil {
			return nil, err
		}
		return result.Elem().Interface(), nil
	}
}

// timeDurationHookFunc accepts durations as strings, e.g. "1m30s", or
// as numbers of nanoseconds.
func timeDurationHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(time.Duration(0)) {
			return nil, errInvalidDecodeCondition
		}

		v := reflect.ValueOf(data)
		switch f.Kind() {
		case reflect.String:
			return time.ParseDuration(v.String())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return time.Duration(v.Int()), nil
		case reflect.Float32, reflect.Float64:
			return time.Duration(int64(v.Float())), nil
		default:
			return nil, errInvalidDecodeCondition
		}
	}
}
