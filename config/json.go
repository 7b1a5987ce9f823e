// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/z5labs/mdo/internal/try"
)

// Json represents a Source where its underlying format is JSON.
type Json struct {
	r io.Reader
}

// FromJson returns a source which will apply its config
// from JSON values parsed from the given io.Reader. If the
// io.Reader is also an io.Closer it will be closed once read.
func FromJson(r io.Reader) Json {
	return Json{r: r}
}

// InvalidJsonError occurs if the underlying io.Reader contains invalid JSON.
type InvalidJsonError struct {
	Cause error
}

// Error implements the error interface.
func (e InvalidJsonError) Error() string {
	return fmt.Sprintf("invalid json: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidJsonError) Unwrap() error {
	return e.Cause
}

func (InvalidJsonError) malformed() {}

// Apply implements the Source interface.
func (src Json) Apply(dst Setter) (err error) {
	defer try.Close(&err, src.r)

	b, err := io.ReadAll(src.r)
	if err != nil {
		return err
	}

	doc, err := DecodeJsonValue(b)
	if err != nil {
		return InvalidJsonError{Cause: err}
	}
	switch m := doc.(type) {
	case nil:
		return nil
	case map[string]any:
		return Map(m).Apply(dst)
	default:
		return InvalidJsonError{
			Cause: &json.UnmarshalTypeError{
				Value: fmt.Sprintf("%T", doc),
				Type:  reflect.TypeOf(map[string]any(nil)),
			},
		}
	}
}

// DecodeJsonValue decodes a single JSON value from b without passing numbers
// through float64. Integers which fit in an int64 are decoded as int64 and any
// other integer is kept as its literal [json.Number]. Numbers with a fraction
// or exponent are decoded as float64.
func DecodeJsonValue(b []byte) (any, error) {
	var v any
	err := decodeJsonValue(b, &v)
	return v, err
}

func decodeJsonValue(b []byte, v *any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	err := dec.Decode(v)
	if err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid character after top-level value at offset %d", dec.InputOffset())
	}
	*v = exactNumbers(*v)
	return nil
}

func exactNumbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if !isJsonInteger(string(x)) {
			if f, err := x.Float64(); err == nil {
				return f
			}
		}
		return x
	case map[string]any:
		for k, e := range x {
			x[k] = exactNumbers(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = exactNumbers(e)
		}
		return x
	default:
		return v
	}
}

func isJsonInteger(s string) bool {
	return !strings.ContainsAny(s, ".eE")
}

type jsonCodec struct{}

func (jsonCodec) String() string {
	return "json"
}

func (jsonCodec) Source(r io.Reader) Source {
	return FromJson(r)
}

func (jsonCodec) Encode(w io.Writer, s Sections) error {
	if s == nil {
		s = Sections{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", indent)
	enc.SetEscapeHTML(false)
	return enc.Encode(map[string]map[string]any(s))
}
