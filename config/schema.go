// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"io"

	"github.com/z5labs/mdo/config/configtmpl"
	"github.com/z5labs/mdo/config/key"
)

// Declarer registers config values along with their defaults.
type Declarer interface {
	Declare(section, name string, def any)
}

// Schema declares every config value an application needs.
type Schema interface {
	Setup(Declarer)
}

// SchemaFunc is a functional implementation of the [Schema] interface.
type SchemaFunc func(Declarer)

// Setup implements the [Schema] interface.
func (f SchemaFunc) Setup(d Declarer) {
	f(d)
}

// DefaultsFrom returns a Schema which declares every value in defaults,
// visiting sections and names in lexicographic order.
func DefaultsFrom(defaults Sections) Schema {
	return SchemaFunc(func(d Declarer) {
		// declaring never fails
		_ = defaults.Apply(declareSetter{d: d})
	})
}

type declareSetter struct {
	d Declarer
}

func (ds declareSetter) Set(p key.Pair, v any) error {
	ds.d.Declare(string(p.Section), string(p.Name), v)
	return nil
}

// ReadSchema reads a defaults document from r and returns a Schema declaring
// its contents. The document is first rendered as a text/template with the
// "env" and "default" functions from [configtmpl] available, along with any
// given through opts.
func ReadSchema(r io.Reader, codec Codec, opts ...RenderTextTemplateOption) (Schema, error) {
	tmplOpts := []RenderTextTemplateOption{
		TemplateFunc("env", configtmpl.Env),
		TemplateFunc("default", configtmpl.Default),
	}
	tmplOpts = append(tmplOpts, opts...)

	defaults := make(Sections)
	err := codec.Source(RenderTextTemplate(r, tmplOpts...)).Apply(defaults)
	if err != nil {
		return nil, err
	}
	return DefaultsFrom(defaults), nil
}
