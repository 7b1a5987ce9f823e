// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"
	"io"

	"github.com/z5labs/mdo/internal/try"

	"gopkg.in/yaml.v3"
)

// Yaml represents a Source where its underlying format is YAML.
type Yaml struct {
	r io.Reader
}

// FromYaml returns a source which will apply its config
// from YAML values parsed from the given io.Reader. If the
// io.Reader is also an io.Closer it will be closed once read.
func FromYaml(r io.Reader) Yaml {
	return Yaml{r: r}
}

// InvalidYamlError occurs if the underlying io.Reader contains invalid YAML.
type InvalidYamlError struct {
	Cause error
}

// Error implements the error interface.
func (e InvalidYamlError) Error() string {
	return fmt.Sprintf("invalid yaml: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidYamlError) Unwrap() error {
	return e.Cause
}

func (InvalidYamlError) malformed() {}

// Apply implements the Source interface.
func (src Yaml) Apply(dst Setter) (err error) {
	defer try.Close(&err, src.r)

	b, err := io.ReadAll(src.r)
	if err != nil {
		return err
	}

	var m map[string]any
	err = yaml.Unmarshal(b, &m)
	if err != nil {
		return InvalidYamlError{Cause: err}
	}
	return Map(m).Apply(dst)
}

type yamlCodec struct{}

func (yamlCodec) String() string {
	return "yaml"
}

func (yamlCodec) Source(r io.Reader) Source {
	return FromYaml(r)
}

func (yamlCodec) Encode(w io.Writer, s Sections) error {
	if s == nil {
		s = Sections{}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(len(indent))
	err := enc.Encode(map[string]map[string]any(s))
	if err != nil {
		return err
	}
	return enc.Close()
}
