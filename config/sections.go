// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"bytes"
	"fmt"
	"maps"
	"slices"

	"github.com/z5labs/mdo/config/key"
)

// Setter represents anything config values can be set on.
type Setter interface {
	Set(key.Pair, any) error
}

// SectionFilter may be implemented by a [Setter] which only accepts values
// for some sections. Sources skip any section the filter does not accept
// before looking at its contents.
type SectionFilter interface {
	HasSection(key.Section) bool
}

// Source defines valid config sources as those who can
// serialize themselves into a section/name/value structure.
type Source interface {
	Apply(Setter) error
}

// Sections maps normalized section names to the values declared, or set,
// within them. Values are keyed by their normalized name.
type Sections map[string]map[string]any

// Set implements the [Setter] interface. The section and name are normalized
// before being used as map keys.
func (s Sections) Set(p key.Pair, v any) error {
	s.put(p.Section.Key(), p.Name.Key(), v)
	return nil
}

// Lookup returns the value stored under the given pair, if any.
func (s Sections) Lookup(p key.Pair) (any, bool) {
	return s.lookup(p.Section.Key(), p.Name.Key())
}

// Apply implements the [Source] interface. Values are applied section
// by section with both sections and names in lexicographic order.
func (s Sections) Apply(dst Setter) error {
	for _, section := range slices.Sorted(maps.Keys(s)) {
		names := s[section]
		for _, name := range slices.Sorted(maps.Keys(names)) {
			err := dst.Set(key.Of(section, name), names[name])
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// String renders the sections as indented JSON.
func (s Sections) String() string {
	var buf bytes.Buffer
	err := JSON.Encode(&buf, s)
	if err != nil {
		return fmt.Sprint(map[string]map[string]any(s))
	}
	return buf.String()
}

func (s Sections) put(section, name string, v any) {
	names, ok := s[section]
	if !ok {
		names = make(map[string]any)
		s[section] = names
	}
	names[name] = v
}

func (s Sections) lookup(section, name string) (any, bool) {
	names, ok := s[section]
	if !ok {
		return nil, false
	}
	v, ok := names[name]
	return v, ok
}

// clone copies the section maps. Values themselves are shared.
func (s Sections) clone() Sections {
	c := make(Sections, len(s))
	for section, names := range s {
		c[section] = maps.Clone(names)
	}
	return c
}

// Map is an ordinary map[string]any but implements the Source interface.
// Its top level keys are section names and each section must itself be
// a map[string]any of names to values.
type Map map[string]any

// InvalidSectionError occurs when a section in a document is not an object.
type InvalidSectionError struct {
	Section string
	Value   any
}

// Error implements the error interface.
func (e InvalidSectionError) Error() string {
	return fmt.Sprintf("expected section to be an object: %s: got %T", e.Section, e.Value)
}

func (InvalidSectionError) malformed() {}

// Apply implements the Source interface. Only the first two levels of the
// map are walked, anything nested deeper is treated as a value. Sections and
// names are visited in lexicographic order so that when several raw names
// normalize to the same key the last one in that order wins.
//
// If dst is a [SectionFilter], sections it does not accept are skipped
// whatever their value.
func (m Map) Apply(dst Setter) error {
	filter, filtered := dst.(SectionFilter)
	for _, section := range slices.Sorted(maps.Keys(m)) {
		if filtered && !filter.HasSection(key.Section(section)) {
			continue
		}

		names, ok := m[section].(map[string]any)
		if !ok {
			return InvalidSectionError{
				Section: section,
				Value:   m[section],
			}
		}
		for _, name := range slices.Sorted(maps.Keys(names)) {
			err := dst.Set(key.Of(section, name), names[name])
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// malformedError is implemented by errors which describe a document
// whose contents could not be understood, as opposed to one which
// could not be read.
type malformedError interface {
	error
	malformed()
}
