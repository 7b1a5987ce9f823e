// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package key provides the normalized key types used to address values in a config store.
//
// A value is addressed by a [Pair] made of a [Section] and a [Name]. Sections
// are case-insensitive and are folded to upper case, names are case-sensitive.
// Both have their leading and trailing whitespace trimmed; internal whitespace
// is preserved.
package key

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Keyer is a common interface all value key types must implement.
type Keyer interface {
	Key() string
}

// Section represents the name of a group of config values.
type Section string

// Key implements the [Keyer] interface. It returns the canonical form of the
// section name i.e. trimmed and upper cased.
func (s Section) Key() string {
	return cases.Upper(language.Und).String(strings.TrimSpace(string(s)))
}

// Name represents a single config value within a [Section].
type Name string

// Key implements the [Keyer] interface. It returns the name with leading and
// trailing whitespace removed.
func (n Name) Key() string {
	return strings.TrimSpace(string(n))
}

// Pair fully addresses a config value.
type Pair struct {
	Section Section
	Name    Name
}

// Of returns the Pair for the given section and name.
func Of(section, name string) Pair {
	return Pair{
		Section: Section(section),
		Name:    Name(name),
	}
}

// Key implements the [Keyer] interface. The section and name are joined by a '.'.
func (p Pair) Key() string {
	return p.Section.Key() + "." + p.Name.Key()
}
