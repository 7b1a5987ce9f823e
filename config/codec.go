// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// indent is used by every Codec when encoding.
const indent = "    "

// Codec describes the on disk format of a config file.
type Codec interface {
	// Source returns a Source which parses the document read from r.
	Source(r io.Reader) Source

	// Encode writes s to w. Sections and the names within
	// them are written in lexicographic order.
	Encode(w io.Writer, s Sections) error
}

var (
	// JSON stores config files as JSON objects of sections.
	JSON Codec = jsonCodec{}

	// YAML stores config files as YAML mappings of sections.
	YAML Codec = yamlCodec{}
)

// UnknownCodecError occurs when a codec name is not recognized.
type UnknownCodecError struct {
	Name string
}

// Error implements the error interface.
func (e UnknownCodecError) Error() string {
	return fmt.Sprintf("unknown config format: %s", e.Name)
}

// CodecByName returns the Codec for "json" or "yaml" ("yml" is accepted too).
func CodecByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return nil, UnknownCodecError{Name: name}
	}
}

// CodecFor picks a Codec based on the extension of path,
// falling back to JSON.
func CodecFor(path string) Codec {
	c, err := CodecByName(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return JSON
	}
	return c
}
