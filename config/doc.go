// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config provides a schema driven, file backed configuration store.
//
// An application declares every config value it needs, grouped by section,
// along with a default. The [Store] then merges a config file over those
// defaults and keeps track of any changes made at runtime.
//
// # Declaring a schema
//
//	schema := config.SchemaFunc(func(d config.Declarer) {
//	    d.Declare("server", "host", "localhost")
//	    d.Declare("server", "port", 8080)
//	})
//
//	s := config.New("config.json", config.WithSchema(schema))
//
// Section names are case insensitive, names within a section are not. Both
// have surrounding whitespace trimmed. Declaring the same value twice keeps
// the first default.
//
// # Reading and writing values
//
//	port, ok := s.Get("Server", "port")
//	s.Set("server", "port", 9090)
//	err := s.Save()
//
// Only declared values are read from, or written to, the config file. Values
// given to [Store.Set] for undeclared keys live only in memory.
//
// # Config file
//
// The config file is a JSON object of sections, each being an object of
// names to values. Saved files have their sections upper cased, keys sorted
// and are indented with four spaces. [YAML] is supported as well.
//
// A missing config file simply leaves the defaults in effect. A malformed one
// is reported to the Store's logger and also leaves only the defaults in effect.
package config
