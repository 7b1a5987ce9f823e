// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/z5labs/mdo/config/key"

	"github.com/spf13/afero"
)

// Option are used to configure a Store.
type Option func(*Store)

// WithSchema registers schemas with the Store. Schemas are set up in
// the order they were registered every time the Store is loaded.
func WithSchema(schemas ...Schema) Option {
	return func(s *Store) {
		s.schemas = append(s.schemas, schemas...)
	}
}

// WithFs configures the filesystem the config file is read from and
// written to. The default is the operating system's filesystem.
func WithFs(fs afero.Fs) Option {
	return func(s *Store) {
		s.fs = fs
	}
}

// WithCodec configures the format of the config file. The default is [JSON].
func WithCodec(c Codec) Option {
	return func(s *Store) {
		s.codec = c
	}
}

// WithLogger configures where diagnostics are reported. The default
// logs text to os.Stderr.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// Store holds the declared defaults of an application's config along with
// their live values and binds them to a single config file.
//
// Live values are resolved in the following order, from highest to lowest
// precedence:
//   - values given to [Store.Set]
//   - values read from the config file by [Store.Load]
//   - defaults given to [Store.Declare]
//
// A Store is not safe for concurrent use.
type Store struct {
	path    string
	fs      afero.Fs
	codec   Codec
	log     *slog.Logger
	schemas []Schema

	defaults Sections
	data     Sections
}

// New returns a Store bound to the config file at path. All registered
// schemas are set up and the config file, if it exists, is loaded over
// the declared defaults. Any failure to load is reported to the Store's
// logger and the defaults remain in effect.
func New(path string, opts ...Option) *Store {
	s := newStore(path, opts...)

	// failures have already been logged
	_, _ = s.Load()
	return s
}

// Open is like [New] but also returns any error from loading the config
// file. The returned Store is always usable, holding only its defaults
// when the error is non-nil.
func Open(path string, opts ...Option) (*Store, error) {
	s := newStore(path, opts...)
	_, err := s.Load()
	return s, err
}

func newStore(path string, opts ...Option) *Store {
	s := &Store{
		path:     path,
		fs:       afero.NewOsFs(),
		codec:    JSON,
		log:      slog.New(slog.NewTextHandler(os.Stderr, nil)),
		defaults: make(Sections),
		data:     make(Sections),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the path of the config file the Store is bound to.
func (s *Store) Path() string {
	return s.path
}

// Declare implements the [Declarer] interface. If the section and name have
// not been declared before, def becomes both their default and live value.
// Declaring an existing pair again has no effect.
//
// Nested maps and slices in def are copied into the live value so that
// modifying a value returned by [Store.Get] never changes the default.
func (s *Store) Declare(section, name string, def any) {
	p := key.Of(section, name)
	sk, nk := p.Section.Key(), p.Name.Key()
	if _, ok := s.defaults.lookup(sk, nk); ok {
		return
	}
	s.defaults.put(sk, nk, def)
	s.data.put(sk, nk, copyValue(def))
}

// copyValue deep copies the maps and slices produced by decoding a document.
// Any other value is returned as is.
func copyValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		if x == nil {
			return x
		}
		c := make(map[string]any, len(x))
		for k, e := range x {
			c[k] = copyValue(e)
		}
		return c
	case []any:
		if x == nil {
			return x
		}
		c := make([]any, len(x))
		for i, e := range x {
			c[i] = copyValue(e)
		}
		return c
	default:
		return v
	}
}

// Reset clears all declared defaults and live values.
func (s *Store) Reset() {
	s.defaults = make(Sections)
	s.data = make(Sections)
}

// MalformedFileError occurs when the config file exists but
// its contents can not be parsed.
type MalformedFileError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e MalformedFileError) Error() string {
	return fmt.Sprintf("invalid config file [%s]: %s", e.Path, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e MalformedFileError) Unwrap() error {
	return e.Cause
}

// Load discards all live values, sets up the registered schemas from scratch
// and then merges the config file over the declared defaults. Only values
// whose section and name have been declared are taken from the file, any
// others are ignored.
//
// Load reports false, without an error, if the config file does not exist.
// If the file can not be read or parsed, Load reports false along with
// the error and the Store is left holding only its defaults.
func (s *Store) Load() (bool, error) {
	s.Reset()
	for _, schema := range s.schemas {
		schema.Setup(s)
	}

	f, err := s.fs.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Debug("config file does not exist", slog.String("path", s.path))
		return false, nil
	}
	if err != nil {
		s.log.Error("failed to open config file", slog.String("path", s.path), slog.Any("error", err))
		return false, err
	}

	// the source closes f once it has been read
	err = s.Apply(s.codec.Source(f))
	var merr malformedError
	if errors.As(err, &merr) {
		err = MalformedFileError{
			Path:  s.path,
			Cause: err,
		}
	}
	if err != nil {
		s.log.Error("invalid config file", slog.String("path", s.path), slog.Any("error", err))
		return false, err
	}

	s.log.Debug("loaded config file", slog.String("path", s.path))
	return true, nil
}

// Apply merges the values of src into the live values of the Store. Like
// [Store.Load], only declared sections and names are taken from src. If src
// fails to apply, the live values are left untouched.
func (s *Store) Apply(src Source) error {
	staged := make(Sections)
	err := src.Apply(declaredSections{store: s, staged: staged})
	if err != nil {
		return err
	}

	for section, names := range staged {
		for name, v := range names {
			if _, ok := s.defaults.lookup(section, name); !ok {
				s.log.Debug(
					"ignoring undeclared config value",
					slog.String("section", section),
					slog.String("name", name),
				)
				continue
			}
			s.data.put(section, name, v)
		}
	}
	return nil
}

// declaredSections stages values for [Store.Apply] and tells sources
// which sections have been declared.
type declaredSections struct {
	store  *Store
	staged Sections
}

func (d declaredSections) Set(p key.Pair, v any) error {
	return d.staged.Set(p, v)
}

func (d declaredSections) HasSection(section key.Section) bool {
	_, ok := d.store.defaults[section.Key()]
	if !ok {
		d.store.log.Debug("ignoring undeclared config section", slog.String("section", section.Key()))
	}
	return ok
}

// Get returns the live value of the given section and name. The bool
// reports whether a value exists, which distinguishes an unknown key
// from one holding nil.
//
// Maps and slices are returned as is, so modifying them in place
// modifies the live value.
func (s *Store) Get(section, name string) (any, bool) {
	return s.data.Lookup(key.Of(section, name))
}

// Set overrides the live value of the given section and name. Unlike values
// loaded from the config file, Set does not require the section and name to
// have been declared. However, only declared values are written by [Store.Save].
func (s *Store) Set(section, name string, v any) {
	s.data.Set(key.Of(section, name), v)
}

// Defaults returns a copy of the declared defaults.
func (s *Store) Defaults() Sections {
	return s.defaults.clone()
}

// Data returns a copy of the live values.
func (s *Store) Data() Sections {
	return s.data.clone()
}

// String renders the live values as indented JSON.
func (s *Store) String() string {
	return s.data.String()
}

// SaveError occurs when the config file could not be written.
type SaveError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e SaveError) Error() string {
	return fmt.Sprintf("failed to save config file [%s]: %s", e.Path, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e SaveError) Unwrap() error {
	return e.Cause
}

// Save writes the live value of every declared section and name to the config
// file, creating its parent directory if needed. Values which were only ever
// given to [Store.Set] are not written.
func (s *Store) Save() error {
	out := make(Sections, len(s.defaults))
	for section, names := range s.defaults {
		for name := range names {
			v, _ := s.data.lookup(section, name)
			out.put(section, name, v)
		}
	}

	var buf bytes.Buffer
	err := s.codec.Encode(&buf, out)
	if err != nil {
		return SaveError{Path: s.path, Cause: err}
	}

	err = s.fs.MkdirAll(filepath.Dir(s.path), 0o755)
	if err != nil {
		return SaveError{Path: s.path, Cause: err}
	}

	err = afero.WriteFile(s.fs, s.path, buf.Bytes(), 0o644)
	if err != nil {
		return SaveError{Path: s.path, Cause: err}
	}

	s.log.Debug("saved config file", slog.String("path", s.path))
	return nil
}
