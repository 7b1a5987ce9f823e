// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"io"
	"os"
	"sync"

	"github.com/spf13/afero"
)

// FileReader is an io.ReadCloser that opens its file on the first Read.
type FileReader struct {
	path string

	openOnce sync.Once
	fs       afero.Fs
	file     io.ReadCloser
	err      error
}

// NewFileReader configures a FileReader.
func NewFileReader(fs afero.Fs, path string) *FileReader {
	return &FileReader{
		path: path,
		fs:   fs,
	}
}

// Read implements the io.Reader interface.
func (r *FileReader) Read(b []byte) (int, error) {
	r.openOnce.Do(func() {
		r.file, r.err = r.fs.Open(r.path)
	})
	if r.err != nil {
		return 0, r.err
	}
	return r.file.Read(b)
}

// Close implements the io.Closer interface.
func (r *FileReader) Close() error {
	if r.file == nil {
		return nil
	}

	err := r.file.Close()
	r.file = nil
	r.err = os.ErrClosed
	return err
}
