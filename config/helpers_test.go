// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"io"
	"log/slog"

	"github.com/z5labs/mdo/config/key"
)

type readFunc func([]byte) (int, error)

func (f readFunc) Read(b []byte) (int, error) {
	return f(b)
}

type setterFunc func(key.Pair, any) error

func (f setterFunc) Set(p key.Pair, v any) error {
	return f(p, v)
}

type sourceFunc func(Setter) error

func (f sourceFunc) Apply(dst Setter) error {
	return f(dst)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
