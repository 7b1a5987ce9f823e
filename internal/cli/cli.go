// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package cli implements the mdo command line tool for inspecting and
// editing config files managed by a [config.Store].
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/z5labs/mdo/config"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Execute runs the mdo command tree against the operating system's filesystem.
func Execute(ctx context.Context, args ...string) error {
	cmd := NewCommand(afero.NewOsFs())
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

type app struct {
	fs afero.Fs
	v  *viper.Viper
}

// NewCommand returns the root mdo command. Every persistent flag can also
// be given as an environment variable prefixed with MDO_, e.g. MDO_FILE.
func NewCommand(fs afero.Fs) *cobra.Command {
	a := &app{
		fs: fs,
		v:  viper.New(),
	}
	a.v.SetEnvPrefix("mdo")
	a.v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:          "mdo",
		Short:        "Inspect and edit sectioned config files",
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringP("file", "f", "", "path of the config file")
	flags.StringP("schema", "s", "", "path of a defaults document declaring the config schema")
	flags.String("format", "", "format of the config file, json or yaml (default: by file extension)")
	flags.BoolP("verbose", "v", false, "log debug diagnostics")
	cobra.CheckErr(a.v.BindPFlags(flags))

	cmd.AddCommand(
		a.showCommand(),
		a.getCommand(),
		a.setCommand(),
		a.saveCommand(),
	)
	return cmd
}

var errFileRequired = errors.New("a config file must be given with --file or MDO_FILE")

// UndeclaredError occurs when a command refers to a section and name
// which the schema does not declare.
type UndeclaredError struct {
	Section string
	Name    string
}

// Error implements the error interface.
func (e UndeclaredError) Error() string {
	return fmt.Sprintf("undeclared config value: %s.%s", e.Section, e.Name)
}

func (a *app) openStore(cmd *cobra.Command) (*config.Store, error) {
	path := a.v.GetString("file")
	if path == "" {
		return nil, errFileRequired
	}

	codec := config.CodecFor(path)
	if format := a.v.GetString("format"); format != "" {
		var err error
		codec, err = config.CodecByName(format)
		if err != nil {
			return nil, err
		}
	}

	level := slog.LevelInfo
	if a.v.GetBool("verbose") {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	schema, err := a.readSchema(path, codec)
	if err != nil {
		return nil, err
	}

	return config.Open(
		path,
		config.WithFs(a.fs),
		config.WithCodec(codec),
		config.WithLogger(log),
		config.WithSchema(schema),
	)
}

// readSchema reads the schema document given by --schema. Without one,
// the config file itself serves as the schema.
func (a *app) readSchema(path string, codec config.Codec) (config.Schema, error) {
	schemaPath := a.v.GetString("schema")
	if schemaPath != "" {
		return config.ReadSchema(config.NewFileReader(a.fs, schemaPath), config.CodecFor(schemaPath))
	}

	defaults := make(config.Sections)
	err := codec.Source(config.NewFileReader(a.fs, path)).Apply(defaults)
	if errors.Is(err, fs.ErrNotExist) {
		return config.DefaultsFrom(defaults), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read schema from %s: %w", path, err)
	}
	return config.DefaultsFrom(defaults), nil
}
