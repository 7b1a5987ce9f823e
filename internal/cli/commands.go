// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/z5labs/mdo/config"
	"github.com/z5labs/mdo/config/key"
	"github.com/z5labs/mdo/internal/try"

	"github.com/spf13/cobra"
)

func (a *app) showCommand() *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer try.Recover(&err)

			s, err := a.openStore(cmd)
			if err != nil {
				return err
			}

			out := s.String()
			if defaults {
				out = s.Defaults().String()
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, "print the declared defaults instead")
	return cmd
}

func (a *app) getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get SECTION NAME",
		Short: "Print a single config value as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer try.Recover(&err)

			s, err := a.openStore(cmd)
			if err != nil {
				return err
			}

			v, ok := s.Get(args[0], args[1])
			if !ok {
				return UndeclaredError{Section: args[0], Name: args[1]}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			return enc.Encode(v)
		},
	}
}

func (a *app) setCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set SECTION NAME VALUE",
		Short: "Change a config value and save the config file",
		Long: `Change a config value and save the config file.

VALUE is parsed as JSON, e.g. 42, true or {"a": 1}. Anything which is not
valid JSON is taken as a plain string.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer try.Recover(&err)

			s, err := a.openStore(cmd)
			if err != nil {
				return err
			}

			section, name := args[0], args[1]
			if _, ok := s.Defaults().Lookup(key.Of(section, name)); !ok {
				return UndeclaredError{Section: section, Name: name}
			}

			s.Set(section, name, parseValue(args[2]))
			return s.Save()
		},
	}
}

func (a *app) saveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Write the effective config values back to the config file",
		Long: `Write the effective config values back to the config file.

Declared values missing from the file are added with their defaults and
sections and names are normalized and sorted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer try.Recover(&err)

			s, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			err = s.Save()
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", s.Path())
			return err
		},
	}
}

func parseValue(raw string) any {
	v, err := config.DecodeJsonValue([]byte(raw))
	if err != nil {
		return raw
	}
	return v
}
