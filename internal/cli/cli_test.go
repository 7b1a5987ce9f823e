// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/z5labs/mdo/config"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	configPath = "/app/config.json"
	schemaPath = "/app/schema.yaml"
)

func run(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewCommand(fs)
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), err
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	b, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(b)
}

func newFs(t *testing.T) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	writeFile(t, fs, schemaPath, `
s1:
  k1: v1
  k2: 42
s2:
  k3: v2
`)
	return fs
}

func TestShow(t *testing.T) {
	t.Run("will print the defaults merged with the config file", func(t *testing.T) {
		fs := newFs(t)
		writeFile(t, fs, configPath, `{"S1": {"k1": "from file"}, "S9": {"k": 1}}`)

		out, err := run(t, fs, "show", "-f", configPath, "-s", schemaPath)
		require.NoError(t, err)

		assert.JSONEq(t, `{"S1": {"k1": "from file", "k2": 42}, "S2": {"k3": "v2"}}`, out)
	})

	t.Run("will print the declared defaults", func(t *testing.T) {
		fs := newFs(t)
		writeFile(t, fs, configPath, `{"S1": {"k1": "from file"}}`)

		out, err := run(t, fs, "show", "--defaults", "-f", configPath, "-s", schemaPath)
		require.NoError(t, err)

		assert.JSONEq(t, `{"S1": {"k1": "v1", "k2": 42}, "S2": {"k3": "v2"}}`, out)
	})

	t.Run("will use the config file as its own schema", func(t *testing.T) {
		t.Run("if no schema is given", func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeFile(t, fs, configPath, `{"app": {"name": "mdo"}}`)

			out, err := run(t, fs, "show", "-f", configPath)
			require.NoError(t, err)

			assert.JSONEq(t, `{"APP": {"name": "mdo"}}`, out)
		})
	})

	t.Run("will read the config file path from the environment", func(t *testing.T) {
		fs := newFs(t)
		t.Setenv("MDO_FILE", configPath)
		t.Setenv("MDO_SCHEMA", schemaPath)

		out, err := run(t, fs, "show")
		require.NoError(t, err)

		assert.JSONEq(t, `{"S1": {"k1": "v1", "k2": 42}, "S2": {"k3": "v2"}}`, out)
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if no config file is given", func(t *testing.T) {
			_, err := run(t, newFs(t), "show")
			assert.ErrorIs(t, err, errFileRequired)
		})

		t.Run("if the config file is malformed", func(t *testing.T) {
			fs := newFs(t)
			writeFile(t, fs, configPath, `{"S1": `)

			_, err := run(t, fs, "show", "-f", configPath, "-s", schemaPath)

			var merr config.MalformedFileError
			assert.ErrorAs(t, err, &merr)
		})

		t.Run("if the format is unknown", func(t *testing.T) {
			_, err := run(t, newFs(t), "show", "-f", configPath, "--format", "toml")

			var uerr config.UnknownCodecError
			assert.ErrorAs(t, err, &uerr)
		})
	})
}

func TestGet(t *testing.T) {
	t.Run("will print the value as JSON", func(t *testing.T) {
		fs := newFs(t)

		out, err := run(t, fs, "get", "S1", "k2", "-f", configPath, "-s", schemaPath)
		require.NoError(t, err)
		assert.Equal(t, "42\n", out)

		out, err = run(t, fs, "get", " s1 ", "k1", "-f", configPath, "-s", schemaPath)
		require.NoError(t, err)
		assert.Equal(t, "\"v1\"\n", out)
	})

	t.Run("will return an UndeclaredError", func(t *testing.T) {
		t.Run("if the value is not declared", func(t *testing.T) {
			_, err := run(t, newFs(t), "get", "s1", "k9", "-f", configPath, "-s", schemaPath)

			var uerr UndeclaredError
			if !assert.ErrorAs(t, err, &uerr) {
				return
			}
			assert.Equal(t, "k9", uerr.Name)
		})
	})
}

func TestSet(t *testing.T) {
	t.Run("will save the parsed value", func(t *testing.T) {
		fs := newFs(t)

		_, err := run(t, fs, "set", "s2", "k3", "42", "-f", configPath, "-s", schemaPath)
		require.NoError(t, err)

		_, err = run(t, fs, "set", "s1", "k1", "hello world", "-f", configPath, "-s", schemaPath)
		require.NoError(t, err)

		assert.JSONEq(t, `{"S1": {"k1": "hello world", "k2": 42}, "S2": {"k3": 42}}`, readFile(t, fs, configPath))
	})

	t.Run("will write YAML config files", func(t *testing.T) {
		fs := newFs(t)

		_, err := run(t, fs, "set", "s1", "k2", "true", "-f", "/app/config.yaml", "-s", schemaPath)
		require.NoError(t, err)

		expected := `S1:
    k1: v1
    k2: true
S2:
    k3: v2
`
		assert.Equal(t, expected, readFile(t, fs, "/app/config.yaml"))
	})

	t.Run("will return an UndeclaredError", func(t *testing.T) {
		t.Run("if the value is not declared", func(t *testing.T) {
			fs := newFs(t)

			_, err := run(t, fs, "set", "s3", "k3", "1", "-f", configPath, "-s", schemaPath)

			var uerr UndeclaredError
			if !assert.ErrorAs(t, err, &uerr) {
				return
			}

			exists, err := afero.Exists(fs, configPath)
			require.NoError(t, err)
			assert.False(t, exists)
		})
	})
}

func TestSave(t *testing.T) {
	t.Run("will normalize the config file", func(t *testing.T) {
		fs := newFs(t)
		writeFile(t, fs, configPath, `{"s2": {" k3 ": "from file"}, "s9": {"k": 1}}`)

		out, err := run(t, fs, "save", "-f", configPath, "-s", schemaPath)
		require.NoError(t, err)
		assert.Equal(t, "saved "+configPath+"\n", out)

		expected := `{
    "S1": {
        "k1": "v1",
        "k2": 42
    },
    "S2": {
        "k3": "from file"
    }
}
`
		assert.Equal(t, expected, readFile(t, fs, configPath))
	})

	t.Run("will render the schema as a template", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		t.Setenv("MDO_CLI_TEST_USER", "gopher")
		writeFile(t, fs, "/app/schema.json", `{"user": {"name": "{{ env "MDO_CLI_TEST_USER" }}"}}`)

		_, err := run(t, fs, "save", "-f", configPath, "-s", "/app/schema.json")
		require.NoError(t, err)

		assert.JSONEq(t, `{"USER": {"name": "gopher"}}`, readFile(t, fs, configPath))
	})
}

func TestParseValue(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected any
	}{
		{name: "number", raw: "42", expected: int64(42)},
		{name: "fraction", raw: "1.5", expected: 1.5},
		{name: "integer beyond int64", raw: "18446744073709551616", expected: json.Number("18446744073709551616")},
		{name: "bool", raw: "false", expected: false},
		{name: "null", raw: "null", expected: nil},
		{name: "object", raw: `{"a": [1]}`, expected: map[string]any{"a": []any{int64(1)}}},
		{name: "quoted string", raw: `"42"`, expected: "42"},
		{name: "plain string", raw: "hello", expected: "hello"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, parseValue(testCase.raw))
		})
	}
}
