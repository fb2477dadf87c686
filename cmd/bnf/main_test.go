package main

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l-donovan/bnf"
)

func newFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()

	for name, contents := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(contents), 0o644))
	}

	return fs
}

func execute(fs afero.Fs, env []string, args ...string) (string, string, error) {
	cmd := newRootCmd(&app{fs: fs, environ: func() []string { return env }})

	var stdout, stderr bytes.Buffer

	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

const recursive = "<S> ::= a <S> | b"

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(afero.NewMemMapFs(), nil, "version")

	require.NoError(t, err)
	assert.Equal(t, "bnf version 0.1.0 (build: dev)\n", stdout)
}

func TestShowCommand(t *testing.T) {
	fs := newFs(t, map[string]string{
		"/g/s.bnf":    recursive,
		"/g/bad.bnf":  "<S> ::= a\n<S> b",
		"/bnf.yaml":   "render:\n  format: compact\n",
		"/tabs.yaml":  "render:\n  use_tabs: false\n  indent_size: 2\n",
		"/g/eps.bnf":  "<S> ::= a <S> |",
		"/allow.yaml": "build:\n  allow_epsilon: true\n",
	})

	t.Run("Should render the canonical form by default", func(t *testing.T) {
		stdout, _, err := execute(fs, nil, "show", "/g/s.bnf")

		require.NoError(t, err)
		assert.Equal(t, "# Variables =\n#\t<S>\n# Terminals =\n#\ta\n#\tb\n# Start Symbol = <S>\n# Production Rules =\n<S> ::= a <S>\n<S> ::= b\n", stdout)
	})

	t.Run("Should honor the format flag", func(t *testing.T) {
		stdout, _, err := execute(fs, nil, "show", "--format", "compact", "/g/s.bnf")

		require.NoError(t, err)
		assert.Equal(t, "<S> ::= a <S> | b\n", stdout)

		stdout, _, err = execute(fs, nil, "show", "-f", "json", "/g/s.bnf")

		require.NoError(t, err)
		g, err := bnf.UnmarshalJSON([]byte(stdout))
		require.NoError(t, err)
		assert.Equal(t, 2, g.Len())
	})

	t.Run("Should take the format from the config file", func(t *testing.T) {
		stdout, _, err := execute(fs, nil, "--config", "/bnf.yaml", "show", "/g/s.bnf")

		require.NoError(t, err)
		assert.Equal(t, "<S> ::= a <S> | b\n", stdout)

		stdout, _, err = execute(fs, nil, "-c", "/tabs.yaml", "show", "/g/s.bnf")

		require.NoError(t, err)
		assert.Contains(t, stdout, "#  <S>\n")
	})

	t.Run("Should take the format from the environment", func(t *testing.T) {
		stdout, _, err := execute(fs, []string{"BNF_RENDER_FORMAT=yaml"}, "show", "/g/s.bnf")

		require.NoError(t, err)
		g, err := bnf.UnmarshalYAML([]byte(stdout))
		require.NoError(t, err)
		assert.Equal(t, 2, g.Len())
	})

	t.Run("Should allow epsilon through configuration", func(t *testing.T) {
		_, _, err := execute(fs, nil, "show", "/g/eps.bnf")
		assert.ErrorIs(t, err, bnf.ErrEmptyAlternative)

		stdout, _, err := execute(fs, nil, "-c", "/allow.yaml", "show", "-f", "compact", "/g/eps.bnf")
		require.NoError(t, err)
		assert.Equal(t, "<S> ::= | a <S>\n", stdout)
	})

	t.Run("Should print context for build errors", func(t *testing.T) {
		_, stderr, err := execute(fs, nil, "show", "/g/bad.bnf")

		assert.ErrorIs(t, err, bnf.ErrMissingSeparator)
		assert.Contains(t, stderr, "Context:")
		assert.Contains(t, stderr, "<S> b")
	})

	t.Run("Should reject unknown formats", func(t *testing.T) {
		_, _, err := execute(fs, nil, "show", "-f", "xml", "/g/s.bnf")

		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown format "xml"`)
	})

	t.Run("Should require a file argument", func(t *testing.T) {
		_, _, err := execute(fs, nil, "show")

		assert.Error(t, err)
	})
}

func TestNormalizeCommand(t *testing.T) {
	fs := newFs(t, map[string]string{"/g/s.bnf": recursive})

	t.Run("Should convert to Chomsky normal form by default", func(t *testing.T) {
		stdout, _, err := execute(fs, nil, "normalize", "-f", "json", "/g/s.bnf")

		require.NoError(t, err)
		g, err := bnf.UnmarshalJSON([]byte(stdout))
		require.NoError(t, err)
		assert.True(t, bnf.IsChomskyNormalForm(g))
	})

	t.Run("Should apply the named passes", func(t *testing.T) {
		stdout, _, err := execute(fs, nil, "normalize", "--passes", "start", "-f", "compact", "/g/s.bnf")

		require.NoError(t, err)
		assert.Equal(t, "<S'> ::= <S>\n<S> ::= a <S> | b\n", stdout)
	})

	t.Run("Should reject unknown passes", func(t *testing.T) {
		_, _, err := execute(fs, nil, "normalize", "--passes", "start,shrink", "/g/s.bnf")

		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown pass "shrink"`)
	})
}

func TestCheckCommand(t *testing.T) {
	t.Run("Should report every failing grammar", func(t *testing.T) {
		fs := newFs(t, map[string]string{
			"/g/a.bnf":        recursive,
			"/g/nested/b.bnf": "<S> ::= a\n<S> b",
			"/g/notes.txt":    "not a grammar",
		})

		stdout, _, err := execute(fs, nil, "check", "--root", "/g")

		require.Error(t, err)
		assert.Equal(t, "1 of 2 grammars failed", err.Error())
		assert.Contains(t, stdout, "ok   /g/a.bnf (2 rules)\n")
		assert.Contains(t, stdout, "FAIL /g/nested/b.bnf\n")
		assert.Contains(t, stdout, "missing ::= separator")
		assert.Contains(t, stdout, "Context:")
	})

	t.Run("Should pass when every grammar builds", func(t *testing.T) {
		fs := newFs(t, map[string]string{
			"/g/a.bnf": recursive,
			"/g/b.bnf": "<X> ::= x <Y>\n<Y> ::= y",
		})

		stdout, _, err := execute(fs, nil, "check", "--root", "/g", "--cnf", "*.bnf")

		require.NoError(t, err)
		assert.Contains(t, stdout, "ok   /g/a.bnf")
		assert.Contains(t, stdout, "ok   /g/b.bnf")
	})

	t.Run("Should use the configured pattern", func(t *testing.T) {
		fs := newFs(t, map[string]string{
			"/g/a.grammar": recursive,
			"/g/b.bnf":     "<S> b",
		})

		stdout, _, err := execute(fs, []string{"BNF_BATCH_PATTERN=*.grammar"}, "check", "--root", "/g")

		require.NoError(t, err)
		assert.Equal(t, "ok   /g/a.grammar (2 rules)\n", stdout)
	})
}
