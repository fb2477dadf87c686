// Package source reads grammar files for the command line tools.
package source

import (
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/l-donovan/bnf"
)

type Format string

const (
	FormatBNF  Format = "bnf"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the input format from a file extension. Anything that is
// not JSON or YAML is read as BNF text.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatBNF
	}
}

type Reader struct {
	fs afero.Fs
}

func NewReader(fs afero.Fs) *Reader {
	return &Reader{fs: fs}
}

func (r *Reader) Read(path string) (string, error) {
	data, err := afero.ReadFile(r.fs, path)

	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return string(data), nil
}

// Load reads and builds the grammar at path according to its format.
func (r *Reader) Load(path string, opts bnf.Options) (*bnf.Grammar, error) {
	contents, err := r.Read(path)

	if err != nil {
		return nil, err
	}

	var g *bnf.Grammar

	switch FormatOf(path) {
	case FormatJSON:
		g, err = bnf.UnmarshalJSON([]byte(contents))
	case FormatYAML:
		g, err = bnf.UnmarshalYAML([]byte(contents))
	default:
		g, err = bnf.BuildWithOptions(contents, opts)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return g, nil
}

// Glob expands doublestar patterns. Relative patterns are resolved against
// root, which must be an absolute directory. Results are sorted and unique.
func (r *Reader) Glob(root string, patterns ...string) ([]string, error) {
	seen := map[string]bool{}

	var paths []string

	for _, pattern := range patterns {
		base := root
		pattern = filepath.ToSlash(pattern)

		if path.IsAbs(pattern) {
			base, pattern = doublestar.SplitPattern(pattern)
		}

		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}

		iofs := afero.NewIOFS(afero.NewBasePathFs(r.fs, base))
		matches, err := doublestar.Glob(iofs, pattern, doublestar.WithFilesOnly())

		if err != nil {
			return nil, fmt.Errorf("failed to expand %q: %w", pattern, err)
		}

		for _, match := range matches {
			full := filepath.Join(base, filepath.FromSlash(match))

			if !seen[full] {
				seen[full] = true
				paths = append(paths, full)
			}
		}
	}

	slices.Sort(paths)

	return paths, nil
}
