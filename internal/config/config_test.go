package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l-donovan/bnf/internal/logger"
)

func noEnv() []string { return nil }

func TestLoader_Load(t *testing.T) {
	t.Run("Should load default configuration when no file is given", func(t *testing.T) {
		loader := NewLoader(afero.NewMemMapFs()).WithEnviron(noEnv)

		cfg, err := loader.Load("")

		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("Should merge YAML over defaults", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "bnf.yaml", []byte("build:\n  allow_epsilon: true\nrender:\n  format: json\n"), 0o644))

		cfg, err := NewLoader(fs).WithEnviron(noEnv).Load("bnf.yaml")

		require.NoError(t, err)
		assert.True(t, cfg.Build.AllowEpsilon)
		assert.Equal(t, "json", cfg.Render.Format)
		assert.Equal(t, 1, cfg.Render.IndentSize)
		assert.Equal(t, 4, cfg.Batch.Workers)
	})

	t.Run("Should let environment override the file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "bnf.yaml", []byte("batch:\n  workers: 2\n"), 0o644))
		environ := func() []string {
			return []string{"BNF_BATCH_WORKERS=8", "BNF_RENDER_INDENT_SIZE=2", "BNF_LOG_LEVEL=debug", "HOME=/root"}
		}

		cfg, err := NewLoader(fs).WithEnviron(environ).Load("bnf.yaml")

		require.NoError(t, err)
		assert.Equal(t, 8, cfg.Batch.Workers)
		assert.Equal(t, 2, cfg.Render.IndentSize)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("Should reject invalid values", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "bnf.yaml", []byte("render:\n  format: xml\n"), 0o644))

		_, err := NewLoader(fs).WithEnviron(noEnv).Load("bnf.yaml")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
	})

	t.Run("Should fail on a missing file", func(t *testing.T) {
		_, err := NewLoader(afero.NewMemMapFs()).WithEnviron(noEnv).Load("missing.yaml")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("Should fail on malformed YAML", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "bnf.yaml", []byte("render: [\n"), 0o644))

		_, err := NewLoader(fs).WithEnviron(noEnv).Load("bnf.yaml")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestConfig_Conversions(t *testing.T) {
	cfg := Default()
	cfg.Build.AllowEpsilon = true
	cfg.Render.Minify = true
	cfg.Log.Level = "warn"

	assert.True(t, cfg.BuildOptions().AllowEpsilon)
	assert.True(t, cfg.Serializer().Minify)
	assert.True(t, cfg.Serializer().UseTabs)
	assert.Equal(t, logger.WarnLevel, cfg.Logger().Level)
}

func TestTransformEnvKey(t *testing.T) {
	key, value := transformEnvKey("BNF_BUILD_ALLOW_EPSILON", "true")
	assert.Equal(t, "build.allow_epsilon", key)
	assert.Equal(t, "true", value)

	key, _ = transformEnvKey("BNF_", "x")
	assert.Empty(t, key)

	key, _ = transformEnvKey("BNF_DEBUG", "1")
	assert.Empty(t, key)
}
