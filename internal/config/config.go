// Package config loads settings for the bnf command from defaults, an
// optional YAML file and BNF_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/l-donovan/bnf"
	"github.com/l-donovan/bnf/common"
	"github.com/l-donovan/bnf/internal/logger"
)

const EnvPrefix = "BNF_"

type Config struct {
	Log    LogConfig    `koanf:"log"`
	Build  BuildConfig  `koanf:"build"`
	Render RenderConfig `koanf:"render"`
	Batch  BatchConfig  `koanf:"batch"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `koanf:"json"`
}

type BuildConfig struct {
	// AllowEpsilon treats empty alternatives as empty rules.
	AllowEpsilon bool `koanf:"allow_epsilon"`
}

type RenderConfig struct {
	Format     string `koanf:"format"      validate:"oneof=bnf compact json yaml"`
	UseTabs    bool   `koanf:"use_tabs"`
	IndentSize int    `koanf:"indent_size" validate:"min=0,max=16"`
	Minify     bool   `koanf:"minify"`
}

type BatchConfig struct {
	Workers int    `koanf:"workers" validate:"min=1,max=256"`
	Pattern string `koanf:"pattern" validate:"required"`
}

func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Render: RenderConfig{
			Format:     "bnf",
			UseTabs:    true,
			IndentSize: 1,
		},
		Batch: BatchConfig{
			Workers: 4,
			Pattern: "**/*.bnf",
		},
	}
}

func (c *Config) BuildOptions() bnf.Options {
	return bnf.Options{AllowEpsilon: c.Build.AllowEpsilon}
}

func (c *Config) Serializer() common.SerializerConfig {
	return common.SerializerConfig{
		UseTabs:    c.Render.UseTabs,
		IndentSize: c.Render.IndentSize,
		Minify:     c.Render.Minify,
	}
}

func (c *Config) Logger() *logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = logger.LogLevel(c.Log.Level)
	cfg.JSON = c.Log.JSON

	return cfg
}

type Loader struct {
	fs        afero.Fs
	validator *validator.Validate
	environ   func() []string
}

func NewLoader(fs afero.Fs) *Loader {
	return &Loader{fs: fs, validator: validator.New(), environ: os.Environ}
}

// WithEnviron replaces the environment the loader reads from.
func (l *Loader) WithEnviron(environ func() []string) *Loader {
	l.environ = environ
	return l
}

// Load merges defaults, the YAML file at path (skipped when path is empty)
// and the environment, then validates the result.
func (l *Loader) Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		data, err := l.readYAML(path)

		if err != nil {
			return nil, err
		}

		if err := k.Load(rawMap(data), nil); err != nil {
			return nil, fmt.Errorf("failed to apply config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnvKey,
		EnvironFunc:   l.environ,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var config Config

	if err := k.UnmarshalWithConf("", &config, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &config,
			TagName:          "koanf",
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := l.validator.Struct(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func (l *Loader) readYAML(path string) (map[string]any, error) {
	data, err := afero.ReadFile(l.fs, path)

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config map[string]any

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// transformEnvKey maps BNF_RENDER_INDENT_SIZE to render.indent_size.
func transformEnvKey(key, value string) (string, any) {
	parts := strings.SplitN(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "_", 2)

	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", nil
	}

	return parts[0] + "." + parts[1], value
}

// rawMap is a koanf.Provider adapter for map[string]any data.
type rawMap map[string]any

func (r rawMap) Read() (map[string]any, error) {
	return r, nil
}

func (r rawMap) ReadBytes() ([]byte, error) {
	return nil, errors.New("ReadBytes not implemented")
}
