// Package configloader loads the logger configuration from defaults, files, environment
// variables and command-line flags.
package configloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/GabrielNunesIT/structlog/logger"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DefaultEnvPrefix is the prefix of the environment variables read by WithEnv when no prefix is given.
const DefaultEnvPrefix = "STRUCTLOG_"

// Flag names registered by RegisterFlags.
const (
	FlagMaxLogLevel = "max-log-level"
	FlagTraceback   = "traceback"
)

// source mirrors logger.Config with text levels, as found in files, env and flags.
type source struct {
	MaxLogLevel string `koanf:"max_log_level"`
	Traceback   bool   `koanf:"traceback"`
}

func toSource(cfg logger.Config) source {
	return source{
		MaxLogLevel: cfg.MaxLogLevel.String(),
		Traceback:   cfg.Traceback,
	}
}

// ConfigLoader merges configuration sources into a logger.Config.
// Sources are applied in the order the options are given; later sources win.
type ConfigLoader struct {
	k   *koanf.Koanf
	err error
}

// Option is a function that configures the ConfigLoader.
type Option func(*ConfigLoader)

// NewConfigLoader creates a ConfigLoader seeded with logger.DefaultConfig.
func NewConfigLoader(opts ...Option) *ConfigLoader {
	loader := &ConfigLoader{
		k: koanf.New("."),
	}

	WithDefaults(logger.DefaultConfig())(loader)
	for _, opt := range opts {
		opt(loader)
	}
	return loader
}

// Load returns the merged, validated configuration.
func (loader *ConfigLoader) Load() (logger.Config, error) {
	if loader.err != nil {
		return logger.Config{}, loader.err
	}

	var src source
	if err := loader.k.Unmarshal("", &src); err != nil {
		return logger.Config{}, fmt.Errorf("unmarshal logger config: %w", err)
	}

	level, err := logger.ParseLevel(src.MaxLogLevel)
	if err != nil {
		return logger.Config{}, fmt.Errorf("%w: max_log_level: %w", logger.ErrInvalidConfig, err)
	}

	cfg := logger.Config{
		MaxLogLevel: level,
		Traceback:   src.Traceback,
	}
	if err := cfg.Validate(); err != nil {
		return logger.Config{}, err
	}
	return cfg, nil
}

// WithDefaults loads cfg as a configuration layer.
func WithDefaults(cfg logger.Config) Option {
	return func(loader *ConfigLoader) {
		if loader.err != nil {
			return
		}
		if err := loader.k.Load(structs.Provider(toSource(cfg), "koanf"), nil); err != nil {
			loader.err = fmt.Errorf("load defaults: %w", err)
		}
	}
}

// WithFile adds a file source to the loader. YAML is used for .yaml and .yml files,
// JSON for anything else. An empty path is ignored.
func WithFile(path string) Option {
	return func(loader *ConfigLoader) {
		if loader.err != nil || path == "" {
			return
		}

		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		default:
			parser = json.Parser()
		}

		if err := loader.k.Load(file.Provider(path), parser); err != nil {
			loader.err = fmt.Errorf("load config file %s: %w", path, err)
		}
	}
}

// WithEnv adds an environment variable source.
// With prefix "STRUCTLOG_", STRUCTLOG_MAX_LOG_LEVEL sets max_log_level.
func WithEnv(prefix string) Option {
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}

	return func(loader *ConfigLoader) {
		if loader.err != nil {
			return
		}

		err := loader.k.Load(env.Provider(prefix, ".", func(s string) string {
			return strings.ToLower(strings.TrimPrefix(s, prefix))
		}), nil)
		if err != nil {
			loader.err = fmt.Errorf("load env: %w", err)
		}
	}
}

// WithFlags adds a command-line flag source. Dashes in flag names map to underscores in
// config keys. Flags left at their default do not override earlier sources.
func WithFlags(flags *pflag.FlagSet) Option {
	return func(loader *ConfigLoader) {
		if loader.err != nil {
			return
		}

		provider := posflag.ProviderWithFlag(flags, ".", loader.k, func(f *pflag.Flag) (string, interface{}) {
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		})
		if err := loader.k.Load(provider, nil); err != nil {
			loader.err = fmt.Errorf("load flags: %w", err)
		}
	}
}

// RegisterFlags adds the logger flags to flags, with defaults taken from logger.DefaultConfig.
func RegisterFlags(flags *pflag.FlagSet) {
	def := logger.DefaultConfig()
	flags.String(FlagMaxLogLevel, def.MaxLogLevel.String(), "least severe level written (error, warn, info, debug, trace)")
	flags.Bool(FlagTraceback, def.Traceback, "enable full goroutine tracebacks unless GOTRACEBACK is set")
}
