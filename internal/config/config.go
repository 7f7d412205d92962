// Package config loads otexpr settings.
//
// Precedence (highest to lowest): changed flags > OTEXPR_ environment
// variables (a .env file in the working directory is loaded first) > config
// file > defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "OTEXPR_"

// DefaultConfigFile is read when no config file is given and it exists.
const DefaultConfigFile = "otexpr.yaml"

// Log formats.
const (
	LogText = "text"
	LogJSON = "json"
)

// Config holds the CLI settings.
type Config struct {
	Schema    string `koanf:"schema"`
	Table     string `koanf:"table"`
	Model     string `koanf:"model"`
	Index     string `koanf:"index"`
	Verbose   bool   `koanf:"verbose"`
	LogFormat string `koanf:"log_format"`
	DotEnv    string `koanf:"dotenv"`
}

// Load builds a Config. cfgFile may be empty; flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"table":      "onetable",
		"index":      "primary",
		"verbose":    false,
		"log_format": LogText,
		"dotenv":     ".env",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			cfgFile = DefaultConfigFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	if err := loadDotEnv(k.String("dotenv")); err != nil {
		return nil, err
	}

	// OTEXPR_LOG_FORMAT -> log_format
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded settings.
func (c *Config) Validate() error {
	switch c.LogFormat {
	case LogText, LogJSON:
	default:
		return fmt.Errorf("invalid log format %q (want %s or %s)", c.LogFormat, LogText, LogJSON)
	}
	if c.Table == "" {
		return errors.New("table name is required")
	}
	return nil
}

// loadDotEnv loads path into the process environment. Variables already set
// win and a missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading %s: %w", path, err)
	}
	return nil
}
