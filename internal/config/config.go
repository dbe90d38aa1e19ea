// Package config resolves runtime settings from, in increasing order of
// precedence: flag defaults, an optional YAML config file, DECKARD_*
// environment variables, and explicitly set command-line flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const envPrefix = "DECKARD_"

// Config holds every tunable of the program.
type Config struct {
	DecksDir     string `koanf:"decks_dir" validate:"required"`
	Database     string `koanf:"database" validate:"required"`
	ForecastDays int    `koanf:"forecast_days" validate:"gte=1,lte=365"`
	Shuffle      bool   `koanf:"shuffle"`
	LogLevel     string `koanf:"log_level" validate:"oneof=debug info warn error"`
}

// RegisterFlags declares the settings as flags on fs, with their
// default values. The flag names double as config file keys with
// dashes mapped to underscores.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("decks-dir", "decks", "directory containing CSV decks")
	fs.String("database", "deckard.db", "path to the SQLite database")
	fs.Int("forecast-days", 30, "days of review forecast to compute")
	fs.Bool("shuffle", true, "shuffle the review queue")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
}

// Load resolves the configuration. path names an optional YAML file; an
// empty path or a missing file is not an error.
func Load(fs *pflag.FlagSet, path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	// Flags come last: explicitly set flags win over file and env,
	// while unset flags only contribute their defaults.
	if err := k.Load(posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if !f.Changed && k.Exists(key) {
			return "", nil
		}
		return key, posflag.FlagVal(fs, f)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
