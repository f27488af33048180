// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lakegate Contributors

// Package config loads CLI configuration from defaults, an optional YAML
// file, and command-line flags, in that order of increasing precedence.
package config

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config holds the settings of the lakegate CLI.
type Config struct {
	// LogFormat is "json" or "text".
	LogFormat string `koanf:"log-format"`
	// LogLevel is "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log-level"`
	// Output is the graph rendering: "yaml" or "json".
	Output string `koanf:"output"`
	// Strict aborts compilation on the first malformed grant.
	Strict bool `koanf:"strict"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogFormat: "text",
		LogLevel:  "info",
		Output:    "yaml",
	}
}

// Load layers an optional YAML config file and the given flag set on top of
// the defaults. Flags override file values only when explicitly set.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, oops.
				Code("CONFIG_LOAD").
				With("path", path).
				Wrapf(err, "loading config file")
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return cfg, oops.Code("CONFIG_LOAD").Wrapf(err, "loading flags")
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, oops.Code("CONFIG_LOAD").Wrapf(err, "unmarshaling config")
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Output {
	case "yaml", "json":
	default:
		return oops.
			Code("CONFIG_INVALID").
			With("output", c.Output).
			Errorf("output must be yaml or json")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return oops.
			Code("CONFIG_INVALID").
			With("log_format", c.LogFormat).
			Errorf("log-format must be json or text")
	}
	return nil
}
