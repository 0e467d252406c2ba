// Package config loads optional CLI defaults from a YAML file.
package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds CLI settings. Command-line flags override these values.
type Config struct {
	Out     string        `koanf:"out"`
	Index   IndexConfig   `koanf:"index"`
	Metrics MetricsConfig `koanf:"metrics"`
	Log     LogConfig     `koanf:"log"`
}

// IndexConfig controls the SQLite run index.
type IndexConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"` // defaults to <out>/index.db
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	File string `koanf:"file"` // empty disables export
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // text, json
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Out: "out",
		Log: LogConfig{Level: "warn", Format: "text"},
	}
}

// Load reads path over the defaults. An empty path returns Default().
// Environment variables are not consulted.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	def := Default()
	k.Set("out", def.Out)
	k.Set("index.enabled", def.Index.Enabled)
	k.Set("index.path", def.Index.Path)
	k.Set("metrics.file", def.Metrics.File)
	k.Set("log.level", def.Log.Level)
	k.Set("log.format", def.Log.Format)

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the CLI cannot act on.
func (c Config) Validate() error {
	if c.Out == "" {
		return fmt.Errorf("config: out must not be empty")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log.level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: invalid log.format %q", c.Log.Format)
	}
	return nil
}
