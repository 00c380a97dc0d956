// Package config resolves usagelog settings from a YAML file, the
// environment and command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted by FromEnv.
const (
	EnvDB        = "USAGELOG_DB"
	EnvWorkspace = "USAGELOG_WORKSPACE"
)

// Defaults used when nothing else sets a value.
const (
	DefaultDB        = "usagelog.db"
	DefaultWorkspace = "default"
	DefaultFormat    = "text"
	DefaultLogLevel  = "info"
)

// Config holds resolved settings. Empty fields mean "not set".
type Config struct {
	DB        string `yaml:"db"`
	Workspace string `yaml:"workspace"`
	Format    string `yaml:"format"`    // text | json
	LogLevel  string `yaml:"log_level"` // debug | info | warn | error
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DB:        DefaultDB,
		Workspace: DefaultWorkspace,
		Format:    DefaultFormat,
		LogLevel:  DefaultLogLevel,
	}
}

// Load reads a YAML config file. Unknown keys are rejected.
// An empty file yields an empty Config.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return c, nil
}

// FromEnv reads settings from the environment through getenv.
func FromEnv(getenv func(string) string) Config {
	return Config{
		DB:        strings.TrimSpace(getenv(EnvDB)),
		Workspace: strings.TrimSpace(getenv(EnvWorkspace)),
	}
}

// Merge returns c with every non-empty field of over applied on top.
func (c Config) Merge(over Config) Config {
	if over.DB != "" {
		c.DB = over.DB
	}
	if over.Workspace != "" {
		c.Workspace = over.Workspace
	}
	if over.Format != "" {
		c.Format = over.Format
	}
	if over.LogLevel != "" {
		c.LogLevel = over.LogLevel
	}
	return c
}

// Validate checks the values that are set.
func (c Config) Validate() error {
	switch c.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("format %q: must be text or json", c.Format)
	}
	if c.LogLevel != "" {
		if _, err := c.Level(); err != nil {
			return err
		}
	}
	return nil
}

// Level parses LogLevel. An empty level is Info.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
