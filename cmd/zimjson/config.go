package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fwojciec/zimjson"
	"gopkg.in/yaml.v3"
)

// Config is the optional YAML configuration file.
type Config struct {
	MaxObjects    int      `yaml:"max_objects"`
	SkipMimeTypes []string `yaml:"skip_mime_types"`
	SQLite        string   `yaml:"sqlite"`
	LogLevel      string   `yaml:"log_level"`
}

// LoadConfig reads and validates a config file. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, zimjson.Errorf(zimjson.EINVALID, "config %s: %v", path, err)
	}

	if cfg.MaxObjects < 0 {
		return nil, zimjson.Errorf(zimjson.EINVALID, "config %s: max_objects must be positive", path)
	}
	if _, err := cfg.Level(); err != nil {
		return nil, zimjson.Errorf(zimjson.EINVALID, "config %s: %v", path, err)
	}
	return &cfg, nil
}

// Level returns the configured log level, defaulting to info.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, err
	}
	return level, nil
}
