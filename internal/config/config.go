// Package config reads the dltext configuration file
// (~/.config/dltext/config.yaml).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds defaults applied when the matching CLI flag is not set.
// Pointer fields distinguish "not set" from zero values.
type Config struct {
	// TextOffset is the default text definition offset for files that
	// have no entry in Offsets.
	TextOffset *int `yaml:"text_offset"`

	// Offsets maps a file base name to its text definition offset.
	Offsets map[string]int `yaml:"offsets"`

	StrictTrailing *bool `yaml:"strict_trailing"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	ServerAddress string `yaml:"server_address"`
	MaxSessions   *int   `yaml:"max_sessions"`
	MaxUploadSize string `yaml:"max_upload_size"`
}

// Path returns the default config location, or "" if the user config
// directory cannot be determined.
func Path() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "dltext", "config.yaml")
}

// Load reads the config at path. A missing file yields a zero Config.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// OffsetFor returns the configured text definition offset for file,
// preferring a per-file entry over the global default.
func (c Config) OffsetFor(file string) (int, bool) {
	if off, ok := c.Offsets[filepath.Base(file)]; ok {
		return off, true
	}
	if c.TextOffset != nil {
		return *c.TextOffset, true
	}
	return 0, false
}
