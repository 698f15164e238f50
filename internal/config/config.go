// Package config loads tool settings from .xcproj.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Filename is the settings file looked up at the project root and in
// the working directory.
const Filename = ".xcproj.toml"

// Config carries tool-level defaults. The zero value is valid and is
// what a project without a settings file gets.
type Config struct {
	// DefaultTarget names the target operations apply to when none is
	// given on the command line. Empty falls back to the first target.
	DefaultTarget string `toml:"default_target"`

	Backup BackupConfig `toml:"backup"`
	Output OutputConfig `toml:"output"`
	Graph  GraphConfig  `toml:"graph"`
}

// BackupConfig controls the pre-save snapshot behavior.
type BackupConfig struct {
	Enabled bool `toml:"enabled"`
	// Dir overrides the default .xcproj-backups location next to the
	// descriptor.
	Dir string `toml:"dir"`
	// Keep bounds how many snapshots are retained; 0 keeps all.
	Keep int `toml:"keep"`
}

// OutputConfig controls serialization details.
type OutputConfig struct {
	OmitEmptyValues bool `toml:"omit_empty_values"`
}

// GraphConfig carries dependency-graph export defaults.
type GraphConfig struct {
	Format string `toml:"format"`
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.Backup.Validate(); err != nil {
		return err
	}
	return c.Graph.Validate()
}

// Validate checks the backup configuration.
func (c *BackupConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Keep, validation.Min(0)),
	)
}

// Validate checks the graph configuration.
func (c *GraphConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Format, validation.In("dot", "svg", "png")),
	)
}

// Load reads and validates the settings file at path. A missing file
// yields the zero config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("read config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Near finds the settings file closest to the descriptor: the project
// root (the .xcodeproj container's parent) first, then the working
// directory. Neither existing yields the zero config.
func Near(projectPath string) (*Config, error) {
	var candidates []string
	if projectPath != "" {
		root := filepath.Dir(filepath.Dir(projectPath))
		candidates = append(candidates, filepath.Join(root, Filename))
	}
	candidates = append(candidates, Filename)

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return Load(c)
		}
	}
	return &Config{}, nil
}
