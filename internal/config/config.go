// Package config provides configuration management for sebx.
//
// Config file locations (priority order):
//  1. $SEBX_CONFIG
//  2. ./sebx.yaml
//  3. $XDG_CONFIG_HOME/sebx/config.yaml
//  4. ~/.config/sebx/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath overrides the config file search.
	EnvConfigPath = "SEBX_CONFIG"

	// ConfigFileName is the working-directory config file name.
	ConfigFileName = "sebx.yaml"

	// ConfigDirName is the per-user config directory name.
	ConfigDirName = "sebx"
)

// Config is the tool configuration.
type Config struct {
	// BlueprintsDir is the blueprint library to scan. Empty means the
	// game's default library location.
	BlueprintsDir string `yaml:"blueprints_dir,omitempty"`

	// ProfilesDir holds community mapping profiles.
	ProfilesDir string `yaml:"profiles_dir"`

	// CostDatabase optionally overrides the embedded block cost data.
	CostDatabase string `yaml:"cost_database,omitempty"`

	// IndexDatabase is the scan index location. Empty disables the index.
	IndexDatabase string `yaml:"index_database,omitempty"`

	// DefaultCategories are enabled when no explicit category list is
	// given on the command line.
	DefaultCategories []string `yaml:"default_categories"`

	// DisableBackups turns off the .backup copy written before in-place
	// conversion.
	DisableBackups bool `yaml:"disable_backups,omitempty"`
}

// CreateBackups reports whether in-place conversion should keep a
// .backup copy of the original file.
func (c *Config) CreateBackups() bool {
	return !c.DisableBackups
}

// Load finds and loads the config file, or returns defaults if none found.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, path, nil
}

// Save writes config to the specified path.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	if c.ProfilesDir == "" {
		c.ProfilesDir = filepath.Join(userConfigDir(), "profiles")
	}
	if len(c.DefaultCategories) == 0 {
		c.DefaultCategories = []string{"armor"}
	}
}

// FindConfigPath locates the config file, or returns "" when none exists.
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		if fileExists(path) {
			return path
		}
	}

	if fileExists(ConfigFileName) {
		if abs, err := filepath.Abs(ConfigFileName); err == nil {
			return abs
		}
		return ConfigFileName
	}

	if path := filepath.Join(userConfigDir(), "config.yaml"); fileExists(path) {
		return path
	}
	return ""
}

// DefaultConfigPath returns where Save should write a new config file.
func DefaultConfigPath() string {
	return filepath.Join(userConfigDir(), "config.yaml")
}

func userConfigDir() string {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, ConfigDirName)
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", ConfigDirName)
	}
	return ConfigDirName
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
