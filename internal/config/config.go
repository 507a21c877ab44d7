package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration. Everything here is
// fixed for the lifetime of the process. ProjectID 0 means
// auto-detect from the git remote; RefreshInterval and MsgTimeout are
// in seconds.
type Config struct {
	Token           string `yaml:"token"`
	InstanceURL     string `yaml:"instance_url"`
	ProjectID       int64  `yaml:"project_id"`
	RefreshInterval int    `yaml:"refresh_interval"`
	MaxTrackedMRs   int    `yaml:"max_tracked_mrs"`
	FocusBranch     bool   `yaml:"focus_current_branch"`
	MsgTimeout      int    `yaml:"msg_timeout"`
}

// DefaultConfig returns the defaults applied under a loaded file.
func DefaultConfig() *Config {
	return &Config{
		InstanceURL:     "https://gitlab.com",
		RefreshInterval: 30,
		MaxTrackedMRs:   5,
		FocusBranch:     true,
		MsgTimeout:      3,
	}
}

// Load reads the config file at path (or the default location when
// path is empty). A missing file is fine; a malformed or invalid one
// is a configuration error and fatal to the caller.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath returns ~/.config/peeplab/config.yml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "peeplab", "config.yml")
}

// Validate checks the settings the event loop cannot start without.
func (c *Config) Validate() error {
	if c.Token == "" {
		return errors.New("gitlab token is not set")
	}
	if c.InstanceURL == "" {
		return errors.New("instance_url cannot be empty")
	}
	if c.RefreshInterval < 1 {
		return fmt.Errorf("refresh_interval must be positive, got %d", c.RefreshInterval)
	}
	if c.MaxTrackedMRs < 1 {
		return fmt.Errorf("max_tracked_mrs must be positive, got %d", c.MaxTrackedMRs)
	}
	return nil
}
