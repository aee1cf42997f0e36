// Package config loads CLI configuration from the user's config directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

const (
	configDirName = "agentwire"
	defaultConfig = ".config"
)

// Candidate file names, checked in order.
var configFiles = []string{
	"config.yaml",
	"config.yml",
}

// Config holds CLI settings. Flags override these; these override defaults.
type Config struct {
	// BaseURL is the agent backend address.
	BaseURL string `yaml:"base_url" default:"http://localhost:8000"`
	// InvokePath is the single-shot endpoint path.
	InvokePath string `yaml:"invoke_path" default:"/query"`
	// StreamPath is the streaming endpoint path.
	StreamPath string `yaml:"stream_path" default:"/query/stream"`
	// TimeoutSeconds bounds single-shot requests. Streams are not bounded.
	TimeoutSeconds int `yaml:"timeout_seconds" default:"60"`
}

// Timeout returns TimeoutSeconds as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Default returns a Config populated with default values only.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Load reads the config file from the user's config directory. A missing
// file is not an error; defaults are returned. A file that exists but does
// not parse is an error, never silently ignored.
func Load() (*Config, error) {
	dir, err := configPath()
	if err != nil {
		return nil, err
	}
	for _, name := range configFiles {
		cfg, err := LoadFile(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	return Default()
}

// LoadFile reads one specific config file. Defaults apply to any field the
// file leaves unset.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// configPath resolves the config directory from XDG_CONFIG_HOME, falling
// back to ~/.config.
func configPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("config: %w", err)
		}
		configHome = filepath.Join(home, defaultConfig)
	}
	return filepath.Join(configHome, configDirName), nil
}
