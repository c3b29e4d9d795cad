// pattern: Imperative Shell

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"promptstat/internal/segment"
)

type Config struct {
	LogLevel    string          `yaml:"log_level" toml:"log_level"`
	Theme       string          `yaml:"theme" toml:"theme"`
	ScanTimeout time.Duration   `yaml:"scan_timeout" toml:"scan_timeout"`
	ScanStride  int             `yaml:"scan_stride" toml:"scan_stride"`
	GitStatus   GitStatusConfig `yaml:"git_status" toml:"git_status"`
}

type GitStatusConfig struct {
	// AsyncPaths lists repository work trees whose status is computed by a
	// background worker. Matching is exact, not by prefix.
	AsyncPaths     []string        `yaml:"async_paths" toml:"async_paths"`
	StaleLockAfter time.Duration   `yaml:"stale_lock_after" toml:"stale_lock_after"`
	CommandTimeout time.Duration   `yaml:"command_timeout" toml:"command_timeout"`
	ShowCounts     bool            `yaml:"show_counts" toml:"show_counts"`
	Color          string          `yaml:"color" toml:"color"`
	Symbols        segment.Symbols `yaml:"symbols" toml:"symbols"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel:    "warn",
		Theme:       "mocha",
		ScanTimeout: 30 * time.Millisecond,
		ScanStride:  256,
		GitStatus: GitStatusConfig{
			CommandTimeout: 5 * time.Second,
			Color:          string(segment.ColorAuto),
			Symbols:        segment.DefaultSymbols(),
		},
	}
}

// Load reads the config from the default location.
func Load() (Config, error) {
	return LoadFromDir(defaultConfigDir())
}

// LoadFromDir reads config.yaml from dir, falling back to config.toml.
// A directory with neither yields the defaults.
func LoadFromDir(dir string) (Config, error) {
	yamlPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		return LoadFrom(yamlPath)
	}
	tomlPath := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(tomlPath); err == nil {
		return LoadFrom(tomlPath)
	}
	return LoadFrom(yamlPath)
}

// LoadFrom reads a single config file; the extension picks the format.
func LoadFrom(configPath string) (Config, error) {
	cfg := DefaultConfig()
	// Symbols in the file override defaults key by key.
	cfg.GitStatus.Symbols = segment.Symbols{}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), err
	}

	if strings.EqualFold(filepath.Ext(configPath), ".toml") {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return DefaultConfig(), fmt.Errorf("parse %s: %w", configPath, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse %s: %w", configPath, err)
	}

	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	defaults := DefaultConfig()

	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.ScanTimeout < 0 {
		c.ScanTimeout = 0
	}
	if c.ScanStride <= 0 {
		c.ScanStride = defaults.ScanStride
	}
	if c.GitStatus.CommandTimeout <= 0 {
		c.GitStatus.CommandTimeout = defaults.GitStatus.CommandTimeout
	}
	if c.GitStatus.StaleLockAfter < 0 {
		c.GitStatus.StaleLockAfter = 0
	}
	c.GitStatus.Color = string(segment.ParseColorMode(c.GitStatus.Color))
	c.GitStatus.Symbols = defaults.GitStatus.Symbols.WithOverrides(c.GitStatus.Symbols)

	paths := make([]string, 0, len(c.GitStatus.AsyncPaths))
	for _, p := range c.GitStatus.AsyncPaths {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		paths = append(paths, filepath.Clean(ExpandHome(p)))
	}
	c.GitStatus.AsyncPaths = paths
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func defaultConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "promptstat")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "promptstat")
	}

	return filepath.Join(home, ".config", "promptstat")
}
