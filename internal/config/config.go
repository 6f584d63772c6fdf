// Package config loads the cmplog tool configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kolkov/cmplog/internal/cmplog/cmpmap"
	"github.com/kolkov/cmplog/internal/toolchain"
)

// Config holds all cmplog configuration.
type Config struct {
	// Observer settings
	Observer ObserverConfig `yaml:"observer"`

	// Comparison map geometry and discovery
	Map MapConfig `yaml:"map"`

	// Instrumentation toolchain
	Toolchain ToolchainConfig `yaml:"toolchain"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ObserverConfig configures the trace observer.
type ObserverConfig struct {
	Name    string `yaml:"name"`
	AddMeta bool   `yaml:"add_meta"`

	// UsableCount limits extraction to the first N indices. 0 means the whole map.
	UsableCount int `yaml:"usable_count"`
}

// MapConfig configures the comparison map geometry. It must match the
// instrumentation runtime the targets were built with.
type MapConfig struct {
	Width  int `yaml:"width"`  // indices, power of two
	Height int `yaml:"height"` // log depth, multiple of 4
}

// Layout returns the map geometry.
func (m MapConfig) Layout() cmpmap.Layout {
	return cmpmap.Layout{Width: m.Width, Height: m.Height}
}

// ToolchainConfig configures the pinned instrumentation toolchain.
type ToolchainConfig struct {
	RepoURL  string `yaml:"repo_url"`
	Revision string `yaml:"revision"`
	Dir      string `yaml:"dir"`
	MinLLVM  string `yaml:"min_llvm"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	layout := cmpmap.DefaultLayout()
	return &Config{
		Observer: ObserverConfig{
			Name:    "cmplog",
			AddMeta: true,
		},
		Map: MapConfig{
			Width:  layout.Width,
			Height: layout.Height,
		},
		Toolchain: ToolchainConfig{
			RepoURL:  toolchain.RepoURL,
			Revision: toolchain.Revision,
			Dir:      "AFLplusplus",
			MinLLVM:  toolchain.MinLLVM,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ApplyEnvOverrides applies environment variable overrides.
func (c *Config) ApplyEnvOverrides() error {
	if lvl := os.Getenv("CMPLOG_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = strings.ToLower(lvl)
	}
	if s := os.Getenv("CMPLOG_USABLE_COUNT"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("CMPLOG_USABLE_COUNT: %w", err)
		}
		c.Observer.UsableCount = n
	}
	if dir := os.Getenv("CMPLOG_TOOLCHAIN_DIR"); dir != "" {
		c.Toolchain.Dir = dir
	}
	return nil
}
