package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/rwmerge/pkg/math"
	"github.com/Faultbox/rwmerge/pkg/rw"
	"github.com/Faultbox/rwmerge/pkg/scene"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be fixed by defaults.
func (c *Config) Validate() error {
	if c.Input.MaxInflatedMB < 0 {
		return fmt.Errorf("input.max_inflated_mb must not be negative, got %d", c.Input.MaxInflatedMB)
	}
	if c.Merge.Spacing < 0 {
		return fmt.Errorf("merge.spacing must not be negative, got %v", c.Merge.Spacing)
	}
	if _, err := math.ParseAxis(c.Merge.Axis); err != nil {
		return fmt.Errorf("merge.axis: %w", err)
	}
	if _, err := scene.ParseImageFormat(c.Textures.Format); err != nil {
		return fmt.Errorf("textures.format: %w", err)
	}
	return nil
}

// MergeOptions converts the merge section into scene options.
func (c *Config) MergeOptions() scene.MergeOptions {
	axis, _ := math.ParseAxis(c.Merge.Axis)
	return scene.MergeOptions{Spacing: c.Merge.Spacing, Axis: axis}
}

// Decoder returns the record dump decoder configured by the input section.
func (c *Config) Decoder() rw.DumpDecoder {
	return rw.DumpDecoder{MaxInflated: int64(c.Input.MaxInflatedMB) << 20}
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./rwmerge.yaml",
		"./rwmerge.toml",
		filepath.Join(ConfigDir(), "rwmerge.yaml"),
		filepath.Join(ConfigDir(), "rwmerge.toml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "rwmerge")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "rwmerge")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "rwmerge")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "rwmerge")
	}
}

// loadFromFile loads config from a YAML or TOML file, merging with
// existing values. The format follows the file extension.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}
