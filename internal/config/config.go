// Package config handles rwmerge configuration loading and management.
package config

import "time"

// Config holds all rwmerge settings.
type Config struct {
	Input    InputConfig    `yaml:"input" toml:"input"`
	Merge    MergeConfig    `yaml:"merge" toml:"merge"`
	Textures TexturesConfig `yaml:"textures" toml:"textures"`
	Watch    WatchConfig    `yaml:"watch" toml:"watch"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// InputConfig holds limits for reading record dumps.
type InputConfig struct {
	MaxInflatedMB int `yaml:"max_inflated_mb" toml:"max_inflated_mb"` // 0 = no limit
}

// MergeConfig holds placement of merged model files.
type MergeConfig struct {
	Spacing float32 `yaml:"spacing" toml:"spacing"` // distance between consecutive files
	Axis    string  `yaml:"axis" toml:"axis"`       // x, y or z
}

// TexturesConfig holds texture export settings.
type TexturesConfig struct {
	Format    string `yaml:"format" toml:"format"` // png or bmp
	OutputDir string `yaml:"output_dir" toml:"output_dir"`
}

// WatchConfig holds settings for the watch command.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" toml:"debounce"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			MaxInflatedMB: 256,
		},
		Merge: MergeConfig{
			Spacing: 5,
			Axis:    "x",
		},
		Textures: TexturesConfig{
			Format:    "png",
			OutputDir: "textures",
		},
		Watch: WatchConfig{
			Debounce: 250 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
