// Package config loads the treectl configuration file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/treekit/internal/logger"
	"github.com/joshuapare/treekit/update"
)

// Config holds the resolved treectl configuration.
type Config struct {
	Apply ApplyConfig
	Log   LogConfig
	Batch BatchConfig
	Watch WatchConfig
}

// ApplyConfig holds registry options.
type ApplyConfig struct {
	Mode   update.ApplyMode
	Strict bool
}

// LogConfig holds logger options.
type LogConfig struct {
	Level  slog.Level
	Format string
	Dir    string
}

// BatchConfig holds batch decoding options.
type BatchConfig struct {
	Encoding string
}

// WatchConfig holds options for the watch command.
type WatchConfig struct {
	Patterns []string
	Debounce time.Duration
}

// FileConfig represents the structure of the configuration file
type FileConfig struct {
	Apply struct {
		Mode   string `yaml:"mode"`
		Strict *bool  `yaml:"strict"`
	} `yaml:"apply"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Dir    string `yaml:"dir"`
	} `yaml:"log"`

	Batch struct {
		Encoding string `yaml:"encoding"`
	} `yaml:"batch"`

	Watch struct {
		Patterns []string `yaml:"patterns"`
		Debounce string   `yaml:"debounce"`
	} `yaml:"watch"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	opt := update.DefaultOptions()
	return &Config{
		Apply: ApplyConfig{Mode: opt.Mode, Strict: opt.Strict},
		Log:   LogConfig{Level: slog.LevelInfo, Format: "text"},
		Batch: BatchConfig{Encoding: "auto"},
		Watch: WatchConfig{
			Patterns: []string{"*.yaml", "*.yml", "*.json"},
			Debounce: 200 * time.Millisecond,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(filePath string) (*Config, error) {
	config := Default()

	// If no config file specified, return default config
	if filePath == "" {
		return config, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Apply settings
	if fc.Apply.Mode != "" {
		m, err := update.ParseApplyMode(fc.Apply.Mode)
		if err != nil {
			return nil, fmt.Errorf("apply.mode: %w", err)
		}
		config.Apply.Mode = m
	}
	if fc.Apply.Strict != nil {
		config.Apply.Strict = *fc.Apply.Strict
	}

	// Log settings
	if fc.Log.Level != "" {
		l, err := logger.ParseLevel(fc.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("log.level: %w", err)
		}
		config.Log.Level = l
	}
	if fc.Log.Format != "" {
		config.Log.Format = fc.Log.Format
	}
	config.Log.Dir = fc.Log.Dir

	// Batch settings
	if fc.Batch.Encoding != "" {
		config.Batch.Encoding = fc.Batch.Encoding
	}

	// Watch settings
	if len(fc.Watch.Patterns) > 0 {
		config.Watch.Patterns = fc.Watch.Patterns
	}
	if fc.Watch.Debounce != "" {
		d, err := time.ParseDuration(fc.Watch.Debounce)
		if err != nil {
			return nil, fmt.Errorf("watch.debounce: %w", err)
		}
		config.Watch.Debounce = d
	}

	return config, nil
}

// Options returns the registry options described by the config.
func (c *Config) Options() update.Options {
	opt := update.DefaultOptions()
	opt.Mode = c.Apply.Mode
	opt.Strict = c.Apply.Strict
	return opt
}

// SaveDefaultConfig saves a default configuration file
func SaveDefaultConfig(filePath string) error {
	def := Default()
	strict := def.Apply.Strict

	var fc FileConfig
	fc.Apply.Mode = def.Apply.Mode.String()
	fc.Apply.Strict = &strict
	fc.Log.Level = "info"
	fc.Log.Format = def.Log.Format
	fc.Batch.Encoding = def.Batch.Encoding
	fc.Watch.Patterns = def.Watch.Patterns
	fc.Watch.Debounce = def.Watch.Debounce.String()

	data, err := yaml.Marshal(fc)
	if err != nil {
		return fmt.Errorf("error creating default config: %w", err)
	}

	withComments := "# treectl configuration\n" +
		"# apply.mode: interleaved | validate-first\n" +
		"# batch.encoding: auto | utf-8 | utf-16le | utf-16be | windows-1252\n\n" +
		string(data)

	if err := os.WriteFile(filePath, []byte(withComments), 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}
