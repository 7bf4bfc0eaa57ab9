// Package config loads the quill settings from a YAML file.
//
// Values in the file may refer to environment variables as $VAR or ${VAR}.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Log levels accepted in the configuration.
var logLevels = []interface{}{"debug", "info", "warning", "error", "none"}

// Config is the complete configuration.
type Config struct {
	LogLevel string        `yaml:"log_level"`
	Storage  StorageConfig `yaml:"storage"`
	Render   RenderConfig  `yaml:"render"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.Required, validation.In(logLevels...)),
	)
	if err != nil {
		return err
	}
	err = c.Storage.Validate()
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	err = c.Render.Validate()
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// StorageConfig holds the location of the books.
type StorageConfig struct {
	Dir string `yaml:"dir"`
	// BackupDir is optional, backups are disabled if it is empty.
	BackupDir  string `yaml:"backup_dir"`
	DateFormat string `yaml:"date_format"`
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.DateFormat, validation.Required),
	)
}

// RenderConfig holds the size for thumbnails and page images in pixels.
type RenderConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Validate validates the render configuration.
func (c *RenderConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Width, validation.Required, validation.Min(16), validation.Max(8192)),
		validation.Field(&c.Height, validation.Required, validation.Min(16), validation.Max(8192)),
	)
}

// Default returns the configuration that is used without a config file.
func Default() *Config {
	return &Config{
		LogLevel: "warning",
		Storage: StorageConfig{
			Dir:        filepath.Join(dataHome(), "quill", "books"),
			DateFormat: "2006-01-02 15:04",
		},
		Render: RenderConfig{
			Width:  300,
			Height: 400,
		},
	}
}

// Load reads the configuration from a YAML file. Values that are not set
// in the file keep their defaults.
func Load(filename string) (*Config, error) {
	c := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expanded := os.ExpandEnv(string(data))
	err = yaml.Unmarshal([]byte(expanded), c)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	err = c.Validate()
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return c, nil
}

// LoadOrDefault loads the config file if it exists and returns the
// defaults otherwise.
func LoadOrDefault(filename string) (*Config, error) {
	_, err := os.Stat(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(filename)
}

// DefaultPath is the config file location below the user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "quill.yaml"
	}
	return filepath.Join(dir, "quill", "config.yaml")
}

func dataHome() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return d
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}
