// Package project persists the command-line configuration as YAML and
// applies environment overrides on top of it.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/rackmap/internal/model"
)

// Environment variables that override the config file.
const (
	EnvOutputDir      = "RACKMAP_OUTPUT_DIR"
	EnvWorkers        = "RACKMAP_WORKERS"
	EnvShelfThickness = "RACKMAP_SHELF_THICKNESS"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.rackmap/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".rackmap")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// SaveConfig persists an AppConfig to the given path as YAML.
// It creates any missing parent directories automatically.
func SaveConfig(path string, config model.AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadConfig reads an AppConfig from the given path. Keys missing from the
// file keep their default values. If the file does not exist, it returns
// DefaultAppConfig with no error.
func LoadConfig(path string) (model.AppConfig, error) {
	config := model.DefaultAppConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return model.AppConfig{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// ApplyEnv overrides config values from the environment. lookup is usually
// os.LookupEnv. Empty variables are ignored.
func ApplyEnv(config *model.AppConfig, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvOutputDir); ok && v != "" {
		config.OutputDir = v
	}
	if v, ok := lookup(EnvWorkers); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		config.Workers = n
	}
	if v, ok := lookup(EnvShelfThickness); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvShelfThickness, err)
		}
		config.Settings.ShelfThicknessInches = f
	}
	return nil
}
