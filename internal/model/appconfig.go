package model

import (
	"errors"
	"fmt"
)

// AppConfig holds the persisted command-line defaults.
type AppConfig struct {
	Settings Settings `yaml:"settings"`

	OutputDir string `yaml:"output_dir"`
	Sheet     string `yaml:"sheet,omitempty"` // Empty = auto-detect
	Workers   int    `yaml:"workers"`         // Bays processed in parallel
	LogLevel  string `yaml:"log_level"`       // "debug", "info", "warn", "error"

	// Optional extra outputs, written next to the scene JSON when set
	PlanPDF   string `yaml:"plan_pdf,omitempty"`
	LabelsPDF string `yaml:"labels_pdf,omitempty"`
	Workbook  string `yaml:"workbook,omitempty"`
	DXF       bool   `yaml:"dxf"`
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		Settings:  DefaultSettings(),
		OutputDir: "./output",
		Workers:   4,
		LogLevel:  "info",
	}
}

// Validate checks the settings for values that would produce degenerate
// geometry.
func (s Settings) Validate() error {
	var errs []error
	if s.ShelfThicknessInches < 0 {
		errs = append(errs, fmt.Errorf("shelf thickness must not be negative, got %g", s.ShelfThicknessInches))
	}
	if s.Level1FloorOffsetInches < 0 {
		errs = append(errs, fmt.Errorf("level 1 floor offset must not be negative, got %g", s.Level1FloorOffsetInches))
	}
	if s.DefaultWidthInches <= 0 || s.DefaultHeightInches <= 0 || s.DefaultDepthInches <= 0 {
		errs = append(errs, fmt.Errorf("default dimensions must be positive, got %gx%gx%g",
			s.DefaultWidthInches, s.DefaultHeightInches, s.DefaultDepthInches))
	}
	if s.MaxSlotsPerSection <= 0 {
		errs = append(errs, fmt.Errorf("max slots per section must be positive, got %d", s.MaxSlotsPerSection))
	}
	return errors.Join(errs...)
}

// Validate checks the whole configuration.
func (c AppConfig) Validate() error {
	var errs []error
	if err := c.Settings.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	return errors.Join(errs...)
}
