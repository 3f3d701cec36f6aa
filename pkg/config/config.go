// Package config provides configuration loading and management for orthoview.
// It handles loading display and scene options from YAML files and provides
// default values for anything a file leaves out.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"orthoview/internal/models"
	"orthoview/pkg/colormap"
	"orthoview/pkg/layout"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid configuration")

// Color is an RGBA color with components in [0,1]
type Color [4]float64

// Config represents the application configuration loaded from YAML
type Config struct {
	// Display options consumed by the renderer and layout
	Display struct {
		// TextHeight is the label height as a fraction of the canvas height; 0 disables text
		TextHeight float64 `yaml:"textHeight"`

		// ColorbarHeight is the colorbar height as a fraction of the axial pane height; 0 disables it
		ColorbarHeight float64 `yaml:"colorbarHeight"`

		// CrosshairWidth is in pixels; 0 hides the crosshair
		CrosshairWidth float64 `yaml:"crosshairWidth"`

		BackgroundColor Color `yaml:"backgroundColor"`
		CrosshairColor  Color `yaml:"crosshairColor"`

		// ColorbarMargin is the gap around the colorbar as a fraction of the axial pane height
		ColorbarMargin float64 `yaml:"colorbarMargin"`

		// Radiological shows the patient's right on the screen's left
		Radiological bool `yaml:"radiological"`
	} `yaml:"display"`

	// Initial scene state
	Scene struct {
		Colormap  string  `yaml:"colormap"`
		SliceType string  `yaml:"sliceType"`
		Azimuth   float64 `yaml:"azimuth"`
		Elevation float64 `yaml:"elevation"`
		Opacity   float64 `yaml:"opacity"`
		Scale     float64 `yaml:"scale"`
	} `yaml:"scene"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Display.TextHeight = 0.03
	cfg.Display.ColorbarHeight = 0.05
	cfg.Display.CrosshairWidth = 1
	cfg.Display.BackgroundColor = Color{0, 0, 0, 1}
	cfg.Display.CrosshairColor = Color{1, 0, 0, 1}
	cfg.Display.ColorbarMargin = 0.05

	cfg.Scene.Colormap = colormap.DefaultName
	cfg.Scene.SliceType = models.Multiplanar.String()
	cfg.Scene.Azimuth = 120
	cfg.Scene.Elevation = 15
	cfg.Scene.Opacity = 1
	cfg.Scene.Scale = 1

	cfg.Output.Verbose = false

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Keys missing from the file keep their defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}

// Validate checks option ranges
func (c *Config) Validate() error {
	d := c.Display
	if d.TextHeight < 0 || d.ColorbarHeight < 0 || d.CrosshairWidth < 0 || d.ColorbarMargin < 0 {
		return fmt.Errorf("%w: display sizes must be non-negative", ErrInvalidConfig)
	}
	for _, col := range []Color{d.BackgroundColor, d.CrosshairColor} {
		for _, v := range col {
			if v < 0 || v > 1 {
				return fmt.Errorf("%w: color component %f outside [0,1]", ErrInvalidConfig, v)
			}
		}
	}
	if _, err := models.ParseSliceType(c.Scene.SliceType); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Scene.Opacity < 0 || c.Scene.Opacity > 1 {
		return fmt.Errorf("%w: opacity %f outside [0,1]", ErrInvalidConfig, c.Scene.Opacity)
	}
	if c.Scene.Scale <= 0 {
		return fmt.Errorf("%w: scale must be positive", ErrInvalidConfig)
	}
	return nil
}

// LayoutOptions returns the layout options implied by the display settings
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{
		ColorbarMargin: c.Display.ColorbarMargin,
		ColorbarHeight: c.Display.ColorbarHeight,
		Radiological:   c.Display.Radiological,
	}
}

// SliceType returns the parsed initial view mode, or Multiplanar if invalid
func (c *Config) SliceType() models.SliceType {
	st, err := models.ParseSliceType(c.Scene.SliceType)
	if err != nil {
		return models.Multiplanar
	}
	return st
}
