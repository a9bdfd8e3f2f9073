// Package config provides configuration loading and management for the
// registration tool. It handles loading configuration from YAML files and
// provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Processing parameters
	Processing struct {
		// NumCores specifies how many CPU cores to use when rescaling
		// textures
		NumCores int `yaml:"numCores"`

		// LatitudeBand is the default non-polar latitude band applied
		// when a model file omits its own
		LatitudeBand [2]float64 `yaml:"latitudeBand"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// TextureEncoding is the GIFTI data array encoding for written
		// textures (ASCII, Base64Binary or GZipBase64Binary)
		TextureEncoding string `yaml:"textureEncoding"`

		// SavePlots determines whether warp QC plots are written
		SavePlots bool `yaml:"savePlots"`

		// PlotDir is the directory warp plots are written to
		PlotDir string `yaml:"plotDir"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default processing parameters
	cfg.Processing.NumCores = runtime.NumCPU() // Use all available cores by default
	cfg.Processing.LatitudeBand = [2]float64{30, 150}

	// Set default output parameters
	cfg.Output.TextureEncoding = "GZipBase64Binary"
	cfg.Output.SavePlots = false
	cfg.Output.PlotDir = "warp_plots"
	cfg.Output.Verbose = true

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

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if cfg.Processing.LatitudeBand[0] >= cfg.Processing.LatitudeBand[1] {
		return nil, fmt.Errorf("latitude band [%g, %g] is not increasing",
			cfg.Processing.LatitudeBand[0], cfg.Processing.LatitudeBand[1])
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
