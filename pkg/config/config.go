// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Document source settings
	Source SourceConfig `yaml:"source"`

	// Output locations
	OutputDir  string `yaml:"output_dir"`
	ReportFile string `yaml:"report_file"`
	ChartsDir  string `yaml:"charts_dir"`

	// Surrogate key strategy: "random" or "content"
	KeyStrategy string `yaml:"key_strategy"`

	// Analytics settings
	TopN int `yaml:"top_n"`

	// Validation report settings
	SampleLimit int `yaml:"sample_limit"`

	// Seeding
	Seed SeedConfig `yaml:"seed"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// SourceConfig describes the document store to read from.
type SourceConfig struct {
	// Driver is "sqlite" or "postgres"
	Driver string `yaml:"driver"`
	// DSN is the driver-specific connection string
	DSN string `yaml:"dsn"`
}

// SeedConfig controls sample dataset generation.
type SeedConfig struct {
	// RNGSeed makes the synthetic dataset reproducible
	RNGSeed int64 `yaml:"rng_seed"`
	// DirtyRate is the fraction [0,1] of interactions seeded with
	// rule-violating ratings so validation has material to report
	DirtyRate float64 `yaml:"dirty_rate"`
}

// Default returns the configuration used when a key is absent from the file.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Driver: "sqlite",
			DSN:    "recipes.db",
		},
		OutputDir:   "normalized_output",
		ReportFile:  "data_quality_report.txt",
		ChartsDir:   "normalized_output",
		KeyStrategy: "random",
		TopN:        5,
		SampleLimit: 10,
		Seed: SeedConfig{
			RNGSeed:   42,
			DirtyRate: 0.15,
		},
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Load reads a YAML config file with environment variable expansion layered
// over the defaults. A missing file is not an error; the defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Validate()
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	switch c.Source.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported source driver %q", c.Source.Driver)
	}

	if c.Source.DSN == "" {
		return errors.New("source DSN is required")
	}

	if c.OutputDir == "" {
		return errors.New("output directory is required")
	}

	if c.TopN <= 0 {
		return errors.New("top_n must be positive")
	}

	if c.SampleLimit < 0 {
		return errors.New("sample_limit cannot be negative")
	}

	if c.Seed.DirtyRate < 0 || c.Seed.DirtyRate > 1 {
		return errors.New("seed dirty_rate must be within [0,1]")
	}

	return nil
}
