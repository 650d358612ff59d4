// Package config holds the application configuration and its loading
// machinery. Values come from config files, INVOSCAN_* environment
// variables and command-line flags, in that order of increasing priority.
package config

import (
	"fmt"

	"github.com/invoscan/invoscan/internal/extract"
	"github.com/invoscan/invoscan/internal/pipeline"
)

// Config is the complete application configuration shared by the scan,
// batch and history commands.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// StorePath locates the local scan-history database.
	StorePath string `mapstructure:"store_path" yaml:"store_path" json:"store_path"`

	// Pipeline configuration
	Pipeline pipeline.Config `mapstructure:"pipeline" yaml:"pipeline" json:"pipeline"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Batch processing configuration
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	File   string `mapstructure:"file" yaml:"file" json:"file"`
}

// BatchConfig contains batch processing settings.
type BatchConfig struct {
	Include         []string `mapstructure:"include" yaml:"include" json:"include"`
	Exclude         []string `mapstructure:"exclude" yaml:"exclude" json:"exclude"`
	ContinueOnError bool     `mapstructure:"continue_on_error" yaml:"continue_on_error" json:"continue_on_error"`
}

// DefaultConfig returns the configuration used when no file, environment
// variable or flag overrides a value.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		StorePath: "invoscan.db",
		Pipeline:  pipeline.DefaultConfig(),
		Output: OutputConfig{
			Format: "text",
		},
		Batch: BatchConfig{
			Include:         []string{"*.jpg", "*.jpeg", "*.png"},
			ContinueOnError: true,
		},
	}
}

// Validate checks the configuration for values no command could work with.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q (expected debug, info, warn or error)", c.LogLevel)
	}

	switch c.Output.Format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("invalid output.format %q (expected text, json or csv)", c.Output.Format)
	}

	switch c.Pipeline.DocumentType {
	case extract.DocumentInvoice, extract.DocumentReceipt:
	default:
		return fmt.Errorf("invalid pipeline.document_type %q (expected invoice or receipt)", c.Pipeline.DocumentType)
	}

	if c.Pipeline.Recognize.SparseTextThreshold < c.Pipeline.Recognize.MinTextThreshold {
		return fmt.Errorf("pipeline.recognize.sparse_text_threshold must be >= min_text_threshold")
	}

	return nil
}
