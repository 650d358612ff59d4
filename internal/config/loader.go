package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the base name of configuration files, without
	// extension.
	ConfigFileName = "invoscan"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "INVOSCAN"
)

// Loader resolves configuration from files, environment variables and
// bound flags.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader on the global viper instance so that flag
// bindings made by the root command take effect.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// Load resolves the configuration from the standard search paths and the
// environment, validates it and returns it.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")
	l.addConfigPaths()
	l.setupEnvironment()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env vars apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return l.unmarshal()
}

// LoadWithFile resolves configuration from a specific file. An empty path
// falls back to Load.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	if configFile == "" {
		return l.Load()
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configFile)
	}

	l.v.SetConfigFile(configFile)
	l.setupEnvironment()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
	}

	return l.unmarshal()
}

// ConfigFileUsed returns the path of the config file actually read, if
// any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Set overrides a configuration value, taking priority over files and env
// vars.
func (l *Loader) Set(key string, value any) {
	l.v.Set(key, value)
}

func (l *Loader) unmarshal() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
	}

	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		l.v.AddConfigPath(filepath.Join(configDir, "invoscan"))
	} else if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, ".config", "invoscan"))
	}

	l.v.AddConfigPath("/etc/invoscan")
}

func (l *Loader) setupEnvironment() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	l.v.SetDefault("log_level", defaults.LogLevel)
	l.v.SetDefault("verbose", defaults.Verbose)
	l.v.SetDefault("store_path", defaults.StorePath)

	l.v.SetDefault("pipeline.document_type", string(defaults.Pipeline.DocumentType))
	l.v.SetDefault("pipeline.enable_field_extraction", defaults.Pipeline.EnableFieldExtraction)
	l.v.SetDefault("pipeline.enable_validation", defaults.Pipeline.EnableValidation)

	l.v.SetDefault("pipeline.field_extraction.enable_smart_detection", defaults.Pipeline.FieldExtraction.EnableSmartDetection)
	l.v.SetDefault("pipeline.field_extraction.enable_table_extraction", defaults.Pipeline.FieldExtraction.EnableTableExtraction)
	l.v.SetDefault("pipeline.field_extraction.enable_key_value_pairing", defaults.Pipeline.FieldExtraction.EnableKeyValuePairing)

	l.v.SetDefault("pipeline.post_processing.enable_data_normalization", defaults.Pipeline.PostProcessing.EnableDataNormalization)
	l.v.SetDefault("pipeline.post_processing.enable_suggestions", defaults.Pipeline.PostProcessing.EnableSuggestions)

	l.v.SetDefault("pipeline.preprocess.max_dimension", defaults.Pipeline.Preprocess.MaxDimension)
	l.v.SetDefault("pipeline.preprocess.hard_cap_dimension", defaults.Pipeline.Preprocess.HardCapDimension)
	l.v.SetDefault("pipeline.preprocess.hard_cap_skip_factor", defaults.Pipeline.Preprocess.HardCapSkipFactor)
	l.v.SetDefault("pipeline.preprocess.contrast_factor", defaults.Pipeline.Preprocess.ContrastFactor)
	l.v.SetDefault("pipeline.preprocess.enable_denoise", defaults.Pipeline.Preprocess.EnableDenoise)
	l.v.SetDefault("pipeline.preprocess.enable_binarize", defaults.Pipeline.Preprocess.EnableBinarize)
	l.v.SetDefault("pipeline.preprocess.enable_deskew", defaults.Pipeline.Preprocess.EnableDeskew)

	l.v.SetDefault("pipeline.recognize.sparse_text_threshold", defaults.Pipeline.Recognize.SparseTextThreshold)
	l.v.SetDefault("pipeline.recognize.sparse_quality_threshold", defaults.Pipeline.Recognize.SparseQualityThreshold)
	l.v.SetDefault("pipeline.recognize.min_text_threshold", defaults.Pipeline.Recognize.MinTextThreshold)
	l.v.SetDefault("pipeline.recognize.block_confidence", defaults.Pipeline.Recognize.BlockConfidence)

	l.v.SetDefault("output.format", defaults.Output.Format)
	l.v.SetDefault("output.file", defaults.Output.File)

	l.v.SetDefault("batch.include", defaults.Batch.Include)
	l.v.SetDefault("batch.exclude", defaults.Batch.Exclude)
	l.v.SetDefault("batch.continue_on_error", defaults.Batch.ContinueOnError)
}

// WriteDefault writes the default configuration to filename as YAML, so
// users have a complete file to edit.
func WriteDefault(filename string) error {
	if filename == "" {
		filename = ConfigFileName + ".yaml"
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to render default config: %w", err)
	}
	return os.WriteFile(filename, data, 0o644)
}
