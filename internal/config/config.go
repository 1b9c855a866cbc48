package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultSourceDirectory is the input directory read when nothing else is configured.
	DefaultSourceDirectory = "KoreaSEL"
	// DefaultTargetDirectory is the output directory, wiped and rebuilt on every run.
	DefaultTargetDirectory = "compressed_KoreaSEL"
)

// Config represents the main configuration structure
type Config struct {
	SourceDirectory string        `mapstructure:"source_directory"`
	TargetDirectory string        `mapstructure:"target_directory"`
	Logging         LoggingConfig `mapstructure:"logging"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
	Compress   bool   `mapstructure:"compress"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		SourceDirectory: DefaultSourceDirectory,
		TargetDirectory: DefaultTargetDirectory,
		Logging: LoggingConfig{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     30,
			Compress:   true,
		},
	}
}

// LoadConfig loads configuration from file and environment variables.
// A missing config file is not an error; the defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	v := viper.New()

	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.web-minifier")
		v.AddConfigPath("/etc/web-minifier")
	}

	v.SetEnvPrefix("WEB_MINIFIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only applies to keys viper already knows about.
	for _, key := range []string{
		"source_directory", "target_directory",
		"logging.level", "logging.file_path", "logging.max_size",
		"logging.max_backups", "logging.max_age", "logging.compress",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.SourceDirectory == "" {
		return fmt.Errorf("source_directory is required")
	}
	if c.TargetDirectory == "" {
		return fmt.Errorf("target_directory is required")
	}

	// The target is removed recursively at the start of a run.
	if filepath.Clean(c.SourceDirectory) == filepath.Clean(c.TargetDirectory) {
		return fmt.Errorf("target_directory must differ from source_directory: %s", c.TargetDirectory)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.Logging.Level)
	}

	return nil
}
