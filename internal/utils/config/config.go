// Package config provides Viper-based configuration management for the
// strata CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name used for config directories.
	AppName = "strata"
)

// Config holds the application configuration.
type Config struct {
	// Debug enables verbose logging.
	Debug bool `mapstructure:"debug"`
	// SearchPath is the ordered list of configuration directories
	// consulted for every composition, first hit wins.
	SearchPath []string `mapstructure:"search_path"`
	// Strict sets the default whole-document strict mode when compose
	// isn't given --strict (or --strict=false) explicitly.
	Strict bool `mapstructure:"strict"`
	// OutputFormat is loaded from the config file but no command reads
	// it; compose and groups take their format from --output.
	OutputFormat string `mapstructure:"output_format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Debug:        false,
		SearchPath:   []string{"conf"},
		Strict:       false,
		OutputFormat: "yaml",
	}
}

// Load initializes Viper and loads the configuration.
func Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("debug", defaults.Debug)
	v.SetDefault("search_path", defaults.SearchPath)
	v.SetDefault("strict", defaults.Strict)
	v.SetDefault("output_format", defaults.OutputFormat)

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	v.AddConfigPath(filepath.Join(configHome, AppName))
	v.AddConfigPath(".")

	v.SetEnvPrefix("STRATA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return cfg, nil
}

// ConfigDir returns the XDG-compliant config directory for strata.
func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppName)
}
