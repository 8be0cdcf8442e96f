// Package config loads ToolForge engine settings from a YAML config
// file and TOOLFORGE_* environment variables, with sensible defaults
// for everything.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Config holds the engine settings.
type Config struct {
	// StoreDir is the tool definition store directory.
	StoreDir string `mapstructure:"store_dir"`

	// CacheSize bounds the resolved-definition cache.
	CacheSize int `mapstructure:"cache_size"`

	// CacheTTL is the residency limit for cached definitions.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	// DefaultTimeout applies when a command declares no timeout.
	DefaultTimeout time.Duration `mapstructure:"default_timeout"`

	// DefaultDialect overrides the detected shell; empty keeps the
	// platform default.
	DefaultDialect string `mapstructure:"default_dialect"`

	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

// Load reads configuration from path, or from the XDG config directory
// when path is empty. A missing config file is not an error; defaults
// and environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("store_dir", filepath.Join(xdg.DataHome, "toolforge", "tools"))
	v.SetDefault("cache_size", 128)
	v.SetDefault("cache_ttl", 5*time.Minute)
	v.SetDefault("default_timeout", 30*time.Second)
	v.SetDefault("default_dialect", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")

	v.SetEnvPrefix("TOOLFORGE")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, "toolforge"))
	}

	// An explicit path must exist; the default search location may
	// legitimately be empty.
	if err := v.ReadInConfig(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
