// Package config loads jobsync settings from an optional YAML file and
// JOBSYNC_* environment variables through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. JOBSYNC_DATABASE_PATH.
const EnvPrefix = "JOBSYNC"

type Config struct {
	Database   DatabaseConfig `mapstructure:"database"`
	Log        LogConfig      `mapstructure:"log"`
	Plan       PlanConfig     `mapstructure:"plan"`
	ConfigPath string         `mapstructure:"-"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type PlanConfig struct {
	// Workers bounds concurrent fingerprint computations in a plan run.
	Workers int `mapstructure:"workers"`

	// MetricsTextfile, when set, receives Prometheus metrics after a run.
	MetricsTextfile string `mapstructure:"metrics_textfile"`
}

// NewDefault returns the built-in configuration.
func NewDefault() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "jobsync.db"},
		Log:      LogConfig{Level: "info"},
		Plan:     PlanConfig{Workers: 4},
	}
}

// Load reads configuration. When cfgFile is empty, config.yaml is looked up
// in the working directory and the user config dir; a missing file is not an
// error. An explicit cfgFile must exist.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	defaults := NewDefault()
	v.SetDefault("database.path", defaults.Database.Path)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("plan.workers", defaults.Plan.Workers)
	v.SetDefault("plan.metrics_textfile", defaults.Plan.MetricsTextfile)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := appDataDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if cfgFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config file error: %w", err)
		}
	}

	cfg := NewDefault()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ConfigPath = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("config: database.path must not be empty")
	}
	if c.Plan.Workers < 1 {
		return fmt.Errorf("config: plan.workers must be >= 1, got %d", c.Plan.Workers)
	}
	return nil
}

func appDataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to determine user home directory: %w", err)
		}
		return filepath.Join(home, ".jobsync"), nil
	}
	return filepath.Join(configDir, "jobsync"), nil
}
