// Package config provides configuration management for the simulator.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Simulation SimulationDefaults `mapstructure:"simulation"`
	Logging    LoggingConfig      `mapstructure:"logging"`
	Journal    JournalConfig      `mapstructure:"journal"`
}

// SimulationDefaults holds default run parameters, overridable per run
// through CLI flags.
type SimulationDefaults struct {
	Users        int     `mapstructure:"users"`
	Volatility   float64 `mapstructure:"volatility"`
	Duration     int     `mapstructure:"duration"`
	Interval     string  `mapstructure:"interval"` // daily, weekly
	Precision    int     `mapstructure:"precision"`
	FeePercent   float64 `mapstructure:"fee_percent"`
	AdoptionRate float64 `mapstructure:"adoption_rate"`
	InitialPrice float64 `mapstructure:"initial_price"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  bool   `mapstructure:"file"`
}

// JournalConfig holds run-journal configuration.
type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // defaults to <config dir>/tokensim.db
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tokensim"
	}
	return filepath.Join(home, ".config", "tokensim")
}

// Load reads configuration from the given directory, falling back to
// defaults when no config file exists. An empty dir uses the default
// location.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("simulation.users", 100)
	v.SetDefault("simulation.volatility", 0.5)
	v.SetDefault("simulation.duration", 7)
	v.SetDefault("simulation.interval", "daily")
	v.SetDefault("simulation.precision", 4)
	v.SetDefault("simulation.fee_percent", 0.0)
	v.SetDefault("simulation.adoption_rate", 5.0)
	v.SetDefault("simulation.initial_price", 1.0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", false)
	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.path", filepath.Join(configDir, "tokensim.db"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration values.
func (c *Config) Validate() error {
	if c.Simulation.Users <= 0 {
		return fmt.Errorf("simulation.users must be positive")
	}
	if c.Simulation.Volatility < 0 || c.Simulation.Volatility > 1 {
		return fmt.Errorf("simulation.volatility must be between 0.0 and 1.0")
	}
	if c.Simulation.Duration <= 0 {
		return fmt.Errorf("simulation.duration must be positive")
	}
	if c.Simulation.Interval != "daily" && c.Simulation.Interval != "weekly" {
		return fmt.Errorf("simulation.interval must be 'daily' or 'weekly'")
	}
	if c.Simulation.Precision < 0 {
		return fmt.Errorf("simulation.precision must be non-negative")
	}
	if c.Simulation.FeePercent < 0 || c.Simulation.FeePercent > 100 {
		return fmt.Errorf("simulation.fee_percent must be between 0 and 100")
	}
	return nil
}
