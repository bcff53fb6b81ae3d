package config

import (
	"fmt"
	"path"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Data    DataConfig
	Fit     FitConfig
	Logging LoggingConfig
	Env     string
}

// DataConfig holds where measurement files are read from
type DataConfig struct {
	Dir     string
	Pattern string
}

// FitConfig holds solver configuration
type FitConfig struct {
	InitialC       float64
	InitialN       float64
	MaxEvaluations int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level zerolog.Level
}

// Load loads configuration from environment variables and .env files
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("DATA_DIR", ".")
	v.SetDefault("DATA_PATTERN", "data*.txt")
	v.SetDefault("FIT_INITIAL_C", -50.0)
	v.SetDefault("FIT_INITIAL_N", 2.0)
	v.SetDefault("FIT_MAX_EVALUATIONS", 600)
	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("ENVIRONMENT", "dev")

	// Environment variables override .env file values
	v.AutomaticEnv()

	// Bind specific environment variable names
	for _, key := range []string{
		"DATA_DIR",
		"DATA_PATTERN",
		"FIT_INITIAL_C",
		"FIT_INITIAL_N",
		"FIT_MAX_EVALUATIONS",
		"LOG_LEVEL",
		"ENVIRONMENT",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	// Try to read .env file for the current environment
	env := v.GetString("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}
	v.SetConfigName(".env." + env)
	v.SetConfigType("env")
	v.AddConfigPath(".")

	// Read .env file (ignore missing file)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read .env.%s: %w", env, err)
		}
	}

	var config Config
	config.Env = env
	config.Data.Dir = v.GetString("DATA_DIR")
	config.Data.Pattern = v.GetString("DATA_PATTERN")
	config.Fit.InitialC = v.GetFloat64("FIT_INITIAL_C")
	config.Fit.InitialN = v.GetFloat64("FIT_INITIAL_N")
	config.Fit.MaxEvaluations = v.GetInt("FIT_MAX_EVALUATIONS")

	level, err := zerolog.ParseLevel(v.GetString("LOG_LEVEL"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	config.Logging.Level = level

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks values that would otherwise fail deep inside the run
func (c *Config) Validate() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("DATA_DIR must not be empty")
	}
	if _, err := path.Match(c.Data.Pattern, ""); err != nil {
		return fmt.Errorf("invalid DATA_PATTERN %q: %w", c.Data.Pattern, err)
	}
	if c.Fit.InitialN == 0 {
		return fmt.Errorf("FIT_INITIAL_N must be non-zero")
	}
	if c.Fit.MaxEvaluations <= 0 {
		return fmt.Errorf("FIT_MAX_EVALUATIONS must be > 0, got %d", c.Fit.MaxEvaluations)
	}
	return nil
}
