// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port            string  `mapstructure:"PORT"`
	Env             string  `mapstructure:"APP_ENV"`
	StorageDriver   string  `mapstructure:"STORAGE_DRIVER"`
	DataDir         string  `mapstructure:"DATA_DIR"`
	DatabaseDSN     string  `mapstructure:"DATABASE_DSN"`
	RedisURL        string  `mapstructure:"REDIS_URL"`
	AllowedOrigins  string  `mapstructure:"ALLOWED_ORIGINS"`
	SeedDefaultUser bool    `mapstructure:"SEED_DEFAULT_USER"`
	TracingEnabled  bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint    string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSample   float64 `mapstructure:"TRACING_SAMPLE_RATIO"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base file is optional.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	viper.SetDefault("PORT", "8000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("STORAGE_DRIVER", DriverFile)
	viper.SetDefault("DATA_DIR", ".")
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("ALLOWED_ORIGINS", "*")
	viper.SetDefault("SEED_DEFAULT_USER", true)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLE_RATIO", 1.0)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.StorageDriver = strings.ToLower(strings.TrimSpace(config.StorageDriver))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}

	switch c.StorageDriver {
	case DriverFile:
	case DriverSQLite, DriverPostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for STORAGE_DRIVER=%s", c.StorageDriver)
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.TracingSample < 0 || c.TracingSample > 1 {
		return errors.New("TRACING_SAMPLE_RATIO must be between 0 and 1")
	}

	if c.IsProduction() && c.AllowedOrigins == "*" {
		log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
	}

	return nil
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}
