package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:          "8000",
		Env:           "development",
		StorageDriver: DriverFile,
		DataDir:       ".",
		TracingSample: 1,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"Defaults", func(_ *Config) {}, false},
		{"Empty port", func(c *Config) { c.Port = "" }, true},
		{"Unknown driver", func(c *Config) { c.StorageDriver = "mongo" }, true},
		{"SQLite without DSN", func(c *Config) { c.StorageDriver = DriverSQLite }, true},
		{"SQLite with DSN", func(c *Config) { c.StorageDriver = DriverSQLite; c.DatabaseDSN = "blog.db" }, false},
		{"Postgres without DSN", func(c *Config) { c.StorageDriver = DriverPostgres }, true},
		{"Negative ratio", func(c *Config) { c.TracingSample = -0.1 }, true},
		{"Ratio above one", func(c *Config) { c.TracingSample = 1.5 }, true},
		{"Production wildcard origins only warns", func(c *Config) { c.Env = "production"; c.AllowedOrigins = "*" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("APP_ENV", "development")
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "  SQLite ")
	t.Setenv("DATABASE_DSN", "file:blog.db")
	t.Setenv("SEED_DEFAULT_USER", "false")
	t.Setenv("TRACING_SAMPLE_RATIO", "0.25")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", c.Port)
	assert.Equal(t, DriverSQLite, c.StorageDriver)
	assert.Equal(t, "file:blog.db", c.DatabaseDSN)
	assert.False(t, c.SeedDefaultUser)
	assert.InDelta(t, 0.25, c.TracingSample, 1e-9)
}

func TestLoadConfig_MissingProfile(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("APP_ENV", "staging-without-file")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_InvalidDriver(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("APP_ENV", "development")
	t.Setenv("STORAGE_DRIVER", "cassandra")

	_, err := LoadConfig()
	assert.Error(t, err)
}
