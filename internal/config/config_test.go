package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:            "8000",
		Env:             "development",
		DBDriver:        "postgres",
		DBPassword:      "secure-password",
		DBSSLMode:       "require",
		JWTSecret:       "secure-secret-at-least-32-chars-long",
		PostsPerPage:    10,
		SessionTTLHours: 24,
		TracingExporter: "stdout",
	}
}

func TestConfig_ValidateSSLMode(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		sslMode     string
		expectError bool
	}{
		{"Production with empty SSL mode", "production", "", true},
		{"Production with disable SSL mode", "production", "disable", true},
		{"Production with require SSL mode", "production", "require", false},
		{"Prod with verify-full SSL mode", "prod", "verify-full", false},
		{"Development with disable SSL mode", "development", "disable", false},
		{"Test with empty SSL mode", "test", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			c.Env = tt.env
			c.DBSSLMode = tt.sslMode
			c.CookieSecure = true

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing port", func(c *Config) { c.Port = "" }},
		{"missing jwt secret", func(c *Config) { c.JWTSecret = "" }},
		{"zero page size", func(c *Config) { c.PostsPerPage = 0 }},
		{"zero session ttl", func(c *Config) { c.SessionTTLHours = 0 }},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }},
		{"sqlite without path", func(c *Config) { c.DBDriver = "sqlite"; c.DBPath = "" }},
		{"unknown exporter", func(c *Config) { c.TracingExporter = "zipkin" }},
		{"default secret in production", func(c *Config) { c.Env = "production"; c.JWTSecret = defaultJWTSecret }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	assert.NoError(t, validConfig().Validate())
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer viper.Reset()
	defer os.Unsetenv("APP_ENV")
	defer os.Unsetenv("DB_SSLMODE")
	defer os.Unsetenv("POSTS_PER_PAGE")

	os.Setenv("APP_ENV", "development")
	os.Setenv("DB_SSLMODE", "  DISABLE  ")
	os.Setenv("POSTS_PER_PAGE", "5")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, 5, c.PostsPerPage)
	assert.Equal(t, "postgres", c.DBDriver)
	assert.Equal(t, "8000", c.Port)
}

func TestConfig_DSN(t *testing.T) {
	c := validConfig()
	c.DBHost = "db"
	c.DBUser = "u"
	c.DBName = "n"
	c.DBPort = "5432"
	assert.Equal(t, "host=db user=u password=secure-password dbname=n port=5432 sslmode=require", c.DSN())
}
