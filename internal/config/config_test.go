package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Port:            "8460",
			Env:             "development",
			JWTSecret:       "dev-secret",
			DBPassword:      "password",
			SessionTTLHours: 168,
		}
	}

	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"Development defaults are fine", func(c *Config) {}, false},
		{"Missing port", func(c *Config) { c.Port = "" }, true},
		{"Missing secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"Non-positive session TTL", func(c *Config) { c.SessionTTLHours = 0 }, true},
		{
			"Production with default secret",
			func(c *Config) {
				c.Env = "production"
				c.JWTSecret = "your-secret-key-change-in-production"
			},
			true,
		},
		{
			"Production with short secret",
			func(c *Config) {
				c.Env = "production"
				c.JWTSecret = "short"
				c.DBPassword = "strong-db-password"
			},
			true,
		},
		{
			"Production with weak DB password",
			func(c *Config) {
				c.Env = "prod"
				c.JWTSecret = "secure-secret-at-least-32-chars-long"
				c.DBPassword = "password"
			},
			true,
		},
		{
			"Production fully configured",
			func(c *Config) {
				c.Env = "production"
				c.JWTSecret = "secure-secret-at-least-32-chars-long"
				c.DBPassword = "strong-db-password"
				c.DBSSLMode = "require"
			},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
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
