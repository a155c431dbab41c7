package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "./data/circles.db", cfg.DBDSN)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 2, cfg.CircleQuota)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("CIRCLE_QUOTA", "5")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 90*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 5, cfg.CircleQuota)
}

func TestLoad_EnvFile(t *testing.T) {
	// Ensure the file, not the test environment, supplies the value.
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")
	t.Setenv("LOG_LEVEL", "warn")

	path := filepath.Join(t.TempDir(), "test.env")
	content := "JWT_SECRET=from-file-secret-value\nLOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file-secret-value", cfg.JWTSecret)
	// Existing variables win over the file.
	assert.Equal(t, "warn", cfg.LogLevel)

	os.Unsetenv("JWT_SECRET")
}

func TestLoad_MissingEnvFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")

	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Port: 8080, JWTSecret: "0123456789abcdef", JWTTTL: time.Hour,
		CircleQuota: 2, AuthRateLimit: 20, AuthRateBurst: 5,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"short secret", func(c *Config) { c.JWTSecret = "short" }},
		{"zero ttl", func(c *Config) { c.JWTTTL = 0 }},
		{"bad port", func(c *Config) { c.Port = 70000 }},
		{"zero quota", func(c *Config) { c.CircleQuota = 0 }},
		{"zero burst", func(c *Config) { c.AuthRateBurst = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
