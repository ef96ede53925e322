package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withDotenvFiles(t *testing.T, files ...string) {
	t.Helper()
	orig := dotenvFiles
	dotenvFiles = files
	t.Cleanup(func() { dotenvFiles = orig })
}

func TestParseEnv_OverridesFields(t *testing.T) {
	withDotenvFiles(t)

	t.Setenv(EnvHTTPAddr, ":8080")
	t.Setenv(EnvGRPCHealthAddr, "")
	t.Setenv(EnvDatabaseDSN, "postgres://env")
	t.Setenv(EnvSecretKey, "env-secret")
	t.Setenv(EnvSessionTTL, "45m")
	t.Setenv(EnvPasswordHashCost, "11")
	t.Setenv(EnvEnvironment, "production")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvTracingEnabled, "true")
	t.Setenv(EnvTracingEndpoint, "collector:4318")
	t.Setenv(EnvTracingSampleRate, "0.5")
	t.Setenv(EnvShutdownTimeout, "3s")

	cfg := defaultConfig()
	parseEnv(cfg)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "", cfg.GRPCHealthAddr)
	assert.Equal(t, "postgres://env", cfg.DatabaseDSN)
	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, 45*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 11, cfg.PasswordHashCost)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.TracingEnabled)
	assert.Equal(t, "collector:4318", cfg.TracingEndpoint)
	assert.Equal(t, 0.5, cfg.TracingSampleRate)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestParseEnv_MalformedValuePanics(t *testing.T) {
	withDotenvFiles(t)
	t.Setenv(EnvSessionTTL, "an hour")

	cfg := defaultConfig()
	require.Panics(t, func() { parseEnv(cfg) })
}

func TestParseEnv_LoadsDotenvWithoutOverriding(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=error\nAPP_ENV=staging\n"), 0o600))
	withDotenvFiles(t, path)

	t.Setenv(EnvLogLevel, "warn")
	// registers cleanup for the variable the dotenv file sets
	t.Setenv(EnvEnvironment, "")
	require.NoError(t, os.Unsetenv(EnvEnvironment))

	cfg := defaultConfig()
	parseEnv(cfg)

	assert.Equal(t, "warn", cfg.LogLevel, "process environment wins over .env")
	assert.Equal(t, "staging", cfg.Environment)
}
