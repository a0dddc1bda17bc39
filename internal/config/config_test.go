package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DefaultUpstreamURL, cfg.Upstream.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
	assert.False(t, cfg.Upstream.Demo)
	assert.Equal(t, 5*time.Minute, cfg.Cache.UserStaleTime)
	assert.Equal(t, 10*time.Minute, cfg.Cache.UserGCTime)
	assert.Equal(t, 2*time.Minute, cfg.Cache.WalletStaleTime)
	assert.Equal(t, 5*time.Minute, cfg.Cache.WalletGCTime)
	assert.Equal(t, time.Minute, cfg.Cache.TransactionsStaleTime)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TransactionsGCTime)
	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("UPSTREAM_BASE_URL", "http://localhost:9999/")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("UPSTREAM_DEMO", "true")
	t.Setenv("CACHE_TRANSACTIONS_STALE_TIME", "30s")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", "/tmp/snapshots.db")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := Load()

	assert.Equal(t, "http://localhost:9999", cfg.Upstream.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Upstream.Timeout)
	assert.True(t, cfg.Upstream.Demo)
	assert.Equal(t, 30*time.Second, cfg.Cache.TransactionsStaleTime)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, "/tmp/snapshots.db", cfg.Database.DSN())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSAllowOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.Logging.SlogLevel())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("UPSTREAM_TIMEOUT", "soon")
	t.Setenv("RATE_LIMIT_PER_SECOND", "many")
	t.Setenv("UPSTREAM_DEMO", "maybe")

	cfg := Load()

	assert.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 20, cfg.Security.RateLimitPerSecond)
	assert.False(t, cfg.Upstream.Demo)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SERVER_PORT=9191\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("SERVER_PORT", "")
	require.NoError(t, os.Unsetenv("SERVER_PORT"))

	cfg := Load()

	assert.Equal(t, "9191", cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "demo without url",
			mutate: func(c *Config) { c.Upstream.BaseURL = ""; c.Upstream.Demo = true },
		},
		{
			name:    "missing url",
			mutate:  func(c *Config) { c.Upstream.BaseURL = "" },
			wantErr: "UPSTREAM_BASE_URL",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Upstream.Timeout = 0 },
			wantErr: "UPSTREAM_TIMEOUT",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Database.Driver = "mysql" },
			wantErr: "DB_DRIVER",
		},
		{
			name:    "rate limit",
			mutate:  func(c *Config) { c.Security.RateLimitPerSecond = 0 },
			wantErr: "RATE_LIMIT_PER_SECOND",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			cfg := Load()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestDatabaseConfig_PostgresDSN(t *testing.T) {
	cfg := DatabaseConfig{Driver: "postgres", Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", cfg.DSN())
}
