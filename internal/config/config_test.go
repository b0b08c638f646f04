package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.Equal(t, 4.0, cfg.DataSource.RatePerSec)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "0 */5 * * * *", cfg.Cache.PurgeCron)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.Database.SQLitePath)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
http:
  addr: ":9090"
data_source:
  provider: REST
  base_url: https://bars.example.com
  api_key: secret
cache:
  ttl: 1h
  redis_addr: localhost:6379
universe:
  stocks: [AAPL, MSFT]
  indexes: [SPY]
log:
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "rest", cfg.DataSource.Provider)
	assert.Equal(t, "secret", cfg.DataSource.APIKey)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, []string{"AAPL", "MSFT"}, cfg.Universe.Stocks)
	assert.Equal(t, []string{"SPY"}, cfg.Universe.Indexes)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "http:\n  addr: \":9090\"\n")
	t.Setenv("STOCKTRENDS_ADDR", ":7070")
	t.Setenv("DATA_PROVIDER", "mock")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("SQLITE_PATH", "/tmp/renders.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.HTTP.Addr)
	assert.Equal(t, "mock", cfg.DataSource.Provider)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "/tmp/renders.db", cfg.Database.SQLitePath)
}

func TestLoad_NegativeTTLKept(t *testing.T) {
	cfg, err := Load(writeConfig(t, "cache:\n  ttl: -1s\n"))
	require.NoError(t, err)
	assert.Equal(t, -time.Second, cfg.Cache.TTL)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "http: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"rest without base url", func(c *Config) { c.DataSource.Provider = "rest" }, true},
		{"rest with base url", func(c *Config) {
			c.DataSource.Provider = "rest"
			c.DataSource.BaseURL = "https://bars.example.com"
		}, false},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }, true},
		{"negative rate", func(c *Config) { c.DataSource.RatePerSec = -1 }, true},
		{"negative ttl never expires", func(c *Config) { c.Cache.TTL = -time.Second }, false},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}
