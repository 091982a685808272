package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/ee2kicad/pkg/easyeda/api"
)

// Test Plan for Config System:
// - Default() returns valid configuration with the public endpoints
// - Load() uses defaults when no config file exists
// - Load() reads .ee2kicad/config.yml and merges it with defaults
// - Environment variables override config file values
// - Load() returns error for malformed YAML
// - Load() returns error for invalid values
// - NewFileLoader() fails when the explicit file is missing
// - Validate() reports every problem and wraps each sentinel
// - ClientConfig() and LoggingConfig() map the sections through

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	cfgDir := filepath.Join(dir, ".ee2kicad")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.yml"), []byte(content), 0o644))
}

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, api.DefaultComponentEndpoint, cfg.API.ComponentEndpoint)
	assert.Equal(t, api.DefaultMeshEndpoint, cfg.API.MeshEndpoint)
	assert.Equal(t, api.DefaultSolidEndpoint, cfg.API.SolidEndpoint)
	assert.Equal(t, "ee2kicad v"+Version, cfg.API.UserAgent)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)

	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, ".easyeda_cache", cfg.Cache.Dir)
	assert.Equal(t, 256, cfg.Cache.Capacity)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Empty(t, cfg.Metrics.Textfile)

	assert.NoError(t, Validate(cfg))
}

func TestLoad_UsesDefaultsWhenNoConfigFile(t *testing.T) {
	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoad_MergesConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
api:
  timeout: 5s
cache:
  enabled: true
  dir: /tmp/ee-cache
log:
  format: json
metrics:
  textfile: /var/lib/node_exporter/ee2kicad.prom
`)

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "/tmp/ee-cache", cfg.Cache.Dir)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/var/lib/node_exporter/ee2kicad.prom", cfg.Metrics.Textfile)

	// untouched keys keep their defaults
	assert.Equal(t, api.DefaultComponentEndpoint, cfg.API.ComponentEndpoint)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 256, cfg.Cache.Capacity)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
api:
  timeout: 5s
log:
  level: warn
`)
	t.Setenv("EE2KICAD_API_TIMEOUT", "12s")
	t.Setenv("EE2KICAD_LOG_LEVEL", "debug")

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, 12*time.Second, cfg.API.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "api:\n  timeout: [5s\n")

	_, err := NewLoader(dir).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
api:
  component_endpoint: https://example.com/components
log:
  format: xml
`)

	_, err := NewLoader(dir).Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingPlaceholder)
	assert.ErrorIs(t, err, ErrInvalidLogFormat)
}

func TestNewFileLoader(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewFileLoader(filepath.Join(t.TempDir(), "nope.yml")).Load()
		require.Error(t, err)
	})

	t.Run("explicit file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(path, []byte("cache:\n  capacity: 8\n"), 0o644))

		cfg, err := NewFileLoader(path).Load()
		require.NoError(t, err)
		assert.Equal(t, 8, cfg.Cache.Capacity)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   []error
	}{
		{
			name:   "empty endpoint",
			mutate: func(c *Config) { c.API.MeshEndpoint = " " },
			want:   []error{ErrEmptyEndpoint},
		},
		{
			name:   "missing placeholder",
			mutate: func(c *Config) { c.API.SolidEndpoint = "https://example.com/step" },
			want:   []error{ErrMissingPlaceholder},
		},
		{
			name:   "zero timeout",
			mutate: func(c *Config) { c.API.Timeout = 0 },
			want:   []error{ErrInvalidTimeout},
		},
		{
			name:   "disk cache without dir",
			mutate: func(c *Config) { c.Cache.Enabled = true; c.Cache.Dir = "" },
			want:   []error{ErrInvalidCacheSettings},
		},
		{
			name: "multiple problems",
			mutate: func(c *Config) {
				c.Cache.Capacity = 0
				c.Cache.TTL = -time.Second
				c.Log.Format = "text"
			},
			want: []error{ErrInvalidCacheSettings, ErrInvalidLogFormat},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)
			for _, want := range tt.want {
				assert.True(t, errors.Is(err, want), "expected %v in %v", want, err)
			}
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Cache.Capacity = 0
	cfg.Cache.TTL = 0

	err := Validate(cfg)
	require.Error(t, err)

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	assert.Len(t, joined.Unwrap(), 2)
}

func TestClientAndLoggingConfig(t *testing.T) {
	cfg := Default()
	cfg.Cache.Enabled = true
	cfg.Cache.Dir = "/tmp/c"
	cfg.Log.Level = "debug"

	cc := cfg.ClientConfig()
	assert.Equal(t, cfg.API.ComponentEndpoint, cc.ComponentEndpoint)
	assert.Equal(t, cfg.API.UserAgent, cc.UserAgent)
	assert.True(t, cc.CacheEnabled)
	assert.Equal(t, "/tmp/c", cc.CacheDir)
	assert.Equal(t, cfg.Cache.TTL, cc.CacheTTL)

	lc := cfg.LoggingConfig()
	assert.Equal(t, "debug", lc.Level)
	assert.Equal(t, "console", lc.Format)
}
