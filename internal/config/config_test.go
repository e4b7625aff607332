package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte(body), 0600))
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, cfg.Load())
	assert.Equal(t, BackendREST, cfg.Settings.Backend)
	assert.Equal(t, DefaultBaseURL, cfg.Settings.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.Settings.Timeout)
	assert.Empty(t, cfg.Settings.Token)
}

func TestLoad_ReadsSettingsFile(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, `{"base_url": "http://todo.internal:8080/", "token": "s3cret", "timeout": "2s"}`)

	cfg, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, cfg.Load())
	assert.Equal(t, "http://todo.internal:8080", cfg.Settings.BaseURL)
	assert.Equal(t, "s3cret", cfg.Settings.Token)
	assert.Equal(t, 2*time.Second, cfg.Settings.Timeout)
	assert.Equal(t, BackendREST, cfg.Settings.Backend)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, `{"base_url": "http://from-file:3000"}`)
	t.Setenv("TODO_BASE_URL", "http://from-env:4000")

	cfg, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, cfg.Load())
	assert.Equal(t, "http://from-env:4000", cfg.Settings.BaseURL)
}

func TestLoad_EnvFileBeneathEnvironment(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, `{"base_url": "http://from-file:3000", "timeout": "9s"}`)
	envFile := "TODO_TIMEOUT=3s\nTODO_BASE_URL=http://from-dotenv:3000\nOTHER=ignored\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, EnvFile), []byte(envFile), 0600))
	t.Setenv("TODO_BASE_URL", "http://from-env:4000")

	cfg, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, cfg.Load())
	assert.Equal(t, 3*time.Second, cfg.Settings.Timeout)
	assert.Equal(t, "http://from-env:4000", cfg.Settings.BaseURL)
}

func TestLoad_RejectsSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown backend", body: `{"backend": "sqlite"}`},
		{name: "relative url", body: `{"base_url": "localhost:3000"}`},
		{name: "numeric timeout", body: `{"timeout": 5}`},
		{name: "unknown key", body: `{"retries": 3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeSettings(t, dir, tt.body)

			cfg, err := New(dir)
			require.NoError(t, err)

			err = cfg.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config schema validation failed")
		})
	}
}

func TestLoad_RejectsZeroTimeout(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, `{"timeout": "0s"}`)

	cfg, err := New(dir)
	require.NoError(t, err)

	require.EqualError(t, cfg.Load(), "timeout must be > 0")
}

func TestDefaultConfigDir_UsesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", AppName), DefaultConfigDir())
}

func TestPaths(t *testing.T) {
	cfg := &Config{Dir: "/cfg"}
	assert.Equal(t, "/cfg/config.json", cfg.SettingsPath())
	assert.Equal(t, "/cfg/oauth_client.json", cfg.OAuthClientPath())
	assert.Equal(t, "/cfg/token.json", cfg.TokenPath())
	assert.Equal(t, "/cfg/todo.log", cfg.LogPath())
	assert.Equal(t, "/cfg/.env", cfg.EnvPath())
}
