package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	isolateConfigDir(t)

	cfg, err := Load("test")
	require.NoError(t, err)
	assert.Equal(t, "https://app.tably.ai", cfg.APIBaseURL)
	assert.Equal(t, 2*time.Second, cfg.PollInterval())
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "test", cfg.Version)
	assert.Equal(t, "token", filepath.Base(cfg.TokenPath))
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolateConfigDir(t)
	t.Setenv("TABLY_API_BASE_URL", "http://localhost:3443")
	t.Setenv("TABLY_POLL_INTERVAL_MS", "500")

	cfg, err := Load("test")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3443", cfg.APIBaseURL)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval())
}

func TestLoad_RejectsBadBaseURL(t *testing.T) {
	isolateConfigDir(t)
	t.Setenv("TABLY_API_BASE_URL", "not a url")

	_, err := Load("test")
	assert.Error(t, err)
}

func TestLoad_RejectsNonPositiveInterval(t *testing.T) {
	isolateConfigDir(t)
	t.Setenv("TABLY_POLL_INTERVAL_MS", "0")

	_, err := Load("test")
	assert.Error(t, err)
}

func TestWriteDefault_RoundTrip(t *testing.T) {
	isolateConfigDir(t)

	path, err := WriteDefault()
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	cfg, err := Load("test")
	require.NoError(t, err)
	assert.Equal(t, "https://app.tably.ai", cfg.APIBaseURL)
	assert.Equal(t, 2000, cfg.PollIntervalMS)

	// A second init must not clobber an existing file.
	_, err = WriteDefault()
	assert.Error(t, err)
}
