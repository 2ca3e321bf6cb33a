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
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "http://localhost:8000/api/", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 30*time.Second, cfg.API.HeartbeatInterval)
	assert.Equal(t, "eventadmin", cfg.Session.Name)
	assert.False(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("server:\n  environment: production\napi:\n  base_url: http://backend:9000/api\n  timeout: 3s\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0644))
	t.Setenv("EVENTADMIN_SESSION_NAME", "from-env")
	t.Setenv("EVENTADMIN_SESSION_SECRET", "a-real-secret")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "http://backend:9000/api/", cfg.API.BaseURL, "base URL gets a trailing slash")
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, "from-env", cfg.Session.Name)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unterminated"), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_ProductionRejectsDefaultSecret(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server:\n  environment: production\n"), 0644))

	_, err := Load(dir)
	assert.ErrorIs(t, err, ErrDefaultSecret)

	t.Setenv("EVENTADMIN_SESSION_SECRET", "a-real-secret")
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "a-real-secret", cfg.Session.Secret)
}

func TestLoad_RejectsNonPositiveHeartbeat(t *testing.T) {
	for _, interval := range []string{"0s", "-5s"} {
		t.Run(interval, func(t *testing.T) {
			t.Setenv("EVENTADMIN_API_HEARTBEAT_INTERVAL", interval)
			_, err := Load(t.TempDir())
			assert.ErrorIs(t, err, ErrHeartbeatInterval)
		})
	}
}
