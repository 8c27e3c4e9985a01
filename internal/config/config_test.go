package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PRIVARA_CONFIG_FILE", "PRIVARA_BACKEND_URL", "PRIVARA_BACKEND_WS_URL",
		"PRIVARA_BACKEND_GRPC_ADDR", "PRIVARA_BACKEND_TOKEN", "PRIVARA_GRPC_STREAM_METHOD",
		"PRIVARA_STREAM_MODE", "PRIVARA_SAMPLE_INTERVAL", "PRIVARA_PUBLISH_TIMEOUT",
		"PRIVARA_SHUTDOWN_TIMEOUT", "PRIVARA_PROBE_ADDR", "PRIVARA_LOG_LEVEL", "PRIVARA_LOG_JSON",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromFile("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api/system-update", cfg.BackendURL)
	assert.Equal(t, StreamModeHTTP, cfg.StreamMode)
	assert.Equal(t, 5*time.Second, cfg.SampleInterval)
	assert.Equal(t, 10*time.Second, cfg.PublishTimeout)
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFileValuesAndEnvPrecedence(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "agent.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"backend_url: http://collector.internal/api/system-update\n"+
			"sample_interval: 30s\n"+
			"log_level: debug\n",
	), 0o600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://collector.internal/api/system-update", cfg.BackendURL)
	assert.Equal(t, 30*time.Second, cfg.SampleInterval)
	assert.Equal(t, "debug", cfg.LogLevel)

	// env wins over the file
	t.Setenv("PRIVARA_SAMPLE_INTERVAL", "2s")
	cfg, err = LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.SampleInterval)
	assert.Equal(t, "http://collector.internal/api/system-update", cfg.BackendURL)
}

func TestLoadRejectsUnknownStreamMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("PRIVARA_STREAM_MODE", "carrier-pigeon")

	_, err := LoadFromFile("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported stream mode")
}

func TestLoadRejectsMissingConfigFile(t *testing.T) {
	clearEnv(t)

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidateIntervals(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromFile("")
	require.NoError(t, err)

	cfg.SampleInterval = 0
	assert.Error(t, cfg.Validate())

	cfg.SampleInterval = time.Second
	cfg.PublishTimeout = -time.Second
	assert.Error(t, cfg.Validate())
}
