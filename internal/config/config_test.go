package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load consults so the host environment cannot
// leak into a test. Empty values are ignored by Load.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(envConfigFile, "")
	for _, key := range []string{
		keyListenAddr, keyDBPath, keyLogLevel, keyDelay, keyFanOut, keyFetchFanOut,
		keyFetchURL, keyFetchTimeout, keyRunTimeout, keySchedule, keyScheduleScenario,
	} {
		t.Setenv(envPrefix+"_"+strings.ToUpper(key), "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, defaultDBPath, cfg.DBPath)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.Delay)
	assert.Equal(t, 2, cfg.FanOut)
	assert.Equal(t, 3, cfg.FetchFanOut)
	assert.Equal(t, defaultFetchURL, cfg.FetchURL)
	assert.Equal(t, 100*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 120*time.Second, cfg.RunTimeout)
	assert.Empty(t, cfg.Schedule)
	assert.Equal(t, "save", cfg.ScheduleScenario)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ASYNCDEMO_LISTEN_ADDR", ":9090")
	t.Setenv("ASYNCDEMO_DB_PATH", "/tmp/test.db")
	t.Setenv("ASYNCDEMO_LOG_LEVEL", "debug")
	t.Setenv("ASYNCDEMO_DELAY", "250ms")
	t.Setenv("ASYNCDEMO_FAN_OUT", "4")
	t.Setenv("ASYNCDEMO_FETCH_URL", "http://localhost:1234/x")
	t.Setenv("ASYNCDEMO_SCHEDULE", "@every 1m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.Delay)
	assert.Equal(t, 4, cfg.FanOut)
	assert.Equal(t, "http://localhost:1234/x", cfg.FetchURL)
	assert.Equal(t, "@every 1m", cfg.Schedule)
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "asyncdemo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("delay: 2s\nfetch_fan_out: 5\ndb_path: file.db\n"), 0o600))
	t.Setenv(envConfigFile, path)
	t.Setenv("ASYNCDEMO_DB_PATH", "env.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Delay)
	assert.Equal(t, 5, cfg.FetchFanOut)
	assert.Equal(t, "env.db", cfg.DBPath, "environment should override the file")
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(envConfigFile, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"ASYNCDEMO_FAN_OUT", "0"},
		{"ASYNCDEMO_FETCH_FAN_OUT", "-1"},
		{"ASYNCDEMO_DELAY", "-1s"},
		{"ASYNCDEMO_FETCH_TIMEOUT", "-1s"},
		{"ASYNCDEMO_RUN_TIMEOUT", "-500ms"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadAllowsZeroTimeouts(t *testing.T) {
	clearEnv(t)
	t.Setenv("ASYNCDEMO_FETCH_TIMEOUT", "0s")
	t.Setenv("ASYNCDEMO_RUN_TIMEOUT", "0s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.FetchTimeout)
	assert.Zero(t, cfg.RunTimeout)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.input), "parseLogLevel(%q)", tt.input)
	}
}

func TestNewLoggerOutputsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)
	require.NotNil(t, logger)

	logger.Info("test message", "key", "value")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "output: %s", buf.String())

	for _, key := range []string{"time", "level", "msg"} {
		assert.Contains(t, entry, key)
	}
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
}
