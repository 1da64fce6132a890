package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NilError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeFile(t, "config.yaml", "")
	cfg, err := LoadConfig(path)
	assert.NilError(t, err)
	assert.Equal(t, cfg.API.BaseURL, "http://localhost:3001/api")
	assert.Equal(t, cfg.API.Timeout, 10*time.Second)
	assert.Equal(t, cfg.Cache.GCTime, 10*time.Minute)
	assert.Equal(t, cfg.Logging.Level, "INFO")
	assert.Assert(t, !cfg.Debug)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
api:
  base_url: https://kb.example.org/api
  timeout: 3s
dev_tools: true
cache:
  dir: ""
  gc_time: 1m
metrics:
  listen: 127.0.0.1:9464
`)
	cfg, err := LoadConfig(path)
	assert.NilError(t, err)
	assert.Equal(t, cfg.API.BaseURL, "https://kb.example.org/api")
	assert.Equal(t, cfg.API.Timeout, 3*time.Second)
	assert.Assert(t, cfg.DevTools)
	assert.Equal(t, cfg.Cache.Dir, "")
	assert.Equal(t, cfg.Cache.GCTime, time.Minute)
	assert.Equal(t, cfg.Metrics.Listen, "127.0.0.1:9464")
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("INSTRUMENTA_API_TIMEOUT", "4s")
	t.Setenv("INSTRUMENTA_LOGGING_LEVEL", "debug")
	t.Setenv("VITE_API_BASE_URL", "http://vite.example/api")
	t.Setenv("VITE_DEBUG_MODE", "true")
	t.Setenv("VITE_MAP_DEFAULT_ZOOM", "9")

	cfg, err := LoadConfig(writeFile(t, "config.yaml", "api:\n  base_url: http://file.example/api\n"))
	assert.NilError(t, err)
	assert.Equal(t, cfg.API.Timeout, 4*time.Second)
	assert.Equal(t, cfg.Logging.Level, "debug")
	assert.Equal(t, cfg.API.BaseURL, "http://vite.example/api")
	assert.Assert(t, cfg.Debug)
	assert.Equal(t, cfg.Map.Zoom, 9)
}

func TestLoadConfigPrefixedEnvBeatsLegacy(t *testing.T) {
	t.Setenv("INSTRUMENTA_API_BASE_URL", "http://new.example/api")
	t.Setenv("VITE_API_BASE_URL", "http://old.example/api")

	cfg, err := LoadConfig(writeFile(t, "config.yaml", ""))
	assert.NilError(t, err)
	assert.Equal(t, cfg.API.BaseURL, "http://new.example/api")
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "error reading config file")
}

func TestLoadConfigRejectsBadTimeout(t *testing.T) {
	_, err := LoadConfig(writeFile(t, "config.yaml", "api:\n  timeout: 0s\n"))
	assert.ErrorContains(t, err, "api.timeout")
}

func TestSaveConfigRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.BaseURL = "http://saved.example/api"
	cfg.DevTools = true

	path, err := SaveConfig(cfg, filepath.Join(t.TempDir(), "nested", "config.yaml"))
	assert.NilError(t, err)

	loaded, err := LoadConfig(path)
	assert.NilError(t, err)
	assert.Equal(t, loaded.API.BaseURL, "http://saved.example/api")
	assert.Assert(t, loaded.DevTools)
	assert.Equal(t, loaded.API.Timeout, cfg.API.Timeout)
}

func TestSetupLoggerDebugForcesLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "instrumenta.log")
	logger, err := SetupLogger(&LoggingConfig{File: path, Level: "ERROR"}, true)
	assert.NilError(t, err)
	logger.Debug("api request", "method", "GET")

	data, err := os.ReadFile(path)
	assert.NilError(t, err)
	assert.Assert(t, len(data) > 0)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, parseLogLevel("warning").String(), "WARN")
	assert.Equal(t, parseLogLevel(" error ").String(), "ERROR")
	assert.Equal(t, parseLogLevel("bogus").String(), "INFO")
}
