package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/infradash/internal/config"
	"github.com/rileyhilliard/infradash/internal/errors"
)

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".infradash.yaml")

	out, err := runCLI(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Created")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Server.URL, cfg.Server.URL)

	_, err = runCLI(t, "--config", path, "config", "init")
	require.Error(t, err, "an existing file is not overwritten")
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	_, err = runCLI(t, "--config", path, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigSet(t *testing.T) {
	path := writeTestConfig(t, "http://localhost:8080")

	out, err := runCLI(t, "--config", path, "config", "set", "probe.timeout", "7s")
	require.NoError(t, err)
	assert.Contains(t, out, "Set probe.timeout = 7s")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, cfg.Probe.Timeout)
	assert.Equal(t, "http://localhost:8080/api", cfg.Server.URL, "other keys are untouched")
}

func TestConfigSet_InvalidValueIsRolledBack(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad url", "server.url", "not a url"},
		{"unknown view", "dashboard.default_view", "mainframe"},
		{"zero timeout", "probe.timeout", "0s"},
		{"section as value", "server", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestConfig(t, "http://localhost:8080")
			before, err := os.ReadFile(path)
			require.NoError(t, err)

			_, err = runCLI(t, "--config", path, "config", "set", tt.key, tt.value)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))

			after, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, string(before), string(after))
		})
	}
}

func TestConfigShow(t *testing.T) {
	path := writeTestConfig(t, "http://status.internal:8080")

	out, err := runCLI(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "url: http://status.internal:8080/api")
	assert.Contains(t, out, "timeout: 2s")
	assert.Contains(t, out, "overview_mode: aggregate", "defaults fill in missing keys")

	out, err = runCLI(t, "--config", path, "--server", "http://other:9000/api", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "url: http://other:9000/api")
}

func TestConfigPath(t *testing.T) {
	path := writeTestConfig(t, "http://localhost:8080")

	out, err := runCLI(t, "--config", path, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, path, strings.TrimSpace(out))

	_, err = runCLI(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "config", "path")
	assert.Error(t, err)
}

func TestLoadApp_InvalidServerFlag(t *testing.T) {
	path := writeTestConfig(t, "http://localhost:8080")

	_, err := runCLI(t, "--config", path, "--server", "localhost", "probe")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}
