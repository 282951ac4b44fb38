package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetValue(t *testing.T) {
	tests := []struct {
		name         string
		initialYAML  string
		key          string
		value        string
		wantContains []string
		wantErr      string
	}{
		{
			name: "replace existing value",
			initialYAML: `version: 1
server:
  url: http://localhost:8080/api # local backend
`,
			key:          "server.url",
			value:        "https://infra.example.com/api",
			wantContains: []string{"url: https://infra.example.com/api", "# local backend"},
		},
		{
			name: "add key to existing section",
			initialYAML: `version: 1
probe:
  timeout: 3s
`,
			key:          "probe.step_delay",
			value:        "200ms",
			wantContains: []string{"timeout: 3s", "step_delay: 200ms"},
		},
		{
			name:         "create missing section",
			initialYAML:  "version: 1\n",
			key:          "metrics.addr",
			value:        ":9464",
			wantContains: []string{"metrics:", "addr:", "9464"},
		},
		{
			name:         "empty file",
			initialYAML:  "",
			key:          "log.level",
			value:        "debug",
			wantContains: []string{"log:", "level: debug"},
		},
		{
			name: "section is not a value",
			initialYAML: `server:
  url: http://x
`,
			key:     "server",
			value:   "oops",
			wantErr: "is a section",
		},
		{
			name:        "value is not a section",
			initialYAML: "version: 1\n",
			key:         "version.major",
			value:       "2",
			wantErr:     "is a value",
		},
		{
			name:        "invalid key",
			initialYAML: "version: 1\n",
			key:         "server..url",
			value:       "x",
			wantErr:     "invalid key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigFileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.initialYAML), 0644))

			err := SetValue(path, tt.key, tt.value)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			for _, want := range tt.wantContains {
				assert.Contains(t, string(data), want)
			}
		})
	}
}

func TestSetValue_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0644))

	require.NoError(t, SetValue(path, "probe.timeout", "9s"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9*time.Second, cfg.Probe.Timeout)
}

func TestSetValue_MissingFile(t *testing.T) {
	err := SetValue(filepath.Join(t.TempDir(), "missing.yaml"), "server.url", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ConfigFileName)

	require.NoError(t, WriteDefault(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Probe, cfg.Probe)
	assert.Equal(t, DefaultConfig().Server, cfg.Server)

	err = WriteDefault(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	assert.NoError(t, WriteDefault(path, true))
}
