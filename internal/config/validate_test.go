package config

import (
	"testing"
	"time"

	"github.com/rileyhilliard/infradash/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "future version",
			mutate:  func(c *Config) { c.Version = CurrentConfigVersion + 1 },
			wantErr: "from the future",
		},
		{
			name:    "empty server url",
			mutate:  func(c *Config) { c.Server.URL = "" },
			wantErr: "server.url is empty",
		},
		{
			name:    "url without host",
			mutate:  func(c *Config) { c.Server.URL = "localhost" },
			wantErr: "isn't a valid URL",
		},
		{
			name:    "unsupported scheme",
			mutate:  func(c *Config) { c.Server.URL = "ftp://example.com/api" },
			wantErr: "must use http or https",
		},
		{
			name:    "negative request timeout",
			mutate:  func(c *Config) { c.Server.RequestTimeout = -time.Second },
			wantErr: "request_timeout",
		},
		{
			name:    "zero probe timeout",
			mutate:  func(c *Config) { c.Probe.Timeout = 0 },
			wantErr: "probe.timeout must be positive",
		},
		{
			name:    "negative step delay",
			mutate:  func(c *Config) { c.Probe.StepDelay = -time.Millisecond },
			wantErr: "step_delay",
		},
		{
			name:    "unknown view",
			mutate:  func(c *Config) { c.Dashboard.DefaultView = "lambda" },
			wantErr: "isn't a known view",
		},
		{
			name:   "alias view",
			mutate: func(c *Config) { c.Dashboard.DefaultView = "RDS" },
		},
		{
			name:    "unknown overview mode",
			mutate:  func(c *Config) { c.Dashboard.OverviewMode = "parallel" },
			wantErr: "overview_mode",
		},
		{
			name:    "negative refresh",
			mutate:  func(c *Config) { c.Dashboard.RefreshInterval = -time.Second },
			wantErr: "refresh_interval",
		},
		{
			name:    "bad color",
			mutate:  func(c *Config) { c.Output.Color = "sometimes" },
			wantErr: "output.color",
		},
		{
			name:    "negative rate limit",
			mutate:  func(c *Config) { c.Server.RateLimit = -1 },
			wantErr: "server.rate_limit can't be negative",
		},
		{
			name:   "metrics addr without host",
			mutate: func(c *Config) { c.Metrics.Addr = ":9464" },
		},
		{
			name:    "metrics addr without port",
			mutate:  func(c *Config) { c.Metrics.Addr = "localhost" },
			wantErr: "isn't a host:port address",
		},
		{
			name:    "empty state file",
			mutate:  func(c *Config) { c.Votes.StateFile = "" },
			wantErr: "votes.state_file is empty",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: "log.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
		})
	}
}

func TestValidate_SuggestionNamesSection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dashboard.OverviewMode = "parallel"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Check the 'dashboard' section")
	assert.Contains(t, err.Error(), "use aggregate, per-family")
}

func TestValidate_Nil(t *testing.T) {
	err := Validate(nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}
