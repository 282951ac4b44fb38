package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/infradash/internal/errors"
	"github.com/rileyhilliard/infradash/internal/resource"
)

const healthUpJSON = `{
  "status": "UP",
  "components": {
    "ec2": {"status": "UP", "count": 2, "healthy": 2},
    "rds": {"status": "UP", "endpoint": "db.internal"}
  }
}`

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		routes     map[string]fakeRoute
		wantExit   bool
		wantOutput []string
	}{
		{
			name: "both up",
			routes: map[string]fakeRoute{
				"GET /resources/health": okRoute(healthUpJSON),
				"GET /votes/health":     okRoute(`{"status":"UP","service":"Voting Service"}`),
			},
			wantOutput: []string{"Status backend UP", "2/2 healthy", "db.internal", "Votes service UP"},
		},
		{
			name: "backend down",
			routes: map[string]fakeRoute{
				"GET /resources/health": okRoute(`{"status":"DOWN","error":"AWS credentials expired"}`),
				"GET /votes/health":     okRoute(`{"status":"UP"}`),
			},
			wantExit:   true,
			wantOutput: []string{"Status backend is not UP", "AWS credentials expired", "Votes service UP"},
		},
		{
			name: "votes unreachable",
			routes: map[string]fakeRoute{
				"GET /resources/health": okRoute(healthUpJSON),
				"GET /votes/health":     {code: 503, body: "unavailable"},
			},
			wantExit:   true,
			wantOutput: []string{"Status backend UP", "Votes service"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFakeBackend(t, tt.routes)
			cfg := writeTestConfig(t, b.URL)

			out, err := runCLI(t, "--config", cfg, "health")
			if tt.wantExit {
				code, ok := errors.GetExitCode(err)
				require.True(t, ok, "expected an exit error, got %v", err)
				assert.Equal(t, 1, code)
			} else {
				require.NoError(t, err)
			}
			for _, want := range tt.wantOutput {
				assert.Contains(t, out, want)
			}
			assert.Equal(t, 1, b.hitCount("GET /resources/health"))
			assert.Equal(t, 1, b.hitCount("GET /votes/health"))
		})
	}
}

func TestHealth_JSON(t *testing.T) {
	b := newFakeBackend(t, map[string]fakeRoute{
		"GET /resources/health": okRoute(healthUpJSON),
		"GET /votes/health":     {code: 503, body: "unavailable"},
	})
	cfg := writeTestConfig(t, b.URL)

	out, err := runCLI(t, "--config", cfg, "health", "--json")
	_, isExit := errors.GetExitCode(err)
	require.True(t, isExit)

	var env struct {
		Success bool         `json:"success"`
		Data    healthResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &env))
	assert.False(t, env.Data.Healthy)
	require.NotNil(t, env.Data.Backend)
	assert.True(t, env.Data.Backend.Up())
	assert.Nil(t, env.Data.Votes)
	require.NotNil(t, env.Data.VotesError)
	assert.Equal(t, ErrCodeUnreachable, env.Data.VotesError.Code)
}

func TestComponentDetail(t *testing.T) {
	n := func(v int) *int { return &v }

	tests := []struct {
		name string
		c    resource.ComponentHealth
		want string
	}{
		{"empty", resource.ComponentHealth{}, ""},
		{"status only", resource.ComponentHealth{Status: "UP"}, "UP"},
		{"counts", resource.ComponentHealth{Status: "UP", Count: n(3), Healthy: n(2)}, "UP · 2/3 healthy"},
		{"count only", resource.ComponentHealth{Count: n(4)}, "4"},
		{"dns and bucket", resource.ComponentHealth{DNS: "lb.example", Bucket: "assets"}, "lb.example · assets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, componentDetail(tt.c))
		})
	}
}
