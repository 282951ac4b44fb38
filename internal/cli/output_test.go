package cli

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/infradash/internal/errors"
)

func TestWriteJSONSuccess(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONSuccess(&buf, map[string]int{"count": 2}))

	var env struct {
		Success bool           `json:"success"`
		Data    map[string]int `json:"data"`
		Error   *JSONError     `json:"error"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, 2, env.Data["count"])
	assert.Nil(t, env.Error)
}

func TestWriteJSONFromError(t *testing.T) {
	var buf bytes.Buffer
	err := errors.WrapWithCode(stderrors.New("dial tcp: refused"), errors.ErrTransport,
		"Cannot reach the status backend", "Check server.url")
	require.NoError(t, WriteJSONFromError(&buf, err))

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeUnreachable, env.Error.Code)
	assert.Equal(t, "Cannot reach the status backend", env.Error.Message)
	assert.Equal(t, "Check server.url", env.Error.Suggestion)
	assert.Equal(t, "dial tcp: refused", env.Error.Details)
}

func TestErrorToJSON_Codes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"config not found", errors.WrapWithCode(fs.ErrNotExist, errors.ErrConfig, "Config file not found", ""), ErrCodeConfigNotFound},
		{"config invalid", errors.New(errors.ErrConfig, "bad url", ""), ErrCodeConfigInvalid},
		{"transport", errors.New(errors.ErrTransport, "502", ""), ErrCodeUnreachable},
		{"timeout", errors.New(errors.ErrTimeout, "slow", ""), ErrCodeTimeout},
		{"probe", errors.New(errors.ErrProbe, "disconnected", ""), ErrCodeNotConnected},
		{"load", errors.New(errors.ErrLoad, "load failed", ""), ErrCodeLoadFailed},
		{"vote", errors.New(errors.ErrVote, "closed", ""), ErrCodeVoteRejected},
		{"plain", stderrors.New("boom"), ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ErrorToJSON(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Code)
		})
	}

	assert.Nil(t, ErrorToJSON(nil))
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, map[string]any{"view": "overview", "count": 3}))
	assert.Equal(t, "count: 3\nview: overview\n", buf.String())
}
