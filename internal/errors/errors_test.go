package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrTransport,
		ErrTimeout,
		ErrProbe,
		ErrLoad,
		ErrVote,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Invalid configuration in .infradash.yaml",
			suggestion: "Check your configuration file syntax",
		},
		{
			name:       "transport error",
			code:       ErrTransport,
			message:    "Backend returned 502",
			suggestion: "Check that the status backend is running",
		},
		{
			name:       "probe error",
			code:       ErrProbe,
			message:    "Infrastructure is not connected",
			suggestion: "Run 'infradash probe' first",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	err := WrapWithCode(
		errors.New("dial tcp 127.0.0.1:8080: connection refused"),
		ErrTransport,
		"Cannot reach the status backend",
		"Check server.url in your config",
	)

	output := err.Error()
	lines := strings.Split(output, "\n")

	assert.True(t, strings.HasPrefix(lines[0], "✗"), "first line should start with failure symbol")
	assert.Contains(t, lines[0], "Cannot reach the status backend")
	assert.Contains(t, output, "connection refused")
	assert.Contains(t, output, "Check server.url")
}

func TestErrorFormatting_NoSuggestion(t *testing.T) {
	err := New(ErrLoad, "Load failed", "")
	assert.Equal(t, "✗ Load failed\n", err.Error())
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	wrapped := Wrap(cause, "Malformed payload")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrTransport, wrapped.Code, "Wrap should default to ErrTransport code")
	assert.Equal(t, "Malformed payload", wrapped.Message)
	assert.Equal(t, cause, wrapped.Cause)
}

func TestShort(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "no cause",
			err:  New(ErrLoad, "Load failed", "retry"),
			want: "Load failed",
		},
		{
			name: "plain cause",
			err:  WrapWithCode(errors.New("boom"), ErrLoad, "Load failed", ""),
			want: "Load failed: boom",
		},
		{
			name: "nested structured cause",
			err: WrapWithCode(
				WrapWithCode(errors.New("EOF"), ErrTransport, "Malformed payload", "hint"),
				ErrLoad, "Load failed", ""),
			want: "Load failed: Malformed payload: EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Short())
		})
	}
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "", Summary(nil))
	assert.Equal(t, "plain", Summary(errors.New("plain\nsecond line")))
	assert.Equal(t, "Timed out", Summary(New(ErrTimeout, "Timed out", "wait longer")))

	wrapped := fmt.Errorf("context: %w", New(ErrTimeout, "Timed out", ""))
	assert.Equal(t, "Timed out", Summary(wrapped))
}

func TestErrorsIsAndAs(t *testing.T) {
	cause := errors.New("specific error")
	wrapped := WrapWithCode(cause, ErrVote, "Vote error", "")

	assert.True(t, errors.Is(wrapped, cause))

	var target *Error
	require.True(t, errors.As(fmt.Errorf("outer: %w", wrapped), &target))
	assert.Equal(t, ErrVote, target.Code)
}

func TestIsCode(t *testing.T) {
	err := New(ErrConfig, "Config error", "")

	assert.True(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(err, ErrTransport))
	assert.False(t, IsCode(errors.New("standard error"), ErrConfig))
	assert.False(t, IsCode(nil, ErrConfig))
	assert.True(t, IsCode(fmt.Errorf("wrapped: %w", New(ErrTimeout, "t", "")), ErrTimeout))
}

func TestExitError(t *testing.T) {
	err := NewExitError(1)
	assert.Equal(t, "exit code 1", err.Error())

	code, ok := GetExitCode(fmt.Errorf("outer: %w", err))
	assert.True(t, ok)
	assert.Equal(t, 1, code)

	_, ok = GetExitCode(errors.New("plain"))
	assert.False(t, ok)

	_, ok = GetExitCode(nil)
	assert.False(t, ok)
}
