package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "github.com/rileyhilliard/infradash/internal/errors"
)

func TestIsUnknownCommandError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unknown command error", errors.New(`unknown command "foo" for "infradash"`), true},
		{"unknown flag error", errors.New(`unknown flag: --foo`), true},
		{"other error", errors.New("connection failed"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUnknownCommandError(tt.err))
		})
	}
}

func TestExtractUnknownCommand(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"standard cobra format", errors.New(`unknown command "stauts" for "infradash"`), "stauts"},
		{"command with hyphen", errors.New(`unknown command "my-view" for "infradash"`), "my-view"},
		{"no quotes returns empty", errors.New("unknown command foo"), ""},
		{"single quote returns empty", errors.New(`unknown command "foo`), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractUnknownCommand(tt.err))
		})
	}
}

func TestNewRootCmd_RegistersCommands(t *testing.T) {
	root := NewRootCmd()

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"probe", "status", "dashboard", "health", "votes", "config", "version", "completion"} {
		assert.True(t, names[want], "missing command %s", want)
	}

	for _, flag := range []string{"config", "server", "no-color"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "missing global flag %s", flag)
	}
}

func TestNewRootCmd_IndependentTrees(t *testing.T) {
	a, b := NewRootCmd(), NewRootCmd()
	require.NoError(t, a.PersistentFlags().Set("server", "http://a.example/api"))
	assert.Equal(t, "", b.PersistentFlags().Lookup("server").Value.String())
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOut  string
	}{
		{"success", nil, 0, ""},
		{"exit error is silent", rerrors.NewExitError(3), 3, ""},
		{"structured error", rerrors.New(rerrors.ErrConfig, "Bad config", "Fix it"), 1, "Bad config"},
		{"plain error", errors.New("boom"), 1, "boom\n"},
		{"unknown command", errors.New(`unknown command "stauts" for "infradash"`), 2, "Did you mean: status?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewRootCmd()
			var errOut bytes.Buffer
			root.SetErr(&errOut)

			assert.Equal(t, tt.wantCode, exitCode(root, tt.err))
			if tt.wantOut == "" {
				assert.Empty(t, errOut.String())
			} else {
				assert.Contains(t, errOut.String(), tt.wantOut)
			}
		})
	}
}

func TestNewRootCmd_SuggestsCloseCommands(t *testing.T) {
	root := NewRootCmd()

	assert.Equal(t, []string{"status"}, root.SuggestionsFor("stauts"))
	assert.Equal(t, []string{"dashboard"}, root.SuggestionsFor("dashbaord"))
	assert.Empty(t, root.SuggestionsFor("mainframe"))
}

func TestUnknownCommand(t *testing.T) {
	_, err := runCLI(t, "stauts")
	require.Error(t, err)
	assert.True(t, isUnknownCommandError(err))
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := runCLI(t, "completion", shell)
			require.NoError(t, err)
			assert.True(t, strings.Contains(out, "infradash"), "completion script should mention the binary")
		})
	}

	_, err := runCLI(t, "completion", "tcsh")
	assert.Error(t, err)
}
