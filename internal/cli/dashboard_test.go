package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/infradash/internal/errors"
	"github.com/rileyhilliard/infradash/internal/ui"
)

func TestDashboard_RequiresTerminal(t *testing.T) {
	if ui.IsTerminal() {
		t.Skip("stdout is a terminal")
	}
	_, err := runCLI(t, "dashboard")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "infradash status")
}

func TestOpenLogFile(t *testing.T) {
	w, closeLog, err := openLogFile("")
	require.NoError(t, err)
	assert.Equal(t, io.Discard, w)
	closeLog()

	path := filepath.Join(t.TempDir(), "infradash.log")
	w, closeLog, err = openLogFile(path)
	require.NoError(t, err)
	_, err = io.WriteString(w, "hello\n")
	require.NoError(t, err)
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))

	_, _, err = openLogFile(filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}
