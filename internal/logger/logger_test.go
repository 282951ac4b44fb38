package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvLogger_Debug(t *testing.T) {
	tests := []struct {
		name       string
		envValue   string
		forced     bool
		wantOutput bool
	}{
		{
			name:       "debug enabled by env",
			envValue:   "1",
			wantOutput: true,
		},
		{
			name:       "debug disabled",
			envValue:   "",
			wantOutput: false,
		},
		{
			name:       "debug forced without env",
			envValue:   "",
			forced:     true,
			wantOutput: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(DebugEnv, tt.envValue)

			var buf bytes.Buffer
			l := NewWriterLogger(&buf, "test", tt.forced)
			l.Debug("test message %s", "arg")

			if tt.wantOutput {
				assert.Contains(t, buf.String(), "test message arg")
				assert.Contains(t, buf.String(), "DBG")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestEnvLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		log   func(Logger)
		level string
		msg   string
	}{
		{"info", func(l Logger) { l.Info("info message %d", 42) }, "INF", "info message 42"},
		{"warn", func(l Logger) { l.Warn("warning message") }, "WRN", "warning message"},
		{"error", func(l Logger) { l.Error("error message") }, "ERR", "error message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewWriterLogger(&buf, "levels", false))

			out := buf.String()
			assert.Contains(t, out, tt.level)
			assert.Contains(t, out, tt.msg)
			assert.Contains(t, out, "component=levels")
		})
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	base := NewWriterLogger(&buf, "", false)

	With(base, "probe").Info("phase done")
	assert.Contains(t, buf.String(), "component=probe")

	buffered := NewBufferLogger()
	assert.Same(t, buffered, With(buffered, "probe"), "non-env loggers are returned unchanged")
}

func TestWithLevel(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"debug", "debug", true, true, true},
		{"info", "info", false, true, true},
		{"warn", "warn", false, false, true},
		{"error", "error", false, false, false},
		{"unknown keeps defaults", "loud", false, true, true},
		{"empty keeps defaults", "", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(DebugEnv, "")

			var buf bytes.Buffer
			l := WithLevel(NewWriterLogger(&buf, "lvl", false), tt.level)
			l.Debug("debug line")
			l.Info("info line")
			l.Warn("warn line")

			out := buf.String()
			assert.Equal(t, tt.wantDebug, strings.Contains(out, "debug line"))
			assert.Equal(t, tt.wantInfo, strings.Contains(out, "info line"))
			assert.Equal(t, tt.wantWarn, strings.Contains(out, "warn line"))
		})
	}

	buffered := NewBufferLogger()
	assert.Same(t, buffered, WithLevel(buffered, "error"))
}

func TestNoopLogger(t *testing.T) {
	l := Noop()
	assert.NotPanics(t, func() {
		l.Debug("debug")
		l.Info("info")
		l.Warn("warn")
		l.Error("error")
	})
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("debug %s", "msg")
	l.Info("info %s", "msg")
	l.Warn("warn %s", "msg")
	l.Error("error %s", "msg")

	msgs := l.Messages()
	require.Len(t, msgs, 4)

	assert.Equal(t, LogMessage{Level: "debug", Message: "debug msg"}, msgs[0])
	assert.Equal(t, LogMessage{Level: "info", Message: "info msg"}, msgs[1])
	assert.Equal(t, LogMessage{Level: "warn", Message: "warn msg"}, msgs[2])
	assert.Equal(t, LogMessage{Level: "error", Message: "error msg"}, msgs[3])
}

func TestBufferLogger_HasLevel(t *testing.T) {
	l := NewBufferLogger()

	assert.False(t, l.HasLevel("debug"))
	assert.False(t, l.HasLevel("error"))

	l.Debug("test")
	assert.True(t, l.HasLevel("debug"))
	assert.False(t, l.HasLevel("error"))

	l.Error("test")
	assert.True(t, l.HasLevel("error"))
}

func TestBufferLogger_Contains(t *testing.T) {
	l := NewBufferLogger()
	l.Info("GET /resources/status -> 200")

	assert.True(t, l.Contains("/resources/status"))
	assert.False(t, l.Contains("/votes"))
}

func TestBufferLogger_Clear(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("test1")
	l.Info("test2")
	require.Len(t, l.Messages(), 2)

	l.Clear()
	assert.Empty(t, l.Messages())
}

func TestBufferLogger_Concurrent(t *testing.T) {
	l := NewBufferLogger()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			l.Info("worker %d", n)
		}(i)
	}
	wg.Wait()

	assert.Len(t, l.Messages(), 10)
}

func TestDefault(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	assert.NotNil(t, Default())

	buf := NewBufferLogger()
	SetDefault(buf)

	assert.Equal(t, buf, Default())
}

func TestLoggerInterface(t *testing.T) {
	var _ Logger = NewEnvLogger("")
	var _ Logger = Noop()
	var _ Logger = NewBufferLogger()
}

func TestEnvLogger_FormatStrings(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, "fmt", false)

	l.Info("int: %d, string: %s, float: %.2f", 42, "hello", 3.14159)

	output := buf.String()
	assert.True(t, strings.Contains(output, "int: 42"))
	assert.True(t, strings.Contains(output, "string: hello"))
	assert.True(t, strings.Contains(output, "float: 3.14"))
}
