package layout

import (
	"bytes"
	"strings"
	"testing"
)

// captureLogs routes the global logger into a buffer for the duration of
// the test.
func captureLogs(t *testing.T, level LogLevel) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := GetLogger()
	SetLogger(NewLogger(&buf, level))
	t.Cleanup(func() { SetLogger(previous) })
	return &buf
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name           string
		level          LogLevel
		expectedOutput []string
		notExpected    []string
	}{
		{
			name:           "debug level shows all messages",
			level:          LogDebug,
			expectedOutput: []string{"[DEBUG] debug message", "[INFO] info message", "[WARN] warn message", "[ERROR] error message"},
		},
		{
			name:           "info level hides debug messages",
			level:          LogInfo,
			expectedOutput: []string{"[INFO]", "[WARN]", "[ERROR]"},
			notExpected:    []string{"[DEBUG]", "debug message"},
		},
		{
			name:           "warn level shows only warnings and errors",
			level:          LogWarn,
			expectedOutput: []string{"[WARN]", "[ERROR]"},
			notExpected:    []string{"[DEBUG]", "[INFO]"},
		},
		{
			name:        "off level is silent",
			level:       LogOff,
			notExpected: []string{"[DEBUG]", "[INFO]", "[WARN]", "[ERROR]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewLogger(&buf, tt.level)
			l.Debug("debug message")
			l.Info("info message")
			l.Warn("warn message")
			l.Error("error message")

			output := buf.String()
			for _, want := range tt.expectedOutput {
				if !strings.Contains(output, want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, output)
				}
			}
			for _, unwanted := range tt.notExpected {
				if strings.Contains(output, unwanted) {
					t.Errorf("expected output not to contain %q, got:\n%s", unwanted, output)
				}
			}
		})
	}
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, LogInfo)

	child := l.WithField("token", 3).WithFields(Fields{"formatter": "Foo", "a": 1})
	child.Warn("Unknown formatter")

	output := buf.String()
	if !strings.Contains(output, "[WARN] Unknown formatter a=1 formatter=Foo token=3") {
		t.Errorf("fields should be appended in key order, got:\n%s", output)
	}

	buf.Reset()
	l.Info("plain")
	if strings.Contains(buf.String(), "token=") {
		t.Errorf("parent logger should not carry child fields, got:\n%s", buf.String())
	}
}

func TestLogger_IsDebugMode(t *testing.T) {
	l := NewLogger(nil, LogInfo)
	if l.IsDebugMode() {
		t.Error("info logger should not be in debug mode")
	}
	l.SetLevel(LogDebug)
	if !l.IsDebugMode() {
		t.Error("SetLevel(LogDebug) should enable debug mode")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LogDebug,
		"INFO":    LogInfo,
		"warn":    LogWarn,
		"error":   LogError,
		"off":     LogOff,
		"unknown": LogInfo,
	}
	for input, want := range tests {
		if got := ParseLogLevel(input); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestLogger_DebugLayout(t *testing.T) {
	l, err := Parse(`\begin{doi}\doi\end{doi}`, nil)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	NewLogger(&buf, LogInfo).DebugLayout("entry", l)
	if buf.Len() != 0 {
		t.Errorf("DebugLayout should be silent below debug level, got:\n%s", buf.String())
	}

	NewLogger(&buf, LogDebug).DebugLayout("entry", l)
	if !strings.Contains(buf.String(), "Layout entry:\nBegin(doi)[Field(doi)]") {
		t.Errorf("unexpected dump:\n%s", buf.String())
	}
}

func TestUpdateLoggerFromConfig(t *testing.T) {
	captureLogs(t, LogInfo)
	original := GetGlobalConfig()
	defer SetGlobalConfig(original)

	config := DefaultConfig()
	config.LogLevel = "debug"
	SetGlobalConfig(config)

	if !GetLogger().IsDebugMode() {
		t.Error("global logger should follow the configured level")
	}
}
