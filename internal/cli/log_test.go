package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestNewLoggerPrefix(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("laid out")
	if !strings.Contains(buf.String(), appName) {
		t.Errorf("log line %q should carry the %s prefix", buf.String(), appName)
	}
}

func TestLevelFor(t *testing.T) {
	if got := levelFor(false); got != LogInfo {
		t.Errorf("levelFor(false) = %v, want %v", got, LogInfo)
	}
	if got := levelFor(true); got != LogDebug {
		t.Errorf("levelFor(true) = %v, want %v", got, LogDebug)
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel), "load")
	prog.done("Loaded %d persons", 6)

	out := buf.String()
	for _, want := range []string{"Loaded 6 persons", "step=load", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("progress output %q missing %q", out, want)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)

	if got := loggerFromContext(withLogger(context.Background(), custom)); got != custom {
		t.Error("loggerFromContext should return the attached logger")
	}

	fallback := loggerFromContext(context.Background())
	if fallback == nil {
		t.Fatal("loggerFromContext should never return nil")
	}
	fallback.Info("dropped")
	if buf.Len() != 0 {
		t.Error("the fallback logger should not write to the attached logger's output")
	}
}
