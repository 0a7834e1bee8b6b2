package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogLevels(t *testing.T) {
	logLevelTests := []struct {
		debug     bool
		write     func(l *Log)
		wantLevel string
		wantChat  bool
	}{
		{
			write: func(l *Log) { l.Debug("hidden") },
		},
		{
			debug:     true,
			write:     func(l *Log) { l.Debug("shown") },
			wantLevel: "debug",
		},
		{
			write:     func(l *Log) { l.Info("shown") },
			wantLevel: "info",
		},
		{
			write:     func(l *Log) { l.Warning("shown") },
			wantLevel: "warn",
		},
		{
			write:     func(l *Log) { l.Error("shown") },
			wantLevel: "error",
		},
		{
			write:     func(l *Log) { l.Chat("shown") },
			wantLevel: "info",
			wantChat:  true,
		},
	}
	for i, test := range logLevelTests {
		var buf bytes.Buffer
		l := New(&buf, test.debug)
		test.write(l)
		if test.wantLevel == "" {
			if buf.Len() != 0 {
				t.Errorf("Test %v: wanted nothing logged, got %v", i, buf.String())
			}
			continue
		}
		var line struct {
			Level   string `json:"level"`
			Message string `json:"message"`
			Chat    bool   `json:"chat"`
			Time    string `json:"time"`
		}
		if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
			t.Errorf("Test %v: unwanted error reading log line %q: %v", i, buf.String(), err)
			continue
		}
		switch {
		case test.wantLevel != line.Level:
			t.Errorf("Test %v: wanted level %v, got %v", i, test.wantLevel, line.Level)
		case line.Message != "shown":
			t.Errorf("Test %v: wanted message 'shown', got %v", i, line.Message)
		case test.wantChat != line.Chat:
			t.Errorf("Test %v: wanted chat flag %v", i, test.wantChat)
		case len(line.Time) == 0:
			t.Errorf("Test %v: wanted timestamp", i)
		}
	}
}

func TestLogWith(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false).With("socket")
	l.Info("connected")
	if !strings.Contains(buf.String(), `"component":"socket"`) {
		t.Errorf("wanted component field in %v", buf.String())
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsole(&buf, false)
	l.Warning("reconnecting")
	got := buf.String()
	if !strings.Contains(got, "reconnecting") || strings.HasPrefix(got, "{") {
		t.Errorf("wanted console formatted line, got %v", got)
	}
}
