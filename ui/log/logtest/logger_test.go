package logtest

import (
	"bytes"
	"sync"
	"testing"
)

func TestNewLogger(t *testing.T) {
	l := NewLogger()
	switch {
	case l == nil:
		t.Errorf("wanted non-nil Logger")
	case l.buf == nil:
		t.Errorf("wanted non-nil internal buffer")
	}
}

func TestLoggerLevels(t *testing.T) {
	t.Run("basic", func(t *testing.T) {
		l := NewLogger()
		l.Debug("a")
		l.Info("b")
		l.Warning("c")
		l.Error("d")
		l.Chat("e")
		want := "debug: a\ninfo: b\nwarning: c\nerror: d\nchat: e\n"
		if got := l.String(); want != got {
			t.Errorf("\nwanted: %v\ngot:    %v", want, got)
		}
	})
	t.Run("async race", func(t *testing.T) {
		var buf bytes.Buffer
		var l Logger
		l.buf = &buf
		n := 10
		var wg sync.WaitGroup
		wg.Add(n)
		for i := 0; i < n; i++ {
			go func() {
				l.Info("a")
				wg.Done()
			}()
		}
		wg.Wait()
		if want, got := 10*len("info: a\n"), buf.Len(); want != got {
			t.Errorf("wanted %v bytes, got %v", want, got)
		}
	})
}

func TestLoggerContains(t *testing.T) {
	l := NewLogger()
	l.Warning("link to P2 failed: ice")
	containsTests := []struct {
		level string
		text  string
		want  bool
	}{
		{"warning", "P2", true},
		{"warning", "link to P2", true},
		{"error", "P2", false},
		{"warning", "P3", false},
	}
	for i, test := range containsTests {
		if got := l.Contains(test.level, test.text); test.want != got {
			t.Errorf("Test %v: wanted Contains(%q, %q) to be %v", i, test.level, test.text, test.want)
		}
	}
}

func TestLoggerEmpty(t *testing.T) {
	emptyTests := []struct {
		contents string
		want     bool
	}{
		{
			want: true,
		},
		{
			contents: "here\nis some text!\n\t[and more]",
		},
	}
	for i, test := range emptyTests {
		buf := bytes.NewBuffer([]byte(test.contents))
		var l Logger
		l.buf = buf
		got := l.Empty()
		if test.want != got {
			t.Errorf("Test %v: empty states not equal: wanted: %v, got: %v", i, test.want, got)
		}
	}
}

func TestLoggerReset(t *testing.T) {
	l := NewLogger()
	l.Error("stuff")
	l.Reset()
	switch {
	case !l.Empty():
		t.Errorf("wanted Logger to be empty after reset")
	case l.String() != "":
		t.Errorf("wanted Logger string to be empty after reset, got %v", l.String())
	}
}

func TestDiscardLogger(t *testing.T) {
	DiscardLogger.Debug("a")
	DiscardLogger.Info("a")
	DiscardLogger.Warning("a")
	DiscardLogger.Error("a")
	DiscardLogger.Chat("a")
}
