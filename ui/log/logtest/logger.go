// Package logtest implements support for testing Loggers.
package logtest

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/jacobpatterson1549/trop-dur/ui/log"
)

// DiscardLogger is a Logger that writes nothing.
var DiscardLogger = new(discardLogger)

// NewLogger creates a Logger.
func NewLogger() *Logger {
	l := Logger{
		buf: new(bytes.Buffer),
	}
	return &l
}

// discardLogger is a logger that logs nothing.
type discardLogger struct{}

// DiscardLogger (and other log.Loggers) implement the ui's log.Logger interface.
var _ log.Logger = DiscardLogger

func (discardLogger) Debug(text string)   {}
func (discardLogger) Info(text string)    {}
func (discardLogger) Warning(text string) {}
func (discardLogger) Error(text string)   {}
func (discardLogger) Chat(text string)    {}

// Logger is a logger that writes each message as a "level: text" line to a buffer to be read later.
type Logger struct {
	buf *bytes.Buffer
	mu  sync.RWMutex
}

// Logger implements the ui's log.Logger interface.
var _ log.Logger = NewLogger()

// Debug implements the log.Logger interface
func (l *Logger) Debug(text string) {
	l.write("debug", text)
}

// Info implements the log.Logger interface
func (l *Logger) Info(text string) {
	l.write("info", text)
}

// Warning implements the log.Logger interface
func (l *Logger) Warning(text string) {
	l.write("warning", text)
}

// Error implements the log.Logger interface
func (l *Logger) Error(text string) {
	l.write("error", text)
}

// Chat implements the log.Logger interface
func (l *Logger) Chat(text string) {
	l.write("chat", text)
}

func (l *Logger) write(level, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.buf, "%s: %s\n", level, text)
}

// String returns the recorded string.
func (l *Logger) String() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.buf.String()
}

// Contains determines if any recorded line has the level and contains the text.
func (l *Logger) Contains(level, text string) bool {
	for _, line := range strings.Split(l.String(), "\n") {
		if strings.HasPrefix(line, level+": ") && strings.Contains(line, text) {
			return true
		}
	}
	return false
}

// Empty returns if buffer is empty.
func (l *Logger) Empty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Len() == 0
}

// Reset clears the buffer.
func (l *Logger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Reset()
}
