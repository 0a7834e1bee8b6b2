// Package log contains shared logging code
package log

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the logging interface used by the ui components so they do not write to a global logger.
type Logger interface {
	// Debug logs a message that is only interesting when tracing the flow of messages.
	Debug(text string)
	// Info logs an info-styled message.
	Info(text string)
	// Warning logs an warning-styled message.
	Warning(text string)
	// Error logs an error-styled message.
	Error(text string)
	// Chat logs an chat-styled message.
	Chat(text string)
}

// Log writes messages with a zerolog logger.
type Log struct {
	zl zerolog.Logger
}

// Log implements the Logger interface.
var _ Logger = (*Log)(nil)

// New creates a log that writes json lines to the writer.
// Debug messages are only written if debug is true.
func New(w io.Writer, debug bool) *Log {
	zl := zerolog.New(w).With().Timestamp().Logger().Level(level(debug))
	l := Log{
		zl: zl,
	}
	return &l
}

// NewConsole creates a log that writes human-friendly lines to the writer, such as a terminal.
func NewConsole(w io.Writer, debug bool) *Log {
	cw := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return New(cw, debug)
}

// level is the minimum level of messages to write.
func level(debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// With creates a child log that tags each message with the component name.
func (l *Log) With(component string) *Log {
	l2 := Log{
		zl: l.zl.With().Str("component", component).Logger(),
	}
	return &l2
}

// Debug logs a debug-level message.
func (l *Log) Debug(text string) {
	l.zl.Debug().Msg(text)
}

// Info logs an info-styled message.
func (l *Log) Info(text string) {
	l.zl.Info().Msg(text)
}

// Warning logs an warning-styled message.
func (l *Log) Warning(text string) {
	l.zl.Warn().Msg(text)
}

// Error logs an error-styled message.
func (l *Log) Error(text string) {
	l.zl.Error().Msg(text)
}

// Chat logs an chat-styled message.
func (l *Log) Chat(text string) {
	l.zl.Info().Bool("chat", true).Msg(text)
}
