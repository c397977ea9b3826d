package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ZeroLogger backs the Logger interface with zerolog.
type ZeroLogger struct {
	zlog *zerolog.Logger
}

var _ Logger = (*ZeroLogger)(nil)

// New creates a ZeroLogger writing JSON to stdout at the given level.
// Unknown levels fall back to info. If pretty is true, output is
// console-formatted for human readability.
func New(level string, pretty bool) *ZeroLogger {
	var out io.Writer = os.Stdout
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	l := zerolog.New(out).With().Timestamp().Logger()

	zLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		zLevel = zerolog.InfoLevel
	}
	l = l.Level(zLevel)

	return &ZeroLogger{zlog: &l}
}

// NewWithWriter creates a ZeroLogger writing to an arbitrary writer,
// mainly for capturing output in tests.
func NewWithWriter(level string, out io.Writer) *ZeroLogger {
	l := zerolog.New(out).With().Timestamp().Logger()

	zLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		zLevel = zerolog.InfoLevel
	}
	l = l.Level(zLevel)

	return &ZeroLogger{zlog: &l}
}

// WithFields returns a logger with fields attached to every entry.
func (l *ZeroLogger) WithFields(fields map[string]any) Logger {
	log := l.zlog.With().Fields(fields).Logger()
	return &ZeroLogger{zlog: &log}
}

// Info creates an info-level log event.
func (l *ZeroLogger) Info() LogEvent { return &event{e: l.zlog.Info()} }

// Error creates an error-level log event.
func (l *ZeroLogger) Error() LogEvent { return &event{e: l.zlog.Error()} }

// Debug creates a debug-level log event.
func (l *ZeroLogger) Debug() LogEvent { return &event{e: l.zlog.Debug()} }

// Warn creates a warning-level log event.
func (l *ZeroLogger) Warn() LogEvent { return &event{e: l.zlog.Warn()} }

// event adapts a zerolog event to the LogEvent interface.
type event struct {
	e *zerolog.Event
}

func (ev *event) Msg(msg string) { ev.e.Msg(msg) }

func (ev *event) Msgf(f string, args ...any) { ev.e.Msgf(f, args...) }

func (ev *event) Err(err error) LogEvent { return &event{e: ev.e.Err(err)} }

func (ev *event) Str(k, v string) LogEvent { return &event{e: ev.e.Str(k, v)} }

func (ev *event) Int(k string, v int) LogEvent { return &event{e: ev.e.Int(k, v)} }

func (ev *event) Int64(k string, v int64) LogEvent {
	return &event{e: ev.e.Int64(k, v)}
}
func (ev *event) Dur(k string, d time.Duration) LogEvent {
	return &event{e: ev.e.Dur(k, d)}
}

func (ev *event) Interface(k string, i any) LogEvent {
	return &event{e: ev.e.Interface(k, i)}
}

func (ev *event) Bytes(k string, v []byte) LogEvent {
	return &event{e: ev.e.Bytes(k, v)}
}
