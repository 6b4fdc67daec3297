package log

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/muesli/termenv"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	// LevelSilent disables all output.
	LevelSilent
)

var (
	colorPrefixes = map[Level]string{
		LevelDebug: "\033[37m[DBG]\033[0m", // White
		LevelInfo:  "\033[36m[INF]\033[0m", // Cyan
		LevelWarn:  "\033[33m[WRN]\033[0m", // Yellow
		LevelError: "\033[31m[ERR]\033[0m", // Red
	}
	plainPrefixes = map[Level]string{
		LevelDebug: "[DBG]",
		LevelInfo:  "[INF]",
		LevelWarn:  "[WRN]",
		LevelError: "[ERR]",
	}
)

// Logger writes leveled, prefixed messages to a single writer.
//
// A Logger is passed explicitly to the components that need it. The zero
// value is not usable; create one with New.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	name   string
	level  Level
	colors bool
}

// New creates a logger writing to out at the warning level.
//
// Colored prefixes are enabled only if out is a terminal that supports
// ANSI colors.
func New(out io.Writer) *Logger {
	return &Logger{
		out:    out,
		level:  LevelWarn,
		colors: supportsColor(out),
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{out: io.Discard, level: LevelSilent}
}

func supportsColor(out io.Writer) bool {
	if _, ok := out.(*os.File); !ok {
		return false
	}
	return termenv.NewOutput(out).EnvColorProfile() != termenv.Ascii
}

// Named returns a copy of the logger that prefixes messages with name.
func (l *Logger) Named(name string) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &Logger{out: l.out, name: name, level: l.level, colors: l.colors}
}

// SetLevel sets the minimum level that is written.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetVerbose enables debug output when v is true and restores the
// warning level otherwise.
func (l *Logger) SetVerbose(v bool) {
	if v {
		l.SetLevel(LevelDebug)
	} else {
		l.SetLevel(LevelWarn)
	}
}

// SetColors overrides color detection.
func (l *Logger) SetColors(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.colors = enabled
}

// IsVerbose returns true if debug messages are written.
func (l *Logger) IsVerbose() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level <= LevelDebug
}

// Debugf logs a debug message.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logMessage(LevelDebug, format, args...)
}

// Infof logs an info message.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.logMessage(LevelInfo, format, args...)
}

// Warnf logs a warning message.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.logMessage(LevelWarn, format, args...)
}

// Errorf logs an error message.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logMessage(LevelError, format, args...)
}

// logMessage formats and writes a log message with the specified log level.
func (l *Logger) logMessage(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	prefix := plainPrefixes[level]
	if l.colors {
		prefix = colorPrefixes[level]
	}

	message := fmt.Sprintf(format, args...)
	output := prefix + " "
	if l.name != "" {
		output += l.name + ": "
	}
	output += message + "\n"

	_, _ = io.WriteString(l.out, output)
}
