package log

import "os"

var std = New(os.Stderr)

// Default returns the process-wide logger used by the entry point.
func Default() *Logger {
	return std
}

// Debugf logs a debug message to the default logger.
func Debugf(format string, args ...interface{}) {
	std.Debugf(format, args...)
}

// Warnf logs a warning message to the default logger.
func Warnf(format string, args ...interface{}) {
	std.Warnf(format, args...)
}

// Errorf logs an error message to the default logger.
func Errorf(format string, args ...interface{}) {
	std.Errorf(format, args...)
}
