package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level represents a logging severity level
type Level int

// Log levels from most to least verbose
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
	LevelPanic
)

var levelNames = map[Level]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelFatal: "FATAL",
	LevelPanic: "PANIC",
}

var (
	mu       sync.RWMutex
	level    = LevelInfo
	out      = log.New(os.Stderr, "", log.LstdFlags)
	fileDest *os.File
)

// ParseLevel converts a level name into a Level
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	case "panic":
		return LevelPanic, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %q", s)
	}
}

// SetLevel sets the minimum level that will be logged
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// SetFile mirrors log output to the given file in addition to stderr.
// Passing an empty path disables file logging.
func SetFile(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if fileDest != nil {
		fileDest.Close()
		fileDest = nil
	}
	if path == "" {
		out = log.New(os.Stderr, "", log.LstdFlags)
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	fileDest = f
	out = log.New(io.MultiWriter(os.Stderr, f), "", log.LstdFlags)
	return nil
}

func logAt(l Level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if l < level {
		return
	}
	out.Printf("["+levelNames[l]+"] "+format, args...)
}

// Trace logs at trace level
func Trace(format string, args ...any) { logAt(LevelTrace, format, args...) }

// Debug logs at debug level
func Debug(format string, args ...any) { logAt(LevelDebug, format, args...) }

// Info logs at info level
func Info(format string, args ...any) { logAt(LevelInfo, format, args...) }

// Warn logs at warn level
func Warn(format string, args ...any) { logAt(LevelWarn, format, args...) }

// Error logs at error level
func Error(format string, args ...any) { logAt(LevelError, format, args...) }

// Fatal logs at fatal level and exits
func Fatal(format string, args ...any) {
	logAt(LevelFatal, format, args...)
	os.Exit(1)
}
