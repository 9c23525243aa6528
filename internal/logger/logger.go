// internal/logger/logger.go
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Log levels
const (
	LevelDebug = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	level    = LevelInfo
	mu       sync.RWMutex
	debugLog = log.New(os.Stderr, "[DEBUG] ", log.LstdFlags)
	infoLog  = log.New(os.Stderr, "[INFO] ", log.LstdFlags)
	warnLog  = log.New(os.Stderr, "[WARN] ", log.LstdFlags)
	errorLog = log.New(os.Stderr, "[ERROR] ", log.LstdFlags)
)

// SetOutput sets the output for all loggers
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	debugLog.SetOutput(w)
	infoLog.SetOutput(w)
	warnLog.SetOutput(w)
	errorLog.SetOutput(w)
}

// SetLevel sets the log level. Unknown names fall back to info.
func SetLevel(levelStr string) {
	mu.Lock()
	defer mu.Unlock()

	level = ParseLevel(levelStr)
}

// ParseLevel maps a level name to its constant
func ParseLevel(levelStr string) int {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func enabled(l int) bool {
	mu.RLock()
	defer mu.RUnlock()
	return level <= l
}

// Debug logs a debug message
func Debug(format string, v ...interface{}) {
	if enabled(LevelDebug) {
		debugLog.Output(2, fmt.Sprintf(format, v...))
	}
}

// Info logs an info message
func Info(format string, v ...interface{}) {
	if enabled(LevelInfo) {
		infoLog.Output(2, fmt.Sprintf(format, v...))
	}
}

// Warn logs a warning message
func Warn(format string, v ...interface{}) {
	if enabled(LevelWarn) {
		warnLog.Output(2, fmt.Sprintf(format, v...))
	}
}

// Error logs an error message
func Error(format string, v ...interface{}) {
	if enabled(LevelError) {
		errorLog.Output(2, fmt.Sprintf(format, v...))
	}
}

// Tagged prefixes every message with a component tag, e.g. "ExifDataCopier: ...".
type Tagged struct {
	tag string
}

// WithTag returns a logger that prefixes messages with tag
func WithTag(tag string) Tagged {
	return Tagged{tag: tag}
}

func (t Tagged) format(format string, v []interface{}) string {
	return t.tag + ": " + fmt.Sprintf(format, v...)
}

// Debug logs a tagged debug message
func (t Tagged) Debug(format string, v ...interface{}) {
	if enabled(LevelDebug) {
		debugLog.Output(2, t.format(format, v))
	}
}

// Info logs a tagged info message
func (t Tagged) Info(format string, v ...interface{}) {
	if enabled(LevelInfo) {
		infoLog.Output(2, t.format(format, v))
	}
}

// Warn logs a tagged warning
func (t Tagged) Warn(format string, v ...interface{}) {
	if enabled(LevelWarn) {
		warnLog.Output(2, t.format(format, v))
	}
}

// Error logs a tagged error
func (t Tagged) Error(format string, v ...interface{}) {
	if enabled(LevelError) {
		errorLog.Output(2, t.format(format, v))
	}
}
