package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"
)

// Level represents log severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config or flag value to a Level. Unknown values fall back to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) backend() clog.Level {
	switch l {
	case LevelDebug:
		return clog.DebugLevel
	case LevelWarn:
		return clog.WarnLevel
	case LevelError:
		return clog.ErrorLevel
	default:
		return clog.InfoLevel
	}
}

// Logger wraps a charmbracelet logger writing to a daily file.
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	backend  *clog.Logger
	enabled  bool
	filePath string
}

var (
	defaultMu     sync.RWMutex
	defaultLogger *Logger
)

// Initialize sets up the default logger
func Initialize(logDir string, level Level) error {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return err
	}

	logPath := filepath.Join(logDir, fmt.Sprintf("tabdeck-%s.log", time.Now().Format("2006-01-02")))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	backend := clog.NewWithOptions(file, clog.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05.000",
		Level:           level.backend(),
		Formatter:       clog.TextFormatter,
	})

	defaultMu.Lock()
	defaultLogger = &Logger{
		out:      file,
		backend:  backend,
		enabled:  true,
		filePath: logPath,
	}
	defaultMu.Unlock()
	return nil
}

// SetEnabled enables or disables logging
func SetEnabled(enabled bool) {
	l := current()
	if l == nil {
		return
	}
	l.mu.Lock()
	l.enabled = enabled
	l.mu.Unlock()
}

// SetLevel changes the minimum level of the default logger.
func SetLevel(level Level) {
	l := current()
	if l == nil {
		return
	}
	l.mu.Lock()
	l.backend.SetLevel(level.backend())
	l.mu.Unlock()
}

func current() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

func logf(level Level, format string, args ...interface{}) {
	l := current()
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled {
		return
	}
	switch level {
	case LevelDebug:
		l.backend.Debugf(format, args...)
	case LevelInfo:
		l.backend.Infof(format, args...)
	case LevelWarn:
		l.backend.Warnf(format, args...)
	default:
		l.backend.Errorf(format, args...)
	}
}

// Debug logs a debug message
func Debug(format string, args ...interface{}) {
	logf(LevelDebug, format, args...)
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	logf(LevelInfo, format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	logf(LevelWarn, format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	logf(LevelError, format, args...)
}

// WithError logs an error with context
func WithError(err error, context string) {
	if err != nil {
		logf(LevelError, "%s: %v", context, err)
	}
}

// Close closes the log file
func Close() error {
	defaultMu.Lock()
	l := defaultLogger
	defaultLogger = nil
	defaultMu.Unlock()
	if l == nil {
		return nil
	}
	if closer, ok := l.out.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// GetLogPath returns the current log file path
func GetLogPath() string {
	if l := current(); l != nil {
		return l.filePath
	}
	return ""
}
