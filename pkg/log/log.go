package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"
)

// Logger is a named logger with level helpers.
type Logger struct {
	name     string
	std      *log.Logger
	warnOnce sync.Once
}

// writerHolder keeps atomic.Value storing a single concrete type no matter
// which io.Writer is configured.
type writerHolder struct {
	w io.Writer
}

var (
	globalDebug  atomic.Bool
	serviceDebug sync.Map // map[string]*atomic.Bool
	loggers      sync.Map // map[string]*Logger
	outputWriter atomic.Value
)

func init() {
	outputWriter.Store(writerHolder{w: os.Stderr})
}

// ForService returns the memoized logger for name.
func ForService(name string) *Logger {
	if name == "" {
		name = "unknown"
	}
	if l, ok := loggers.Load(name); ok {
		return l.(*Logger)
	}
	current := outputWriter.Load().(writerHolder).w
	std := log.New(current, "", log.LstdFlags|log.Lmicroseconds)
	actual, _ := loggers.LoadOrStore(name, &Logger{name: name, std: std})
	return actual.(*Logger)
}

// SetGlobalDebug enables or disables debug logging for every logger.
func SetGlobalDebug(enabled bool) {
	globalDebug.Store(enabled)
}

// GlobalDebug reports whether global debug logging is enabled.
func GlobalDebug() bool {
	return globalDebug.Load()
}

// EnableDebugFor enables debug logging for a single logger.
func EnableDebugFor(name string) {
	if name == "" {
		return
	}
	val, _ := serviceDebug.LoadOrStore(name, &atomic.Bool{})
	val.(*atomic.Bool).Store(true)
}

// DisableDebugFor reverts EnableDebugFor.
func DisableDebugFor(name string) {
	if name == "" {
		return
	}
	if val, ok := serviceDebug.Load(name); ok {
		val.(*atomic.Bool).Store(false)
	}
}

// DebugEnabledFor reports whether debug output is enabled for name, either
// globally or specifically.
func DebugEnabledFor(name string) bool {
	if globalDebug.Load() {
		return true
	}
	if val, ok := serviceDebug.Load(name); ok {
		return val.(*atomic.Bool).Load()
	}
	return false
}

// SetOutput routes every logger, existing and future, to w.
func SetOutput(w io.Writer) {
	if w == nil {
		return
	}
	outputWriter.Store(writerHolder{w: w})
	loggers.Range(func(_, v any) bool {
		v.(*Logger).std.SetOutput(w)
		return true
	})
}

// Name returns the logger name.
func (l *Logger) Name() string {
	return l.name
}

func (l *Logger) prefix() string {
	return "[" + l.name + ">]"
}

func (l *Logger) logInternal(level string, msg string) {
	if level != "" {
		level = level + " "
	}
	l.std.Println(level + l.prefix() + " " + msg)
}

// Infof logs an informational message.
func (l *Logger) Infof(format string, args ...any) {
	l.logInternal(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf logs a warning. The first warning of each logger is preceded by a
// marker line.
func (l *Logger) Warnf(format string, args ...any) {
	l.warnOnce.Do(func() {
		l.logInternal(LevelWarn, "warnings active for this logger")
	})
	l.logInternal(LevelWarn, fmt.Sprintf(format, args...))
}

// Warningf is Warnf under the name the Badger logger interface uses.
func (l *Logger) Warningf(format string, args ...any) {
	l.Warnf(format, args...)
}

// Errorf logs an error message.
func (l *Logger) Errorf(format string, args ...any) {
	l.logInternal(LevelError, fmt.Sprintf(format, args...))
}

// Debugf logs only when debug is enabled for this logger.
func (l *Logger) Debugf(format string, args ...any) {
	if !DebugEnabledFor(l.name) {
		return
	}
	l.logInternal(LevelDebug, fmt.Sprintf(format, args...))
}

// Level names.
const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
	LevelDebug = "DEBUG"
)
