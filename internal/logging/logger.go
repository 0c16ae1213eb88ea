package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/cristianoliveira/nvr/internal/colors"
)

// Logger is the structured logging interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	// With returns a logger that adds the key-value pairs to every entry.
	With(args ...any) Logger
	// Shutdown closes the log file. Entries logged afterwards are dropped.
	Shutdown() error
}

// sink is the log file shared by a logger and everything derived from it
// with With.
type sink struct {
	mu     sync.Mutex
	clog   *clog.Logger
	file   *os.File
	path   string
	closed bool
}

// fileLogger writes JSON entries through charmbracelet/log.
type fileLogger struct {
	sink   *sink
	fields []any
	redact *redactor
}

// Init opens a per-invocation JSON log file named
// nvr_<timestamp>_PID<pid>_<command>.log. A disabled config yields a no-op
// logger.
func Init(cfg Config) (Logger, error) {
	if !cfg.Enabled {
		return noopLogger{}, nil
	}
	dir, err := LogDir(cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to determine log directory: %w", err)
	}
	if err := rotate(dir, cfg.MaxFiles); err != nil {
		colors.Debug(fmt.Sprintf("log rotation in %s failed: %v", dir, err))
	}

	name := fmt.Sprintf("%s%s_PID%d_%s.log", filePrefix, time.Now().Format("20060102_150405"), cfg.PID, strings.ReplaceAll(cfg.Command, " ", "_"))
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	cl := clog.NewWithOptions(f, clog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339Nano,
		Level:           parseLevel(cfg.Level),
		Formatter:       clog.JSONFormatter,
	}).With("pid", cfg.PID, "command", cfg.Command)

	return &fileLogger{
		sink:   &sink{clog: cl, file: f, path: path},
		redact: newRedactor(),
	}, nil
}

func parseLevel(level string) clog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return clog.DebugLevel
	case "warn", "warning":
		return clog.WarnLevel
	case "error":
		return clog.ErrorLevel
	}
	return clog.InfoLevel
}

func (l *fileLogger) Debug(msg string, args ...any) { l.write(clog.DebugLevel, msg, args) }
func (l *fileLogger) Info(msg string, args ...any)  { l.write(clog.InfoLevel, msg, args) }
func (l *fileLogger) Warn(msg string, args ...any)  { l.write(clog.WarnLevel, msg, args) }
func (l *fileLogger) Error(msg string, args ...any) { l.write(clog.ErrorLevel, msg, args) }

func (l *fileLogger) write(level clog.Level, msg string, args []any) {
	pairs := l.redact.redact(append(append([]any(nil), l.fields...), args...))

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	if l.sink.closed {
		return
	}
	l.sink.clog.Log(level, msg, pairs...)
}

func (l *fileLogger) With(args ...any) Logger {
	return &fileLogger{
		sink:   l.sink,
		fields: append(append([]any(nil), l.fields...), args...),
		redact: l.redact,
	}
}

func (l *fileLogger) Shutdown() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	if l.sink.closed {
		return nil
	}
	l.sink.closed = true
	return l.sink.file.Close()
}

// noopLogger discards everything.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (n noopLogger) With(...any) Logger { return n }
func (noopLogger) Shutdown() error      { return nil }

var (
	globalMu     sync.RWMutex
	globalLogger Logger = noopLogger{}
)

// InitGlobal installs the process-wide logger and mirrors console output into it.
func InitGlobal(cfg Config) error {
	l, err := Init(cfg)
	if err != nil {
		return err
	}
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
	if _, noop := l.(noopLogger); !noop {
		colors.SetLogger(l)
	}
	return nil
}

// GetGlobal returns the process-wide logger.
func GetGlobal() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// ShutdownGlobal closes the process-wide logger and detaches it from console output.
func ShutdownGlobal() error {
	globalMu.Lock()
	l := globalLogger
	globalLogger = noopLogger{}
	globalMu.Unlock()
	colors.SetLogger(nil)
	return l.Shutdown()
}
