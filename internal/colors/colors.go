// Package colors provides console output utilities.
//
// Every message written by this package goes to stderr: stdout belongs to
// command and expression results, which callers parse.
package colors

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

// Logger receives a copy of every console message when file logging is on.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var (
	debugEnabled atomic.Bool

	loggerMu sync.RWMutex
	logger   Logger

	// writeMu keeps lines from concurrent goroutines whole.
	writeMu sync.Mutex
)

var renderer = lipgloss.NewRenderer(os.Stderr)

// kind is one console message class.
type kind struct {
	name   string
	prefix string
	style  lipgloss.Style
	// styleBody renders the whole message instead of only the prefix.
	styleBody bool
	mirror    func(Logger, string)
}

var (
	errorKind = kind{
		name: "error", prefix: "Error:",
		style:  renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		mirror: func(l Logger, msg string) { l.Error(msg) },
	}
	warningKind = kind{
		name: "warning", prefix: "Warning:",
		style:  renderer.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		mirror: func(l Logger, msg string) { l.Warn(msg) },
	}
	infoKind = kind{
		name: "info", styleBody: true,
		style:  renderer.NewStyle().Foreground(lipgloss.Color("4")),
		mirror: func(l Logger, msg string) { l.Info(msg) },
	}
	debugKind = kind{
		name: "debug", prefix: "Debug:",
		style:  renderer.NewStyle().Foreground(lipgloss.Color("6")),
		mirror: func(l Logger, msg string) { l.Debug(msg) },
	}
)

func init() {
	if val := os.Getenv("NVR_DEBUG"); val == "true" || val == "1" {
		debugEnabled.Store(true)
	}
}

// SetDebug enables or disables debug output.
func SetDebug(enabled bool) {
	debugEnabled.Store(enabled)
}

// SetLogger mirrors console output into l. A nil l stops mirroring.
func SetLogger(l Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

func currentLogger() Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

func (k kind) print(msgs []string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		k.mirror(l, msg)
	}

	line := k.style.Render(msg)
	if !k.styleBody {
		line = k.style.Render(k.prefix) + " " + msg
	}

	writeMu.Lock()
	defer writeMu.Unlock()
	if _, err := fmt.Fprintln(os.Stderr, line); err != nil {
		// stderr itself failed; nothing styled can be printed anymore.
		fmt.Fprintf(os.Stderr, "failed to print %s message: %v\n", k.name, err)
	}
}

// Error prints msgs with an "Error:" prefix.
func Error(msgs ...string) { errorKind.print(msgs) }

// Warning prints msgs with a "Warning:" prefix.
func Warning(msgs ...string) { warningKind.print(msgs) }

// Info prints msgs as a plain notice, e.g. about autostart.
func Info(msgs ...string) { infoKind.print(msgs) }

// Debug prints msgs only when debug output is on.
func Debug(msgs ...string) {
	if !debugEnabled.Load() {
		return
	}
	debugKind.print(msgs)
}
