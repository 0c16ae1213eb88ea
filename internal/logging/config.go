// Package logging provides structured file logging for nvr invocations.
package logging

import (
	"os"
	"path/filepath"

	"github.com/cristianoliveira/nvr/internal/config"
)

// filePrefix is shared by log file names and rotation.
const filePrefix = "nvr_"

// Config holds logging configuration.
type Config struct {
	// Enabled determines whether logging is active.
	Enabled bool
	// Level is the minimum log level to record.
	Level string
	// MaxFiles is the maximum number of log files to retain.
	MaxFiles int
	// StateDir is the base directory; logs go to StateDir/logs.
	StateDir string
	// Command is the name of the command being executed.
	Command string
	// PID is the process ID.
	PID int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Enabled:  false,
		Level:    "info",
		MaxFiles: 10,
		Command:  filepath.Base(os.Args[0]),
		PID:      os.Getpid(),
	}
}

// FromGlobalConfig creates a logging Config from the loaded configuration.
// Debug mode forces the debug level.
func FromGlobalConfig() Config {
	cfg := DefaultConfig()
	cfg.Enabled = config.GetBool("logging_enabled", false)
	cfg.Level = config.Get("logging_level", "info")
	cfg.MaxFiles = config.GetInt("logging_max_files", 10)
	cfg.StateDir = config.Get("state_dir", "")
	if config.GetBool("debug", false) {
		cfg.Level = "debug"
	}
	return cfg
}

// LogDir returns {stateDir}/logs when it can be written to, otherwise
// {os.TempDir()}/nvr/logs.
func LogDir(stateDir string) (string, error) {
	candidates := []string{filepath.Join(os.TempDir(), "nvr", "logs")}
	if stateDir != "" {
		candidates = append([]string{filepath.Join(stateDir, "logs")}, candidates...)
	}
	var lastErr error
	for _, dir := range candidates {
		if lastErr = writable(dir); lastErr == nil {
			return dir, nil
		}
	}
	return "", lastErr
}

// writable creates dir if needed and proves a file can be created in it.
func writable(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return err
	}
	probe.Close()
	return os.Remove(probe.Name())
}
