package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	clog "github.com/charmbracelet/log"
	"github.com/cristianoliveira/nvr/internal/config"
	"github.com/stretchr/testify/require"
)

func setupTest(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("HOME", tmp)
	config.Load()
	return tmp
}

func enabledConfig(t *testing.T) Config {
	t.Helper()
	t.Setenv("NVR_LOGGING_ENABLED", "true")
	config.Load()
	return FromGlobalConfig()
}

func readLastLine(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.NotEmpty(t, lines)
	return lines[len(lines)-1]
}

func TestConfigFromGlobal(t *testing.T) {
	tmp := setupTest(t)
	t.Setenv("NVR_LOGGING_ENABLED", "true")
	t.Setenv("NVR_LOGGING_LEVEL", "warn")
	t.Setenv("NVR_LOGGING_MAX_FILES", "5")
	config.Load()

	cfg := FromGlobalConfig()
	require.True(t, cfg.Enabled)
	require.Equal(t, "warn", cfg.Level)
	require.Equal(t, 5, cfg.MaxFiles)
	require.Equal(t, filepath.Join(tmp, "nvr"), cfg.StateDir)
	require.Equal(t, os.Getpid(), cfg.PID)
}

func TestDebugForcesDebugLevel(t *testing.T) {
	setupTest(t)
	t.Setenv("NVR_DEBUG", "1")
	t.Setenv("NVR_LOGGING_LEVEL", "error")
	config.Load()

	require.Equal(t, "debug", FromGlobalConfig().Level)
}

func TestLogDir(t *testing.T) {
	tmp := setupTest(t)
	stateDir := config.Get("state_dir", "")
	require.True(t, strings.HasPrefix(stateDir, tmp))

	logDir, err := LogDir(stateDir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(stateDir, "logs"), logDir)
	info, err := os.Stat(logDir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
	require.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}

func TestLogDirFallback(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	logDir, err := LogDir(filepath.Join(blocker, "state"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(logDir, os.TempDir()))
	require.True(t, strings.HasSuffix(logDir, filepath.Join("nvr", "logs")))
}

func TestInitDisabled(t *testing.T) {
	logger, err := Init(Config{Enabled: false})
	require.NoError(t, err)
	require.IsType(t, noopLogger{}, logger)
	logger.Debug("test")
	logger.Info("test")
	logger.Warn("test")
	logger.Error("test")
	require.NoError(t, logger.Shutdown())
}

func TestInitEnabledCreatesFile(t *testing.T) {
	setupTest(t)
	cfg := enabledConfig(t)
	cfg.Command = "nvr remote"

	logger, err := Init(cfg)
	require.NoError(t, err)
	defer logger.Shutdown()

	logDir := filepath.Join(cfg.StateDir, "logs")
	entries, err := os.ReadDir(logDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	fname := entries[0].Name()
	require.True(t, strings.HasPrefix(fname, "nvr_"))
	require.Contains(t, fname, fmt.Sprintf("_PID%d_", os.Getpid()))
	require.True(t, strings.HasSuffix(fname, "_nvr_remote.log"))
	info, err := os.Stat(filepath.Join(logDir, fname))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoggingWritesJSON(t *testing.T) {
	setupTest(t)
	logger, err := Init(enabledConfig(t))
	require.NoError(t, err)

	logger.Info("connected", "endpoint", "/tmp/nvimsocket", "attempt", 2)
	require.NoError(t, logger.Shutdown())

	path := logger.(*fileLogger).sink.path
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(readLastLine(t, path)), &entry))
	require.Equal(t, "info", entry["level"])
	require.Equal(t, "connected", entry["msg"])
	require.Equal(t, float64(os.Getpid()), entry["pid"])
	require.Equal(t, "/tmp/nvimsocket", entry["endpoint"])
	require.Equal(t, float64(2), entry["attempt"])
}

func TestKeystrokesAreRedacted(t *testing.T) {
	setupTest(t)
	logger, err := Init(enabledConfig(t))
	require.NoError(t, err)

	logger.Info("send keys", "keys", ":w !sudo tee %<cr>hunter2<cr>", "password", "x", "method", "nvim_input")
	require.NoError(t, logger.Shutdown())

	line := readLastLine(t, logger.(*fileLogger).sink.path)
	require.Contains(t, line, `"keys":"[REDACTED]"`)
	require.Contains(t, line, `"password":"[REDACTED]"`)
	require.Contains(t, line, `"method":"nvim_input"`)
	require.NotContains(t, line, "hunter2")
}

func TestRedactionEdgeCases(t *testing.T) {
	r := newRedactor()

	require.Equal(t, []any{"PASSWORD", "[REDACTED]"}, r.redact([]any{"PASSWORD", "secret"}))
	require.Equal(t, []any{"api_token", "[REDACTED]"}, r.redact([]any{"api_token", "xyz"}))
	require.Equal(t, []any{"remote.keys", "[REDACTED]"}, r.redact([]any{"remote.keys", "ihello"}))
	require.Equal(t, []any{"apitoken", "xyz"}, r.redact([]any{"apitoken", "xyz"}))
	require.Equal(t, []any{"keystroke", "x"}, r.redact([]any{"keystroke", "x"}))
	require.Equal(t, []any{"password", "[REDACTED]", "extra"}, r.redact([]any{"password", "hidden", "extra"}))
	require.Empty(t, r.redact([]any{}))
}

func TestRotation(t *testing.T) {
	setupTest(t)
	t.Setenv("NVR_LOGGING_MAX_FILES", "2")
	cfg := enabledConfig(t)

	logDir, err := LogDir(cfg.StateDir)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		path := filepath.Join(logDir, fmt.Sprintf("nvr_20250101_12000%d_PID999_test.log", i))
		require.NoError(t, os.WriteFile(path, nil, 0o600))
	}

	logger, err := Init(cfg)
	require.NoError(t, err)
	require.NoError(t, logger.Shutdown())

	for _, gone := range []string{"nvr_20250101_120000_PID999_test.log", "nvr_20250101_120001_PID999_test.log"} {
		_, err = os.Stat(filepath.Join(logDir, gone))
		require.True(t, os.IsNotExist(err), "%s should be rotated away", gone)
	}
	_, err = os.Stat(filepath.Join(logDir, "nvr_20250101_120002_PID999_test.log"))
	require.NoError(t, err)
	entries, err := os.ReadDir(logDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestRotationIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.log"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nvr_a.log"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nvr_b.log"), nil, 0o600))

	require.NoError(t, rotate(dir, 2))

	_, err := os.Stat(filepath.Join(dir, "other.log"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "nvr_b.log"))
	require.NoError(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestLongValuesAreShortened(t *testing.T) {
	r := newRedactor()
	long := strings.Repeat("x", maxValueLen+10)

	got := r.redact([]any{"lines", long, "method", "nvim_buf_set_lines"})

	require.Equal(t, strings.Repeat("x", maxValueLen)+fmt.Sprintf("...(%d bytes)", maxValueLen+10), got[1])
	require.Equal(t, "nvim_buf_set_lines", got[3])
}

func TestGlobalLogger(t *testing.T) {
	setupTest(t)
	require.NoError(t, InitGlobal(enabledConfig(t)))

	fl, ok := GetGlobal().(*fileLogger)
	require.True(t, ok)
	path := fl.sink.path
	require.NotEmpty(t, path)
	GetGlobal().Warn("global warning", "count", 1)
	require.NoError(t, ShutdownGlobal())

	require.Contains(t, readLastLine(t, path), "global warning")
	_, ok = GetGlobal().(noopLogger)
	require.True(t, ok)
}

func TestWith(t *testing.T) {
	setupTest(t)
	logger, err := Init(enabledConfig(t))
	require.NoError(t, err)

	logger.With("endpoint", "127.0.0.1:6666").Info("with context")
	require.NoError(t, logger.Shutdown())

	require.Contains(t, readLastLine(t, logger.(*fileLogger).sink.path), `"endpoint":"127.0.0.1:6666"`)
}

func TestLevelParsing(t *testing.T) {
	require.Equal(t, clog.DebugLevel, parseLevel("debug"))
	require.Equal(t, clog.InfoLevel, parseLevel("info"))
	require.Equal(t, clog.WarnLevel, parseLevel("warn"))
	require.Equal(t, clog.WarnLevel, parseLevel("warning"))
	require.Equal(t, clog.ErrorLevel, parseLevel("error"))
	require.Equal(t, clog.InfoLevel, parseLevel("unknown"))
}

func TestEntriesAfterShutdownAreDropped(t *testing.T) {
	setupTest(t)
	logger, err := Init(enabledConfig(t))
	require.NoError(t, err)
	child := logger.With("address", "/tmp/nvimsocket")

	child.Info("before shutdown")
	require.NoError(t, logger.Shutdown())
	require.NoError(t, child.Shutdown())
	child.Info("after shutdown")

	line := readLastLine(t, logger.(*fileLogger).sink.path)
	require.Contains(t, line, "before shutdown")
	require.NotContains(t, line, "after shutdown")
}
