package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("NVR_CONFIG_PATH", "")
	return dir
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config", "nvr", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAndGet(t *testing.T) {
	isolate(t)
	Load()

	assert.Equal(t, "default", Get("missing", "default"))
	assert.True(t, GetBool("autostart", false))
	assert.Equal(t, 50, GetInt("autostart_retries", 0))
	assert.Equal(t, "nvim --headless", Get("autostart_command", ""))
	assert.Equal(t, "edit", Get("default_layout", ""))
}

func TestDefaultsFollowXDG(t *testing.T) {
	dir := isolate(t)
	Load()

	assert.Equal(t, filepath.Join(dir, "config", "nvr"), Get("config_dir", ""))
	assert.Equal(t, filepath.Join(dir, "state", "nvr"), Get("state_dir", ""))
}

func TestFileOverridesDefaults(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "autostart = false\nautostart_retries = 7\ndefault_layout = \"tab\"\n")

	Load()

	assert.False(t, GetBool("autostart", true))
	assert.Equal(t, 7, GetInt("autostart_retries", 0))
	assert.Equal(t, "tab", Get("default_layout", ""))
}

func TestEnvironmentWinsOverFile(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "autostart_retries = 7\n")
	t.Setenv("NVR_AUTOSTART_RETRIES", "3")

	Load()

	assert.Equal(t, 3, GetInt("autostart_retries", 0))
}

func TestExplicitConfigPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("autostart_command = \"nvim --clean --headless\"\n"), 0o644))
	t.Setenv("NVR_CONFIG_PATH", path)

	Load()

	assert.Equal(t, "nvim --clean --headless", Get("autostart_command", ""))
	assert.Equal(t, "", Get("config_path", ""))
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("NVR_AUTOSTART_RETRIES", "-1")
	t.Setenv("NVR_DEFAULT_LAYOUT", "diagonal")
	t.Setenv("NVR_AUTOSTART", "maybe")
	t.Setenv("NVR_AUTOSTART_COMMAND", "   ")

	Load()

	assert.Equal(t, 50, GetInt("autostart_retries", 0))
	assert.Equal(t, "edit", Get("default_layout", ""))
	assert.True(t, GetBool("autostart", false))
	assert.Equal(t, "nvim --headless", Get("autostart_command", ""))
}

func TestBoolNormalization(t *testing.T) {
	isolate(t)
	t.Setenv("NVR_SILENT", "Yes")
	t.Setenv("NVR_REGISTRY_ENABLED", "off")

	Load()

	assert.Equal(t, "true", Get("silent", ""))
	assert.False(t, GetBool("registry_enabled", true))
}

func TestMalformedFileIsIgnored(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "autostart = [unterminated\n")

	Load()

	assert.True(t, GetBool("autostart", false))
}

func TestUnknownFileKeysAreIgnored(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "colorscheme = \"desert\"\nsilent = true\n")

	Load()

	assert.Equal(t, "fallback", Get("colorscheme", "fallback"))
	assert.True(t, GetBool("silent", false))
}

func TestConfigDirFromEnvironmentLocatesFile(t *testing.T) {
	dir := isolate(t)
	custom := filepath.Join(dir, "elsewhere")
	require.NoError(t, os.MkdirAll(custom, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(custom, FileName), []byte("dial_timeout_ms = 750\n"), 0o644))
	t.Setenv("NVR_CONFIG_DIR", custom)

	Load()

	assert.Equal(t, 750, GetInt("dial_timeout_ms", 0))
}

func TestEveryKeyHasADefault(t *testing.T) {
	isolate(t)
	Load()

	for _, s := range settings {
		assert.NotEmpty(t, Get(s.name, ""), s.name)
	}
}
