package cmd

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/cristianoliveira/nvr/internal/config"
	"github.com/cristianoliveira/nvr/internal/intent"
	"github.com/stretchr/testify/assert"
)

func TestSettingsFromConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("NVR_CONFIG_PATH", "")
	t.Setenv("NVR_CONFIG_DIR", filepath.Join(dir, "config", "nvr"))
	t.Setenv("NVR_STATE_DIR", filepath.Join(dir, "state", "nvr"))
	t.Setenv("NVR_SILENT", "false")
	t.Setenv("NVR_REGISTRY_ENABLED", "true")
	t.Setenv("NVR_AUTOSTART_COMMAND", "nvim --headless")
	t.Setenv("NVR_AUTOSTART_RETRIES", "50")
	t.Setenv("NVR_AUTOSTART", "off")
	t.Setenv("NVR_DEFAULT_LAYOUT", "vsplit")
	t.Setenv("NVR_AUTOSTART_INTERVAL_MS", "25")
	t.Setenv("NVR_DIAL_TIMEOUT_MS", "750")
	config.Load()

	s := SettingsFromConfig()

	assert.False(t, s.AutostartEnabled)
	assert.False(t, s.Silent)
	assert.Equal(t, intent.LayoutVSplit, s.DefaultLayout)
	assert.Equal(t, "nvim --headless", s.Autostart.Command)
	assert.Equal(t, 50, s.Autostart.Retries)
	assert.Equal(t, 25*time.Millisecond, s.Autostart.Interval)
	assert.Equal(t, 750*time.Millisecond, s.DialTimeout)
	assert.True(t, s.RegistryEnabled)
	assert.Equal(t, filepath.Join(dir, "state", "nvr"), s.StateDir)
}

func TestOpenRegistryDisabled(t *testing.T) {
	reg, closeFn := openRegistry(Settings{RegistryEnabled: false, StateDir: t.TempDir()})
	assert.Nil(t, reg)
	assert.NoError(t, closeFn())
}

func TestOpenRegistryInStateDir(t *testing.T) {
	reg, closeFn := openRegistry(Settings{RegistryEnabled: true, StateDir: t.TempDir()})
	assert.NotNil(t, reg)
	assert.NoError(t, closeFn())
}
