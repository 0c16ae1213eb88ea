// Package config provides configuration loading.
//
// Values are layered: built-in defaults, then the TOML config file, then
// NVR_* environment variables. Only the command layer reads configuration;
// lower packages receive explicit values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/cristianoliveira/nvr/internal/colors"
	"github.com/pelletier/go-toml/v2"
)

const (
	// EnvPrefix is the prefix of environment variables that override config keys.
	EnvPrefix = "NVR_"

	// EnvConfigPath points at an explicit config file.
	EnvConfigPath = EnvPrefix + "CONFIG_PATH"

	// FileName is looked up inside config_dir.
	FileName = "config.toml"
)

var (
	mu     sync.RWMutex
	values map[string]string
)

// Load resolves every known key from defaults, the config file and the
// environment. Invalid values are reported and replaced by the default.
func Load() {
	defaults := make(map[string]string, len(settings))
	for _, s := range settings {
		defaults[s.name] = s.fallback()
	}

	// config_dir may itself be overridden, so the environment is consulted
	// before the file is located and again afterwards.
	resolved := make(map[string]string, len(settings))
	for k, v := range defaults {
		resolved[k] = v
	}
	applyEnv(resolved)
	if path := configFile(resolved["config_dir"]); path != "" {
		for k, v := range readFile(path) {
			resolved[k] = v
		}
	}
	applyEnv(resolved)

	for _, s := range settings {
		if s.check == nil {
			continue
		}
		normalized, problem := s.check(resolved[s.name])
		if problem != "" {
			colors.Warning(fmt.Sprintf("invalid %s value %q: %s; using default %q", s.name, resolved[s.name], problem, defaults[s.name]))
			normalized = defaults[s.name]
		}
		resolved[s.name] = normalized
	}

	mu.Lock()
	values = resolved
	mu.Unlock()
}

func applyEnv(dst map[string]string) {
	for _, s := range settings {
		if v, ok := os.LookupEnv(envName(s.name)); ok {
			dst[s.name] = v
		}
	}
}

// configFile returns the explicit NVR_CONFIG_PATH, or config.toml inside
// dir when it exists.
func configFile(dir string) string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}
	if dir == "" {
		return ""
	}
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// readFile decodes a flat TOML table of scalars. Unknown keys and
// non-scalar values are skipped.
func readFile(path string) map[string]string {
	data, err := os.ReadFile(path)
	if err != nil {
		colors.Debug(fmt.Sprintf("unable to read config file %s: %v", path, err))
		return nil
	}
	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		colors.Warning(fmt.Sprintf("unable to parse config file %s: %v", path, err))
		return nil
	}

	out := make(map[string]string, len(raw))
	for key, v := range raw {
		if _, known := lookupSetting(key); !known {
			colors.Debug(fmt.Sprintf("ignoring unknown config key %q in %s", key, path))
			continue
		}
		s, ok := scalarString(v)
		if !ok {
			colors.Warning(fmt.Sprintf("config key %s in %s must be a string, number or boolean", key, path))
			continue
		}
		out[key] = s
	}
	return out
}

func scalarString(v interface{}) (string, bool) {
	switch typed := v.(type) {
	case string:
		return typed, true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(typed), true
	}
	return "", false
}

// Get returns the value of key, or defaultValue when Load has not seen it.
func Get(key, defaultValue string) string {
	mu.RLock()
	defer mu.RUnlock()
	if v, ok := values[key]; ok {
		return v
	}
	return defaultValue
}

// GetInt returns key as an integer, or defaultValue.
func GetInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(Get(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

// GetBool returns key as a boolean, or defaultValue.
func GetBool(key string, defaultValue bool) bool {
	v, problem := checkBool(Get(key, ""))
	if problem != "" {
		return defaultValue
	}
	return v == "true"
}
