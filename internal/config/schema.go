package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// checker normalizes a raw value. A non-empty problem rejects it.
type checker func(raw string) (normalized string, problem string)

// setting is one recognised configuration key.
type setting struct {
	name     string
	fallback func() string
	check    checker
}

func constant(v string) func() string { return func() string { return v } }

// settings lists every key nvr reads. Keys outside this table are ignored.
var settings = []setting{
	{name: "config_dir", fallback: func() string { return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "nvr") }},
	{name: "state_dir", fallback: func() string { return filepath.Join(xdgDir("XDG_STATE_HOME", ".local", "state"), "nvr") }},
	{name: "autostart", fallback: constant("true"), check: checkBool},
	{name: "autostart_command", fallback: constant("nvim --headless"), check: checkNonBlank},
	{name: "autostart_retries", fallback: constant("50"), check: checkPositive},
	{name: "autostart_interval_ms", fallback: constant("100"), check: checkPositive},
	{name: "dial_timeout_ms", fallback: constant("2000"), check: checkPositive},
	{name: "default_layout", fallback: constant("edit"), check: checkOneOf("edit", "split", "vsplit", "tab")},
	{name: "registry_enabled", fallback: constant("true"), check: checkBool},
	{name: "silent", fallback: constant("false"), check: checkBool},
	{name: "debug", fallback: constant("false"), check: checkBool},
	{name: "logging_enabled", fallback: constant("false"), check: checkBool},
	{name: "logging_level", fallback: constant("info"), check: checkOneOf("debug", "info", "warn", "error")},
	{name: "logging_max_files", fallback: constant("10"), check: checkPositive},
}

func lookupSetting(name string) (setting, bool) {
	for _, s := range settings {
		if s.name == name {
			return s, true
		}
	}
	return setting{}, false
}

// envName maps a key to its override variable, e.g. dial_timeout_ms -> NVR_DIAL_TIMEOUT_MS.
func envName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

func xdgDir(env string, homeRel ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(append([]string{home}, homeRel...)...)
}

func checkBool(raw string) (string, string) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return "true", ""
	case "0", "false", "no", "off":
		return "false", ""
	}
	return "", "must be one of 1, true, yes, on, 0, false, no, off"
}

func checkPositive(raw string) (string, string) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return "", "must be a positive integer"
	}
	return strconv.Itoa(n), ""
}

func checkNonBlank(raw string) (string, string) {
	if strings.TrimSpace(raw) == "" {
		return "", "must not be blank"
	}
	return raw, ""
}

func checkOneOf(allowed ...string) checker {
	sorted := append([]string(nil), allowed...)
	sort.Strings(sorted)
	problem := fmt.Sprintf("must be one of %s", strings.Join(sorted, ", "))
	return func(raw string) (string, string) {
		v := strings.ToLower(strings.TrimSpace(raw))
		for _, a := range allowed {
			if v == a {
				return v, ""
			}
		}
		return "", problem
	}
}
