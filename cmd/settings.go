/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"time"

	"github.com/cristianoliveira/nvr/internal/autostart"
	"github.com/cristianoliveira/nvr/internal/colors"
	"github.com/cristianoliveira/nvr/internal/config"
	"github.com/cristianoliveira/nvr/internal/intent"
)

// Settings are the configuration values the command layer threads down.
type Settings struct {
	AutostartEnabled bool
	Silent           bool
	DefaultLayout    intent.Layout
	Autostart        autostart.Config
	DialTimeout      time.Duration
	RegistryEnabled  bool
	StateDir         string
}

// SettingsFromConfig reads Settings from the loaded configuration.
func SettingsFromConfig() Settings {
	layout, err := intent.ParseLayout(config.Get("default_layout", "edit"))
	if err != nil {
		colors.Warning(err.Error())
	}
	return Settings{
		AutostartEnabled: config.GetBool("autostart", true),
		Silent:           config.GetBool("silent", false),
		DefaultLayout:    layout,
		Autostart: autostart.Config{
			Command:  config.Get("autostart_command", autostart.DefaultCommand),
			Retries:  config.GetInt("autostart_retries", autostart.DefaultRetries),
			Interval: time.Duration(config.GetInt("autostart_interval_ms", 100)) * time.Millisecond,
		},
		DialTimeout:     time.Duration(config.GetInt("dial_timeout_ms", 2000)) * time.Millisecond,
		RegistryEnabled: config.GetBool("registry_enabled", true),
		StateDir:        config.Get("state_dir", ""),
	}
}
