/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/cristianoliveira/nvr/internal/autostart"
	"github.com/cristianoliveira/nvr/internal/colors"
	"github.com/cristianoliveira/nvr/internal/nvim"
	"github.com/cristianoliveira/nvr/internal/ports"
	"github.com/cristianoliveira/nvr/internal/registry"
)

// Deps are the collaborators of the root command.
type Deps struct {
	Settings Settings
	Dialer   ports.Dialer
	Spawner  ports.Spawner
	// OpenRegistry returns the server registry and a close function. A nil
	// registry disables recording.
	OpenRegistry func() (ports.ServerRegistry, func() error)
	Getenv       func(string) string
	Getwd        func() (string, error)
	TempDir      func() string
}

// DefaultDeps wires the real implementations for settings.
func DefaultDeps(settings Settings) Deps {
	return Deps{
		Settings: settings,
		Dialer:   nvim.NewDialer(nvim.WithDialTimeout(settings.DialTimeout)),
		Spawner:  autostart.ExecSpawner{BaseEnv: os.Environ()},
		OpenRegistry: func() (ports.ServerRegistry, func() error) {
			return openRegistry(settings)
		},
		Getenv:  os.Getenv,
		Getwd:   os.Getwd,
		TempDir: os.TempDir,
	}
}

func openRegistry(settings Settings) (ports.ServerRegistry, func() error) {
	noop := func() error { return nil }
	if !settings.RegistryEnabled || settings.StateDir == "" {
		return nil, noop
	}
	reg, err := registry.OpenInStateDir(settings.StateDir)
	if err != nil {
		colors.Debug("registry disabled: " + err.Error())
		return nil, noop
	}
	return reg, reg.Close
}
