// Package autostart spawns an editor when none is reachable and connects to it.
package autostart

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianoliveira/nvr/internal/colors"
	"github.com/cristianoliveira/nvr/internal/endpoint"
	nvrerrors "github.com/cristianoliveira/nvr/internal/errors"
	"github.com/cristianoliveira/nvr/internal/ports"
	"github.com/cristianoliveira/nvr/internal/session"
	"github.com/google/shlex"
)

const (
	DefaultCommand  = "nvim --headless"
	DefaultRetries  = 50
	DefaultInterval = 100 * time.Millisecond
)

// Config controls how the editor is started and how long to wait for it.
type Config struct {
	// Command is split with shell quoting rules; "--listen ADDR" is appended.
	Command  string
	Retries  int
	Interval time.Duration
	// SocketDir holds the generated socket. Empty means the temp directory.
	SocketDir string
}

func (c Config) withDefaults() Config {
	if c.Command == "" {
		c.Command = DefaultCommand
	}
	if c.Retries <= 0 {
		c.Retries = DefaultRetries
	}
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	return c
}

// Connector opens a session to an endpoint.
type Connector func(ctx context.Context, ep endpoint.Endpoint) (*session.Session, error)

// Result describes the editor that was started.
type Result struct {
	Session  *session.Session
	Endpoint endpoint.Endpoint
	PID      int
	Attempts int
}

// Fallback starts editors on fresh addresses.
type Fallback struct {
	cfg     Config
	spawner ports.Spawner
	connect Connector
	sleep   func(ctx context.Context, d time.Duration) error
}

// New returns a Fallback. Zero config values take the defaults.
func New(cfg Config, spawner ports.Spawner, connect Connector) *Fallback {
	if spawner == nil {
		panic("autostart.New: spawner cannot be nil")
	}
	if connect == nil {
		panic("autostart.New: connector cannot be nil")
	}
	return &Fallback{
		cfg:     cfg.withDefaults(),
		spawner: spawner,
		connect: connect,
		sleep:   sleepContext,
	}
}

// Argv returns the command line used to start an editor listening on ep.
func (f *Fallback) Argv(ep endpoint.Endpoint) ([]string, error) {
	argv, err := shlex.Split(f.cfg.Command)
	if err != nil {
		return nil, nvrerrors.Configf("invalid autostart_command %q: %v", f.cfg.Command, err)
	}
	if len(argv) == 0 {
		return nil, nvrerrors.Configf("autostart_command is empty")
	}
	return append(argv, "--listen", ep.Address), nil
}

// Start spawns an editor on a generated address and polls until it accepts
// a connection. Spawn failures and an exhausted retry budget are
// AutostartTimeout errors.
func (f *Fallback) Start(ctx context.Context) (Result, error) {
	ep := endpoint.Generate(f.cfg.SocketDir)
	argv, err := f.Argv(ep)
	if err != nil {
		return Result{}, err
	}

	pid, err := f.spawner.Spawn(argv, []string{"NVIM_LISTEN_ADDRESS=" + ep.Address})
	if err != nil {
		return Result{}, nvrerrors.New(nvrerrors.KindAutostartTimeout, "spawn editor", err)
	}
	colors.StructuredInfo("autostart", "spawn", "success", nil, ep.Address, colors.Fields{
		"pid": pid, "argv": argv,
	})

	var lastErr error
	for attempt := 1; attempt <= f.cfg.Retries; attempt++ {
		if err := f.sleep(ctx, f.cfg.Interval); err != nil {
			return Result{}, err
		}
		sess, err := f.connect(ctx, ep)
		if err == nil {
			colors.StructuredDebug("autostart", "connect", "success", nil, ep.Address, colors.Fields{"attempts": attempt})
			return Result{Session: sess, Endpoint: ep, PID: pid, Attempts: attempt}, nil
		}
		lastErr = err
	}

	return Result{}, nvrerrors.New(nvrerrors.KindAutostartTimeout, "wait for editor",
		fmt.Errorf("%s not reachable after %d attempts: %w", ep.Address, f.cfg.Retries, lastErr))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
