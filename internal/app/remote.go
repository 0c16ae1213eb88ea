package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cristianoliveira/nvr/internal/autostart"
	"github.com/cristianoliveira/nvr/internal/colors"
	"github.com/cristianoliveira/nvr/internal/endpoint"
	"github.com/cristianoliveira/nvr/internal/intent"
	"github.com/cristianoliveira/nvr/internal/logging"
	"github.com/cristianoliveira/nvr/internal/ports"
	"github.com/cristianoliveira/nvr/internal/session"
	"github.com/cristianoliveira/nvr/internal/translate"
	"github.com/cristianoliveira/nvr/internal/wait"
)

// RemoteUseCase drives one invocation: resolve the endpoint, connect or
// autostart, run the translated operations, then wait if asked to.
type RemoteUseCase struct {
	dialer   ports.Dialer
	spawner  ports.Spawner
	registry ports.ServerRegistry
	out      io.Writer
}

// NewRemoteUseCase creates the remote use-case. registry may be nil.
func NewRemoteUseCase(dialer ports.Dialer, spawner ports.Spawner, registry ports.ServerRegistry, out io.Writer) *RemoteUseCase {
	if dialer == nil {
		panic("NewRemoteUseCase: dialer dependency cannot be nil")
	}
	if spawner == nil {
		panic("NewRemoteUseCase: spawner dependency cannot be nil")
	}
	if out == nil {
		panic("NewRemoteUseCase: output writer cannot be nil")
	}
	return &RemoteUseCase{dialer: dialer, spawner: spawner, registry: registry, out: out}
}

// RemoteInput contains everything one invocation needs.
type RemoteInput struct {
	Intent intent.Intent
	// ServerName is the --servername value.
	ServerName string
	// EnvAddress is the value of NVIM_LISTEN_ADDRESS.
	EnvAddress string
	Autostart  autostart.Config
}

// Execute runs the invocation. Results are written to the use-case's
// output; the returned error carries the exit classification.
func (u *RemoteUseCase) Execute(ctx context.Context, input RemoteInput) error {
	sess, err := u.open(ctx, input)
	if err != nil {
		return err
	}
	defer sess.Close()

	log := logging.GetGlobal().With("address", sess.Endpoint().Address)
	log.Info("session open")

	coord := wait.New(sess)
	if input.Intent.Wait && input.Intent.HasFiles() {
		if err := coord.Subscribe(); err != nil {
			return err
		}
	}

	ops := translate.Translate(input.Intent)
	log.Debug("translated intent", "operations", len(ops))
	executor := translate.NewExecutor(sess, u.out, translate.WithOnOpen(coord.Track))
	if err := executor.Run(ctx, ops); err != nil {
		return err
	}

	if coord.State() == wait.StateWaiting {
		log.Info("waiting for buffers", "pending", coord.Pending())
	}
	return coord.Wait(ctx)
}

// open connects to the configured endpoint, falling back to autostart when
// permitted.
func (u *RemoteUseCase) open(ctx context.Context, input RemoteInput) (*session.Session, error) {
	res, err := endpoint.Resolve(endpoint.Config{
		Explicit:    input.ServerName,
		Environment: input.EnvAddress,
		Autostart:   input.Intent.Autostart,
	})
	if err != nil {
		return nil, err
	}

	if res.Found() {
		sess, err := session.Connect(ctx, u.dialer, res.Endpoint)
		if err == nil {
			return sess, nil
		}
		if !input.Intent.Autostart {
			return nil, err
		}
		colors.StructuredWarn("app", "connect", "failed", err, res.Endpoint.Address, colors.Fields{
			"source": res.Source.String(),
		})
		if !input.Intent.Silent {
			colors.Warning(fmt.Sprintf("Can't connect to %s (from %s).", res.Endpoint.Address, res.Source))
		}
	}

	if !input.Intent.Silent {
		colors.Info("Starting a new nvim process.")
	}
	fallback := autostart.New(input.Autostart, u.spawner, func(ctx context.Context, ep endpoint.Endpoint) (*session.Session, error) {
		return session.Connect(ctx, u.dialer, ep)
	})
	started, err := fallback.Start(ctx)
	if err != nil {
		return nil, err
	}
	if !input.Intent.Silent {
		colors.Info("Started nvim at " + started.Endpoint.Address)
	}
	u.record(ctx, started)
	return started.Session, nil
}

func (u *RemoteUseCase) record(ctx context.Context, started autostart.Result) {
	if u.registry == nil {
		return
	}
	rec := ports.ServerRecord{Address: started.Endpoint.Address, PID: started.PID, StartedAt: time.Now()}
	if err := u.registry.Record(ctx, rec); err != nil {
		colors.Debug(fmt.Sprintf("registry: %v", err))
	}
}
