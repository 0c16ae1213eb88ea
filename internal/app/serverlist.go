package app

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/cristianoliveira/nvr/internal/colors"
	"github.com/cristianoliveira/nvr/internal/endpoint"
	"github.com/cristianoliveira/nvr/internal/ports"
)

// DefaultProbeTimeout bounds each liveness check of a listed server.
const DefaultProbeTimeout = 500 * time.Millisecond

// ServerListUseCase prints the addresses of reachable editors.
type ServerListUseCase struct {
	dialer   ports.Dialer
	registry ports.ServerRegistry
	out      io.Writer
}

// NewServerListUseCase creates the server list use-case. registry may be nil.
func NewServerListUseCase(dialer ports.Dialer, registry ports.ServerRegistry, out io.Writer) *ServerListUseCase {
	if dialer == nil {
		panic("NewServerListUseCase: dialer dependency cannot be nil")
	}
	if out == nil {
		panic("NewServerListUseCase: output writer cannot be nil")
	}
	return &ServerListUseCase{dialer: dialer, registry: registry, out: out}
}

// ServerListInput selects where to look for sockets.
type ServerListInput struct {
	// Dirs are searched for Neovim sockets, typically $XDG_RUNTIME_DIR and $TMPDIR.
	Dirs         []string
	ProbeTimeout time.Duration
}

// Execute prints one reachable address per line, sorted. Registry rows
// whose server no longer answers are removed.
func (u *ServerListUseCase) Execute(ctx context.Context, input ServerListInput) error {
	timeout := input.ProbeTimeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	live := make(map[string]struct{})
	for _, ep := range endpoint.Discover(input.Dirs...) {
		if u.alive(ctx, ep, timeout) {
			live[ep.Address] = struct{}{}
		}
	}

	if u.registry != nil {
		records, err := u.registry.List(ctx)
		if err != nil {
			colors.Debug(fmt.Sprintf("registry: list: %v", err))
		}
		for _, rec := range records {
			if _, ok := live[rec.Address]; ok {
				continue
			}
			ep, err := endpoint.Parse(rec.Address)
			if err == nil && u.alive(ctx, ep, timeout) {
				live[ep.Address] = struct{}{}
				continue
			}
			if err := u.registry.Remove(ctx, rec.Address); err != nil {
				colors.Debug(fmt.Sprintf("registry: prune %s: %v", rec.Address, err))
			}
		}
	}

	addresses := make([]string, 0, len(live))
	for address := range live {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)
	for _, address := range addresses {
		if _, err := fmt.Fprintln(u.out, address); err != nil {
			return err
		}
	}
	return nil
}

func (u *ServerListUseCase) alive(ctx context.Context, ep endpoint.Endpoint, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	rpc, err := u.dialer.Dial(ctx, ep.Network(), ep.Address)
	if err != nil {
		return false
	}
	_ = rpc.Close()
	return true
}
