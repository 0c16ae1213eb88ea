// Package nvim adapts github.com/neovim/go-client to the RPC port used by sessions.
package nvim

import "time"

const (
	// DefaultDialTimeout bounds how long establishing a connection may take.
	DefaultDialTimeout = 2 * time.Second
)

// DialerOption is a functional option for configuring a Dialer.
type DialerOption func(*Dialer)

// WithDialTimeout sets the connection timeout.
func WithDialTimeout(timeout time.Duration) DialerOption {
	return func(d *Dialer) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithLogf routes go-client diagnostics to logf.
func WithLogf(logf func(format string, args ...interface{})) DialerOption {
	return func(d *Dialer) {
		d.logf = logf
	}
}
