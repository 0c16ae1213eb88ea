// Package ports defines application boundary interfaces used by core services.
package ports

import (
	"context"
	"time"
)

// RPC is one msgpack-RPC connection to a running editor.
type RPC interface {
	// Request sends a method call and waits for its reply.
	Request(method string, args ...interface{}) (interface{}, error)
	// Notify sends a method call whose reply, if any, is not observed.
	Notify(method string, args ...interface{}) error
	// Handle registers fn for notifications named event sent by the editor.
	// fn runs on the connection's reader and must not block.
	Handle(event string, fn func(args []interface{})) error
	// Done is closed once the connection is gone.
	Done() <-chan struct{}
	// Close tears the connection down.
	Close() error
}

// Dialer opens an RPC connection to a network address.
type Dialer interface {
	Dial(ctx context.Context, network, address string) (RPC, error)
}

// Spawner starts a detached process.
type Spawner interface {
	Spawn(argv []string, env []string) (pid int, err error)
}

// ServerRecord describes an editor started by autostart.
type ServerRecord struct {
	Address   string
	PID       int
	StartedAt time.Time
}

// ServerRegistry remembers autostarted editors between invocations.
type ServerRegistry interface {
	Record(ctx context.Context, rec ServerRecord) error
	List(ctx context.Context) ([]ServerRecord, error)
	Remove(ctx context.Context, address string) error
}
