package nvim

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/cristianoliveira/nvr/internal/colors"
	"github.com/cristianoliveira/nvr/internal/ports"
	goclient "github.com/neovim/go-client/nvim"
)

// Dialer opens msgpack-RPC connections to running editors.
type Dialer struct {
	timeout time.Duration
	logf    func(format string, args ...interface{})
}

var _ ports.Dialer = (*Dialer)(nil)

// NewDialer creates a Dialer with the given options.
func NewDialer(opts ...DialerOption) *Dialer {
	d := &Dialer{
		timeout: DefaultDialTimeout,
		logf:    debugf,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dial connects to address over network ("unix" or "tcp").
func (d *Dialer) Dial(ctx context.Context, network, address string) (ports.RPC, error) {
	switch network {
	case "unix", "tcp":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedNetwork, network)
	}

	nd := net.Dialer{Timeout: d.timeout}
	conn, err := nd.DialContext(ctx, network, address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrDialFailed, network, address, err)
	}

	client, err := NewClient(conn, d.logf)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: %s %s: %v", ErrDialFailed, network, address, err)
	}
	return client, nil
}

// Client implements ports.RPC over a go-client connection.
type Client struct {
	v    *goclient.Nvim
	done chan struct{}

	mu       sync.Mutex
	serveErr error
	closed   bool
}

var _ ports.RPC = (*Client)(nil)

// NewClient starts serving a connection to an editor on rwc.
func NewClient(rwc io.ReadWriteCloser, logf func(format string, args ...interface{})) (*Client, error) {
	if logf == nil {
		logf = debugf
	}
	v, err := goclient.New(rwc, rwc, rwc, logf)
	if err != nil {
		return nil, err
	}

	c := &Client{v: v, done: make(chan struct{})}
	go c.serve()
	return c, nil
}

func (c *Client) serve() {
	err := c.v.Serve()
	c.mu.Lock()
	c.serveErr = err
	c.mu.Unlock()
	close(c.done)
}

// Request sends method and decodes its reply into a generic value.
func (c *Client) Request(method string, args ...interface{}) (interface{}, error) {
	var result interface{}
	if err := c.v.Request(method, &result, args...); err != nil {
		return nil, c.classify(method, err)
	}
	return result, nil
}

// Notify sends method and discards whatever the editor answers.
// Only transport failures are reported.
func (c *Client) Notify(method string, args ...interface{}) error {
	_, err := c.Request(method, args...)
	var remote *RemoteError
	if err != nil && asRemote(err, &remote) {
		colors.Debug(fmt.Sprintf("notify %s ignored remote error: %s", method, remote.Message))
		return nil
	}
	return err
}

// Handle registers fn for the notification named event.
func (c *Client) Handle(event string, fn func(args []interface{})) error {
	return c.v.RegisterHandler(event, func(args ...interface{}) {
		fn(args)
	})
}

// Done is closed once the connection stops serving.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close tears down the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()
	return c.v.Close()
}

func (c *Client) classify(method string, err error) error {
	select {
	case <-c.done:
		c.mu.Lock()
		serveErr := c.serveErr
		c.mu.Unlock()
		if serveErr != nil {
			return fmt.Errorf("%w: %s: %v", ErrConnectionLost, method, serveErr)
		}
		return fmt.Errorf("%w: %s: %v", ErrConnectionLost, method, err)
	default:
	}
	if isTransportError(err) {
		return fmt.Errorf("%w: %s: %v", ErrConnectionLost, method, err)
	}
	return &RemoteError{Method: method, Message: err.Error()}
}

func debugf(format string, args ...interface{}) {
	colors.Debug(fmt.Sprintf("go-client: "+format, args...))
}
