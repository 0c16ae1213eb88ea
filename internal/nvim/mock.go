package nvim

import (
	"context"
	"sync"

	"github.com/cristianoliveira/nvr/internal/ports"
	"github.com/stretchr/testify/mock"
)

// MockClient is a mock implementation of ports.RPC for testing.
// Requests are configured with testify/mock; notification handlers are
// recorded so tests can deliver editor events with Emit.
//
// Example usage:
//
//	m := NewMockClient()
//	m.On("Request", "nvim_eval", []interface{}{"1+1"}).Return(int64(2), nil)
//	m.Emit("nvr_buf_closed", int64(3))
type MockClient struct {
	mock.Mock

	mu       sync.Mutex
	handlers map[string]func(args []interface{})
	done     chan struct{}
	once     sync.Once
}

var _ ports.RPC = (*MockClient)(nil)

// NewMockClient returns a MockClient whose connection is open.
func NewMockClient() *MockClient {
	return &MockClient{
		handlers: make(map[string]func(args []interface{})),
		done:     make(chan struct{}),
	}
}

// Request returns the configured reply. Arguments are matched as one slice.
func (m *MockClient) Request(method string, args ...interface{}) (interface{}, error) {
	ret := m.Called(method, args)
	return ret.Get(0), ret.Error(1)
}

// Notify returns the configured error. Arguments are matched as one slice.
func (m *MockClient) Notify(method string, args ...interface{}) error {
	ret := m.Called(method, args)
	return ret.Error(0)
}

// Handle records fn for Emit.
func (m *MockClient) Handle(event string, fn func(args []interface{})) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[event] = fn
	return nil
}

// Emit delivers a notification to the handler registered for event.
// It reports whether a handler existed.
func (m *MockClient) Emit(event string, args ...interface{}) bool {
	m.mu.Lock()
	fn, ok := m.handlers[event]
	m.mu.Unlock()
	if !ok {
		return false
	}
	fn(args)
	return true
}

// Handles reports whether a handler is registered for event.
func (m *MockClient) Handles(event string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.handlers[event]
	return ok
}

// Done is closed by Disconnect or Close.
func (m *MockClient) Done() <-chan struct{} {
	return m.done
}

// Disconnect simulates the editor going away.
func (m *MockClient) Disconnect() {
	m.once.Do(func() { close(m.done) })
}

// Close disconnects the mock.
func (m *MockClient) Close() error {
	m.Disconnect()
	return nil
}

// MockDialer is a mock implementation of ports.Dialer for testing.
type MockDialer struct {
	mock.Mock
}

var _ ports.Dialer = (*MockDialer)(nil)

// Dial returns the configured connection.
//
//	d.On("Dial", mock.Anything, "unix", "/tmp/nvim.sock").Return(client, nil)
func (m *MockDialer) Dial(ctx context.Context, network, address string) (ports.RPC, error) {
	ret := m.Called(ctx, network, address)
	rpc, _ := ret.Get(0).(ports.RPC)
	return rpc, ret.Error(1)
}
