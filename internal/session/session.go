// Package session owns the single RPC connection of an invocation.
package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/cristianoliveira/nvr/internal/colors"
	"github.com/cristianoliveira/nvr/internal/endpoint"
	nvrerrors "github.com/cristianoliveira/nvr/internal/errors"
	"github.com/cristianoliveira/nvr/internal/nvim"
	"github.com/cristianoliveira/nvr/internal/ports"
)

// Session is one connection bound to one endpoint. All remote operations of
// an invocation go through it. It is not safe for concurrent callers except
// for event delivery, which happens on the connection's reader.
type Session struct {
	ep  endpoint.Endpoint
	rpc ports.RPC

	mu        sync.Mutex
	subs      map[string][]*Subscription
	handled   map[string]bool
	closed    bool
	channelID int64
}

// Connect opens the connection to ep. Failures are ConnectionErrors and are
// never retried here.
func Connect(ctx context.Context, dialer ports.Dialer, ep endpoint.Endpoint) (*Session, error) {
	rpc, err := dialer.Dial(ctx, ep.Network(), ep.Address)
	if err != nil {
		return nil, nvrerrors.New(nvrerrors.KindConnection, "connect "+ep.Address, err)
	}
	colors.StructuredDebug("session", "connect", "success", nil, ep.Address, colors.Fields{
		"network": ep.Network(),
	})
	return New(ep, rpc), nil
}

// New wraps an already open connection.
func New(ep endpoint.Endpoint, rpc ports.RPC) *Session {
	s := &Session{
		ep:      ep,
		rpc:     rpc,
		subs:    make(map[string][]*Subscription),
		handled: make(map[string]bool),
	}
	go s.watch()
	return s
}

// Endpoint returns the address the session is bound to.
func (s *Session) Endpoint() endpoint.Endpoint {
	return s.ep
}

// Call issues method and waits for its reply. Errors raised by the editor
// are RemoteErrors; a lost connection is a ConnectionError.
func (s *Session) Call(method string, args ...interface{}) (Value, error) {
	reply, err := s.rpc.Request(method, args...)
	if err != nil {
		return Value{}, s.wrap(method, err)
	}
	return ValueOf(reply), nil
}

// Notify issues method without observing the reply. Only transport
// failures are reported.
func (s *Session) Notify(method string, args ...interface{}) error {
	if err := s.rpc.Notify(method, args...); err != nil {
		return nvrerrors.New(nvrerrors.KindConnection, method, err)
	}
	return nil
}

func (s *Session) wrap(method string, err error) error {
	var remote *nvim.RemoteError
	if stderrors.As(err, &remote) {
		return nvrerrors.Remote(method, fmt.Errorf("%s", remote.Message))
	}
	return nvrerrors.New(nvrerrors.KindConnection, method, err)
}

// ChannelID returns the editor-side id of this connection, used as the
// target of rpcnotify().
func (s *Session) ChannelID() (int64, error) {
	s.mu.Lock()
	id := s.channelID
	s.mu.Unlock()
	if id != 0 {
		return id, nil
	}

	info, err := s.Call("nvim_get_api_info")
	if err != nil {
		return 0, err
	}
	if info.Kind != KindList || len(info.List) == 0 {
		return 0, nvrerrors.Remote("nvim_get_api_info", fmt.Errorf("unexpected reply of kind %s", info.Kind))
	}
	id, ok := info.List[0].AsInt()
	if !ok {
		return 0, nvrerrors.Remote("nvim_get_api_info", fmt.Errorf("channel id is a %s", info.List[0].Kind))
	}

	s.mu.Lock()
	s.channelID = id
	s.mu.Unlock()
	return id, nil
}

// Subscribe returns a stream of the events named event, in arrival order.
// The stream ends when the subscription is cancelled or the session closes.
func (s *Session) Subscribe(event string) (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := newSubscription(event, s.remove)
	if s.closed {
		sub.end()
		return sub, nil
	}

	if !s.handled[event] {
		if err := s.rpc.Handle(event, func(args []interface{}) { s.dispatch(event, args) }); err != nil {
			return nil, nvrerrors.New(nvrerrors.KindInternal, "subscribe "+event, err)
		}
		s.handled[event] = true
	}
	s.subs[event] = append(s.subs[event], sub)
	return sub, nil
}

func (s *Session) dispatch(event string, args []interface{}) {
	values := make([]Value, len(args))
	for i, arg := range args {
		values[i] = ValueOf(arg)
	}
	ev := Event{Name: event, Args: values}

	s.mu.Lock()
	subs := append([]*Subscription(nil), s.subs[event]...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.push(ev)
	}
}

func (s *Session) remove(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.subs[sub.name]
	for i, candidate := range list {
		if candidate == sub {
			s.subs[sub.name] = append(list[:i], list[i+1:]...)
			break
		}
	}
}

// watch ends every subscription once the connection goes away.
func (s *Session) watch() {
	<-s.rpc.Done()
	s.endAll()
}

func (s *Session) endAll() {
	s.mu.Lock()
	s.closed = true
	var all []*Subscription
	for _, list := range s.subs {
		all = append(all, list...)
	}
	s.subs = make(map[string][]*Subscription)
	s.mu.Unlock()

	for _, sub := range all {
		sub.end()
	}
}

// Close ends all subscriptions and closes the connection. It never blocks
// on the editor and its error is only logged.
func (s *Session) Close() {
	s.endAll()
	if err := s.rpc.Close(); err != nil {
		colors.Debug(fmt.Sprintf("session: close %s: %v", s.ep.Address, err))
	}
}
