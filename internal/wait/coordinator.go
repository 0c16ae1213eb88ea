// Package wait blocks an invocation until the buffers it opened are closed.
package wait

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/nvr/internal/colors"
	nvrerrors "github.com/cristianoliveira/nvr/internal/errors"
	"github.com/cristianoliveira/nvr/internal/session"
)

const (
	// ClosedEvent carries the number of a deleted buffer.
	ClosedEvent = "nvr_buf_closed"
	// ExitEvent carries the editor's exit status.
	ExitEvent = "nvr_editor_exit"
)

// State is the coordinator's position in its lifecycle.
type State int

const (
	// StateIdle means no wait was requested.
	StateIdle State = iota
	// StateSubscribed means close events are being listened for but no
	// buffer has been opened yet.
	StateSubscribed
	// StateWaiting means at least one opened buffer is tracked.
	StateWaiting
	// StateDone means every tracked buffer was closed or the editor exited.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateSubscribed:
		return "subscribed"
	case StateWaiting:
		return "waiting"
	case StateDone:
		return "done"
	default:
		return "idle"
	}
}

// Session is the part of a session the coordinator needs.
type Session interface {
	Call(method string, args ...interface{}) (session.Value, error)
	Subscribe(event string) (*session.Subscription, error)
	ChannelID() (int64, error)
}

// Coordinator tracks opened buffers and waits for their close events.
// It is driven from a single goroutine.
type Coordinator struct {
	sess    Session
	state   State
	channel int64
	group   string
	pending map[int64]struct{}

	closed *session.Subscription
	exit   *session.Subscription
}

// New returns an idle coordinator.
func New(sess Session) *Coordinator {
	if sess == nil {
		panic("wait.New: session cannot be nil")
	}
	return &Coordinator{
		sess:    sess,
		state:   StateIdle,
		pending: make(map[int64]struct{}),
	}
}

// State returns the current state.
func (c *Coordinator) State() State {
	return c.state
}

// Pending returns the number of buffers still open.
func (c *Coordinator) Pending() int {
	return len(c.pending)
}

// Subscribe starts listening for close and exit events. It must run before
// the first file is opened.
func (c *Coordinator) Subscribe() error {
	if c.state != StateIdle {
		return nil
	}

	channel, err := c.sess.ChannelID()
	if err != nil {
		return err
	}
	closed, err := c.sess.Subscribe(ClosedEvent)
	if err != nil {
		return err
	}
	exit, err := c.sess.Subscribe(ExitEvent)
	if err != nil {
		closed.Cancel()
		return err
	}
	c.channel, c.closed, c.exit = channel, closed, exit
	c.group = fmt.Sprintf("nvr_wait_%d", channel)

	for _, cmd := range []string{
		fmt.Sprintf("augroup %s | augroup END", c.group),
		fmt.Sprintf("autocmd %s VimLeave * ++once silent! call rpcnotify(%d, '%s', v:exiting)",
			c.group, channel, ExitEvent),
	} {
		if _, err := c.sess.Call("nvim_command", cmd); err != nil {
			c.cancel()
			return err
		}
	}

	c.state = StateSubscribed
	colors.StructuredDebug("wait", "subscribe", "success", nil, "", colors.Fields{"channel": channel})
	return nil
}

// Track adds the current buffer to the wait set. Buffers already tracked
// are ignored so reopening a file never adds a second entry.
func (c *Coordinator) Track() error {
	if c.state != StateSubscribed && c.state != StateWaiting {
		return nil
	}

	v, err := c.sess.Call("nvim_eval", "bufnr('%')")
	if err != nil {
		return err
	}
	bufnr, ok := v.AsInt()
	if !ok {
		return nvrerrors.Remote("nvim_eval", fmt.Errorf("bufnr returned a %s", v.Kind))
	}
	if _, tracked := c.pending[bufnr]; tracked {
		return nil
	}

	cmd := fmt.Sprintf("autocmd %s BufDelete <buffer=%d> ++once silent! call rpcnotify(%d, '%s', %d)",
		c.group, bufnr, c.channel, ClosedEvent, bufnr)
	if _, err := c.sess.Call("nvim_command", cmd); err != nil {
		return err
	}

	c.pending[bufnr] = struct{}{}
	c.state = StateWaiting
	colors.StructuredDebug("wait", "track", "success", nil, "", colors.Fields{"buffer": bufnr, "pending": len(c.pending)})
	return nil
}

// Wait blocks until every tracked buffer is closed, the editor exits, or ctx
// is cancelled. A non-zero editor exit status is returned as
// *errors.ExitStatus.
func (c *Coordinator) Wait(ctx context.Context) error {
	switch c.state {
	case StateIdle, StateDone:
		return nil
	case StateSubscribed:
		c.finish(true)
		return nil
	}

	exitC := c.exit.C()
	for len(c.pending) > 0 {
		select {
		case ev, ok := <-c.closed.C():
			if !ok {
				colors.Debug("wait: connection closed while waiting")
				return c.drainExit()
			}
			c.handleClosed(ev)
		case ev, ok := <-exitC:
			if !ok {
				exitC = nil
				continue
			}
			return c.exited(ev)
		case <-ctx.Done():
			c.finish(true)
			return ctx.Err()
		}
	}

	c.finish(true)
	return nil
}

func (c *Coordinator) handleClosed(ev session.Event) {
	if len(ev.Args) == 0 {
		return
	}
	bufnr, ok := ev.Args[0].AsInt()
	if !ok {
		return
	}
	if _, tracked := c.pending[bufnr]; !tracked {
		return
	}
	delete(c.pending, bufnr)
	colors.StructuredDebug("wait", "closed", "success", nil, "", colors.Fields{"buffer": bufnr, "pending": len(c.pending)})
}

func (c *Coordinator) exited(ev session.Event) error {
	c.finish(false)
	code := int64(0)
	if len(ev.Args) > 0 {
		code, _ = ev.Args[0].AsInt()
	}
	colors.StructuredDebug("wait", "exit", "success", nil, "", colors.Fields{"status": code})
	if code != 0 {
		return &nvrerrors.ExitStatus{Code: int(code)}
	}
	return nil
}

// drainExit looks for an exit event delivered before the connection ended.
func (c *Coordinator) drainExit() error {
	if ev, ok := <-c.exit.C(); ok {
		return c.exited(ev)
	}
	c.finish(false)
	return nil
}

// finish moves to Done. When the editor is still there the autocommands
// registered for this channel are removed.
func (c *Coordinator) finish(cleanup bool) {
	c.cancel()
	c.state = StateDone
	if !cleanup || c.group == "" {
		return
	}
	for _, cmd := range []string{"silent! autocmd! " + c.group, "silent! augroup! " + c.group} {
		if _, err := c.sess.Call("nvim_command", cmd); err != nil {
			colors.Debug(fmt.Sprintf("wait: cleanup of %s failed: %v", c.group, err))
			return
		}
	}
}

func (c *Coordinator) cancel() {
	if c.closed != nil {
		c.closed.Cancel()
	}
	if c.exit != nil {
		c.exit.Cancel()
	}
}
