package translate

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cristianoliveira/nvr/internal/colors"
	nvrerrors "github.com/cristianoliveira/nvr/internal/errors"
	"github.com/cristianoliveira/nvr/internal/logging"
	"github.com/cristianoliveira/nvr/internal/session"
)

// Caller is the part of a session the executor needs.
type Caller interface {
	Call(method string, args ...interface{}) (session.Value, error)
	Notify(method string, args ...interface{}) error
}

// tolerated are remote errors on a file open that do not stop the run:
// E37 (no write since last change) and E325 (swap file exists).
var tolerated = []string{"E37:", "E325:"}

// Executor issues operations in order over one session.
type Executor struct {
	caller Caller
	out    io.Writer
	onOpen func() error
	warn   func(...string)
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithOnOpen sets a hook called after every operation that opens a buffer,
// before the next operation is issued.
func WithOnOpen(fn func() error) ExecutorOption {
	return func(e *Executor) {
		e.onOpen = fn
	}
}

// WithWarn replaces the function used to report tolerated errors.
func WithWarn(fn func(...string)) ExecutorOption {
	return func(e *Executor) {
		e.warn = fn
	}
}

// NewExecutor returns an Executor writing results to out.
func NewExecutor(caller Caller, out io.Writer, opts ...ExecutorOption) *Executor {
	if caller == nil {
		panic("NewExecutor: caller cannot be nil")
	}
	e := &Executor{
		caller: caller,
		out:    out,
		warn:   colors.Warning,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run issues ops one by one. It stops at the first failure; operations
// already issued are not undone.
func (e *Executor) Run(ctx context.Context, ops []Operation) error {
	log := logging.GetGlobal()
	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}

		fields := []any{"index", i, "kind", op.Kind.String(), "method", op.Method}
		if op.Kind == OpKeys {
			fields = append(fields, "keys", op.Args[0])
		}
		log.Debug("issuing operation", fields...)

		opened, err := e.run(op)
		if err != nil {
			log.Error("operation failed", append(fields, "error", err.Error())...)
			colors.StructuredError("translate", "run", "failed", err, "", colors.Fields{
				"index": i, "kind": op.Kind.String(), "method": op.Method,
			})
			return err
		}
		if opened && e.onOpen != nil {
			if err := e.onOpen(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Executor) run(op Operation) (bool, error) {
	switch op.Kind {
	case OpKeys:
		return false, e.caller.Notify(op.Method, op.Args...)
	case OpOutput:
		v, err := e.caller.Call(op.Method, op.Args...)
		if err != nil {
			return false, err
		}
		return false, e.print(trimExecuteOutput(v))
	case OpEval:
		v, err := e.caller.Call(op.Method, op.Args...)
		if err != nil {
			return false, err
		}
		return false, e.print(FormatResult(v))
	default:
		_, err := e.caller.Call(op.Method, op.Args...)
		if err != nil && op.Opens && isTolerated(err) {
			e.warn(fmt.Sprintf("%s: %v", op.Target, err))
			// The buffer is loaded despite the swap file warning.
			return strings.Contains(err.Error(), "E325:"), nil
		}
		return err == nil && op.Opens, err
	}
}

func (e *Executor) print(text string) error {
	if _, err := fmt.Fprintln(e.out, text); err != nil {
		return nvrerrors.New(nvrerrors.KindInternal, "write result", err)
	}
	return nil
}

func isTolerated(err error) bool {
	if nvrerrors.KindOf(err) != nvrerrors.KindRemote {
		return false
	}
	msg := err.Error()
	for _, code := range tolerated {
		if strings.Contains(msg, code) {
			return true
		}
	}
	return false
}
