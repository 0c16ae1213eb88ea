// Package errors classifies invocation failures and reports them on the CLI.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is the class of a fatal invocation failure.
type Kind int

const (
	// KindInternal covers failures outside the classes below.
	KindInternal Kind = iota
	// KindConfiguration is a conflicting or malformed request, detected before
	// any remote operation runs.
	KindConfiguration
	// KindNoEndpoint means no address was available and autostart was not permitted.
	KindNoEndpoint
	// KindConnection means the resolved endpoint did not accept a connection.
	KindConnection
	// KindAutostartTimeout means a spawned editor never became reachable.
	KindAutostartTimeout
	// KindRemote means the editor rejected or failed a call.
	KindRemote
)

// String returns the name used in messages and logs.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "ConfigurationError"
	case KindNoEndpoint:
		return "NoEndpointConfigured"
	case KindConnection:
		return "ConnectionError"
	case KindAutostartTimeout:
		return "AutostartTimeout"
	case KindRemote:
		return "RemoteError"
	default:
		return "InternalError"
	}
}

// ExitCode returns the process exit status for the kind.
func (k Kind) ExitCode() int {
	switch k {
	case KindConfiguration:
		return 2
	case KindNoEndpoint:
		return 3
	case KindConnection:
		return 4
	case KindAutostartTimeout:
		return 5
	case KindRemote:
		return 6
	default:
		return 1
	}
}

// Error is a classified failure. Op names the step that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		if e.Op == "" {
			return e.Kind.String()
		}
		return e.Op + ": " + e.Kind.String()
	}
	// Remote messages are reported verbatim.
	if e.Kind == KindRemote || e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so sentinel values such as
// ErrNoEndpoint work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrConfiguration    = &Error{Kind: KindConfiguration}
	ErrNoEndpoint       = &Error{Kind: KindNoEndpoint}
	ErrConnection       = &Error{Kind: KindConnection}
	ErrAutostartTimeout = &Error{Kind: KindAutostartTimeout}
	ErrRemote           = &Error{Kind: KindRemote}
)

// New wraps err with a kind and operation name.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Configf builds a configuration error from a format string.
func Configf(format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Err: fmt.Errorf(format, args...)}
}

// Remote wraps an error returned by the editor.
func Remote(op string, err error) *Error {
	return &Error{Kind: KindRemote, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ExitStatus is returned when the editor itself exits with a status the
// invocation must forward.
type ExitStatus struct {
	Code int
}

func (e *ExitStatus) Error() string {
	return fmt.Sprintf("nvim exited with status %d", e.Code)
}

// ExitCode maps err to a process exit status. nil maps to 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var status *ExitStatus
	if stderrors.As(err, &status) {
		return status.Code
	}
	return KindOf(err).ExitCode()
}
