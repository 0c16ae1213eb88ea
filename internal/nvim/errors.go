package nvim

import (
	"errors"
	"fmt"
)

var (
	// ErrDialFailed is returned when no connection could be established.
	ErrDialFailed = errors.New("nvim dial failed")

	// ErrConnectionLost is returned when a request fails because the connection went away.
	ErrConnectionLost = errors.New("nvim connection lost")

	// ErrUnsupportedNetwork is returned for address kinds this platform cannot dial.
	ErrUnsupportedNetwork = errors.New("unsupported network")
)

// RemoteError is an error reported by the editor for a request.
type RemoteError struct {
	Method  string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Method, e.Message)
}
