package nvim

import (
	"errors"
	"io"
	"net"
	"syscall"

	"github.com/neovim/go-client/msgpack/rpc"
)

func asRemote(err error, target **RemoteError) bool {
	return errors.As(err, target)
}

func isTransportError(err error) bool {
	if errors.Is(err, rpc.ErrClosed) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
