// Package endpoint resolves the address of the editor an invocation talks to.
package endpoint

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	nvrerrors "github.com/cristianoliveira/nvr/internal/errors"
)

// Kind is the transport an address selects.
type Kind int

const (
	// KindUnix is a local socket path.
	KindUnix Kind = iota
	// KindTCP is a host:port pair.
	KindTCP
	// KindPipe is a Windows named pipe.
	KindPipe
)

func (k Kind) String() string {
	switch k {
	case KindTCP:
		return "tcp"
	case KindPipe:
		return "pipe"
	default:
		return "unix"
	}
}

// Endpoint is a validated editor address.
type Endpoint struct {
	Address string
	Kind    Kind
}

// Network returns the network name used to dial the endpoint.
func (e Endpoint) Network() string {
	return e.Kind.String()
}

func (e Endpoint) String() string {
	return e.Address
}

// Parse classifies and validates address.
func Parse(address string) (Endpoint, error) {
	if strings.TrimSpace(address) == "" {
		return Endpoint{}, nvrerrors.Configf("empty server address")
	}
	if strings.ContainsRune(address, 0) {
		return Endpoint{}, nvrerrors.Configf("server address %q contains a NUL byte", address)
	}

	if isPipe(address) {
		name := address[strings.LastIndex(strings.ToLower(address), `\pipe\`)+len(`\pipe\`):]
		if name == "" {
			return Endpoint{}, nvrerrors.Configf("named pipe %q has no name", address)
		}
		return Endpoint{Address: address, Kind: KindPipe}, nil
	}

	if looksLikeTCP(address) {
		host, port, err := net.SplitHostPort(address)
		if err != nil {
			return Endpoint{}, nvrerrors.Configf("invalid tcp address %q: %v", address, err)
		}
		if host == "" {
			return Endpoint{}, nvrerrors.Configf("tcp address %q has no host", address)
		}
		n, err := strconv.Atoi(port)
		if err != nil || n < 1 || n > 65535 {
			return Endpoint{}, nvrerrors.Configf("tcp address %q has invalid port %q", address, port)
		}
		return Endpoint{Address: address, Kind: KindTCP}, nil
	}

	return Endpoint{Address: address, Kind: KindUnix}, nil
}

func isPipe(address string) bool {
	lower := strings.ToLower(address)
	return strings.HasPrefix(lower, `\\.\pipe\`) || strings.HasPrefix(lower, `\\?\pipe\`)
}

// looksLikeTCP reports whether address is host:port rather than a path.
// Paths containing a colon are still paths when they contain a separator.
func looksLikeTCP(address string) bool {
	if strings.ContainsAny(address, `/\`) {
		return false
	}
	i := strings.LastIndex(address, ":")
	if i < 0 {
		return false
	}
	port := address[i+1:]
	if port == "" {
		return true
	}
	for _, r := range port {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// MustParse is Parse for addresses known to be valid. It panics otherwise.
func MustParse(address string) Endpoint {
	ep, err := Parse(address)
	if err != nil {
		panic(fmt.Sprintf("endpoint.MustParse(%q): %v", address, err))
	}
	return ep
}
