package endpoint

import (
	nvrerrors "github.com/cristianoliveira/nvr/internal/errors"
)

// Source records where a resolved address came from.
type Source int

const (
	// SourceNone means nothing was configured and autostart will supply an address.
	SourceNone Source = iota
	// SourceFlag is the --servername argument.
	SourceFlag
	// SourceEnvironment is NVIM_LISTEN_ADDRESS.
	SourceEnvironment
	// SourceGenerated is a fresh autostart address.
	SourceGenerated
)

func (s Source) String() string {
	switch s {
	case SourceFlag:
		return "flag"
	case SourceEnvironment:
		return "environment"
	case SourceGenerated:
		return "generated"
	default:
		return "none"
	}
}

// Config carries the address inputs. Callers read the environment; the
// resolver never does.
type Config struct {
	// Explicit is the --servername value.
	Explicit string
	// Environment is the value of NVIM_LISTEN_ADDRESS.
	Environment string
	// Autostart permits resolving to nothing so a server can be spawned.
	Autostart bool
}

// Resolution is the outcome of Resolve.
type Resolution struct {
	Endpoint Endpoint
	Source   Source
}

// Found reports whether an address was configured.
func (r Resolution) Found() bool {
	return r.Source != SourceNone
}

// Resolve picks the address to connect to. The explicit value wins over the
// environment. When neither is set Resolve fails with NoEndpointConfigured,
// unless autostart is permitted, in which case it returns a Resolution with
// SourceNone. A resolved endpoint is not known to be reachable.
func Resolve(cfg Config) (Resolution, error) {
	var (
		address string
		source  Source
	)
	switch {
	case cfg.Explicit != "":
		address, source = cfg.Explicit, SourceFlag
	case cfg.Environment != "":
		address, source = cfg.Environment, SourceEnvironment
	default:
		if cfg.Autostart {
			return Resolution{Source: SourceNone}, nil
		}
		return Resolution{}, nvrerrors.New(nvrerrors.KindNoEndpoint, "resolve endpoint",
			errNoAddress)
	}

	ep, err := Parse(address)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{Endpoint: ep, Source: source}, nil
}
