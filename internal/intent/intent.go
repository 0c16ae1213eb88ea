// Package intent models what one invocation asks the editor to do.
package intent

import (
	"path/filepath"
	"strings"

	nvrerrors "github.com/cristianoliveira/nvr/internal/errors"
)

// StdinFile is the file argument that reads standard input into a buffer.
const StdinFile = "-"

// PayloadKind is the single remote request an invocation may carry besides files.
type PayloadKind int

const (
	PayloadNone PayloadKind = iota
	PayloadKeys
	PayloadCommand
	PayloadExpr
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadKeys:
		return "--remote-send"
	case PayloadCommand:
		return "--remote-command"
	case PayloadExpr:
		return "--remote-expr"
	default:
		return "none"
	}
}

// Payload is the key, command or expression request.
type Payload struct {
	Kind PayloadKind
	Text string
}

// Params are the raw values collected from the command line.
// A nil pointer means the flag was not given.
type Params struct {
	Files []string

	Send    *string
	Command *string
	Expr    *string

	// Layout flags; at most one may be set.
	Split  bool
	VSplit bool
	Tab    bool
	// DefaultLayout applies when no layout flag is set.
	DefaultLayout Layout

	PreCommands  []string
	PostCommands []string

	Wait           bool
	Silent         bool
	Autostart      bool
	PreviousWindow bool
	Diff           bool
	QuickfixFile   string
	Tag            string

	// Stdin is the content for a "-" file argument.
	Stdin string
	// Cwd makes relative file arguments absolute.
	Cwd string
}

// Intent is the validated request. It is built once by New and must be
// treated as read only.
type Intent struct {
	// Files are absolute paths in argument order. StdinFile marks where
	// the standard input buffer is created.
	Files        []string
	Payload      Payload
	Layout       Layout
	PreCommands  []string
	PostCommands []string
	StdinLines   []string

	Wait           bool
	Silent         bool
	Autostart      bool
	PreviousWindow bool
	Diff           bool
	QuickfixFile   string
	Tag            string
}

// HasFiles reports whether anything will be opened.
func (in Intent) HasFiles() bool {
	return len(in.Files) > 0
}

// New validates p and builds an Intent. Conflicting payloads or layouts are
// configuration errors.
func New(p Params) (Intent, error) {
	payload, err := payloadOf(p)
	if err != nil {
		return Intent{}, err
	}
	layout, err := layoutOf(p)
	if err != nil {
		return Intent{}, err
	}

	in := Intent{
		Payload:        payload,
		Layout:         layout,
		PreCommands:    append([]string(nil), p.PreCommands...),
		Wait:           p.Wait,
		Silent:         p.Silent,
		Autostart:      p.Autostart,
		PreviousWindow: p.PreviousWindow,
		Diff:           p.Diff,
		QuickfixFile:   p.QuickfixFile,
		Tag:            p.Tag,
	}

	stdinSeen := false
	for _, arg := range p.Files {
		switch {
		case arg == StdinFile:
			if stdinSeen {
				return Intent{}, nvrerrors.Configf("standard input can only be read once")
			}
			stdinSeen = true
			in.Files = append(in.Files, StdinFile)
		case strings.HasPrefix(arg, "+"):
			in.PostCommands = append(in.PostCommands, plusCommand(arg))
		case arg == "":
			return Intent{}, nvrerrors.Configf("empty file name")
		default:
			in.Files = append(in.Files, absolute(p.Cwd, arg))
		}
	}
	in.PostCommands = append(in.PostCommands, p.PostCommands...)

	if stdinSeen {
		in.StdinLines = splitLines(p.Stdin)
	}
	if in.QuickfixFile != "" {
		in.QuickfixFile = absolute(p.Cwd, in.QuickfixFile)
	}
	return in, nil
}

func payloadOf(p Params) (Payload, error) {
	var given []Payload
	if p.Send != nil {
		given = append(given, Payload{Kind: PayloadKeys, Text: *p.Send})
	}
	if p.Command != nil {
		given = append(given, Payload{Kind: PayloadCommand, Text: *p.Command})
	}
	if p.Expr != nil {
		given = append(given, Payload{Kind: PayloadExpr, Text: *p.Expr})
	}

	switch len(given) {
	case 0:
		return Payload{Kind: PayloadNone}, nil
	case 1:
		return given[0], nil
	default:
		names := make([]string, len(given))
		for i, g := range given {
			names[i] = g.Kind.String()
		}
		return Payload{}, nvrerrors.Configf("only one of %s may be given", strings.Join(names, ", "))
	}
}

func layoutOf(p Params) (Layout, error) {
	var chosen []Layout
	if p.Split {
		chosen = append(chosen, LayoutSplit)
	}
	if p.VSplit {
		chosen = append(chosen, LayoutVSplit)
	}
	if p.Tab {
		chosen = append(chosen, LayoutTab)
	}
	if p.Diff {
		if len(chosen) > 0 && chosen[0] != LayoutVSplit {
			return LayoutEdit, nvrerrors.Configf("-d opens files in vertical splits and cannot be combined with layout %s", chosen[0])
		}
		return LayoutVSplit, nil
	}

	switch len(chosen) {
	case 0:
		return p.DefaultLayout, nil
	case 1:
		return chosen[0], nil
	default:
		return LayoutEdit, nvrerrors.Configf("conflicting layouts %s and %s", chosen[0], chosen[1])
	}
}

// plusCommand maps a "+..." argument to the ex command it stands for.
func plusCommand(arg string) string {
	cmd := strings.TrimPrefix(arg, "+")
	if cmd == "" {
		return "$"
	}
	return cmd
}

func absolute(cwd, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	if cwd == "" {
		return path
	}
	return filepath.Join(cwd, path)
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}
