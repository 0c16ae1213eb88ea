package intent

import (
	"strings"

	nvrerrors "github.com/cristianoliveira/nvr/internal/errors"
)

// Layout selects how files are placed in the editor.
type Layout int

const (
	LayoutEdit Layout = iota
	LayoutSplit
	LayoutVSplit
	LayoutTab
)

// ParseLayout accepts the names used by the default_layout setting.
func ParseLayout(name string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "edit":
		return LayoutEdit, nil
	case "split":
		return LayoutSplit, nil
	case "vsplit":
		return LayoutVSplit, nil
	case "tab", "tabedit":
		return LayoutTab, nil
	default:
		return LayoutEdit, nvrerrors.Configf("unknown layout %q (want edit, split, vsplit or tab)", name)
	}
}

func (l Layout) String() string {
	switch l {
	case LayoutSplit:
		return "split"
	case LayoutVSplit:
		return "vsplit"
	case LayoutTab:
		return "tab"
	default:
		return "edit"
	}
}

// OpenVerb is the ex command that opens a file in this layout.
func (l Layout) OpenVerb() string {
	switch l {
	case LayoutSplit:
		return "split"
	case LayoutVSplit:
		return "vsplit"
	case LayoutTab:
		return "tabedit"
	default:
		return "edit"
	}
}

// NewBufferVerb is the ex command that creates an empty buffer in this layout.
func (l Layout) NewBufferVerb() string {
	switch l {
	case LayoutSplit:
		return "new"
	case LayoutVSplit:
		return "vnew"
	case LayoutTab:
		return "tabnew"
	default:
		return "enew"
	}
}
