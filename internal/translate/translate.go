package translate

import (
	"github.com/cristianoliveira/nvr/internal/escape"
	"github.com/cristianoliveira/nvr/internal/intent"
)

// Translate returns the operations for in, in the order they must run:
// previous-window jump, --cc commands, file opens, quickfix and tag jumps,
// -c and +commands, then the payload. Each file path is escaped exactly
// once, here.
func Translate(in intent.Intent) []Operation {
	var ops []Operation

	if in.PreviousWindow {
		ops = append(ops, command("wincmd p"))
	}
	for _, cmd := range in.PreCommands {
		ops = append(ops, command(cmd))
	}

	for _, file := range in.Files {
		if file == intent.StdinFile {
			ops = append(ops, command(in.Layout.NewBufferVerb()), setLines(in.StdinLines))
		} else {
			open := command(in.Layout.OpenVerb() + " " + escape.QuoteForCommand(file))
			open.Opens = true
			open.Target = file
			ops = append(ops, open)
		}
		if in.Diff {
			ops = append(ops, command("diffthis"))
		}
	}

	if in.QuickfixFile != "" {
		ops = append(ops, command("cfile "+escape.QuoteForCommand(in.QuickfixFile)))
	}
	if in.Tag != "" {
		ops = append(ops, command("tag "+in.Tag))
	}
	for _, cmd := range in.PostCommands {
		ops = append(ops, command(cmd))
	}

	switch in.Payload.Kind {
	case intent.PayloadKeys:
		ops = append(ops, keys(in.Payload.Text))
	case intent.PayloadCommand:
		ops = append(ops, commandOutput(in.Payload.Text))
	case intent.PayloadExpr:
		ops = append(ops, eval(in.Payload.Text))
	}
	return ops
}
