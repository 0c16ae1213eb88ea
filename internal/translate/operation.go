// Package translate turns an Intent into the ordered remote operations that
// carry it out, and runs them over a session.
package translate

import "fmt"

// OpKind says how an operation is issued and what happens to its reply.
type OpKind int

const (
	// OpCommand runs an ex command and discards the reply.
	OpCommand OpKind = iota
	// OpOutput runs an ex command and prints what it echoed.
	OpOutput
	// OpEval evaluates an expression and prints the value.
	OpEval
	// OpKeys feeds keys as typed input; no reply is observed.
	OpKeys
	// OpSetLines replaces the current buffer's lines.
	OpSetLines
)

func (k OpKind) String() string {
	switch k {
	case OpOutput:
		return "output"
	case OpEval:
		return "eval"
	case OpKeys:
		return "keys"
	case OpSetLines:
		return "set-lines"
	default:
		return "command"
	}
}

// Operation is one remote call or notification.
type Operation struct {
	Kind   OpKind
	Method string
	Args   []interface{}

	// Opens marks operations after which the current buffer is one this
	// invocation opened.
	Opens bool
	// Target is the file being opened, for messages.
	Target string
}

func (op Operation) String() string {
	if op.Target != "" {
		return fmt.Sprintf("%s %s (%s)", op.Kind, op.Method, op.Target)
	}
	return fmt.Sprintf("%s %s", op.Kind, op.Method)
}

func command(cmd string) Operation {
	return Operation{Kind: OpCommand, Method: "nvim_command", Args: []interface{}{cmd}}
}

func commandOutput(cmd string) Operation {
	return Operation{Kind: OpOutput, Method: "nvim_call_function", Args: []interface{}{"execute", []interface{}{cmd}}}
}

func eval(expr string) Operation {
	return Operation{Kind: OpEval, Method: "nvim_eval", Args: []interface{}{expr}}
}

func keys(k string) Operation {
	return Operation{Kind: OpKeys, Method: "nvim_input", Args: []interface{}{k}}
}

func setLines(lines []string) Operation {
	return Operation{
		Kind:   OpSetLines,
		Method: "nvim_buf_set_lines",
		Args:   []interface{}{0, 0, -1, true, lines},
		Opens:  true,
		Target: "-",
	}
}
