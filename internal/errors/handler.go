package errors

import (
	stderrors "errors"

	"github.com/cristianoliveira/nvr/internal/colors"
)

// Console is the error stream CLIHandler writes to.
type Console interface {
	Error(msgs ...string)
	Info(msgs ...string)
}

// consoleFuncs adapts plain print functions to Console.
type consoleFuncs struct {
	errorFn func(msgs ...string)
	infoFn  func(msgs ...string)
}

func (c consoleFuncs) Error(msgs ...string) { c.errorFn(msgs...) }
func (c consoleFuncs) Info(msgs ...string)  { c.infoFn(msgs...) }

// hints follow the error line for kinds the user can usually fix.
var hints = map[Kind]string{
	KindNoEndpoint:       "start nvim with --listen ADDR, then pass --servername ADDR or set NVIM_LISTEN_ADDRESS",
	KindConnection:       "is the server still running? nvr --serverlist shows the servers nvr can reach",
	KindAutostartTimeout: "check autostart_command or raise autostart_retries",
}

// CLIHandler turns the error of an invocation into console output and an
// exit status.
type CLIHandler struct {
	console Console
}

// NewCLIHandler returns a handler writing to console.
func NewCLIHandler(console Console) *CLIHandler {
	return &CLIHandler{console: console}
}

// NewDefaultCLIHandler returns a CLIHandler writing through the colors package.
func NewDefaultCLIHandler() *CLIHandler {
	return NewCLIHandler(consoleFuncs{errorFn: colors.Error, infoFn: colors.Info})
}

// Report prints err and returns the exit status the process should use.
// A forwarded editor exit status is not an error and prints nothing.
func (h *CLIHandler) Report(err error) int {
	if err == nil {
		return 0
	}
	var status *ExitStatus
	if stderrors.As(err, &status) {
		return status.Code
	}
	h.console.Error(err.Error())
	if hint, ok := hints[KindOf(err)]; ok {
		h.console.Info(hint)
	}
	return ExitCode(err)
}
