package main

import (
	"context"
	stderrors "errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/cristianoliveira/nvr/cmd"
	"github.com/cristianoliveira/nvr/internal/colors"
	"github.com/cristianoliveira/nvr/internal/config"
	nvrerrors "github.com/cristianoliveira/nvr/internal/errors"
	"github.com/cristianoliveira/nvr/internal/logging"
)

// exitInterrupted is the conventional status for a SIGINT-terminated process.
const exitInterrupted = 130

func main() {
	config.Load()
	colors.SetDebug(config.GetBool("debug", false))

	if err := logging.InitGlobal(logging.FromGlobalConfig()); err != nil {
		colors.Debug("file logging disabled: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], cmd.Execute)
	stop()

	if err := logging.ShutdownGlobal(); err != nil {
		colors.Debug("closing log file: " + err.Error())
	}
	os.Exit(code)
}

func run(ctx context.Context, args []string, execute func(context.Context, []string) error) int {
	colors.StructuredInfo("startup", "main", "started", nil, "", colors.Fields{"args": len(args)})

	err := execute(ctx, args)
	if err == nil {
		colors.StructuredInfo("startup", "main", "completed", nil, "", nil)
		return 0
	}
	if stderrors.Is(err, context.Canceled) {
		colors.StructuredInfo("startup", "main", "interrupted", nil, "", nil)
		return exitInterrupted
	}

	code := nvrerrors.NewDefaultCLIHandler().Report(err)
	if code != 0 {
		colors.StructuredError("startup", "main", "failed", err, "", colors.Fields{"exit_code": code})
	}
	return code
}
