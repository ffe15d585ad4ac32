package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/kav/caerus/internal/cmd"
	"github.com/kav/caerus/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	log := logging.NewLogger(os.Stderr)
	defer func() { _ = log.Close() }()
	defer log.CapturePanic()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return exitCode(ctx, log, cmd.Execute(ctx, log))
}

// exitCode maps the command result to a process status. A run stopped by a
// signal exits 130 even when the camera process reported its own kill.
func exitCode(ctx context.Context, log logging.Logger, err error) int {
	if err == nil {
		return 0
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		log.Warn("interrupted")
		return 130
	}
	log.Error(err)
	return 1
}
