package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/clusterscope/cscope/cmd/cscope/cmd"
)

func main() {
	// Interrupts cancel the context, which kills any in-flight probe
	// subprocess instead of orphaning it.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
