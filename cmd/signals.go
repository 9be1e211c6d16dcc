package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
)

// notifyShutdown returns a context cancelled on the first shutdown signal.
// The returned stop func releases the signal handler.
func notifyShutdown(parent context.Context, out io.Writer) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, shutdownSignals...)

	go func() {
		select {
		case sig := <-sigs:
			fmt.Fprintf(out, "\nReceived %v, shutting down...\n", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigs)
		cancel()
	}
}
