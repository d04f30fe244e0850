// Package shutdown handles signal-driven graceful shutdown for headless runs.
package shutdown

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Run starts runner and blocks until it returns or SIGINT/SIGTERM arrives.
// On a signal the runner's context is cancelled, teardown is invoked, and Run
// waits up to timeout for the runner to drain.
func Run(
	ctx context.Context,
	logger *slog.Logger,
	timeout time.Duration,
	runner func(ctx context.Context) error,
	teardown func(ctx context.Context) error,
) error {
	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	runDone := make(chan error, 1)
	go func() {
		runDone <- runner(runCtx)
	}()

	select {
	case sig := <-sigChan:
		logger.Info("received signal, shutting down", "signal", sig)
		runCancel()

		teardownCtx, teardownCancel := context.WithTimeout(context.Background(), timeout)
		defer teardownCancel()

		if err := teardown(teardownCtx); err != nil {
			logger.Error("teardown error", "error", err)
		}

		select {
		case err := <-runDone:
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
		case <-teardownCtx.Done():
			logger.Warn("shutdown timeout exceeded")
		}

		logger.Info("shutdown complete")
		return nil

	case err := <-runDone:
		return err
	}
}
