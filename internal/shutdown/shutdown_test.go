package shutdown

import (
	"context"
	"errors"
	"log/slog"
	"syscall"
	"testing"
	"time"
)

func TestRun(t *testing.T) {
	logger := slog.Default()

	t.Run("returns the runner's error when it finishes first", func(t *testing.T) {
		want := errors.New("runner failed")
		err := Run(context.Background(), logger, time.Second,
			func(ctx context.Context) error { return want },
			func(ctx context.Context) error { return nil },
		)
		if !errors.Is(err, want) {
			t.Errorf("Run = %v, want %v", err, want)
		}
	})

	t.Run("nil runner error passes through", func(t *testing.T) {
		err := Run(context.Background(), logger, time.Second,
			func(ctx context.Context) error { return nil },
			func(ctx context.Context) error { return nil },
		)
		if err != nil {
			t.Errorf("Run = %v, want nil", err)
		}
	})

	t.Run("signal cancels the runner and invokes teardown", func(t *testing.T) {
		tornDown := make(chan struct{})
		started := make(chan struct{})

		done := make(chan error, 1)
		go func() {
			done <- Run(context.Background(), logger, 5*time.Second,
				func(ctx context.Context) error {
					close(started)
					<-ctx.Done()
					return ctx.Err()
				},
				func(ctx context.Context) error {
					close(tornDown)
					return nil
				},
			)
		}()

		<-started
		if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
			t.Fatalf("send signal: %v", err)
		}

		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Run = %v, want nil after graceful shutdown", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("Run did not return after signal")
		}

		select {
		case <-tornDown:
		default:
			t.Error("teardown was not invoked")
		}
	})
}
