package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rsheridan/finale/internal/config"
	"github.com/rsheridan/finale/internal/orchestrator"
	"github.com/rsheridan/finale/internal/state"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestBuildOptions(t *testing.T) {
	t.Run("defaults map through", func(t *testing.T) {
		opts, err := buildOptions(config.Default())
		if err != nil {
			t.Fatalf("buildOptions failed: %v", err)
		}
		if opts.Mode != state.ModeWallClock {
			t.Errorf("Mode = %q, want %q", opts.Mode, state.ModeWallClock)
		}
		if opts.InitialTheme != "digits" {
			t.Errorf("InitialTheme = %q, want %q", opts.InitialTheme, "digits")
		}
		if opts.DurationSeconds != 60 {
			t.Errorf("DurationSeconds = %d, want 60", opts.DurationSeconds)
		}
		if !opts.TargetDate.IsZero() {
			t.Errorf("TargetDate = %v, want zero", opts.TargetDate)
		}
	})

	t.Run("RFC 3339 target parses", func(t *testing.T) {
		cfg := config.Default()
		cfg.Countdown.Target = "2026-12-31T23:59:59Z"

		opts, err := buildOptions(cfg)
		if err != nil {
			t.Fatalf("buildOptions failed: %v", err)
		}
		want := time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)
		if !opts.TargetDate.Equal(want) {
			t.Errorf("TargetDate = %v, want %v", opts.TargetDate, want)
		}
	})

	t.Run("malformed target is an error", func(t *testing.T) {
		cfg := config.Default()
		cfg.Countdown.Target = "tomorrow-ish"

		if _, err := buildOptions(cfg); err == nil {
			t.Error("buildOptions should fail for a malformed target")
		}
	})

	t.Run("unknown mode falls back to wall-clock", func(t *testing.T) {
		cfg := config.Default()
		cfg.Countdown.Mode = "stopwatch"

		opts, err := buildOptions(cfg)
		if err != nil {
			t.Fatalf("buildOptions failed: %v", err)
		}
		if opts.Mode != state.ModeWallClock {
			t.Errorf("Mode = %q, want %q", opts.Mode, state.ModeWallClock)
		}
	})
}

func TestRunHeadless(t *testing.T) {
	t.Run("context cancellation stops the run", func(t *testing.T) {
		orch := orchestrator.New(orchestrator.Options{
			Mode:            state.ModeTimer,
			DurationSeconds: 3600,
		})
		t.Cleanup(orch.Destroy)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		var buf bytes.Buffer
		go func() {
			done <- runHeadless(ctx, orch, 10*time.Millisecond, &buf)
		}()

		time.Sleep(30 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("runHeadless = %v, want context.Canceled", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("runHeadless did not return after cancel")
		}
	})

	t.Run("completion prints the message", func(t *testing.T) {
		clock := &fakeClock{now: time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)}
		orch := orchestrator.New(orchestrator.Options{
			Mode:              state.ModeTimer,
			DurationSeconds:   1,
			CompletionMessage: "Done!",
			TickInterval:      5 * time.Millisecond,
		}, orchestrator.WithClock(clock.Now))
		t.Cleanup(orch.Destroy)

		done := make(chan error, 1)
		var buf bytes.Buffer
		go func() {
			done <- runHeadless(context.Background(), orch, 10*time.Millisecond, &buf)
		}()

		time.Sleep(30 * time.Millisecond)
		clock.Advance(2 * time.Second)

		select {
		case err := <-done:
			if err != nil {
				t.Errorf("runHeadless = %v, want nil after completion", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("runHeadless did not return after completion")
		}

		if output := buf.String(); !strings.Contains(output, "Done!") {
			t.Errorf("output should contain the completion message, got: %s", output)
		}
	})
}
