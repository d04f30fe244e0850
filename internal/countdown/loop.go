package countdown

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the default tick interval.
const DefaultInterval = time.Second

// TickFunc receives the remaining-time breakdown on every tick.
type TickFunc func(Remaining)

// Loop periodically computes the time remaining until a target instant and
// emits tick and completion callbacks. Pause captures the remaining time once
// so that resume can rebuild the target from "now + snapshot" instead of
// letting the old target silently elapse while paused.
type Loop struct {
	mu              sync.Mutex
	target          time.Time
	interval        time.Duration
	now             func() time.Time
	onTick          TickFunc
	onComplete      func()
	running         bool
	paused          bool
	pausedRemaining time.Duration
	complete        bool
	gen             int
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithInterval sets the tick interval. Non-positive values keep the default.
func WithInterval(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithClock injects the time source, used by tests to control the clock.
func WithClock(now func() time.Time) LoopOption {
	return func(l *Loop) {
		if now != nil {
			l.now = now
		}
	}
}

// WithOnTick sets the per-tick callback.
func WithOnTick(fn TickFunc) LoopOption {
	return func(l *Loop) {
		l.onTick = fn
	}
}

// WithOnComplete sets the one-shot completion callback.
func WithOnComplete(fn func()) LoopOption {
	return func(l *Loop) {
		l.onComplete = fn
	}
}

// NewLoop creates a loop counting down to target.
func NewLoop(target time.Time, opts ...LoopOption) *Loop {
	l := &Loop{
		target:   target,
		interval: DefaultInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start begins ticking. It performs one immediate tick, then schedules
// recurring ticks. Calling Start on a running loop is a no-op.
func (l *Loop) Start() {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return
	}
	l.running = true
	l.paused = false
	l.startScheduleLocked()
	l.mu.Unlock()

	l.Tick()
}

// Pause freezes the countdown. The remaining time is computed once and
// stored; the recurring schedule is cancelled. Pausing an already paused or
// completed loop is a no-op.
func (l *Loop) Pause() {
	l.mu.Lock()
	if l.paused || l.complete || !l.running {
		l.mu.Unlock()
		return
	}
	l.paused = true
	l.pausedRemaining = l.target.Sub(l.now())
	if l.pausedRemaining < 0 {
		l.pausedRemaining = 0
	}
	l.gen++ // cancel the recurring schedule
	l.mu.Unlock()
}

// Resume continues a paused countdown. The target is rebuilt as
// "now + stored remaining" so time spent paused does not elapse.
// Resuming a loop that is not paused is a no-op.
func (l *Loop) Resume() {
	l.mu.Lock()
	if !l.paused {
		l.mu.Unlock()
		return
	}
	l.paused = false
	l.target = l.now().Add(l.pausedRemaining)
	l.startScheduleLocked()
	l.mu.Unlock()

	l.Tick()
}

// Stop cancels the recurring schedule without touching the paused snapshot
// or the completion flag.
func (l *Loop) Stop() {
	l.mu.Lock()
	l.running = false
	l.paused = false
	l.gen++
	l.mu.Unlock()
}

// SetTarget replaces the target instant and clears the completion flag.
// If the loop is paused the stored snapshot is recomputed against the new
// target so a later Resume counts down from the new value.
func (l *Loop) SetTarget(target time.Time) {
	l.mu.Lock()
	l.target = target
	l.complete = false
	if l.paused {
		l.pausedRemaining = target.Sub(l.now())
		if l.pausedRemaining < 0 {
			l.pausedRemaining = 0
		}
	}
	l.mu.Unlock()
}

// Target returns the current target instant.
func (l *Loop) Target() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.target
}

// Remaining returns the current remaining-time breakdown: the paused
// snapshot while paused, the live computation otherwise.
func (l *Loop) Remaining() Remaining {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.remainingLocked()
}

func (l *Loop) remainingLocked() Remaining {
	if l.paused {
		return FromDuration(l.pausedRemaining)
	}
	return Until(l.target, l.now())
}

// IsPaused reports whether the loop is paused.
func (l *Loop) IsPaused() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.paused
}

// IsRunning reports whether the recurring schedule is active.
func (l *Loop) IsRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// IsComplete reports whether the target instant has been observed reached.
func (l *Loop) IsComplete() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.complete
}

// MarkComplete sets the completion flag and cancels the schedule without
// firing the completion callback. Used when the user switches into a
// timezone whose target has already passed: the countdown is over there, but
// the live completion sequence must not replay.
func (l *Loop) MarkComplete() {
	l.mu.Lock()
	l.complete = true
	l.running = false
	l.gen++
	l.mu.Unlock()
}

// Tick computes the remaining time and fires the appropriate callback.
// It is a no-op while paused or after completion. When the target is
// reached the completion callback fires exactly once and the recurring
// schedule stops.
func (l *Loop) Tick() {
	l.mu.Lock()
	if l.paused || l.complete {
		l.mu.Unlock()
		return
	}
	remaining := l.target.Sub(l.now())
	if remaining <= 0 {
		l.complete = true
		l.running = false
		l.gen++
		fn := l.onComplete
		l.mu.Unlock()
		if fn != nil {
			l.fire(func() { fn() })
		}
		return
	}
	fn := l.onTick
	r := FromDuration(remaining)
	l.mu.Unlock()
	if fn != nil {
		l.fire(func() { fn(r) })
	}
}

// ForceUpdate immediately republishes the current remaining time without
// waiting for the next scheduled tick. It uses the paused snapshot while
// paused and the live target otherwise.
func (l *Loop) ForceUpdate() {
	l.mu.Lock()
	fn := l.onTick
	r := l.remainingLocked()
	l.mu.Unlock()
	if fn != nil {
		l.fire(func() { fn(r) })
	}
}

// startScheduleLocked starts the recurring tick goroutine. Bumping the
// generation invalidates older goroutines so the loop never double-schedules.
func (l *Loop) startScheduleLocked() int {
	l.gen++
	gen := l.gen
	interval := l.interval
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			l.mu.Lock()
			stale := l.gen != gen
			l.mu.Unlock()
			if stale {
				return
			}
			l.Tick()
		}
	}()
	return gen
}

// fire runs a callback, containing panics so a misbehaving callback cannot
// kill the schedule.
func (l *Loop) fire(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("countdown callback panicked", "panic", r)
		}
	}()
	fn()
}
