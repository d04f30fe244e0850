// Package state holds the canonical application state for a countdown
// session and its publish/subscribe channel. The snapshot is replaced
// wholesale on every change so subscribers can diff old against new.
package state

import (
	"log/slog"
	"sync"
	"time"
)

// Mode describes how the target instant is interpreted.
type Mode string

const (
	// ModeTimer counts down a fixed duration from start, timezone-irrelevant.
	ModeTimer Mode = "timer"
	// ModeAbsolute counts down to one fixed instant, the same moment everywhere.
	ModeAbsolute Mode = "absolute"
	// ModeWallClock counts down to a local calendar time that resolves to a
	// different absolute instant per timezone.
	ModeWallClock Mode = "wall-clock"
)

// ParseMode returns the mode for s, or ModeWallClock with ok=false when s is
// not a recognized mode.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeTimer, ModeAbsolute, ModeWallClock:
		return Mode(s), true
	}
	return ModeWallClock, false
}

// AppState is the canonical application snapshot. It is an immutable value;
// the Store replaces it wholesale on each change.
type AppState struct {
	SelectedTheme     string
	SelectedTimezone  string
	UserTimezone      string
	TargetDate        time.Time
	IsComplete        bool
	CountdownMode     Mode
	CompletionMessage string
	DurationSeconds   int
}

// equal reports snapshot equality. The target instant is compared with
// time.Time.Equal so a differing monotonic clock reading (or location) on
// the same instant never counts as a change.
func (a AppState) equal(b AppState) bool {
	if !a.TargetDate.Equal(b.TargetDate) {
		return false
	}
	a.TargetDate = b.TargetDate
	return a == b
}

// SubscribeFunc receives the previous and the new snapshot on every change.
type SubscribeFunc func(old, new AppState)

type subscriber struct {
	id int
	fn SubscribeFunc
}

// ThemeValidator coerces a theme id to a member of the installed set,
// falling back to the default id for unknown values.
type ThemeValidator func(id string) string

// Store owns the application snapshot and the celebration sub-state.
// All mutation goes through its setters; setters notify subscribers only
// when the value actually changed.
type Store struct {
	mu            sync.Mutex
	state         AppState
	subscribers   []subscriber
	nextID        int
	destroyed     bool
	validateTheme ThemeValidator

	celebration Phase
	celebrated  map[string]struct{}
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithThemeValidator installs the registry lookup used to coerce theme ids.
func WithThemeValidator(fn ThemeValidator) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.validateTheme = fn
		}
	}
}

// NewStore creates a store with the given initial snapshot. The initial
// theme id passes through the validator like any other.
func NewStore(initial AppState, opts ...StoreOption) *Store {
	s := &Store{
		state:         initial,
		validateTheme: func(id string) string { return id },
		celebration:   PhaseCounting,
		celebrated:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.SelectedTheme = s.validateTheme(initial.SelectedTheme)
	return s
}

// GetState returns the current snapshot.
func (s *Store) GetState() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a listener and returns its unsubscribe handle.
// Notifications are delivered synchronously in registration order.
func (s *Store) Subscribe(fn SubscribeFunc) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return func() {}
	}
	s.nextID++
	id := s.nextID
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Destroy clears all listeners. Subsequent setter calls mutate state but
// notify nobody; Subscribe becomes a no-op.
func (s *Store) Destroy() {
	s.mu.Lock()
	s.destroyed = true
	s.subscribers = nil
	s.mu.Unlock()
}

// SetTheme updates the selected theme. Unknown ids are silently coerced to
// the registry default before the equality check.
func (s *Store) SetTheme(id string) {
	s.update(func(st *AppState) {
		st.SelectedTheme = s.validateTheme(id)
	})
}

// SetTimezone updates the selected viewing timezone.
func (s *Store) SetTimezone(tz string) {
	s.update(func(st *AppState) {
		st.SelectedTimezone = tz
	})
}

// SetTargetDate updates the absolute target instant.
func (s *Store) SetTargetDate(t time.Time) {
	s.update(func(st *AppState) {
		st.TargetDate = t
	})
}

// SetComplete updates the completion flag.
func (s *Store) SetComplete(complete bool) {
	s.update(func(st *AppState) {
		st.IsComplete = complete
	})
}

// SetMode updates the countdown mode.
func (s *Store) SetMode(mode Mode) {
	s.update(func(st *AppState) {
		st.CountdownMode = mode
	})
}

// SetCompletionMessage updates the message shown when the countdown ends.
func (s *Store) SetCompletionMessage(msg string) {
	s.update(func(st *AppState) {
		st.CompletionMessage = msg
	})
}

// SetDurationSeconds updates the timer-mode duration.
func (s *Store) SetDurationSeconds(seconds int) {
	s.update(func(st *AppState) {
		st.DurationSeconds = seconds
	})
}

// update applies a mutation to a copy of the snapshot and notifies
// subscribers only when the result differs from the previous snapshot.
func (s *Store) update(mutate func(*AppState)) {
	s.mu.Lock()
	old := s.state
	next := s.state
	mutate(&next)
	if next.equal(old) {
		s.mu.Unlock()
		return
	}
	s.state = next
	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, sub := range subs {
		notify(sub.fn, old, next)
	}
}

// notify invokes one subscriber, containing panics so a single misbehaving
// observer never blocks state propagation to the rest.
func notify(fn SubscribeFunc, old, next AppState) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("state subscriber panicked", "panic", r)
		}
	}()
	fn(old, next)
}
