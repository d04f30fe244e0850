// Package switcher serializes and rate-limits swaps of the active theme
// renderer. It is the only component permitted to mutate the live render
// surface, and it guarantees at most one switch in flight.
package switcher

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rsheridan/finale/internal/state"
	"github.com/rsheridan/finale/internal/theme"
)

// DefaultMinInterval is the default minimum delay between completed switches.
const DefaultMinInterval = 300 * time.Millisecond

// ErrThrottled is returned when a switch request arrives before the minimum
// inter-switch interval has elapsed. The request is dropped, not queued:
// responsiveness wins over guaranteed eventual application of every click.
var ErrThrottled = errors.New("theme switch throttled")

// ErrSwitchInFlight is returned when a switch is requested while another is
// still being applied.
var ErrSwitchInFlight = errors.New("theme switch already in flight")

// PendingSwitch is the live handle to an in-flight theme swap. At most one
// exists at a time.
type PendingSwitch struct {
	TargetID  string
	done      chan struct{}
	cancelled atomic.Bool
}

// Done is closed when the switch has completed or been abandoned. Callers
// that must sequence side effects after the swap (closing a modal without a
// visible flash, for instance) wait on it.
func (p *PendingSwitch) Done() <-chan struct{} {
	return p.done
}

// Abort signals the switch to stop applying further side effects. Steps
// already committed are not rolled back; the coordinator always ends in a
// valid, if stale, renderer state.
func (p *PendingSwitch) Abort() {
	p.cancelled.Store(true)
}

// Cancelled reports whether the switch was aborted.
func (p *PendingSwitch) Cancelled() bool {
	return p.cancelled.Load()
}

// Loader instantiates the renderer for a theme id.
type Loader func(id string) (theme.Renderer, error)

// ContextFunc supplies the current render context (size, remaining time,
// stage, completion message) for mounting an incoming renderer.
type ContextFunc func() theme.Context

// Switcher coordinates theme swaps over a single live surface.
type Switcher struct {
	mu          sync.Mutex
	store       *state.Store
	loader      Loader
	live        *theme.Surface
	active      theme.Renderer
	activeID    string
	pending     *PendingSwitch
	lastSwitch  time.Time
	minInterval time.Duration
	now         func() time.Time

	buildContext   ContextFunc
	isComplete     func() bool
	statusLabel    func() string
	onThemeChanged func(id string)
	announce       func(string)
}

// Option configures a Switcher.
type Option func(*Switcher)

// WithMinInterval sets the throttle window between completed switches.
func WithMinInterval(d time.Duration) Option {
	return func(s *Switcher) {
		if d >= 0 {
			s.minInterval = d
		}
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Switcher) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCompletionCheck sets the predicate consulted to decide whether the
// incoming renderer gets the completion replay instead of the counting hook.
func WithCompletionCheck(fn func() bool) Option {
	return func(s *Switcher) {
		s.isComplete = fn
	}
}

// WithStatusLabel sets the provider for the accessible label pushed onto the
// surface after a committed switch.
func WithStatusLabel(fn func() string) Option {
	return func(s *Switcher) {
		s.statusLabel = fn
	}
}

// WithOnThemeChanged sets the fire-and-forget collaborator (URL sync)
// notified after a committed switch.
func WithOnThemeChanged(fn func(id string)) Option {
	return func(s *Switcher) {
		s.onThemeChanged = fn
	}
}

// WithAnnouncer sets the external live-region updater.
func WithAnnouncer(fn func(string)) Option {
	return func(s *Switcher) {
		s.announce = fn
	}
}

// New creates a switcher over the live surface. The loader is usually
// Registry.New; the context func supplies mount state for incoming themes.
func New(store *state.Store, live *theme.Surface, loader Loader, buildContext ContextFunc, opts ...Option) *Switcher {
	s := &Switcher{
		store:        store,
		live:         live,
		loader:       loader,
		buildContext: buildContext,
		minInterval:  DefaultMinInterval,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ActiveID returns the id of the currently mounted theme.
func (s *Switcher) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Active returns the currently mounted renderer, nil before the first switch.
func (s *Switcher) Active() theme.Renderer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// GetPendingSwitch returns the in-flight switch handle, or nil.
func (s *Switcher) GetPendingSwitch() *PendingSwitch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// CanSwitch reports whether a new switch would be accepted right now.
func (s *Switcher) CanSwitch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canSwitchLocked()
}

func (s *Switcher) canSwitchLocked() bool {
	if s.pending != nil {
		return false
	}
	return s.lastSwitch.IsZero() || s.now().Sub(s.lastSwitch) >= s.minInterval
}

// Abort signals the in-flight switch, if any, to stop applying further side
// effects, and clears the pending record.
func (s *Switcher) Abort() {
	s.mu.Lock()
	pending := s.pending
	s.mu.Unlock()
	if pending != nil {
		pending.Abort()
	}
}

// SwitchTheme swaps the active renderer for targetID. Switching to the
// already-active theme is a no-op that resolves immediately. Requests inside
// the throttle window or during another switch are dropped with an error.
//
// An accepted switch builds the incoming renderer into a detached surface so
// partially-built state is never visible, destroys the outgoing renderer,
// swaps the live surface's contents atomically, replays the current time (or
// completion) state into the new renderer, and only then notifies the store
// and the external collaborators.
func (s *Switcher) SwitchTheme(targetID string) (*PendingSwitch, error) {
	s.mu.Lock()
	if targetID == s.activeID {
		s.mu.Unlock()
		return nil, nil
	}
	if s.pending != nil {
		s.mu.Unlock()
		return nil, ErrSwitchInFlight
	}
	if !s.canSwitchLocked() {
		s.mu.Unlock()
		slog.Debug("theme switch dropped by throttle", "target", targetID)
		return nil, ErrThrottled
	}
	pending := &PendingSwitch{TargetID: targetID, done: make(chan struct{})}
	s.pending = pending
	outgoing := s.active
	s.mu.Unlock()

	err := s.perform(pending, outgoing, targetID)

	s.mu.Lock()
	s.pending = nil
	if err == nil && !pending.Cancelled() {
		s.lastSwitch = s.now()
	}
	s.mu.Unlock()
	close(pending.done)
	return pending, err
}

// perform runs the swap steps, checking the cancelled flag between them.
// Abort limits future effects; committed steps stay committed.
func (s *Switcher) perform(pending *PendingSwitch, outgoing theme.Renderer, targetID string) error {
	// Preserve focus if it lies within the themed surface.
	savedFocus := s.live.Focus()

	// Build the incoming renderer off-screen; the live surface is never
	// touched until the new renderer is fully constructed.
	ctx := s.buildContext()
	incoming, err := s.loader(targetID)
	if err != nil {
		return fmt.Errorf("load theme %q: %w", targetID, err)
	}
	offscreen := theme.NewSurface()
	if err := incoming.Mount(offscreen, ctx); err != nil {
		incoming.Destroy()
		return fmt.Errorf("mount theme %q: %w", targetID, err)
	}

	if pending.Cancelled() {
		incoming.Destroy()
		return nil
	}

	// Commit: tear down the outgoing renderer, then swap contents so the
	// surface identity (and anything holding it) survives.
	if outgoing != nil {
		outgoing.Destroy()
	}
	s.live.AdoptContents(offscreen)
	incoming.UpdateContainer(s.live)

	s.mu.Lock()
	s.active = incoming
	s.activeID = targetID
	s.mu.Unlock()

	// Bring the new renderer up to date: replay completion rather than the
	// counting path when the countdown is already over.
	if s.isComplete != nil && s.isComplete() {
		incoming.OnCelebrated(theme.CelebrateOptions{Replay: true, Message: ctx.Message})
	} else {
		incoming.UpdateTime(ctx.Remaining)
	}

	if pending.Cancelled() {
		return nil
	}

	// Post-commit notifications fire only after the mount/destroy sequence
	// has fully settled.
	s.store.SetTheme(targetID)
	if s.statusLabel != nil {
		s.live.SetLabel(s.statusLabel())
	}
	if savedFocus != "" {
		s.live.SetFocus(savedFocus)
	}
	if s.onThemeChanged != nil {
		s.onThemeChanged(targetID)
	}
	if s.announce != nil {
		s.announce("Theme changed to " + targetID)
	}
	return nil
}
