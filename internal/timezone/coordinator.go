package timezone

import (
	"log/slog"
	"time"

	"github.com/rsheridan/finale/internal/countdown"
	"github.com/rsheridan/finale/internal/state"
)

// LabelSink receives the recomputed accessible status text after every
// timezone switch.
type LabelSink interface {
	SetLabel(string)
}

// Coordinator recomputes the absolute target from the stored wall-clock spec
// whenever the active timezone changes, and decides whether the celebration
// state must flip as a consequence.
type Coordinator struct {
	store *state.Store
	loop  *countdown.Loop
	spec  *WallClockSpec
	now   func() time.Time

	labels         LabelSink
	onChanged      func(tz string)
	announce       func(string)
	resumeCounting func()
	caughtUp       func()
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithClock injects the time source.
func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLabelSink sets where the accessible status text is pushed.
func WithLabelSink(sink LabelSink) CoordinatorOption {
	return func(c *Coordinator) {
		c.labels = sink
	}
}

// WithOnChanged sets the fire-and-forget collaborator notified on every
// committed timezone change (URL sync, world map).
func WithOnChanged(fn func(tz string)) CoordinatorOption {
	return func(c *Coordinator) {
		c.onChanged = fn
	}
}

// WithAnnouncer sets the external live-region updater.
func WithAnnouncer(fn func(string)) CoordinatorOption {
	return func(c *Coordinator) {
		c.announce = fn
	}
}

// WithResumeCounting sets the renderer-level hook invoked when a timezone
// switch moves the target back into the future.
func WithResumeCounting(fn func()) CoordinatorOption {
	return func(c *Coordinator) {
		c.resumeCounting = fn
	}
}

// WithCaughtUp sets the renderer-level hook invoked when a timezone switch
// lands in a zone whose target has already passed, so the display can settle
// into the end state instead of freezing on the last counting frame.
func WithCaughtUp(fn func()) CoordinatorOption {
	return func(c *Coordinator) {
		c.caughtUp = fn
	}
}

// NewCoordinator creates a timezone coordinator over the given store and loop.
func NewCoordinator(store *state.Store, loop *countdown.Loop, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		store: store,
		loop:  loop,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetWallClockSpec installs the spec re-resolved on timezone changes.
// Only wall-clock mode sessions carry one.
func (c *Coordinator) SetWallClockSpec(spec *WallClockSpec) {
	c.spec = spec
}

// WallClockSpec returns the installed spec, nil outside wall-clock mode.
func (c *Coordinator) WallClockSpec() *WallClockSpec {
	return c.spec
}

// SetTimezone switches the viewing timezone. The current-timezone field and
// the external collaborators are always updated; in timer and absolute modes
// the target instant is untouched. In wall-clock mode the spec is re-resolved
// against the new zone and the celebration state re-evaluated.
func (c *Coordinator) SetTimezone(tz string) error {
	mode := c.store.GetState().CountdownMode

	if mode == state.ModeWallClock && c.spec != nil {
		target, err := c.spec.Resolve(tz)
		if err != nil {
			return err
		}
		c.applyWallClockTarget(tz, target)
	}

	c.store.SetTimezone(tz)
	if c.onChanged != nil {
		c.onChanged(tz)
	}

	c.RefreshLabel()
	return nil
}

// applyWallClockTarget installs the re-resolved target and flips the
// celebration state when the new zone has already passed (or not yet
// reached) the wall-clock time.
func (c *Coordinator) applyWallClockTarget(tz string, target time.Time) {
	elapsed := !target.After(c.now())
	phase := c.store.Celebration()

	switch {
	case elapsed && phase != state.PhaseCelebrated:
		// The user is catching up to a timezone that already passed the
		// target, not watching it happen live: skip the celebrating phase.
		c.store.SetCelebration(state.PhaseCelebrated)
		c.store.MarkCelebrated(tz)
		c.store.SetComplete(true)
		c.loop.SetTarget(target)
		c.loop.MarkComplete()
		if c.caughtUp != nil {
			c.caughtUp()
		}

	case !elapsed && phase == state.PhaseCelebrated:
		c.store.SetCelebration(state.PhaseCounting)
		c.store.SetComplete(false)
		c.loop.SetTarget(target)
		c.loop.Start()
		if c.resumeCounting != nil {
			c.resumeCounting()
		}

	case elapsed:
		// Already celebrated; just record the zone.
		c.store.MarkCelebrated(tz)
		c.loop.SetTarget(target)
		c.loop.MarkComplete()

	default:
		// Still counting in the new zone too. No transition, no hook.
		c.loop.SetTarget(target)
	}
}

// RefreshLabel recomputes the accessible status text from the loop's last
// known remaining time and pushes it to the label sink and announcer.
func (c *Coordinator) RefreshLabel() {
	st := c.store.GetState()
	label := FormatStatus(c.loop.Remaining(), st.IsComplete)
	if c.labels != nil {
		c.labels.SetLabel(label)
	}
	if c.announce != nil {
		c.announce(label)
	}
	slog.Debug("status label refreshed", "label", label, "timezone", st.SelectedTimezone)
}
