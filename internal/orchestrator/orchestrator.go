// Package orchestrator wires the countdown core together: state store, time
// loop, timezone coordinator, theme switcher, and stage table. It owns
// construction defaults, the celebration flow on completion, and teardown.
package orchestrator

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rsheridan/finale/internal/countdown"
	"github.com/rsheridan/finale/internal/stage"
	"github.com/rsheridan/finale/internal/state"
	"github.com/rsheridan/finale/internal/switcher"
	"github.com/rsheridan/finale/internal/theme"
	"github.com/rsheridan/finale/internal/timezone"
)

// Construction fallbacks for unrecognized or missing option values.
const (
	DefaultCompletionMessage = "Time's up!"
	DefaultDurationSeconds   = 60
	// DefaultCelebrationHold is how long the live celebration plays before
	// settling into the celebrated end state.
	DefaultCelebrationHold = 10 * time.Second
)

// Options configures an orchestrator session. Zero or invalid values fall
// back to documented defaults: the detected local timezone, wall-clock mode,
// the next New Year's midnight, and "Time's up!".
type Options struct {
	InitialTheme      string
	InitialTimezone   string
	TargetDate        time.Time
	Mode              state.Mode
	CompletionMessage string
	// DurationSeconds is the countdown length in timer mode; ignored in the
	// other modes.
	DurationSeconds int

	TickInterval      time.Duration
	MinSwitchInterval time.Duration
	CelebrationHold   time.Duration
}

// URLSyncFunc receives the shareable deep-link state after every committed
// theme or timezone change. Fire-and-forget from the core's perspective.
type URLSyncFunc func(themeID, tz string, mode state.Mode)

// Option configures collaborators and test seams.
type Option func(*Orchestrator)

// WithRegistry sets the theme registry. Defaults to the built-in set.
func WithRegistry(r *theme.Registry) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithStageTable sets the stage table driving animation intensity.
func WithStageTable(t *stage.Table) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.stages = t
		}
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithURLSync sets the deep-link sync collaborator.
func WithURLSync(fn URLSyncFunc) Option {
	return func(o *Orchestrator) {
		o.urlSync = fn
	}
}

// WithAnnouncer sets the external live-region updater.
func WithAnnouncer(fn func(string)) Option {
	return func(o *Orchestrator) {
		o.announce = fn
	}
}

// WithSurface sets the live render surface. Defaults to a fresh attached
// surface; the TUI host passes its own.
func WithSurface(s *theme.Surface) Option {
	return func(o *Orchestrator) {
		if s != nil {
			o.live = s
		}
	}
}

// Orchestrator is one countdown session. Construct with New, start with
// Start, tear down with Destroy.
type Orchestrator struct {
	opts     Options
	registry *theme.Registry
	stages   *stage.Table
	now      func() time.Time

	store    *state.Store
	loop     *countdown.Loop
	tz       *timezone.Coordinator
	switcher *switcher.Switcher
	live     *theme.Surface

	urlSync  URLSyncFunc
	announce func(string)

	mu            sync.Mutex
	width, height int
	lastStage     string
	refTotal      time.Duration
	settleTimer   *time.Timer
}

// New builds and wires a session from the given options. It never fails on
// bad option values; everything unrecognized falls back to a default.
func New(opts Options, collaborators ...Option) *Orchestrator {
	o := &Orchestrator{
		opts:     opts,
		registry: theme.BuiltIn(),
		stages:   stage.DefaultTable(),
		now:      time.Now,
	}
	for _, opt := range collaborators {
		opt(o)
	}
	if o.live == nil {
		o.live = theme.NewSurface()
		o.live.Attach()
	}

	if _, ok := state.ParseMode(string(opts.Mode)); !ok {
		if opts.Mode != "" {
			slog.Warn("unrecognized countdown mode, falling back", "mode", opts.Mode, "fallback", state.ModeWallClock)
		}
		o.opts.Mode = state.ModeWallClock
	}
	if o.opts.CompletionMessage == "" {
		o.opts.CompletionMessage = DefaultCompletionMessage
	}
	if o.opts.CelebrationHold <= 0 {
		o.opts.CelebrationHold = DefaultCelebrationHold
	}

	detected := timezone.Detect()
	tz := o.opts.InitialTimezone
	if tz == "" {
		tz = detected
	}

	spec := o.wallClockSpec()
	target, tz := o.resolveTarget(spec, tz, detected)
	o.opts.InitialTimezone = tz

	o.store = state.NewStore(state.AppState{
		SelectedTheme:     o.registry.ValidateThemeID(o.opts.InitialTheme),
		SelectedTimezone:  tz,
		UserTimezone:      detected,
		TargetDate:        target,
		CountdownMode:     o.opts.Mode,
		CompletionMessage: o.opts.CompletionMessage,
		DurationSeconds:   o.opts.DurationSeconds,
	}, state.WithThemeValidator(o.registry.ValidateThemeID))

	o.refTotal = referenceTotal(target, o.now())

	loopOpts := []countdown.LoopOption{
		countdown.WithClock(o.now),
		countdown.WithOnTick(o.handleTick),
		countdown.WithOnComplete(o.handleComplete),
	}
	if o.opts.TickInterval > 0 {
		loopOpts = append(loopOpts, countdown.WithInterval(o.opts.TickInterval))
	}
	o.loop = countdown.NewLoop(target, loopOpts...)

	o.tz = timezone.NewCoordinator(o.store, o.loop,
		timezone.WithClock(o.now),
		timezone.WithLabelSink(o.live),
		timezone.WithOnChanged(o.handleTimezoneChanged),
		timezone.WithAnnouncer(o.announce),
		timezone.WithResumeCounting(o.handleResumeCounting),
		timezone.WithCaughtUp(o.handleCaughtUp),
	)
	if o.opts.Mode == state.ModeWallClock {
		o.tz.SetWallClockSpec(&spec)
	}

	switchOpts := []switcher.Option{
		switcher.WithClock(o.now),
		switcher.WithCompletionCheck(func() bool { return o.store.GetState().IsComplete }),
		switcher.WithStatusLabel(o.statusLabel),
		switcher.WithOnThemeChanged(o.handleThemeChanged),
		switcher.WithAnnouncer(o.announce),
	}
	if o.opts.MinSwitchInterval > 0 {
		switchOpts = append(switchOpts, switcher.WithMinInterval(o.opts.MinSwitchInterval))
	}
	o.switcher = switcher.New(o.store, o.live, o.registry.New, o.buildContext, switchOpts...)

	return o
}

// wallClockSpec returns the calendar spec for the session: the target date's
// components when one was given, the next New Year's midnight otherwise.
func (o *Orchestrator) wallClockSpec() timezone.WallClockSpec {
	if !o.opts.TargetDate.IsZero() {
		return timezone.SpecFromTime(o.opts.TargetDate)
	}
	return timezone.WallClockSpec{Year: o.now().Year() + 1, Month: time.January, Day: 1}
}

// resolveTarget computes the initial target instant per mode. An unresolvable
// initial timezone falls back to the detected zone, then UTC.
func (o *Orchestrator) resolveTarget(spec timezone.WallClockSpec, tz, detected string) (time.Time, string) {
	switch o.opts.Mode {
	case state.ModeTimer:
		seconds := o.opts.DurationSeconds
		if seconds <= 0 {
			seconds = DefaultDurationSeconds
			o.opts.DurationSeconds = seconds
		}
		return o.now().Add(time.Duration(seconds) * time.Second), tz

	case state.ModeAbsolute:
		if !o.opts.TargetDate.IsZero() {
			return o.opts.TargetDate, tz
		}
	}

	for _, candidate := range []string{tz, detected, "UTC"} {
		target, err := spec.Resolve(candidate)
		if err != nil {
			slog.Warn("cannot resolve target in timezone", "timezone", candidate, "error", err)
			continue
		}
		return target, candidate
	}
	// "UTC" always resolves; unreachable.
	return o.now(), "UTC"
}

// Start mounts the initial theme and begins ticking.
func (o *Orchestrator) Start() error {
	pending, err := o.switcher.SwitchTheme(o.store.GetState().SelectedTheme)
	if err != nil {
		return err
	}
	if pending != nil {
		<-pending.Done()
	}
	o.loop.Start()
	o.tz.RefreshLabel()
	return nil
}

// Store exposes the state store for subscribers.
func (o *Orchestrator) Store() *state.Store {
	return o.store
}

// Surface returns the live render surface.
func (o *Orchestrator) Surface() *theme.Surface {
	return o.live
}

// Remaining returns the current remaining-time breakdown.
func (o *Orchestrator) Remaining() countdown.Remaining {
	return o.loop.Remaining()
}

// CurrentStage resolves the stage for the current remaining time.
func (o *Orchestrator) CurrentStage() stage.Resolved {
	o.mu.Lock()
	ref := o.refTotal
	o.mu.Unlock()
	return o.stages.Resolve(o.loop.Remaining().Total, ref)
}

// ActiveTheme returns the mounted theme id.
func (o *Orchestrator) ActiveTheme() string {
	return o.switcher.ActiveID()
}

// Themes lists installed theme ids.
func (o *Orchestrator) Themes() []string {
	return o.registry.List()
}

// SetTheme requests a switch to the given theme, coercing unknown ids to the
// default. Throttled or in-flight requests are dropped with an error.
func (o *Orchestrator) SetTheme(id string) error {
	_, err := o.switcher.SwitchTheme(o.registry.ValidateThemeID(id))
	return err
}

// NextTheme switches to the next installed theme in registration order.
func (o *Orchestrator) NextTheme() error {
	return o.SetTheme(o.registry.Next(o.switcher.ActiveID()))
}

// SetTimezone changes the viewing timezone. In wall-clock mode the target is
// re-resolved and the celebration state re-evaluated; unknown zones return an
// error and leave state untouched.
func (o *Orchestrator) SetTimezone(tz string) error {
	return o.tz.SetTimezone(tz)
}

// Pause freezes the countdown.
func (o *Orchestrator) Pause() {
	o.loop.Pause()
}

// Resume continues a paused countdown without the paused time having elapsed.
func (o *Orchestrator) Resume() {
	o.loop.Resume()
}

// IsPaused reports whether the countdown is paused.
func (o *Orchestrator) IsPaused() bool {
	return o.loop.IsPaused()
}

// Reset restarts the countdown: the target is recomputed from the original
// options against the currently selected timezone, celebration state returns
// to counting, and the loop restarts immediately.
func (o *Orchestrator) Reset() {
	o.stopSettleTimer()

	st := o.store.GetState()
	var target time.Time
	switch st.CountdownMode {
	case state.ModeTimer:
		target = o.now().Add(time.Duration(o.opts.DurationSeconds) * time.Second)
	case state.ModeAbsolute:
		target = st.TargetDate
	default:
		resolved, err := o.wallClockSpec().Resolve(st.SelectedTimezone)
		if err != nil {
			slog.Warn("reset kept previous target", "timezone", st.SelectedTimezone, "error", err)
			target = st.TargetDate
		} else {
			target = resolved
		}
	}

	// celebrating cannot step back to counting directly; settle it first.
	if o.store.Celebration() == state.PhaseCelebrating {
		o.store.SetCelebration(state.PhaseCelebrated)
	}
	if o.store.Celebration() == state.PhaseCelebrated {
		o.store.SetCelebration(state.PhaseCounting)
	}
	o.store.ResetCelebration()
	o.store.SetComplete(false)
	o.store.SetTargetDate(target)

	o.mu.Lock()
	o.refTotal = referenceTotal(target, o.now())
	o.lastStage = ""
	o.mu.Unlock()

	o.loop.SetTarget(target)
	o.loop.Start()
	o.loop.ForceUpdate()
	if active := o.switcher.Active(); active != nil {
		active.OnCounting()
	}
	o.tz.RefreshLabel()
}

// SetSize records the render area and notifies the active renderer.
func (o *Orchestrator) SetSize(width, height int) {
	o.mu.Lock()
	o.width, o.height = width, height
	o.mu.Unlock()
	if active := o.switcher.Active(); active != nil {
		active.OnAnimationStateChange(o.buildContext())
	}
}

// FinishCelebration settles the live celebration into the celebrated end
// state. Called from the hold timer, or directly by tests.
func (o *Orchestrator) FinishCelebration() {
	o.stopSettleTimer()
	if !o.store.SetCelebration(state.PhaseCelebrated) {
		return
	}
	if active := o.switcher.Active(); active != nil {
		active.OnCelebrated(theme.CelebrateOptions{Message: o.store.GetState().CompletionMessage})
	}
}

// Destroy tears the session down: the loop stops, any in-flight theme switch
// is aborted, and all store subscribers are cleared.
func (o *Orchestrator) Destroy() {
	o.stopSettleTimer()
	o.loop.Stop()
	o.switcher.Abort()
	if active := o.switcher.Active(); active != nil {
		active.Destroy()
	}
	o.store.Destroy()
}

// handleTick pushes each remaining-time snapshot to the active renderer and
// signals stage boundary crossings.
func (o *Orchestrator) handleTick(r countdown.Remaining) {
	active := o.switcher.Active()
	if active == nil {
		return
	}

	o.mu.Lock()
	ref := o.refTotal
	o.mu.Unlock()
	resolved := o.stages.Resolve(r.Total, ref)

	o.mu.Lock()
	crossed := resolved.Stage.Name != o.lastStage && o.lastStage != ""
	o.lastStage = resolved.Stage.Name
	o.mu.Unlock()

	active.UpdateTime(r)
	if crossed {
		active.OnAnimationStateChange(o.buildContext())
	}
}

// handleComplete runs the live completion sequence: the countdown is marked
// complete, the celebration plays, and after the hold it settles.
func (o *Orchestrator) handleComplete() {
	st := o.store.GetState()
	o.store.SetComplete(true)
	if !o.store.SetCelebration(state.PhaseCelebrating) {
		return
	}
	o.store.MarkCelebrated(st.SelectedTimezone)

	if active := o.switcher.Active(); active != nil {
		active.OnCelebrating(theme.CelebrateOptions{Message: st.CompletionMessage})
	}
	o.live.SetLabel(timezone.CompletedStatus)
	if o.announce != nil {
		o.announce(st.CompletionMessage)
	}

	o.mu.Lock()
	o.settleTimer = time.AfterFunc(o.opts.CelebrationHold, o.FinishCelebration)
	o.mu.Unlock()
}

// handleCaughtUp fires when a timezone switch lands in a zone that already
// passed the target: the renderer settles straight into the celebrated end
// state, replayed rather than animated live.
func (o *Orchestrator) handleCaughtUp() {
	o.stopSettleTimer()
	if active := o.switcher.Active(); active != nil {
		active.OnCelebrated(theme.CelebrateOptions{
			Replay:  true,
			Message: o.store.GetState().CompletionMessage,
		})
	}
}

// handleResumeCounting fires when a timezone switch moves the countdown back
// from celebrated to counting.
func (o *Orchestrator) handleResumeCounting() {
	o.stopSettleTimer()
	o.mu.Lock()
	o.refTotal = referenceTotal(o.loop.Target(), o.now())
	o.lastStage = ""
	o.mu.Unlock()
	if active := o.switcher.Active(); active != nil {
		active.OnCounting()
	}
}

func (o *Orchestrator) handleThemeChanged(id string) {
	st := o.store.GetState()
	if o.urlSync != nil {
		o.urlSync(id, st.SelectedTimezone, st.CountdownMode)
	}
}

func (o *Orchestrator) handleTimezoneChanged(tz string) {
	o.mu.Lock()
	o.refTotal = referenceTotal(o.loop.Target(), o.now())
	o.mu.Unlock()
	st := o.store.GetState()
	if o.urlSync != nil {
		o.urlSync(st.SelectedTheme, tz, st.CountdownMode)
	}
}

// buildContext assembles the render context handed to incoming themes.
func (o *Orchestrator) buildContext() theme.Context {
	o.mu.Lock()
	width, height, ref := o.width, o.height, o.refTotal
	o.mu.Unlock()
	r := o.loop.Remaining()
	return theme.Context{
		Width:     width,
		Height:    height,
		Remaining: r,
		Stage:     o.stages.Resolve(r.Total, ref),
		Message:   o.store.GetState().CompletionMessage,
	}
}

func (o *Orchestrator) statusLabel() string {
	return timezone.FormatStatus(o.loop.Remaining(), o.store.GetState().IsComplete)
}

func (o *Orchestrator) stopSettleTimer() {
	o.mu.Lock()
	if o.settleTimer != nil {
		o.settleTimer.Stop()
		o.settleTimer = nil
	}
	o.mu.Unlock()
}

// referenceTotal is the stage table's reference duration: the full span from
// now to the target, never below one second so fractional thresholds resolve.
func referenceTotal(target, now time.Time) time.Duration {
	total := target.Sub(now)
	if total < time.Second {
		return time.Second
	}
	return total
}
