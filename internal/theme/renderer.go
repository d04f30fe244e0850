// Package theme defines the renderer contract for countdown visuals, the
// render surface they draw into, and the registry of installed themes.
// The orchestration core talks to renderers only through this contract and
// never imports a concrete theme.
package theme

import (
	"sync"

	"github.com/rsheridan/finale/internal/countdown"
	"github.com/rsheridan/finale/internal/stage"
)

// Context carries everything a renderer needs to draw a frame.
type Context struct {
	Width     int
	Height    int
	Remaining countdown.Remaining
	Stage     stage.Resolved
	Message   string
}

// CelebrateOptions modifies how a celebration hook is applied.
type CelebrateOptions struct {
	// Replay means the target was reached before the renderer was shown
	// (theme switch after completion, or a timezone that already passed the
	// target); the renderer should show the settled end state without
	// playing the live animation.
	Replay  bool
	Message string
}

// Renderer is a pluggable countdown visual. Renderers must tolerate Destroy
// arriving mid-animation.
type Renderer interface {
	// Mount builds the renderer's content into the given surface. The
	// surface may be detached (off-screen) at mount time.
	Mount(surface *Surface, ctx Context) error
	// UpdateContainer re-parents the renderer onto a different surface
	// after an atomic swap.
	UpdateContainer(surface *Surface)
	// UpdateTime redraws for a new remaining-time snapshot.
	UpdateTime(r countdown.Remaining)
	// OnCounting restores the counting visual after a celebration is undone.
	OnCounting()
	// OnCelebrating plays the live celebration.
	OnCelebrating(opts CelebrateOptions)
	// OnCelebrated settles into the celebrated end state.
	OnCelebrated(opts CelebrateOptions)
	// OnAnimationStateChange reacts to size or stage changes.
	OnAnimationStateChange(ctx Context)
	// Destroy releases the renderer; it must not touch its surface afterward.
	Destroy()
}

// Surface is the terminal render target a theme draws into — the analogue of
// the themed DOM container. A surface starts detached (off-screen); only the
// transition coordinator attaches it or swaps its contents, and only between
// explicit swap steps.
type Surface struct {
	mu       sync.Mutex
	frame    string
	label    string
	focus    string
	attached bool
}

// NewSurface returns a detached, empty surface.
func NewSurface() *Surface {
	return &Surface{}
}

// SetFrame replaces the rendered frame.
func (s *Surface) SetFrame(frame string) {
	s.mu.Lock()
	s.frame = frame
	s.mu.Unlock()
}

// Frame returns the current rendered frame.
func (s *Surface) Frame() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// SetLabel sets the accessible status label.
func (s *Surface) SetLabel(label string) {
	s.mu.Lock()
	s.label = label
	s.mu.Unlock()
}

// Label returns the accessible status label.
func (s *Surface) Label() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.label
}

// SetFocus records the focused element id, empty for none.
func (s *Surface) SetFocus(id string) {
	s.mu.Lock()
	s.focus = id
	s.mu.Unlock()
}

// Focus returns the focused element id.
func (s *Surface) Focus() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focus
}

// Attach marks the surface as live (visible).
func (s *Surface) Attach() {
	s.mu.Lock()
	s.attached = true
	s.mu.Unlock()
}

// Attached reports whether the surface is live.
func (s *Surface) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached
}

// AdoptContents atomically replaces this surface's contents with those of an
// off-screen surface. The receiving surface keeps its identity (and its
// attached flag), so exterior handles stay valid across a theme swap.
func (s *Surface) AdoptContents(from *Surface) {
	from.mu.Lock()
	frame, label := from.frame, from.label
	from.mu.Unlock()

	s.mu.Lock()
	s.frame = frame
	s.label = label
	s.mu.Unlock()
}
